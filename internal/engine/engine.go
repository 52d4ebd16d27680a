// Package engine owns the in-memory application state and the active-workout
// session lifecycle. All mutation goes through Engine methods; the in-memory
// document remains the source of truth even when saves fail, and is written
// back to the store after every mutation.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/resttimer"
	"github.com/claude/setlog/internal/store"
)

var (
	// ErrEmptySession is returned by Finish when no set qualifies for
	// history. The session stays open so the user can keep logging.
	ErrEmptySession = errors.New("session has no completed or filled sets")

	// ErrSessionInProgress is returned when starting a session would
	// silently overwrite an existing one. Callers must confirm the
	// discard explicitly.
	ErrSessionInProgress = errors.New("a workout session is already in progress")

	// ErrNoActiveSession is returned by session operations when no
	// session is open.
	ErrNoActiveSession = errors.New("no active workout session")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// UnknownExerciseName is the display fallback for references to deleted
// catalog entries.
const UnknownExerciseName = "Unknown Exercise"

// saveInterval is the minimum interval between coalesced keystroke saves.
const saveInterval = time.Second

// Engine is the top-level state controller. One instance exists per
// process; a mutex serializes access since the HTTP layer is concurrent.
type Engine struct {
	mu     sync.Mutex
	doc    *models.Document
	store  store.Store
	timer  *resttimer.Timer
	log    *slog.Logger
	saves  *writeCoalescer
	lastID int64
}

// New loads the stored document (or starts a fresh one) and returns a
// ready engine. A failing store is logged and the engine falls back to
// in-memory defaults; it does not prevent startup.
func New(ctx context.Context, st store.Store, timer *resttimer.Timer, log *slog.Logger) *Engine {
	e := &Engine{store: st, timer: timer, log: log}
	e.saves = newWriteCoalescer(saveInterval, e.flushPending)

	doc, err := st.Load(ctx)
	switch {
	case err != nil:
		log.Error("store load failed, continuing with in-memory defaults", "error", err)
		doc = models.NewDocument()
	case doc == nil:
		doc = models.NewDocument()
		if err := st.Save(ctx, doc); err != nil {
			log.Error("initial save failed", "error", err)
		}
	}
	e.doc = doc
	return e
}

// Close flushes any pending coalesced save and stops the rest timer.
func (e *Engine) Close() {
	e.saves.Close()
	e.timer.Close()
}

// Timer exposes the rest timer for transport-layer reads.
func (e *Engine) Timer() *resttimer.Timer {
	return e.timer
}

// Preferences returns a copy of the stored preferences.
func (e *Engine) Preferences() models.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.doc.Preferences
	p.Bodyweight = append([]models.BodyweightEntry(nil), p.Bodyweight...)
	return p
}

// SetWeightUnit updates the preferred display unit ("lb" or "kg").
func (e *Engine) SetWeightUnit(ctx context.Context, unit string) error {
	if unit != "lb" && unit != "kg" {
		return errors.New("weight unit must be lb or kg")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Preferences.WeightUnit = unit
	e.persistLocked(ctx)
	return nil
}

// LogBodyweight appends a bodyweight measurement.
func (e *Engine) LogBodyweight(ctx context.Context, weight string) error {
	if weight == "" {
		return errors.New("weight is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Preferences.Bodyweight = append(e.doc.Preferences.Bodyweight,
		models.BodyweightEntry{Date: time.Now(), Weight: weight})
	e.persistLocked(ctx)
	return nil
}

// Export returns the encoded full document.
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Encode()
}

// Replace swaps in a new document wholesale (import boundary) and persists
// it. The previous state is gone after this, including any active session.
func (e *Engine) Replace(ctx context.Context, doc *models.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timer.Skip()
	e.doc = doc
	e.persistLocked(ctx)
}

// persistLocked saves the document immediately. Save failures are logged
// and surfaced no further; memory stays authoritative until the next
// successful save. Callers must hold e.mu.
func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.Save(ctx, e.doc); err != nil {
		e.log.Error("save failed", "error", err)
	}
}

// flushPending is the coalescer's flush target.
func (e *Engine) flushPending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistLocked(context.Background())
}

// mintID returns a unique millisecond-timestamp id, bumping forward on
// collision so two ids minted within the same millisecond stay distinct.
func (e *Engine) mintID() int64 {
	id := time.Now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}
