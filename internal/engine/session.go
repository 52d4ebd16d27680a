package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/setlog/internal/models"
)

// SetField names a free-text set field editable during logging.
type SetField string

const (
	FieldWeight SetField = "weight"
	FieldReps   SetField = "reps"
)

// Session returns a copy of the active session, or nil if none is open.
func (e *Engine) Session() *models.ActiveSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.ActiveSession.Clone()
}

// Elapsed reports how long the active session has been running. The clock
// is wall time since the session started; it keeps accruing while the
// session view is closed.
func (e *Engine) Elapsed() (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession == nil {
		return 0, ErrNoActiveSession
	}
	return time.Since(e.doc.ActiveSession.StartedAt), nil
}

// StartProgramSession materializes a session from a program workout.
// discardExisting must be true to replace an open session; otherwise
// ErrSessionInProgress is returned and nothing changes.
func (e *Engine) StartProgramSession(ctx context.Context, programID int64, workoutIndex, week int, discardExisting bool) (*models.ActiveSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession != nil && !discardExisting {
		return nil, ErrSessionInProgress
	}

	var prog *models.Program
	for i := range e.doc.Programs {
		if e.doc.Programs[i].ID == programID {
			prog = &e.doc.Programs[i]
			break
		}
	}
	if prog == nil {
		return nil, fmt.Errorf("program %d: %w", programID, ErrNotFound)
	}
	if workoutIndex < 0 || workoutIndex >= len(prog.Workouts) {
		return nil, fmt.Errorf("program %d workout %d: %w", programID, workoutIndex, ErrNotFound)
	}

	tmpl := prog.Workouts[workoutIndex]
	s := &models.ActiveSession{
		SourceKind:   models.SourceProgram,
		ProgramID:    &programID,
		WorkoutIndex: &workoutIndex,
		Week:         &week,
		Name:         tmpl.Name,
		StartedAt:    time.Now(),
		Exercises:    e.materializeLocked(tmpl),
	}
	e.replaceSessionLocked(ctx, s)
	return s.Clone(), nil
}

// StartStandaloneSession materializes a session from a standalone workout
// template.
func (e *Engine) StartStandaloneSession(ctx context.Context, workoutID int64, discardExisting bool) (*models.ActiveSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession != nil && !discardExisting {
		return nil, ErrSessionInProgress
	}

	for i := range e.doc.Workouts {
		if e.doc.Workouts[i].ID == workoutID {
			tmpl := e.doc.Workouts[i]
			s := &models.ActiveSession{
				SourceKind:   models.SourceStandalone,
				StandaloneID: &workoutID,
				Name:         tmpl.Name,
				StartedAt:    time.Now(),
				Exercises:    e.materializeLocked(tmpl),
			}
			e.replaceSessionLocked(ctx, s)
			return s.Clone(), nil
		}
	}
	return nil, fmt.Errorf("workout %d: %w", workoutID, ErrNotFound)
}

// StartFreestyleSession opens an empty session not backed by any template.
func (e *Engine) StartFreestyleSession(ctx context.Context, name string, discardExisting bool) (*models.ActiveSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession != nil && !discardExisting {
		return nil, ErrSessionInProgress
	}
	if name == "" {
		name = "Freestyle Workout"
	}

	s := &models.ActiveSession{
		SourceKind: models.SourceFreestyle,
		Name:       name,
		StartedAt:  time.Now(),
		Exercises:  []models.SessionExercise{},
	}
	e.replaceSessionLocked(ctx, s)
	return s.Clone(), nil
}

// ResumeHistorySession clones a past record back into an active session for
// editing. Finishing the session overwrites the original record in place.
func (e *Engine) ResumeHistorySession(ctx context.Context, historyID int64, discardExisting bool) (*models.ActiveSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession != nil && !discardExisting {
		return nil, ErrSessionInProgress
	}

	var rec *models.HistoryRecord
	for i := range e.doc.History {
		if e.doc.History[i].ID == historyID {
			rec = &e.doc.History[i]
			break
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("history record %d: %w", historyID, ErrNotFound)
	}

	exercises := make([]models.SessionExercise, 0, len(rec.Exercises))
	for _, hx := range rec.Exercises {
		sx := models.SessionExercise{
			ExerciseID:  hx.ExerciseID,
			RestSeconds: e.restSecondsForLocked(nil, hx.ExerciseID),
			Sets:        make([]models.SessionSet, 0, len(hx.Sets)),
		}
		for _, hs := range hx.Sets {
			// Completed so the set survives a re-finish even if edited.
			sx.Sets = append(sx.Sets, models.SessionSet{
				Weight:     hs.Weight,
				TargetReps: hs.Reps,
				Reps:       hs.Reps,
				Completed:  true,
			})
		}
		exercises = append(exercises, sx)
	}

	s := &models.ActiveSession{
		SourceKind:        models.SourceFreestyle,
		ProgramID:         rec.ProgramID,
		WorkoutIndex:      rec.WorkoutIndex,
		Week:              rec.Week,
		Name:              rec.Name,
		StartedAt:         time.Now(),
		Notes:             rec.Notes,
		Exercises:         exercises,
		ResumingHistoryID: &historyID,
	}
	if rec.ProgramID != nil {
		s.SourceKind = models.SourceProgram
	}
	e.replaceSessionLocked(ctx, s)
	return s.Clone(), nil
}

// AddExercise appends an exercise with one empty set. Adding the same
// exercise again is allowed; duplicates are never merged.
func (e *Engine) AddExercise(ctx context.Context, exerciseID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession == nil {
		return ErrNoActiveSession
	}
	e.doc.ActiveSession.Exercises = append(e.doc.ActiveSession.Exercises, models.SessionExercise{
		ExerciseID:  exerciseID,
		RestSeconds: e.restSecondsForLocked(nil, exerciseID),
		Sets:        []models.SessionSet{{}},
	})
	e.persistLocked(ctx)
	return nil
}

// RemoveExercise removes the exercise at index. Confirmation is the
// caller's concern; history is never touched.
func (e *Engine) RemoveExercise(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return ErrNoActiveSession
	}
	if index < 0 || index >= len(s.Exercises) {
		return fmt.Errorf("session exercise %d: %w", index, ErrNotFound)
	}
	s.Exercises = append(s.Exercises[:index], s.Exercises[index+1:]...)
	e.persistLocked(ctx)
	return nil
}

// MoveExercise reorders the session's exercises, carrying each exercise's
// set data with it.
func (e *Engine) MoveExercise(ctx context.Context, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return ErrNoActiveSession
	}
	if from < 0 || from >= len(s.Exercises) {
		return fmt.Errorf("session exercise %d: %w", from, ErrNotFound)
	}
	if to < 0 || to >= len(s.Exercises) {
		return fmt.Errorf("session exercise %d: %w", to, ErrNotFound)
	}
	ex := s.Exercises[from]
	s.Exercises = append(s.Exercises[:from], s.Exercises[from+1:]...)
	s.Exercises = append(s.Exercises[:to], append([]models.SessionExercise{ex}, s.Exercises[to:]...)...)
	e.persistLocked(ctx)
	return nil
}

// AddSet appends a set to an exercise, seeding weight and target reps from
// the previous set as a carry-forward convenience.
func (e *Engine) AddSet(ctx context.Context, exerciseIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return ErrNoActiveSession
	}
	if exerciseIndex < 0 || exerciseIndex >= len(s.Exercises) {
		return fmt.Errorf("session exercise %d: %w", exerciseIndex, ErrNotFound)
	}

	ex := &s.Exercises[exerciseIndex]
	var set models.SessionSet
	if n := len(ex.Sets); n > 0 {
		set.Weight = ex.Sets[n-1].Weight
		set.TargetReps = ex.Sets[n-1].TargetReps
	}
	ex.Sets = append(ex.Sets, set)
	e.persistLocked(ctx)
	return nil
}

// RemoveSet removes a set from an exercise.
func (e *Engine) RemoveSet(ctx context.Context, exerciseIndex, setIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return ErrNoActiveSession
	}
	ex, err := sessionExercise(s, exerciseIndex, setIndex)
	if err != nil {
		return err
	}
	ex.Sets = append(ex.Sets[:setIndex], ex.Sets[setIndex+1:]...)
	e.persistLocked(ctx)
	return nil
}

// UpdateSetField edits a set's weight or reps. The value is stored as
// typed; the save is coalesced so keystroke bursts turn into at most one
// write per second.
func (e *Engine) UpdateSetField(exerciseIndex, setIndex int, field SetField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return ErrNoActiveSession
	}
	ex, err := sessionExercise(s, exerciseIndex, setIndex)
	if err != nil {
		return err
	}

	switch field {
	case FieldWeight:
		ex.Sets[setIndex].Weight = value
	case FieldReps:
		ex.Sets[setIndex].Reps = value
	default:
		return fmt.Errorf("unknown set field %q", field)
	}
	e.saves.Request()
	return nil
}

// UpdateNotes edits the session notes; coalesced like set fields.
func (e *Engine) UpdateNotes(notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession == nil {
		return ErrNoActiveSession
	}
	e.doc.ActiveSession.Notes = notes
	e.saves.Request()
	return nil
}

// ToggleSetCompletion flips a set's completed flag. Marking a set complete
// starts the rest timer with the exercise's resolved rest duration; marking
// it incomplete never touches a running timer. Persisted immediately.
func (e *Engine) ToggleSetCompletion(ctx context.Context, exerciseIndex, setIndex int) (bool, error) {
	e.mu.Lock()
	s := e.doc.ActiveSession
	if s == nil {
		e.mu.Unlock()
		return false, ErrNoActiveSession
	}
	ex, err := sessionExercise(s, exerciseIndex, setIndex)
	if err != nil {
		e.mu.Unlock()
		return false, err
	}

	ex.Sets[setIndex].Completed = !ex.Sets[setIndex].Completed
	completed := ex.Sets[setIndex].Completed
	restSeconds := ex.RestSeconds
	label := e.exerciseNameLocked(ex.ExerciseID)
	e.persistLocked(ctx)
	e.mu.Unlock()

	if completed {
		e.timer.Start(restSeconds, label)
	}
	return completed, nil
}

// Finish commits the session to history. Sets qualify when completed or
// when both weight and reps are entered; exercises with no qualifying sets
// are dropped. With nothing to keep, ErrEmptySession is returned and the
// session stays open. A session resumed from history overwrites the
// original record in place, keeping its id and date.
func (e *Engine) Finish(ctx context.Context) (models.HistoryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.doc.ActiveSession
	if s == nil {
		return models.HistoryRecord{}, ErrNoActiveSession
	}

	var kept []models.HistoryExercise
	for _, ex := range s.Exercises {
		var sets []models.HistorySet
		for _, set := range ex.Sets {
			if set.Completed || (set.Weight != "" && set.Reps != "") {
				sets = append(sets, models.HistorySet{Weight: set.Weight, Reps: set.Reps})
			}
		}
		if len(sets) > 0 {
			kept = append(kept, models.HistoryExercise{ExerciseID: ex.ExerciseID, Sets: sets})
		}
	}
	if len(kept) == 0 {
		return models.HistoryRecord{}, ErrEmptySession
	}

	var rec models.HistoryRecord
	if s.ResumingHistoryID != nil {
		if existing := e.findHistoryLocked(*s.ResumingHistoryID); existing != nil {
			existing.Exercises = kept
			existing.Notes = s.Notes
			rec = existing.Clone()
		}
	}
	if rec.ID == 0 {
		rec = models.HistoryRecord{
			ID:           e.mintID(),
			Date:         time.Now(),
			ProgramID:    s.ProgramID,
			WorkoutIndex: s.WorkoutIndex,
			Week:         s.Week,
			Name:         s.Name,
			Notes:        s.Notes,
			Exercises:    kept,
		}
		e.doc.History = append(e.doc.History, rec)
		rec = rec.Clone()
	}

	e.doc.ActiveSession = nil
	e.timer.Skip()
	e.saves.Cancel()
	e.persistLocked(ctx)
	return rec, nil
}

// Discard drops the session without committing anything to history.
// Confirmation is the caller's concern. Discarding with no session open is
// a no-op.
func (e *Engine) Discard(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.ActiveSession == nil {
		return
	}
	e.doc.ActiveSession = nil
	e.timer.Skip()
	e.persistLocked(ctx)
}

// materializeLocked copies a template into session exercises: empty weight
// and reps, completed false, target reps carried over, rest resolved.
func (e *Engine) materializeLocked(tmpl models.WorkoutTemplate) []models.SessionExercise {
	exercises := make([]models.SessionExercise, 0, len(tmpl.Exercises))
	for _, entry := range tmpl.Exercises {
		sx := models.SessionExercise{
			ExerciseID:  entry.ExerciseID,
			RestSeconds: e.restSecondsForLocked(entry.RestSecondsOverride, entry.ExerciseID),
			Sets:        make([]models.SessionSet, 0, len(entry.TargetSets)),
		}
		for _, ts := range entry.TargetSets {
			sx.Sets = append(sx.Sets, models.SessionSet{TargetReps: ts.TargetReps})
		}
		exercises = append(exercises, sx)
	}
	return exercises
}

// replaceSessionLocked installs a new session, silencing any rest timer
// left over from a discarded one.
func (e *Engine) replaceSessionLocked(ctx context.Context, s *models.ActiveSession) {
	if e.doc.ActiveSession != nil {
		e.timer.Skip()
	}
	e.doc.ActiveSession = s
	e.persistLocked(ctx)
}

// sessionExercise bounds-checks an (exercise, set) pair and returns the
// exercise for mutation.
func sessionExercise(s *models.ActiveSession, exerciseIndex, setIndex int) (*models.SessionExercise, error) {
	if exerciseIndex < 0 || exerciseIndex >= len(s.Exercises) {
		return nil, fmt.Errorf("session exercise %d: %w", exerciseIndex, ErrNotFound)
	}
	ex := &s.Exercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil, fmt.Errorf("session exercise %d set %d: %w", exerciseIndex, setIndex, ErrNotFound)
	}
	return ex, nil
}
