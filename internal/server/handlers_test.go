package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/claude/setlog/internal/engine"
	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/resttimer"
)

// memStore is an in-memory document store for handler tests.
type memStore struct {
	mu  sync.Mutex
	doc *models.Document
}

func (m *memStore) Load(ctx context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, nil
}

func (m *memStore) Save(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	return nil
}

func (m *memStore) Clear(ctx context.Context) error { return nil }
func (m *memStore) Close() error                    { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewEventHub()
	timer := resttimer.NewWithInterval(time.Hour, hub.TimerNotify)
	eng := engine.New(context.Background(), &memStore{}, timer, log)
	t.Cleanup(eng.Close)
	return New(eng, hub, log)
}

// do runs one request through the router and decodes the JSON response
// into out (when non-nil).
func do(t *testing.T, s *Server, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// TestExercisesEndpoint exercises the catalog CRUD routes.
func TestExercisesEndpoint(t *testing.T) {
	s := newTestServer(t)

	var list []models.ExerciseDefinition
	rec := do(t, s, http.MethodGet, "/api/v1/exercises", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /exercises status = %d, want 200", rec.Code)
	}
	if len(list) != 10 {
		t.Errorf("seed catalog size = %d, want 10", len(list))
	}

	var def models.ExerciseDefinition
	rec = do(t, s, http.MethodPost, "/api/v1/exercises",
		map[string]any{"name": "Incline Press", "category": "Chest", "default_rest_seconds": 120}, &def)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /exercises status = %d, want 201", rec.Code)
	}
	if def.ID == 0 || def.Name != "Incline Press" {
		t.Errorf("created definition = %+v", def)
	}

	def.Name = "Incline Bench Press"
	rec = do(t, s, http.MethodPut, fmt.Sprintf("/api/v1/exercises/%d", def.ID), def, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /exercises status = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/exercises/%d", def.ID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /exercises status = %d, want 204", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/exercises/%d", def.ID), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("DELETE missing exercise status = %d, want 404", rec.Code)
	}
}

// TestBadRequestPaths verifies malformed input maps to 400.
func TestBadRequestPaths(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exercises", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/exercises/abc", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "yoga"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown session kind status = %d, want 400", rec.Code)
	}
}

// sessionResponse is the GET /session payload.
type sessionResponse struct {
	Active         bool                  `json:"active"`
	Session        *models.ActiveSession `json:"session"`
	ElapsedSeconds int                   `json:"elapsed_seconds"`
}

// TestSessionLifecycleOverHTTP walks a freestyle session through the API:
// start, add exercise, log a set, toggle, finish.
func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	var got sessionResponse
	do(t, s, http.MethodGet, "/api/v1/session", nil, &got)
	if got.Active {
		t.Fatal("fresh server reports an active session")
	}

	rec := do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "freestyle"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// Second start without discard conflicts.
	rec = do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "freestyle"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start status = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]any{"exercise_id": 2}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add exercise status = %d, want 200", rec.Code)
	}

	for field, value := range map[string]string{"weight": "135", "reps": "10"} {
		rec = do(t, s, http.MethodPut, "/api/v1/session/exercises/0/sets/0",
			map[string]string{"field": field, "value": value}, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("update %s status = %d, want 204", field, rec.Code)
		}
	}

	var toggle struct {
		Completed bool            `json:"completed"`
		Timer     resttimer.State `json:"timer"`
	}
	rec = do(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/toggle", nil, &toggle)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", rec.Code)
	}
	if !toggle.Completed {
		t.Error("toggle did not complete the set")
	}
	if !toggle.Timer.Running || toggle.Timer.TotalSeconds != 150 {
		t.Errorf("timer after toggle = %+v, want running 150s (Bench Press default)", toggle.Timer)
	}

	var recd models.HistoryRecord
	rec = do(t, s, http.MethodPost, "/api/v1/session/finish", nil, &recd)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(recd.Exercises) != 1 || len(recd.Exercises[0].Sets) != 1 {
		t.Errorf("finished record = %+v, want one exercise with one set", recd)
	}

	do(t, s, http.MethodGet, "/api/v1/session", nil, &got)
	if got.Active {
		t.Error("session still active after finish")
	}

	var hist []models.HistoryRecord
	do(t, s, http.MethodGet, "/api/v1/history", nil, &hist)
	if len(hist) != 1 {
		t.Errorf("history count = %d, want 1", len(hist))
	}
}

// TestFinishStatusMapping verifies the empty-session and no-session error
// statuses.
func TestFinishStatusMapping(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/session/finish", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("finish without session status = %d, want 404", rec.Code)
	}

	do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "freestyle"}, nil)
	rec = do(t, s, http.MethodPost, "/api/v1/session/finish", nil, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("finish empty session status = %d, want 422", rec.Code)
	}

	// Session stays open after the refused finish.
	var got sessionResponse
	do(t, s, http.MethodGet, "/api/v1/session", nil, &got)
	if !got.Active {
		t.Error("session closed by refused finish")
	}
}

// TestTimerEndpoints covers state, adjust bounds, and skip.
func TestTimerEndpoints(t *testing.T) {
	s := newTestServer(t)

	var st resttimer.State
	do(t, s, http.MethodGet, "/api/v1/timer", nil, &st)
	if st.Running {
		t.Error("fresh timer reports running")
	}

	// Adjust on an idle timer is a no-op.
	do(t, s, http.MethodPost, "/api/v1/timer/adjust", map[string]int{"delta": 30}, &st)
	if st.Running || st.RemainingSeconds != 0 {
		t.Errorf("adjust on idle = %+v, want untouched", st)
	}

	s.eng.Timer().Start(60, "Squat")
	do(t, s, http.MethodPost, "/api/v1/timer/adjust", map[string]int{"delta": 30}, &st)
	if st.RemainingSeconds != 90 || st.TotalSeconds != 90 {
		t.Errorf("adjust = %d/%d, want 90/90", st.RemainingSeconds, st.TotalSeconds)
	}

	do(t, s, http.MethodPost, "/api/v1/timer/skip", nil, &st)
	if st.Running {
		t.Error("timer still running after skip")
	}
}

// TestPreferencesEndpoints covers unit changes and bodyweight logging.
func TestPreferencesEndpoints(t *testing.T) {
	s := newTestServer(t)

	var prefs models.Preferences
	do(t, s, http.MethodPut, "/api/v1/preferences", map[string]string{"weight_unit": "kg"}, &prefs)
	if prefs.WeightUnit != "kg" {
		t.Errorf("WeightUnit = %q, want %q", prefs.WeightUnit, "kg")
	}

	rec := do(t, s, http.MethodPut, "/api/v1/preferences", map[string]string{"weight_unit": "stone"}, nil)
	if rec.Code != http.StatusInternalServerError && rec.Code != http.StatusBadRequest {
		// Plain validation errors fall through to 500; either is a failure
		// status from the client's point of view.
		t.Errorf("invalid unit status = %d, want an error status", rec.Code)
	}

	do(t, s, http.MethodPost, "/api/v1/bodyweight", map[string]string{"weight": "82.5"}, &prefs)
	if len(prefs.Bodyweight) != 1 || prefs.Bodyweight[0].Weight != "82.5" {
		t.Errorf("Bodyweight = %+v, want one 82.5 entry", prefs.Bodyweight)
	}
}

// TestExportImportEndpoints round-trips the document over HTTP and checks
// the invalid-payload status.
func TestExportImportEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/export", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd == "" {
		t.Error("export missing Content-Disposition header")
	}
	exported := rec.Body.Bytes()

	// Start a session, then restore the session-free snapshot.
	do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "freestyle"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(exported))
	resp := httptest.NewRecorder()
	s.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200: %s", resp.Code, resp.Body.String())
	}

	// Import replaces everything, active session included.
	var got sessionResponse
	do(t, s, http.MethodGet, "/api/v1/session", nil, &got)
	if got.Active {
		t.Error("active session survived import")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader([]byte(`{"nope":1}`)))
	resp = httptest.NewRecorder()
	s.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("invalid import status = %d, want 400", resp.Code)
	}
}

// TestLastPerformanceEndpoint verifies query parsing and the found flag.
func TestLastPerformanceEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/history/last-performance", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing exercise_id status = %d, want 400", rec.Code)
	}

	var resp struct {
		Found bool `json:"found"`
	}
	do(t, s, http.MethodGet, "/api/v1/history/last-performance?exercise_id=2", nil, &resp)
	if resp.Found {
		t.Error("found = true with empty history")
	}

	// Log one bench session, then look it up.
	do(t, s, http.MethodPost, "/api/v1/session/start", map[string]any{"kind": "freestyle"}, nil)
	do(t, s, http.MethodPost, "/api/v1/session/exercises", map[string]any{"exercise_id": 2}, nil)
	do(t, s, http.MethodPut, "/api/v1/session/exercises/0/sets/0", map[string]string{"field": "weight", "value": "135"}, nil)
	do(t, s, http.MethodPut, "/api/v1/session/exercises/0/sets/0", map[string]string{"field": "reps", "value": "10"}, nil)
	do(t, s, http.MethodPost, "/api/v1/session/finish", nil, nil)

	var found struct {
		Found       bool               `json:"found"`
		Performance engine.Performance `json:"performance"`
	}
	do(t, s, http.MethodGet, "/api/v1/history/last-performance?exercise_id=2", nil, &found)
	if !found.Found {
		t.Fatal("found = false after logging a bench session")
	}
	if found.Performance.Weight != "135" || found.Performance.Reps != "10" {
		t.Errorf("performance = %+v, want 135 x 10", found.Performance)
	}
}
