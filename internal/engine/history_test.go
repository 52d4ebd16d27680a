package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/setlog/internal/models"
)

// seedHistory installs records directly, oldest first, with fixed dates.
func seedHistory(e *Engine, recs ...models.HistoryRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.History = append(e.doc.History, recs...)
}

func day(n int) time.Time {
	return time.Date(2026, 8, n, 7, 0, 0, 0, time.UTC)
}

// TestHistorySortedMostRecentFirst verifies listing order is by date
// descending regardless of insertion order.
func TestHistorySortedMostRecentFirst(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e,
		models.HistoryRecord{ID: 1, Date: day(3), Name: "A"},
		models.HistoryRecord{ID: 2, Date: day(10), Name: "B"},
		models.HistoryRecord{ID: 3, Date: day(7), Name: "C"},
	)

	got := e.History()
	want := []string{"B", "C", "A"}
	if len(got) != len(want) {
		t.Fatalf("history count = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("history[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

// TestHistoryRecordLookup verifies fetch and the not-found path.
func TestHistoryRecordLookup(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e, models.HistoryRecord{ID: 42, Date: day(1), Name: "Push Day"})

	rec, err := e.HistoryRecord(42)
	if err != nil {
		t.Fatalf("HistoryRecord: %v", err)
	}
	if rec.Name != "Push Day" {
		t.Errorf("record name = %q, want %q", rec.Name, "Push Day")
	}
	if _, err := e.HistoryRecord(404); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown record error = %v, want ErrNotFound", err)
	}
}

// TestDeleteHistory verifies permanent removal and the not-found path.
func TestDeleteHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e, models.HistoryRecord{ID: 42, Date: day(1)})

	if err := e.DeleteHistory(context.Background(), 42); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	if got := len(e.History()); got != 0 {
		t.Errorf("history count = %d, want 0", got)
	}
	if err := e.DeleteHistory(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}
}

// TestLastPerformanceFor verifies the lookup picks the most recent record
// containing the exercise and its heaviest set within that record.
func TestLastPerformanceFor(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e,
		models.HistoryRecord{ID: 1, Date: day(1), Exercises: []models.HistoryExercise{
			{ExerciseID: 2, Sets: []models.HistorySet{{Weight: "200", Reps: "5"}}},
		}},
		models.HistoryRecord{ID: 2, Date: day(8), Exercises: []models.HistoryExercise{
			{ExerciseID: 2, Sets: []models.HistorySet{
				{Weight: "135", Reps: "12"},
				{Weight: "155", Reps: "8"},
				{Weight: "145", Reps: "10"},
			}},
		}},
	)

	perf := e.LastPerformanceFor(2)
	if perf == nil {
		t.Fatal("LastPerformanceFor = nil, want a performance")
	}
	// The older 200lb set loses to recency; within the recent record the
	// 155lb set wins.
	if perf.Weight != "155" || perf.Reps != "8" {
		t.Errorf("performance = %+v, want 155 x 8", perf)
	}
	if !perf.Date.Equal(day(8)) {
		t.Errorf("performance date = %v, want %v", perf.Date, day(8))
	}

	if perf := e.LastPerformanceFor(99); perf != nil {
		t.Errorf("LastPerformanceFor(unknown) = %+v, want nil", perf)
	}
}

// TestLastPerformanceForTies verifies equal and unparsable weights resolve
// to the first-encountered set.
func TestLastPerformanceForTies(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e, models.HistoryRecord{ID: 1, Date: day(1), Exercises: []models.HistoryExercise{
		{ExerciseID: 6, Sets: []models.HistorySet{
			{Weight: "BW", Reps: "12"},
			{Weight: "BW", Reps: "10"},
		}},
	}})

	perf := e.LastPerformanceFor(6)
	if perf == nil {
		t.Fatal("LastPerformanceFor = nil, want a performance")
	}
	if perf.Reps != "12" {
		t.Errorf("tie-break reps = %q, want %q (first encountered)", perf.Reps, "12")
	}
}

// TestLastPerformanceForDuplicateEntries verifies a record listing the same
// exercise twice contributes the sets of both entries to the heaviest-set
// pick.
func TestLastPerformanceForDuplicateEntries(t *testing.T) {
	e, _ := newTestEngine(t)
	seedHistory(e, models.HistoryRecord{ID: 1, Date: day(1), Exercises: []models.HistoryExercise{
		{ExerciseID: 2, Sets: []models.HistorySet{{Weight: "135", Reps: "10"}}},
		{ExerciseID: 2, Sets: []models.HistorySet{{Weight: "225", Reps: "5"}}},
	}})

	perf := e.LastPerformanceFor(2)
	if perf == nil {
		t.Fatal("LastPerformanceFor = nil, want a performance")
	}
	if perf.Weight != "225" || perf.Reps != "5" {
		t.Errorf("performance = %+v, want 225 x 5", perf)
	}
}

// TestLastCompletionDateFor verifies the program-identity match and the
// name fallback for freestyle workouts.
func TestLastCompletionDateFor(t *testing.T) {
	e, _ := newTestEngine(t)
	pid := int64(7)
	idx := 0
	seedHistory(e,
		models.HistoryRecord{ID: 1, Date: day(2), ProgramID: &pid, WorkoutIndex: &idx, Name: "Push Day"},
		models.HistoryRecord{ID: 2, Date: day(9), ProgramID: &pid, WorkoutIndex: &idx, Name: "Push Day"},
		models.HistoryRecord{ID: 3, Date: day(12), Name: "Push Day"},
	)

	// Program identity match ignores the freestyle record with the same name.
	got, ok := e.LastCompletionDateFor(&pid, &idx, "Push Day")
	if !ok {
		t.Fatal("LastCompletionDateFor = not found, want found")
	}
	if !got.Equal(day(9)) {
		t.Errorf("completion date = %v, want %v", got, day(9))
	}

	// Name match sees all three.
	got, ok = e.LastCompletionDateFor(nil, nil, "Push Day")
	if !ok {
		t.Fatal("name match = not found, want found")
	}
	if !got.Equal(day(12)) {
		t.Errorf("name-match date = %v, want %v", got, day(12))
	}

	if _, ok := e.LastCompletionDateFor(nil, nil, "Leg Day"); ok {
		t.Error("unknown workout reported a completion date")
	}
}
