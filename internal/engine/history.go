package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/claude/setlog/internal/models"
)

// History returns copies of all records, most recent first.
func (e *Engine) History() []models.HistoryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.HistoryRecord, len(e.doc.History))
	for i, r := range e.doc.History {
		out[i] = r.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// HistoryRecord returns a copy of one record.
func (e *Engine) HistoryRecord(id int64) (models.HistoryRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rec := e.findHistoryLocked(id); rec != nil {
		return rec.Clone(), nil
	}
	return models.HistoryRecord{}, fmt.Errorf("history record %d: %w", id, ErrNotFound)
}

// DeleteHistory removes a record permanently. Confirmation is the caller's
// concern.
func (e *Engine) DeleteHistory(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.History {
		if e.doc.History[i].ID == id {
			e.doc.History = append(e.doc.History[:i], e.doc.History[i+1:]...)
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("history record %d: %w", id, ErrNotFound)
}

// Performance is a "last time" lookup result: the heaviest set from the
// most recent record containing an exercise.
type Performance struct {
	Date   time.Time `json:"date"`
	Weight string    `json:"weight"`
	Reps   string    `json:"reps"`
}

// LastPerformanceFor finds the most recent record containing the exercise
// and returns its heaviest set by numeric weight, first-encountered winning
// ties. A record may list the same exercise more than once; all of its
// entries count. Returns (nil, nil)-style absence as a nil pointer.
func (e *Engine) LastPerformanceFor(exerciseID int64) *Performance {
	e.mu.Lock()
	defer e.mu.Unlock()

	var latest *models.HistoryRecord
	var latestSets []models.HistorySet
	for i := range e.doc.History {
		rec := &e.doc.History[i]
		var sets []models.HistorySet
		for _, ex := range rec.Exercises {
			if ex.ExerciseID == exerciseID {
				sets = append(sets, ex.Sets...)
			}
		}
		if len(sets) == 0 {
			continue
		}
		if latest == nil || rec.Date.After(latest.Date) {
			latest = rec
			latestSets = sets
		}
	}
	if latest == nil {
		return nil
	}

	best := latestSets[0]
	bestWeight := parseWeight(best.Weight)
	for _, set := range latestSets[1:] {
		if w := parseWeight(set.Weight); w > bestWeight {
			best = set
			bestWeight = w
		}
	}
	return &Performance{Date: latest.Date, Weight: best.Weight, Reps: best.Reps}
}

// LastCompletionDateFor reports the most recent completion of a workout,
// matched by (programID, workoutIndex) when both are set, otherwise by bare
// name. Used for "3d ago" display only.
func (e *Engine) LastCompletionDateFor(programID *int64, workoutIndex *int, name string) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var latest time.Time
	var found bool
	for i := range e.doc.History {
		rec := &e.doc.History[i]
		var match bool
		if programID != nil && workoutIndex != nil {
			match = rec.ProgramID != nil && *rec.ProgramID == *programID &&
				rec.WorkoutIndex != nil && *rec.WorkoutIndex == *workoutIndex
		} else {
			match = rec.Name == name
		}
		if match && (!found || rec.Date.After(latest)) {
			latest = rec.Date
			found = true
		}
	}
	return latest, found
}

func (e *Engine) findHistoryLocked(id int64) *models.HistoryRecord {
	for i := range e.doc.History {
		if e.doc.History[i].ID == id {
			return &e.doc.History[i]
		}
	}
	return nil
}

// parseWeight coerces a weight string for comparison. Unparsable values
// compare as zero.
func parseWeight(s string) float64 {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return w
}
