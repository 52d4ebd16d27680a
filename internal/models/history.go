package models

import "time"

// HistorySet is one completed (or fully entered) set in a finished workout.
type HistorySet struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// HistoryExercise is one exercise within a history record. Only sets that
// were completed or had both weight and reps entered are kept.
type HistoryExercise struct {
	ExerciseID int64        `json:"exercise_id"`
	Sets       []HistorySet `json:"sets"`
}

// HistoryRecord is an immutable snapshot of a finished session. ID is the
// creation timestamp in milliseconds. Records referencing a program keep a
// denormalized copy of the workout name, so deleting the program never
// corrupts history.
type HistoryRecord struct {
	ID           int64             `json:"id"`
	Date         time.Time         `json:"date"`
	ProgramID    *int64            `json:"program_id,omitempty"`
	WorkoutIndex *int              `json:"workout_index,omitempty"`
	Week         *int              `json:"week,omitempty"`
	Name         string            `json:"name"`
	Notes        string            `json:"notes"`
	Exercises    []HistoryExercise `json:"exercises"`
}
