package models

import "time"

// SourceKind says where an active session was instantiated from.
type SourceKind string

const (
	SourceProgram    SourceKind = "program"
	SourceStandalone SourceKind = "standalone"
	SourceFreestyle  SourceKind = "freestyle"
)

// DefaultRestSeconds is the rest duration used when neither the template
// entry nor the catalog provides one.
const DefaultRestSeconds = 90

// SessionSet is one logged attempt within a session exercise. Weight and
// Reps are kept as digit-filtered strings; numeric coercion happens only
// where comparison is needed.
type SessionSet struct {
	Weight     string `json:"weight"`
	TargetReps string `json:"target_reps"`
	Reps       string `json:"reps"`
	Completed  bool   `json:"completed"`
}

// SessionExercise is one exercise slot in the active session, with its
// resolved per-exercise rest duration.
type SessionExercise struct {
	ExerciseID  int64        `json:"exercise_id"`
	RestSeconds int          `json:"rest_seconds"`
	Sets        []SessionSet `json:"sets"`
}

// ActiveSession is the single in-flight workout. At most one exists at any
// time. It is persisted after every mutation so it survives reload, and is
// cleared on finish or discard.
type ActiveSession struct {
	SourceKind        SourceKind        `json:"source_kind"`
	ProgramID         *int64            `json:"program_id,omitempty"`
	WorkoutIndex      *int              `json:"workout_index,omitempty"`
	Week              *int              `json:"week,omitempty"`
	StandaloneID      *int64            `json:"standalone_id,omitempty"`
	Name              string            `json:"name"`
	StartedAt         time.Time         `json:"started_at"`
	Notes             string            `json:"notes"`
	Exercises         []SessionExercise `json:"exercises"`
	ResumingHistoryID *int64            `json:"resuming_history_id,omitempty"`
}
