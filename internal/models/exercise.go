package models

// ExerciseDefinition is a catalog entry referenced by id from templates,
// sessions, and history. References are weak: deleting a definition leaves
// existing history intact (display falls back to "Unknown Exercise").
type ExerciseDefinition struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	DefaultRestSeconds int    `json:"default_rest_seconds"`
}

// TargetSet is one planned set within a template entry. TargetReps is a
// free-text target, either numeric ("8") or a range ("8-12").
type TargetSet struct {
	TargetReps string `json:"target_reps"`
}

// TemplateEntry is one exercise slot inside a workout template.
type TemplateEntry struct {
	ExerciseID          int64       `json:"exercise_id"`
	RestSecondsOverride *int        `json:"rest_seconds_override,omitempty"`
	TargetSets          []TargetSet `json:"target_sets"`
}

// WorkoutTemplate is a reusable, unstarted workout definition. It is either
// embedded in a Program (id scoped to the program) or standalone.
type WorkoutTemplate struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	DayLabel  string          `json:"day_label,omitempty"`
	Exercises []TemplateEntry `json:"exercises"`
}

// Program is an ordered multi-week sequence of workout templates.
type Program struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	TotalWeeks int               `json:"total_weeks"`
	Workouts   []WorkoutTemplate `json:"workouts"`
}
