package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current document schema version.
const SchemaVersion = 1

// BodyweightEntry is one bodyweight measurement.
type BodyweightEntry struct {
	Date   time.Time `json:"date"`
	Weight string    `json:"weight"`
}

// Preferences holds user-level settings that ride along in the document.
type Preferences struct {
	WeightUnit string            `json:"weight_unit"`
	Bodyweight []BodyweightEntry `json:"bodyweight,omitempty"`
}

// Document is the full application-state aggregate persisted as one opaque
// record. Every save writes the entire document; there are no partial
// updates.
type Document struct {
	SchemaVersion int                  `json:"schema_version"`
	DeviceID      string               `json:"device_id"`
	Exercises     []ExerciseDefinition `json:"exercises"`
	Programs      []Program            `json:"programs"`
	Workouts      []WorkoutTemplate    `json:"workouts"`
	History       []HistoryRecord      `json:"history"`
	ActiveSession *ActiveSession       `json:"active_session,omitempty"`
	Preferences   Preferences          `json:"preferences"`
}

// NewDocument returns a fresh document with the seed exercise catalog and a
// newly minted device id.
func NewDocument() *Document {
	d := &Document{
		SchemaVersion: SchemaVersion,
		DeviceID:      uuid.NewString(),
		Exercises:     seedExercises(),
		Programs:      []Program{},
		Workouts:      []WorkoutTemplate{},
		History:       []HistoryRecord{},
		Preferences:   Preferences{WeightUnit: "lb"},
	}
	return d
}

// DecodeDocument parses a stored document and applies fallback defaults for
// any missing fields, so a document written by an older version (or an
// imported backup with a sparse shape) always decodes to a total value.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	d.applyDefaults()
	return &d, nil
}

// Encode serializes the document for storage.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

func (d *Document) applyDefaults() {
	if d.SchemaVersion == 0 {
		d.SchemaVersion = SchemaVersion
	}
	if d.DeviceID == "" {
		d.DeviceID = uuid.NewString()
	}
	if d.Exercises == nil {
		d.Exercises = []ExerciseDefinition{}
	}
	if d.Programs == nil {
		d.Programs = []Program{}
	}
	if d.Workouts == nil {
		d.Workouts = []WorkoutTemplate{}
	}
	if d.History == nil {
		d.History = []HistoryRecord{}
	}
	if d.Preferences.WeightUnit == "" {
		d.Preferences.WeightUnit = "lb"
	}
}

// seedExercises is the starter catalog installed into a brand-new document.
func seedExercises() []ExerciseDefinition {
	return []ExerciseDefinition{
		{ID: 1, Name: "Squat", Category: "Legs", DefaultRestSeconds: 180},
		{ID: 2, Name: "Bench Press", Category: "Chest", DefaultRestSeconds: 150},
		{ID: 3, Name: "Deadlift", Category: "Back", DefaultRestSeconds: 180},
		{ID: 4, Name: "Overhead Press", Category: "Shoulders", DefaultRestSeconds: 150},
		{ID: 5, Name: "Barbell Row", Category: "Back", DefaultRestSeconds: 120},
		{ID: 6, Name: "Pull Up", Category: "Back", DefaultRestSeconds: 120},
		{ID: 7, Name: "Dip", Category: "Chest", DefaultRestSeconds: 120},
		{ID: 8, Name: "Dumbbell Curl", Category: "Arms", DefaultRestSeconds: 90},
		{ID: 9, Name: "Lateral Raise", Category: "Shoulders", DefaultRestSeconds: 60},
		{ID: 10, Name: "Leg Press", Category: "Legs", DefaultRestSeconds: 120},
	}
}
