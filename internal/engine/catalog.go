package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/setlog/internal/models"
)

// Exercises returns a copy of the exercise catalog.
func (e *Engine) Exercises() []models.ExerciseDefinition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ExerciseDefinition(nil), e.doc.Exercises...)
}

// AddExerciseDefinition adds a catalog entry and returns it.
func (e *Engine) AddExerciseDefinition(ctx context.Context, name, category string, defaultRestSeconds int) (models.ExerciseDefinition, error) {
	if name == "" {
		return models.ExerciseDefinition{}, errors.New("exercise name is required")
	}
	if defaultRestSeconds <= 0 {
		defaultRestSeconds = models.DefaultRestSeconds
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	def := models.ExerciseDefinition{
		ID:                 e.mintID(),
		Name:               name,
		Category:           category,
		DefaultRestSeconds: defaultRestSeconds,
	}
	e.doc.Exercises = append(e.doc.Exercises, def)
	e.persistLocked(ctx)
	return def, nil
}

// UpdateExerciseDefinition replaces the named fields of a catalog entry.
func (e *Engine) UpdateExerciseDefinition(ctx context.Context, def models.ExerciseDefinition) error {
	if def.Name == "" {
		return errors.New("exercise name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.Exercises {
		if e.doc.Exercises[i].ID == def.ID {
			e.doc.Exercises[i] = def
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("exercise %d: %w", def.ID, ErrNotFound)
}

// DeleteExerciseDefinition removes a catalog entry. Existing templates,
// sessions, and history keep their id references; lookups fall back to
// "Unknown Exercise".
func (e *Engine) DeleteExerciseDefinition(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.Exercises {
		if e.doc.Exercises[i].ID == id {
			e.doc.Exercises = append(e.doc.Exercises[:i], e.doc.Exercises[i+1:]...)
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("exercise %d: %w", id, ErrNotFound)
}

// ExerciseName resolves a catalog id to a display name.
func (e *Engine) ExerciseName(id int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exerciseNameLocked(id)
}

func (e *Engine) exerciseNameLocked(id int64) string {
	for i := range e.doc.Exercises {
		if e.doc.Exercises[i].ID == id {
			return e.doc.Exercises[i].Name
		}
	}
	return UnknownExerciseName
}

// restSecondsForLocked resolves the rest duration for an exercise:
// template override, then catalog default, then the fixed fallback.
func (e *Engine) restSecondsForLocked(override *int, exerciseID int64) int {
	if override != nil && *override > 0 {
		return *override
	}
	for i := range e.doc.Exercises {
		if e.doc.Exercises[i].ID == exerciseID && e.doc.Exercises[i].DefaultRestSeconds > 0 {
			return e.doc.Exercises[i].DefaultRestSeconds
		}
	}
	return models.DefaultRestSeconds
}
