package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/setlog/internal/models"
)

// Programs returns a copy of all programs.
func (e *Engine) Programs() []models.Program {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Program, len(e.doc.Programs))
	for i, p := range e.doc.Programs {
		out[i] = p.Clone()
	}
	return out
}

// CreateProgram adds an empty program shell for the builder to fill in.
func (e *Engine) CreateProgram(ctx context.Context, name string, totalWeeks int) (models.Program, error) {
	if name == "" {
		return models.Program{}, errors.New("program name is required")
	}
	if totalWeeks < 1 {
		return models.Program{}, errors.New("program must run at least one week")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	p := models.Program{
		ID:         e.mintID(),
		Name:       name,
		TotalWeeks: totalWeeks,
		Workouts:   []models.WorkoutTemplate{},
	}
	e.doc.Programs = append(e.doc.Programs, p)
	e.persistLocked(ctx)
	return p.Clone(), nil
}

// SaveProgram replaces a program wholesale with the builder's edit.
func (e *Engine) SaveProgram(ctx context.Context, p models.Program) error {
	if p.Name == "" {
		return errors.New("program name is required")
	}
	if p.TotalWeeks < 1 {
		return errors.New("program must run at least one week")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.Programs {
		if e.doc.Programs[i].ID == p.ID {
			e.doc.Programs[i] = p.Clone()
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("program %d: %w", p.ID, ErrNotFound)
}

// DeleteProgram removes a program. History keeps its denormalized copies,
// so past records referencing the program stay intact.
func (e *Engine) DeleteProgram(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.Programs {
		if e.doc.Programs[i].ID == id {
			e.doc.Programs = append(e.doc.Programs[:i], e.doc.Programs[i+1:]...)
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("program %d: %w", id, ErrNotFound)
}

// Workouts returns a copy of all standalone workout templates.
func (e *Engine) Workouts() []models.WorkoutTemplate {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.WorkoutTemplate, len(e.doc.Workouts))
	for i, w := range e.doc.Workouts {
		out[i] = w.Clone()
	}
	return out
}

// SaveWorkout creates or updates a standalone workout template. A zero id
// creates a new template and the minted id is returned.
func (e *Engine) SaveWorkout(ctx context.Context, w models.WorkoutTemplate) (models.WorkoutTemplate, error) {
	if w.Name == "" {
		return models.WorkoutTemplate{}, errors.New("workout name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if w.ID == 0 {
		w.ID = e.mintID()
		e.doc.Workouts = append(e.doc.Workouts, w.Clone())
		e.persistLocked(ctx)
		return w, nil
	}
	for i := range e.doc.Workouts {
		if e.doc.Workouts[i].ID == w.ID {
			e.doc.Workouts[i] = w.Clone()
			e.persistLocked(ctx)
			return w, nil
		}
	}
	return models.WorkoutTemplate{}, fmt.Errorf("workout %d: %w", w.ID, ErrNotFound)
}

// DeleteWorkout removes a standalone workout template.
func (e *Engine) DeleteWorkout(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.doc.Workouts {
		if e.doc.Workouts[i].ID == id {
			e.doc.Workouts = append(e.doc.Workouts[:i], e.doc.Workouts[i+1:]...)
			e.persistLocked(ctx)
			return nil
		}
	}
	return fmt.Errorf("workout %d: %w", id, ErrNotFound)
}
