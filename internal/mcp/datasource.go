package mcp

import (
	"context"

	"github.com/claude/setlog/internal/engine"
	"github.com/claude/setlog/internal/models"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (direct
// engine access) and HTTPClient (remote via REST API) both satisfy this
// interface.
type DataSource interface {
	Exercises(ctx context.Context) ([]models.ExerciseDefinition, error)
	History(ctx context.Context) ([]models.HistoryRecord, error)
	ActiveSession(ctx context.Context) (*models.ActiveSession, error)
	LastPerformance(ctx context.Context, exerciseID int64) (*engine.Performance, error)
}

// LocalSource adapts the in-process engine to the DataSource interface.
type LocalSource struct {
	Eng *engine.Engine
}

// Compile-time check: LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (l *LocalSource) Exercises(ctx context.Context) ([]models.ExerciseDefinition, error) {
	return l.Eng.Exercises(), nil
}

func (l *LocalSource) History(ctx context.Context) ([]models.HistoryRecord, error) {
	return l.Eng.History(), nil
}

func (l *LocalSource) ActiveSession(ctx context.Context) (*models.ActiveSession, error) {
	return l.Eng.Session(), nil
}

func (l *LocalSource) LastPerformance(ctx context.Context, exerciseID int64) (*engine.Performance, error) {
	return l.Eng.LastPerformanceFor(exerciseID), nil
}
