package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/setlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog: id, name, muscle category, and default rest seconds."),
	mcp.WithString("category", mcp.Description("Filter by category (exact match, e.g. 'Legs')")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve completed workout records, most recent first. Each record holds the logged exercises and their completed sets (weight x reps)."),
	mcp.WithString("exercise", mcp.Description("Filter to records containing this exercise (partial name match, e.g. 'bench')")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records to return. Defaults to 20.")),
)

var toolGetLastPerformance = mcp.NewTool("get_last_performance",
	mcp.WithDescription("Find the heaviest set from the most recent workout containing an exercise. Useful for answering 'what did I lift last time'."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'squat')")),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Return the currently running workout session with per-set progress and elapsed time, or a not-running marker."),
)

var toolGetTrainingFrequency = mcp.NewTool("get_training_frequency",
	mcp.WithDescription("Aggregate workout counts per ISO week over a recent window."),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks. Defaults to 12.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs, err := h.ds.Exercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if category := req.GetString("category", ""); category != "" {
		// The source owns defs; filter into a fresh slice.
		filtered := make([]models.ExerciseDefinition, 0, len(defs))
		for _, d := range defs {
			if d.Category == category {
				filtered = append(filtered, d)
			}
		}
		defs = filtered
	}

	result, err := mcp.NewToolResultJSON(defs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.History(ctx)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := req.GetString("exercise", ""); filter != "" {
		ids, err := h.matchExerciseIDs(ctx, filter)
		if err != nil {
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		var filtered []models.HistoryRecord
		for _, rec := range records {
			for _, ex := range rec.Exercises {
				if ids[ex.ExerciseID] {
					filtered = append(filtered, rec)
					break
				}
			}
		}
		records = filtered
	}

	limit := req.GetInt("limit", 20)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter required"), nil
	}

	defs, err := h.ds.Exercises(ctx)
	if err != nil {
		h.log.Error("mcp get_last_performance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	needle := strings.ToLower(name)
	for _, d := range defs {
		if !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		perf, err := h.ds.LastPerformance(ctx, d.ID)
		if err != nil {
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		payload := map[string]any{"exercise": d.Name, "found": perf != nil}
		if perf != nil {
			payload["performance"] = perf
		}
		result, err := mcp.NewToolResultJSON(payload)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}
	return mcp.NewToolResultError("no exercise matches " + name), nil
}

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := h.ds.ActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if sess == nil {
		return mcp.NewToolResultJSON(map[string]any{"active": false})
	}
	return mcp.NewToolResultJSON(map[string]any{
		"active":          true,
		"session":         sess,
		"elapsed_seconds": int(time.Since(sess.StartedAt).Seconds()),
	})
}

func (h *handlers) getTrainingFrequency(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", 12)
	if weeks < 1 {
		weeks = 12
	}

	records, err := h.ds.History(ctx)
	if err != nil {
		h.log.Error("mcp get_training_frequency", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	cutoff := time.Now().AddDate(0, 0, -7*weeks)
	counts := map[string]int{}
	for _, rec := range records {
		if rec.Date.Before(cutoff) {
			continue
		}
		year, week := rec.Date.ISOWeek()
		counts[fmt.Sprintf("%d-W%02d", year, week)]++
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"weeks": weeks, "workouts_per_week": counts})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// matchExerciseIDs returns the catalog ids whose names contain the filter,
// case-insensitively.
func (h *handlers) matchExerciseIDs(ctx context.Context, filter string) (map[int64]bool, error) {
	defs, err := h.ds.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(filter)
	ids := map[int64]bool{}
	for _, d := range defs {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			ids[d.ID] = true
		}
	}
	return ids, nil
}
