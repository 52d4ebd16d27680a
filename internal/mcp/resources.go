package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/setlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	defs, err := h.ds.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, defs)
}

func (h *handlers) recentHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := h.ds.History(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -14)
	recent := make([]models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Date.Before(cutoff) {
			recent = append(recent, rec)
		}
	}
	return jsonResource(req.Params.URI, recent)
}

func (h *handlers) activeSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sess, err := h.ds.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return jsonResource(req.Params.URI, map[string]any{"active": false})
	}
	return jsonResource(req.Params.URI, map[string]any{
		"active":          true,
		"session":         sess,
		"elapsed_seconds": int(time.Since(sess.StartedAt).Seconds()),
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
