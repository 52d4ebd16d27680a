package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("setlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("setlog training log server. Query the exercise catalog, workout history, last performances, and the currently running session. All data belongs to the single local user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetLastPerformance, Handler: h.getLastPerformance},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetTrainingFrequency, Handler: h.getTrainingFrequency},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"setlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All known exercises with category and default rest duration"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"setlog://recent_history",
	"Recent History",
	mcp.WithResourceDescription("Workout records from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resActiveSession = mcp.NewResource(
	"setlog://active_session",
	"Active Session",
	mcp.WithResourceDescription("The currently running workout session, if any"),
	mcp.WithMIMEType("application/json"),
)
