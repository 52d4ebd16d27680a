package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/setlog/internal/engine"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	eng    *engine.Engine
	hub    *EventHub
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(eng *engine.Engine, hub *EventHub, log *slog.Logger) *Server {
	s := &Server{
		eng:    eng,
		hub:    hub,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Exercise catalog
		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleAddExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		// Programs and standalone workout templates
		r.Get("/programs", s.handleListPrograms)
		r.Post("/programs", s.handleCreateProgram)
		r.Put("/programs/{id}", s.handleSaveProgram)
		r.Delete("/programs/{id}", s.handleDeleteProgram)
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleSaveWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)

		// Active session
		r.Post("/session/start", s.handleStartSession)
		r.Get("/session", s.handleGetSession)
		r.Post("/session/finish", s.handleFinishSession)
		r.Post("/session/discard", s.handleDiscardSession)
		r.Put("/session/notes", s.handleUpdateNotes)
		r.Post("/session/exercises", s.handleSessionAddExercise)
		r.Delete("/session/exercises/{index}", s.handleSessionRemoveExercise)
		r.Post("/session/exercises/{index}/move", s.handleSessionMoveExercise)
		r.Post("/session/exercises/{index}/sets", s.handleSessionAddSet)
		r.Delete("/session/exercises/{index}/sets/{set}", s.handleSessionRemoveSet)
		r.Put("/session/exercises/{index}/sets/{set}", s.handleSessionUpdateSet)
		r.Post("/session/exercises/{index}/sets/{set}/toggle", s.handleSessionToggleSet)

		// Rest timer
		r.Get("/timer", s.handleTimerState)
		r.Post("/timer/skip", s.handleTimerSkip)
		r.Post("/timer/adjust", s.handleTimerAdjust)

		// History ledger
		r.Get("/history", s.handleListHistory)
		r.Get("/history/last-performance", s.handleLastPerformance)
		r.Get("/history/last-completion", s.handleLastCompletion)
		r.Get("/history/{id}", s.handleGetHistory)
		r.Delete("/history/{id}", s.handleDeleteHistory)

		// Preferences and bodyweight log
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handleSetPreferences)
		r.Post("/bodyweight", s.handleLogBodyweight)

		// Backup boundary
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		// Live updates (rest timer, elapsed clock)
		r.Get("/events", s.handleEvents)
	})
}
