package server

import (
	"net/http"
	"strconv"

	"github.com/claude/setlog/internal/engine"
	"github.com/claude/setlog/internal/models"
	"github.com/go-chi/chi/v5"
)

// startSessionRequest covers all four session entry points; Kind selects
// which of the remaining fields apply.
type startSessionRequest struct {
	Kind            string `json:"kind"` // program | standalone | freestyle | history
	ProgramID       int64  `json:"program_id,omitempty"`
	WorkoutIndex    int    `json:"workout_index,omitempty"`
	Week            int    `json:"week,omitempty"`
	WorkoutID       int64  `json:"workout_id,omitempty"`
	HistoryID       int64  `json:"history_id,omitempty"`
	Name            string `json:"name,omitempty"`
	DiscardExisting bool   `json:"discard_existing,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		sess *models.ActiveSession
		err  error
	)
	switch req.Kind {
	case "program":
		sess, err = s.eng.StartProgramSession(r.Context(), req.ProgramID, req.WorkoutIndex, req.Week, req.DiscardExisting)
	case "standalone":
		sess, err = s.eng.StartStandaloneSession(r.Context(), req.WorkoutID, req.DiscardExisting)
	case "freestyle":
		sess, err = s.eng.StartFreestyleSession(r.Context(), req.Name, req.DiscardExisting)
	case "history":
		sess, err = s.eng.ResumeHistorySession(r.Context(), req.HistoryID, req.DiscardExisting)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be program, standalone, freestyle, or history"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.eng.Session()
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	elapsed, _ := s.eng.Elapsed()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":          true,
		"session":         sess,
		"elapsed_seconds": int(elapsed.Seconds()),
	})
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.eng.Finish(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	s.eng.Discard(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.UpdateNotes(req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID int64 `json:"exercise_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.AddExercise(r.Context(), req.ExerciseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Session())
}

func (s *Server) handleSessionRemoveExercise(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	if err := s.eng.RemoveExercise(r.Context(), idx); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Session())
}

func (s *Server) handleSessionMoveExercise(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req struct {
		To int `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.MoveExercise(r.Context(), idx, req.To); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Session())
}

func (s *Server) handleSessionAddSet(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	if err := s.eng.AddSet(r.Context(), idx); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Session())
}

func (s *Server) handleSessionRemoveSet(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	if err := s.eng.RemoveSet(r.Context(), idx, set); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Session())
}

func (s *Server) handleSessionUpdateSet(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.UpdateSetField(idx, set, engine.SetField(req.Field), req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionToggleSet(w http.ResponseWriter, r *http.Request) {
	idx, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	set, ok := pathIndex(w, r, "set")
	if !ok {
		return
	}
	completed, err := s.eng.ToggleSetCompletion(r.Context(), idx, set)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"completed": completed,
		"timer":     s.eng.Timer().State(),
	})
}

// --- Rest timer ---

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Timer().State())
}

func (s *Server) handleTimerSkip(w http.ResponseWriter, r *http.Request) {
	s.eng.Timer().Skip()
	writeJSON(w, http.StatusOK, s.eng.Timer().State())
}

func (s *Server) handleTimerAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Timer().Adjust(req.Delta))
}

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return idx, true
}
