package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/setlog/internal/backup"
	"github.com/claude/setlog/internal/engine"
	"github.com/claude/setlog/internal/models"
	"github.com/go-chi/chi/v5"
)

// --- Exercise catalog ---

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Exercises())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string `json:"name"`
		Category           string `json:"category"`
		DefaultRestSeconds int    `json:"default_rest_seconds"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	def, err := s.eng.AddExerciseDefinition(r.Context(), req.Name, req.Category, req.DefaultRestSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var def models.ExerciseDefinition
	if !decodeBody(w, r, &def) {
		return
	}
	def.ID = id
	if err := s.eng.UpdateExerciseDefinition(r.Context(), def); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.eng.DeleteExerciseDefinition(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Programs and standalone workouts ---

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Programs())
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		TotalWeeks int    `json:"total_weeks"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.eng.CreateProgram(r.Context(), req.Name, req.TotalWeeks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSaveProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Program
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = id
	if err := s.eng.SaveProgram(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.eng.DeleteProgram(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Workouts())
}

func (s *Server) handleSaveWorkout(w http.ResponseWriter, r *http.Request) {
	var wt models.WorkoutTemplate
	if !decodeBody(w, r, &wt) {
		return
	}
	saved, err := s.eng.SaveWorkout(r.Context(), wt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.eng.DeleteWorkout(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- History ledger ---

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.History())
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := s.eng.HistoryRecord(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.eng.DeleteHistory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLastPerformance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("exercise_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id parameter required"})
		return
	}
	perf := s.eng.LastPerformanceFor(id)
	if perf == nil {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "performance": perf})
}

func (s *Server) handleLastCompletion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var programID *int64
	var workoutIndex *int
	if v := q.Get("program_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			programID = &id
		}
	}
	if v := q.Get("workout_index"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil {
			workoutIndex = &idx
		}
	}
	date, found := s.eng.LastCompletionDateFor(programID, workoutIndex, q.Get("name"))
	resp := map[string]any{"found": found}
	if found {
		resp["date"] = date.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Preferences ---

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Preferences())
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeightUnit string `json:"weight_unit"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.SetWeightUnit(r.Context(), req.WeightUnit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Preferences())
}

func (s *Server) handleLogBodyweight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weight string `json:"weight"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.eng.LogBodyweight(r.Context(), req.Weight); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Preferences())
}

// --- Backup boundary ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.eng.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	name := "setlog-backup-" + time.Now().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}
	doc, err := backup.Import(data)
	if err != nil {
		writeError(w, err)
		return
	}
	s.eng.Replace(r.Context(), doc)
	writeJSON(w, http.StatusOK, map[string]string{"message": "import complete, reload required"})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine error kinds to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrNoActiveSession):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrSessionInProgress):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrEmptySession):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, backup.ErrInvalidImport):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
