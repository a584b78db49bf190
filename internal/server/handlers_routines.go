package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// pathID parses the named chi URL parameter as an integer id.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	return id, err == nil && id > 0
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.db.ListExercises(r.Context(), r.URL.Query().Get("muscle_group"))
	if err != nil {
		s.log.Error("listing exercises failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "listing exercises failed")
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.db.ListRoutines(r.Context(), userID(r))
	if err != nil {
		s.log.Error("listing routines failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "listing routines failed")
		return
	}
	if routines == nil {
		routines = []models.Routine{}
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var routine models.NewRoutine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if routine.Name == "" {
		writeMsg(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.db.CreateRoutine(r.Context(), userID(r), routine)
	if err != nil {
		s.log.Error("creating routine failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "creating routine failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"msg": "routine created", "id": id})
}

func (s *Server) handleRoutineDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	detail, err := s.db.RoutineDetail(r.Context(), id, userID(r), false)
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if err != nil {
		s.log.Error("routine detail failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "routine detail failed")
		return
	}
	if detail.Exercises == nil {
		detail.Exercises = []models.RoutineExercise{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	err := s.db.DeleteRoutine(r.Context(), id, userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if err != nil {
		s.log.Error("deleting routine failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "deleting routine failed")
		return
	}
	writeMsg(w, http.StatusOK, "routine deleted")
}

func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	isPublic, err := s.db.TogglePublish(r.Context(), id, userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if err != nil {
		s.log.Error("toggling publish failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "toggling publish failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"is_public": isPublic})
}
