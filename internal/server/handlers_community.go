package server

import (
	"errors"
	"net/http"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.db.Feed(r.Context(), userID(r))
	if err != nil {
		s.log.Error("feed listing failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "feed lookup failed")
		return
	}
	if feed == nil {
		feed = []models.FeedRoutine{}
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	result, err := s.db.ToggleLike(r.Context(), id, userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if err != nil {
		s.log.Error("toggling like failed", "error", err, "routine", id)
		writeMsg(w, http.StatusInternalServerError, "toggling like failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveRoutine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	result, err := s.db.SaveRoutine(r.Context(), id, userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if errors.Is(err, storage.ErrOwnRoutine) {
		writeMsg(w, http.StatusBadRequest, "cannot save your own routine")
		return
	}
	if err != nil {
		s.log.Error("saving routine failed", "error", err, "routine", id)
		writeMsg(w, http.StatusInternalServerError, "saving routine failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeedExercises(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid routine id")
		return
	}

	exercises, err := s.db.FeedExercises(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "routine not found")
		return
	}
	if err != nil {
		s.log.Error("feed exercises lookup failed", "error", err, "routine", id)
		writeMsg(w, http.StatusInternalServerError, "feed exercises lookup failed")
		return
	}
	if exercises == nil {
		exercises = []models.FeedExercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}
