package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	volume, err := s.db.VolumeByMuscle(r.Context(), userID(r), queryInt(r, "days", 30), time.Now())
	if err != nil {
		s.log.Error("volume analytics failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "volume analytics failed")
		return
	}
	if volume == nil {
		volume = []models.MuscleVolume{}
	}
	writeJSON(w, http.StatusOK, volume)
}

func (s *Server) handleWeeklyVolume(w http.ResponseWriter, r *http.Request) {
	volume, err := s.db.WeeklyVolume(r.Context(), userID(r), queryInt(r, "weeks", 12), time.Now())
	if err != nil {
		s.log.Error("weekly volume failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "weekly volume failed")
		return
	}
	writeJSON(w, http.StatusOK, volume)
}

func (s *Server) handlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.PersonalRecords(r.Context(), userID(r))
	if err != nil {
		s.log.Error("personal records failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "personal records failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathID(r, "exerciseId")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid exercise id")
		return
	}

	points, err := s.db.Progression(r.Context(), userID(r), exerciseID, queryInt(r, "days", 90), time.Now())
	if err != nil {
		s.log.Error("progression failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "progression failed")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	heatmap, err := s.db.Heatmap(r.Context(), userID(r), queryInt(r, "days", 365), time.Now())
	if err != nil {
		s.log.Error("heatmap failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "heatmap failed")
		return
	}
	if heatmap == nil {
		heatmap = []models.HeatmapDay{}
	}
	writeJSON(w, http.StatusOK, heatmap)
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.db.StatsSummary(r.Context(), userID(r), time.Now())
	if err != nil {
		s.log.Error("stats summary failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "stats summary failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
