package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.ListSessions(r.Context(), userID(r))
	if err != nil {
		s.log.Error("listing sessions failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "listing sessions failed")
		return
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoutineID int `json:"routine_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id, err := s.db.StartSession(r.Context(), userID(r), req.RoutineID, time.Now())
	if err != nil {
		s.log.Error("starting session failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "starting session failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"msg": "session started", "id": id})
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid session id")
		return
	}

	detail, err := s.db.SessionDetail(r.Context(), id, userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error("session detail failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "session detail failed")
		return
	}
	if detail.Exercises == nil {
		detail.Exercises = []models.SessionExercise{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var set models.SetLog
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if set.SessionID == 0 || set.ExerciseID == 0 || set.SetNumber == 0 {
		writeMsg(w, http.StatusBadRequest, "session_id, exercise_id and set_number are required")
		return
	}

	owner, err := s.db.SessionOwner(r.Context(), set.SessionID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && owner != userID(r)) {
		writeMsg(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error("session owner lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "logging set failed")
		return
	}

	id, err := s.db.InsertLog(r.Context(), set, time.Now())
	if err != nil {
		s.log.Error("logging set failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "logging set failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"msg": "set logged", "id": id})
}

// handleFinishSession closes the session and applies the gamification rules:
// 20 XP base, 1 XP per 100 kg of volume, 5 XP per distinct exercise, then
// level-up coins and the daily streak.
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid session id")
		return
	}

	owner, err := s.db.SessionOwner(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && owner != userID(r)) {
		writeMsg(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.log.Error("session owner lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "finishing session failed")
		return
	}

	now := time.Now()
	if err := s.db.CloseSession(r.Context(), id, now); err != nil {
		s.log.Error("closing session failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "finishing session failed")
		return
	}

	volume, exercises, err := s.db.SessionTotals(r.Context(), id)
	if err != nil {
		s.log.Error("session totals failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "finishing session failed")
		return
	}

	user, err := s.db.UserByID(r.Context(), owner)
	if err != nil {
		s.log.Error("user lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "finishing session failed")
		return
	}

	xpGained := 20 + int(volume/100) + exercises*5
	newXP := user.XP + xpGained
	newLevel := models.LevelForXP(newXP)
	coins := user.Coins
	levelUp := newLevel > user.Level
	coinsEarned := 0
	if levelUp {
		coinsEarned = (newLevel - user.Level) * 10
		coins += coinsEarned
	}

	var lastWorkout *time.Time
	if user.LastWorkoutDate != nil {
		if t, parseErr := time.Parse("2006-01-02", *user.LastWorkoutDate); parseErr == nil {
			lastWorkout = &t
		}
	}
	prevLongest := user.LongestStreak
	streak, workoutDate := models.ApplyStreak(lastWorkout, user.CurrentStreak, user.LongestStreak, now)

	err = s.db.UpdateGamification(r.Context(), owner, newXP, newLevel, coins,
		streak.Current, streak.Longest, workoutDate)
	if err != nil {
		s.log.Error("updating gamification failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "finishing session failed")
		return
	}

	result := models.FinishResult{
		XPGained:        xpGained,
		TotalXP:         newXP,
		Level:           newLevel,
		CurrentStreak:   streak.Current,
		LongestStreak:   streak.Longest,
		StreakMilestone: streak.Updated && streak.Longest > prevLongest,
	}
	if levelUp {
		result.LevelUp = true
		result.NewLevel = newLevel
		result.CoinsEarned = coinsEarned
	}
	writeJSON(w, http.StatusOK, result)
}
