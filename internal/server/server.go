// Package server is the reference implementation of the IronLog REST
// contract, backed by the embedded sqlite storage. It exists so the client
// can be developed and integration-tested without the production backend.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/ironlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
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

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Get("/exercises", s.handleListExercises)

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.db))

			r.Get("/auth/me", s.handleMe)

			r.Get("/routines", s.handleListRoutines)
			r.Post("/routines", s.handleCreateRoutine)
			r.Get("/routines/{id}", s.handleRoutineDetail)
			r.Delete("/routines/{id}", s.handleDeleteRoutine)
			r.Patch("/routines/{id}/publish", s.handleTogglePublish)

			r.Get("/workouts/sessions", s.handleListSessions)
			r.Post("/workouts/sessions", s.handleStartSession)
			r.Get("/workouts/sessions/{id}", s.handleSessionDetail)
			r.Post("/workouts/sessions/{id}/finish", s.handleFinishSession)
			r.Post("/workouts/logs", s.handleLogSet)

			r.Get("/analytics/volume", s.handleVolume)
			r.Get("/analytics/weekly-volume", s.handleWeeklyVolume)
			r.Get("/analytics/personal-records", s.handlePersonalRecords)
			r.Get("/analytics/progression/{exerciseId}", s.handleProgression)
			r.Get("/analytics/heatmap", s.handleHeatmap)
			r.Get("/analytics/stats-summary", s.handleStatsSummary)

			r.Get("/profile", s.handleProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/profile/shop", s.handleShop)
			r.Post("/profile/shop/purchase/{id}", s.handlePurchase)
			r.Get("/profile/achievements", s.handleAchievements)
			r.Get("/profile/level-rewards", s.handleLevelRewards)

			r.Get("/community", s.handleFeed)
			r.Post("/community/routines/{id}/like", s.handleToggleLike)
			r.Post("/community/routines/{id}/save", s.handleSaveRoutine)
			r.Get("/community/routines/{id}/exercises", s.handleFeedExercises)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMsg writes the contract's {"msg": ...} error/status shape.
func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}
