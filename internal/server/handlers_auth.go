package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMsg(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	nameTaken, emailTaken, err := s.db.UsernameTaken(r.Context(), req.Username, req.Email)
	if err != nil {
		s.log.Error("register lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if nameTaken {
		writeMsg(w, http.StatusBadRequest, "username already exists")
		return
	}
	if emailTaken {
		writeMsg(w, http.StatusBadRequest, "email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if _, err := s.db.CreateUser(r.Context(), req.Username, req.Email, string(hash)); err != nil {
		s.log.Error("creating user failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeMsg(w, http.StatusCreated, "user created")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.db.UserByUsername(r.Context(), req.Username)
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		s.log.Error("login lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeMsg(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := newToken()
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "login failed")
		return
	}
	if err := s.db.MintToken(r.Context(), user.ID, token); err != nil {
		s.log.Error("minting token failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResult{
		AccessToken: token,
		User:        models.User{ID: user.ID, Username: user.Username, Level: user.Level},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.UserByID(r.Context(), userID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.log.Error("me lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}
