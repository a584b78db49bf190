package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// levelRewards is the fixed level reward table.
var levelRewards = []models.LevelReward{
	{Level: 5, Reward: "Verified Badge", Type: "badge"},
	{Level: 10, Reward: "Premium Avatar", Type: "avatar"},
	{Level: 15, Reward: "Golden Name Color", Type: "color"},
	{Level: 20, Reward: "'Iron Warrior' Title", Type: "title"},
	{Level: 25, Reward: "Epic Avatar", Type: "avatar"},
	{Level: 30, Reward: "Rainbow Color", Type: "color"},
	{Level: 50, Reward: "'Gym Legend' Title", Type: "title"},
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.UserByID(r.Context(), userID(r))
	if err != nil {
		s.log.Error("profile lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	achievements, err := s.db.AchievementCount(r.Context(), user.ID)
	if err != nil {
		s.log.Error("achievement count failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	profile := user.Profile()
	profile.CreatedAt = user.CreatedAt
	writeJSON(w, http.StatusOK, struct {
		models.User
		XPForNextLevel    int `json:"xp_for_next_level"`
		AchievementsCount int `json:"achievements_count"`
	}{
		User:              profile,
		XPForNextLevel:    models.XPForLevel(user.Level + 1),
		AchievementsCount: achievements,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email != "" {
		if err := s.db.UpdateEmail(r.Context(), userID(r), req.Email); err != nil {
			s.log.Error("updating profile failed", "error", err)
			writeMsg(w, http.StatusInternalServerError, "updating profile failed")
			return
		}
	}
	writeMsg(w, http.StatusOK, "profile updated")
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.UserByID(r.Context(), userID(r))
	if err != nil {
		s.log.Error("shop user lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "shop lookup failed")
		return
	}

	rows, err := s.db.ListShopItems(r.Context())
	if err != nil {
		s.log.Error("shop listing failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "shop lookup failed")
		return
	}

	items := make([]models.ShopItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ShopItem{
			ID:            row.ID,
			Name:          row.Name,
			Description:   row.Description,
			Type:          row.ItemType,
			Value:         row.Value,
			Price:         row.Price,
			RequiredLevel: row.RequiredLevel,
			CanBuy:        user.Level >= row.RequiredLevel && user.Coins >= row.Price,
			Locked:        user.Level < row.RequiredLevel,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMsg(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.db.ShopItem(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeMsg(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		s.log.Error("shop item lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "purchase failed")
		return
	}

	user, err := s.db.UserByID(r.Context(), userID(r))
	if err != nil {
		s.log.Error("purchase user lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "purchase failed")
		return
	}
	if user.Coins < item.Price {
		writeMsg(w, http.StatusBadRequest, "not enough coins")
		return
	}
	if user.Level < item.RequiredLevel {
		writeMsg(w, http.StatusBadRequest, fmt.Sprintf("level %d required", item.RequiredLevel))
		return
	}

	if err := s.db.Purchase(r.Context(), user.ID, item); err != nil {
		s.log.Error("purchase failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "purchase failed")
		return
	}
	writeJSON(w, http.StatusOK, models.PurchaseResult{
		Msg:            fmt.Sprintf("you bought %s!", item.Name),
		RemainingCoins: user.Coins - item.Price,
		ItemApplied:    true,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.db.ListAchievements(r.Context(), userID(r))
	if err != nil {
		s.log.Error("achievements listing failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "achievements lookup failed")
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, achievements)
}

func (s *Server) handleLevelRewards(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.UserByID(r.Context(), userID(r))
	if err != nil {
		s.log.Error("level rewards lookup failed", "error", err)
		writeMsg(w, http.StatusInternalServerError, "level rewards failed")
		return
	}

	rewards := make([]models.LevelReward, len(levelRewards))
	copy(rewards, levelRewards)
	for i := range rewards {
		rewards[i].Unlocked = user.Level >= rewards[i].Level
	}
	writeJSON(w, http.StatusOK, rewards)
}
