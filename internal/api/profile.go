package api

import (
	"context"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// GetProfile returns the full gamified profile (level, XP progress, coins,
// cosmetics, achievement count).
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetShopItems returns the cosmetic shop, flagged with affordability for the
// caller.
func (c *Client) GetShopItems(ctx context.Context) ([]models.ShopItem, error) {
	var items []models.ShopItem
	if err := c.get(ctx, "/profile/shop", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PurchaseItem buys a shop item with coins and returns the remaining balance.
func (c *Client) PurchaseItem(ctx context.Context, itemID int) (*models.PurchaseResult, error) {
	var result models.PurchaseResult
	if err := c.post(ctx, fmt.Sprintf("/profile/shop/purchase/%d", itemID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAchievements returns all achievements with per-user unlock flags.
func (c *Client) GetAchievements(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := c.get(ctx, "/profile/achievements", nil, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// GetLevelRewards returns the level reward table with unlock flags.
func (c *Client) GetLevelRewards(ctx context.Context) ([]models.LevelReward, error) {
	var rewards []models.LevelReward
	if err := c.get(ctx, "/profile/level-rewards", nil, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}
