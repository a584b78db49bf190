package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// ShopItemRow is a shop_items table row.
type ShopItemRow struct {
	ID            int
	Name          string
	Description   string
	ItemType      string
	Value         string
	Price         int
	RequiredLevel int
}

// ListShopItems returns all active shop items.
func (db *DB) ListShopItems(ctx context.Context) ([]ShopItemRow, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), item_type, value, price, required_level
		 FROM shop_items WHERE is_active = 1 ORDER BY required_level, price`)
	if err != nil {
		return nil, fmt.Errorf("listing shop items: %w", err)
	}
	defer rows.Close()

	var items []ShopItemRow
	for rows.Next() {
		var item ShopItemRow
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.ItemType,
			&item.Value, &item.Price, &item.RequiredLevel)
		if err != nil {
			return nil, fmt.Errorf("scanning shop item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ShopItem returns one active shop item.
func (db *DB) ShopItem(ctx context.Context, id int) (*ShopItemRow, error) {
	var item ShopItemRow
	err := db.sql.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), item_type, value, price, required_level
		 FROM shop_items WHERE id = ? AND is_active = 1`, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.ItemType,
			&item.Value, &item.Price, &item.RequiredLevel)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning shop item: %w", err)
	}
	return &item, nil
}

// Purchase deducts the item's price and applies its cosmetic effect in one
// transaction. The caller has already validated coins and level.
func (db *DB) Purchase(ctx context.Context, userID int, item *ShopItemRow) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET coins = coins - ? WHERE id = ?`, item.Price, userID); err != nil {
		return fmt.Errorf("deducting coins: %w", err)
	}

	var apply string
	switch item.ItemType {
	case "avatar":
		apply = `UPDATE users SET avatar_icon = ? WHERE id = ?`
	case "color":
		apply = `UPDATE users SET username_color = ? WHERE id = ?`
	case "title":
		apply = `UPDATE users SET title = ? WHERE id = ?`
	case "badge":
		if item.Value == "verified" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET is_verified = 1 WHERE id = ?`, userID); err != nil {
				return fmt.Errorf("applying badge: %w", err)
			}
		}
	}
	if apply != "" {
		if _, err := tx.ExecContext(ctx, apply, item.Value, userID); err != nil {
			return fmt.Errorf("applying item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purchase: %w", err)
	}
	return nil
}

// ListAchievements returns every achievement flagged with whether the user
// has unlocked it.
func (db *DB) ListAchievements(ctx context.Context, userID int) ([]models.Achievement, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT a.id, a.name, COALESCE(a.description, ''), a.icon, COALESCE(a.category, ''),
		        a.xp_reward, a.coins_reward,
		        EXISTS (SELECT 1 FROM user_achievements ua
		                WHERE ua.achievement_id = a.id AND ua.user_id = ?)
		 FROM achievements a ORDER BY a.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Category,
			&a.XPReward, &a.CoinsReward, &a.Unlocked)
		if err != nil {
			return nil, fmt.Errorf("scanning achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// AchievementCount returns how many achievements the user has unlocked.
func (db *DB) AchievementCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_achievements WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting achievements: %w", err)
	}
	return count, nil
}
