package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// UserRow is the users table shape, including fields that never cross
// the wire.
type UserRow struct {
	ID              int
	Username        string
	Email           string
	PasswordHash    string
	CreatedAt       string
	XP              int
	Level           int
	Coins           int
	CurrentStreak   int
	LongestStreak   int
	LastWorkoutDate *string
	AvatarIcon      string
	UsernameColor   string
	IsVerified      bool
	Title           *string
}

// Profile converts the row into its wire representation.
func (u UserRow) Profile() models.User {
	user := models.User{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Level:         u.Level,
		XP:            u.XP,
		Coins:         u.Coins,
		XPProgress:    models.XPProgress(u.XP),
		AvatarIcon:    u.AvatarIcon,
		UsernameColor: u.UsernameColor,
		IsVerified:    u.IsVerified,
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
	}
	if u.Title != nil {
		user.Title = *u.Title
	}
	return user
}

const userColumns = `id, username, email, password_hash, created_at, xp, level, coins,
	current_streak, longest_streak, last_workout_date, avatar_icon, username_color, is_verified, title`

func scanUser(row *sql.Row) (*UserRow, error) {
	var u UserRow
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt,
		&u.XP, &u.Level, &u.Coins, &u.CurrentStreak, &u.LongestStreak,
		&u.LastWorkoutDate, &u.AvatarIcon, &u.UsernameColor, &u.IsVerified, &u.Title)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new account and returns its id.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (int, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading user id: %w", err)
	}
	return int(id), nil
}

// UserByUsername looks up a user for login.
func (db *DB) UserByUsername(ctx context.Context, username string) (*UserRow, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// UserByID looks up a user by primary key.
func (db *DB) UserByID(ctx context.Context, id int) (*UserRow, error) {
	row := db.sql.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UsernameTaken reports whether a username or email is already registered.
func (db *DB) UsernameTaken(ctx context.Context, username, email string) (bool, bool, error) {
	var byName, byEmail int
	err := db.sql.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE username = ?),
			(SELECT COUNT(*) FROM users WHERE email = ?)`,
		username, email).Scan(&byName, &byEmail)
	if err != nil {
		return false, false, fmt.Errorf("checking username: %w", err)
	}
	return byName > 0, byEmail > 0, nil
}

// UpdateEmail changes a user's email address.
func (db *DB) UpdateEmail(ctx context.Context, userID int, email string) error {
	_, err := db.sql.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, userID)
	if err != nil {
		return fmt.Errorf("updating email: %w", err)
	}
	return nil
}

// UpdateGamification writes back XP, level, coins, and streak state after a
// finished session.
func (db *DB) UpdateGamification(ctx context.Context, userID, xp, level, coins, currentStreak, longestStreak int, lastWorkout time.Time) error {
	_, err := db.sql.ExecContext(ctx,
		`UPDATE users SET xp = ?, level = ?, coins = ?, current_streak = ?, longest_streak = ?,
		 last_workout_date = ? WHERE id = ?`,
		xp, level, coins, currentStreak, longestStreak,
		lastWorkout.UTC().Format("2006-01-02"), userID)
	if err != nil {
		return fmt.Errorf("updating gamification: %w", err)
	}
	return nil
}

// MintToken issues a new opaque bearer token for a user.
func (db *DB) MintToken(ctx context.Context, userID int, token string) error {
	_, err := db.sql.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id) VALUES (?, ?)`, token, userID)
	if err != nil {
		return fmt.Errorf("inserting token: %w", err)
	}
	return nil
}

// UserIDForToken resolves a bearer token; ErrNotFound for unknown tokens.
func (db *DB) UserIDForToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := db.sql.QueryRowContext(ctx,
		`SELECT user_id FROM auth_tokens WHERE token = ?`, token).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("looking up token: %w", err)
	}
	return userID, nil
}
