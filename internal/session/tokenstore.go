package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// TokenStore persists the access token across runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// StateDB is a sqlite-backed TokenStore at dir/state.db.
type StateDB struct {
	db *sql.DB
}

var _ TokenStore = (*StateDB)(nil)

// OpenStateDB opens (or creates) the client state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS auth_token (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		token    TEXT NOT NULL,
		saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating auth_token table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Load returns the stored token, or an empty string when none is saved.
func (s *StateDB) Load() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM auth_token WHERE id = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}
	return token, nil
}

// Save stores the token, replacing any previous one.
func (s *StateDB) Save(token string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO auth_token (id, token, saved_at) VALUES (1, ?, CURRENT_TIMESTAMP)`,
		token,
	)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *StateDB) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM auth_token WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
