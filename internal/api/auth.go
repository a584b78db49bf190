package api

import (
	"context"
	"net/http"

	"github.com/meltforce/ironlog/internal/models"
)

// Login exchanges credentials for an access token and a minimal user snapshot.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result models.LoginResult
	if err := c.post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account. The caller logs in separately.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.post(ctx, "/auth/register", body, nil)
}

// GetMe returns the authenticated user's full profile snapshot.
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates basic profile fields (currently the email address).
func (c *Client) UpdateProfile(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPut, "/profile", nil, map[string]string{"email": email}, nil)
}
