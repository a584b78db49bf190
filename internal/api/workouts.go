package api

import (
	"context"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// StartSession opens a new workout session for a routine and returns the
// session id assigned by the backend.
func (c *Client) StartSession(ctx context.Context, routineID int) (int, error) {
	body := map[string]int{"routine_id": routineID}
	var result struct {
		ID int `json:"id"`
	}
	if err := c.post(ctx, "/workouts/sessions", body, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// LogSet records one set against an open session. The backend is the sole
// validator of weight and reps.
func (c *Client) LogSet(ctx context.Context, set models.SetLog) error {
	return c.post(ctx, "/workouts/logs", set, nil)
}

// FinishSession closes a session and returns the XP, level, and streak
// outcome.
func (c *Client) FinishSession(ctx context.Context, sessionID int) (*models.FinishResult, error) {
	var result models.FinishResult
	if err := c.post(ctx, fmt.Sprintf("/workouts/sessions/%d/finish", sessionID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSessions returns the caller's session history, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := c.get(ctx, "/workouts/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionDetail returns the full set-by-set breakdown of one session.
func (c *Client) SessionDetail(ctx context.Context, sessionID int) (*models.SessionDetail, error) {
	var detail models.SessionDetail
	if err := c.get(ctx, fmt.Sprintf("/workouts/sessions/%d", sessionID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
