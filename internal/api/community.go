package api

import (
	"context"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// GetFeed returns the public routine feed.
func (c *Client) GetFeed(ctx context.Context) ([]models.FeedRoutine, error) {
	var feed []models.FeedRoutine
	if err := c.get(ctx, "/community", nil, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

// ToggleLike flips the caller's like on a public routine and returns the
// authoritative like count and state.
func (c *Client) ToggleLike(ctx context.Context, routineID int) (*models.LikeResult, error) {
	var result models.LikeResult
	if err := c.post(ctx, fmt.Sprintf("/community/routines/%d/like", routineID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveRoutine clones a public routine into the caller's collection, or
// removes it when already saved. Returns the authoritative saved state.
func (c *Client) SaveRoutine(ctx context.Context, routineID int) (*models.SaveResult, error) {
	var result models.SaveResult
	if err := c.post(ctx, fmt.Sprintf("/community/routines/%d/save", routineID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRoutineExercises returns the exercise detail of a public routine.
func (c *Client) GetRoutineExercises(ctx context.Context, routineID int) ([]models.FeedExercise, error) {
	var exercises []models.FeedExercise
	path := fmt.Sprintf("/community/routines/%d/exercises", routineID)
	if err := c.get(ctx, path, nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}
