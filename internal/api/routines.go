package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meltforce/ironlog/internal/models"
)

// ListRoutines returns the caller's routine collection.
func (c *Client) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	var routines []models.Routine
	if err := c.get(ctx, "/routines", nil, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// GetRoutine returns one routine with its ordered exercise list.
func (c *Client) GetRoutine(ctx context.Context, id int) (*models.RoutineDetail, error) {
	var detail models.RoutineDetail
	if err := c.get(ctx, fmt.Sprintf("/routines/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateRoutine creates a routine and returns its id.
func (c *Client) CreateRoutine(ctx context.Context, routine models.NewRoutine) (int, error) {
	var result struct {
		ID int `json:"id"`
	}
	if err := c.post(ctx, "/routines", routine, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// DeleteRoutine deletes one of the caller's routines.
func (c *Client) DeleteRoutine(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/routines/%d", id), nil, nil, nil)
}

// TogglePublish flips a routine's community visibility and returns the
// authoritative new state.
func (c *Client) TogglePublish(ctx context.Context, id int) (bool, error) {
	var result struct {
		IsPublic bool `json:"is_public"`
	}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/routines/%d/publish", id), nil, nil, &result)
	if err != nil {
		return false, err
	}
	return result.IsPublic, nil
}

// ListExercises returns the exercise catalog, optionally filtered by
// muscle group.
func (c *Client) ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	var params url.Values
	if muscleGroup != "" {
		params = url.Values{"muscle_group": {muscleGroup}}
	}
	var exercises []models.Exercise
	if err := c.get(ctx, "/exercises", params, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}
