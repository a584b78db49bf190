package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/meltforce/ironlog/internal/models"
)

func daysParam(days int) url.Values {
	return url.Values{"days": {strconv.Itoa(days)}}
}

// Volume returns training volume per muscle group over the last days.
func (c *Client) Volume(ctx context.Context, days int) ([]models.MuscleVolume, error) {
	var volume []models.MuscleVolume
	if err := c.get(ctx, "/analytics/volume", daysParam(days), &volume); err != nil {
		return nil, err
	}
	return volume, nil
}

// WeeklyVolume returns total volume per ISO week over the last weeks.
func (c *Client) WeeklyVolume(ctx context.Context, weeks int) ([]models.WeeklyVolume, error) {
	params := url.Values{"weeks": {strconv.Itoa(weeks)}}
	var volume []models.WeeklyVolume
	if err := c.get(ctx, "/analytics/weekly-volume", params, &volume); err != nil {
		return nil, err
	}
	return volume, nil
}

// PersonalRecords returns the best estimated 1RM per exercise.
func (c *Client) PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error) {
	var records []models.PersonalRecord
	if err := c.get(ctx, "/analytics/personal-records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Progression returns the daily best estimated 1RM for one exercise.
func (c *Client) Progression(ctx context.Context, exerciseID, days int) ([]models.ProgressionPoint, error) {
	var points []models.ProgressionPoint
	path := fmt.Sprintf("/analytics/progression/%d", exerciseID)
	if err := c.get(ctx, path, daysParam(days), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Heatmap returns session counts per training day over the last days.
func (c *Client) Heatmap(ctx context.Context, days int) ([]models.HeatmapDay, error) {
	var heatmap []models.HeatmapDay
	if err := c.get(ctx, "/analytics/heatmap", daysParam(days), &heatmap); err != nil {
		return nil, err
	}
	return heatmap, nil
}

// StatsSummary returns overall training statistics.
func (c *Client) StatsSummary(ctx context.Context) (*models.StatsSummary, error) {
	var summary models.StatsSummary
	if err := c.get(ctx, "/analytics/stats-summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
