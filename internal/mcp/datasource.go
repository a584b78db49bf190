package mcp

import (
	"context"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
)

// DataSource abstracts the data layer for MCP tools. *api.Client satisfies
// it, so the MCP binary runs against any IronLog API the user can reach.
type DataSource interface {
	ListRoutines(ctx context.Context) ([]models.Routine, error)
	GetRoutine(ctx context.Context, id int) (*models.RoutineDetail, error)
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	SessionDetail(ctx context.Context, sessionID int) (*models.SessionDetail, error)
	PersonalRecords(ctx context.Context) ([]models.PersonalRecord, error)
	WeeklyVolume(ctx context.Context, weeks int) ([]models.WeeklyVolume, error)
	Volume(ctx context.Context, days int) ([]models.MuscleVolume, error)
	StatsSummary(ctx context.Context) (*models.StatsSummary, error)
	GetProfile(ctx context.Context) (*models.User, error)
}

// Compile-time check: *api.Client satisfies DataSource.
var _ DataSource = (*api.Client)(nil)
