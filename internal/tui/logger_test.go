package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/workout"
)

// stubGateway satisfies workout.Gateway for driving the logger model.
type stubGateway struct {
	routine   *models.RoutineDetail
	sessionID int
}

func (g *stubGateway) GetRoutine(ctx context.Context, id int) (*models.RoutineDetail, error) {
	return g.routine, nil
}

func (g *stubGateway) StartSession(ctx context.Context, routineID int) (int, error) {
	return g.sessionID, nil
}

func (g *stubGateway) LogSet(ctx context.Context, set models.SetLog) error { return nil }

func (g *stubGateway) FinishSession(ctx context.Context, sessionID int) (*models.FinishResult, error) {
	return &models.FinishResult{XPGained: 25, CurrentStreak: 1}, nil
}

func newTestLogger(t *testing.T) (loggerModel, *workout.Controller) {
	t.Helper()
	gw := &stubGateway{
		routine: &models.RoutineDetail{
			ID:   1,
			Name: "Push Day",
			Exercises: []models.RoutineExercise{
				{ID: 1, ExerciseID: 100, ExerciseName: "Bench Press", Sets: 3, RepsTarget: "8-12"},
			},
		},
		sessionID: 7,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := workout.NewController(gw, log)
	return newLoggerModel(ctrl), ctrl
}

// TestTickSurvivesSlowSessionStart verifies that a tick arriving while the
// session start is still in flight reschedules itself instead of killing
// the elapsed clock for the rest of the workout.
func TestTickSurvivesSlowSessionStart(t *testing.T) {
	m, ctrl := newTestLogger(t)

	// First tick fires before Begin has resolved.
	if ctrl.Phase() != workout.Loading {
		t.Fatalf("phase = %v, want Loading", ctrl.Phase())
	}
	m, cmd := m.Update(workoutTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick not rescheduled while session start is in flight")
	}
	if m.elapsed != 0 {
		t.Errorf("elapsed = %v before the session began", m.elapsed)
	}

	// The session comes up; subsequent ticks advance the clock.
	if err := ctrl.Begin(context.Background(), 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	m, _ = m.Update(workoutBeganMsg{})
	m.startedAt = time.Now().Add(-90 * time.Second)

	m, cmd = m.Update(workoutTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick not rescheduled while active")
	}
	if m.elapsed < 90*time.Second {
		t.Errorf("elapsed = %v, want at least 90s", m.elapsed)
	}
}

// TestTickStopsAfterFinish verifies the chain ends with the workout.
func TestTickStopsAfterFinish(t *testing.T) {
	m, ctrl := newTestLogger(t)
	if err := ctrl.Begin(context.Background(), 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	m, _ = m.Update(workoutBeganMsg{})

	if _, err := ctrl.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, cmd := m.Update(workoutTickMsg(time.Now()))
	if cmd != nil {
		t.Fatal("tick rescheduled after the workout finished")
	}
}
