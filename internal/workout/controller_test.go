package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meltforce/ironlog/internal/models"
)

// stubGateway is a scriptable Gateway that records LogSet calls.
type stubGateway struct {
	routine    *models.RoutineDetail
	routineErr error
	sessionID  int
	sessionErr error
	logErr     error
	finishErr  error

	logged []models.SetLog
}

func (g *stubGateway) GetRoutine(ctx context.Context, id int) (*models.RoutineDetail, error) {
	return g.routine, g.routineErr
}

func (g *stubGateway) StartSession(ctx context.Context, routineID int) (int, error) {
	return g.sessionID, g.sessionErr
}

func (g *stubGateway) LogSet(ctx context.Context, set models.SetLog) error {
	if g.logErr != nil {
		return g.logErr
	}
	g.logged = append(g.logged, set)
	return nil
}

func (g *stubGateway) FinishSession(ctx context.Context, sessionID int) (*models.FinishResult, error) {
	if g.finishErr != nil {
		return nil, g.finishErr
	}
	return &models.FinishResult{XPGained: 25, CurrentStreak: 1}, nil
}

func testRoutine(n int) *models.RoutineDetail {
	detail := &models.RoutineDetail{ID: 1, Name: "Push Day"}
	for i := 0; i < n; i++ {
		detail.Exercises = append(detail.Exercises, models.RoutineExercise{
			ID:           i + 1,
			ExerciseID:   100 + i,
			ExerciseName: "exercise",
			Sets:         3,
			RepsTarget:   "8-12",
		})
	}
	return detail
}

func newTestController(t *testing.T, gw *stubGateway) *Controller {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(gw, log)
}

func TestBeginEntersActive(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(3), sessionID: 7}
	c := newTestController(t, gw)

	require.NoError(t, c.Begin(context.Background(), 1))
	assert.Equal(t, Active, c.Phase())
	assert.Equal(t, 7, c.SessionID())
	assert.Equal(t, 0, c.ExerciseIndex())
	assert.Empty(t, c.Sets())
}

func TestBeginRoutineFailureIsTerminal(t *testing.T) {
	gw := &stubGateway{routineErr: errors.New("boom"), sessionID: 7}
	c := newTestController(t, gw)

	require.Error(t, c.Begin(context.Background(), 1))
	assert.Equal(t, Errored, c.Phase())
	assert.Error(t, c.Err())

	// A second Begin is a no-op once out of Loading.
	require.NoError(t, c.Begin(context.Background(), 1))
	assert.Equal(t, Errored, c.Phase())
}

func TestBeginSessionFailureIsTerminal(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(3), sessionErr: errors.New("no session")}
	c := newTestController(t, gw)

	require.Error(t, c.Begin(context.Background(), 1))
	assert.Equal(t, Errored, c.Phase())
}

func TestLogSetNumbersFromLocalCount(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(2), sessionID: 7}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	require.NoError(t, c.LogSet(context.Background(), 100, 8))
	require.NoError(t, c.LogSet(context.Background(), 102.5, 6))

	require.Len(t, gw.logged, 2)
	assert.Equal(t, 1, gw.logged[0].SetNumber)
	assert.Equal(t, 2, gw.logged[1].SetNumber)
	assert.Equal(t, 7, gw.logged[0].SessionID)
	assert.Equal(t, 100, gw.logged[0].ExerciseID)
	assert.Equal(t, 102.5, gw.logged[1].Weight)
	assert.Len(t, c.Sets(), 2)
}

func TestLogSetRejectedEntryNotShown(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(1), sessionID: 7, logErr: errors.New("rejected")}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	require.Error(t, c.LogSet(context.Background(), 100, 8))
	assert.Empty(t, c.Sets())

	// The next accepted set still gets number 1.
	gw.logErr = nil
	require.NoError(t, c.LogSet(context.Background(), 100, 8))
	assert.Equal(t, 1, gw.logged[0].SetNumber)
}

func TestLogSetNoopWithoutExercises(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(0), sessionID: 7}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	require.NoError(t, c.LogSet(context.Background(), 100, 8))
	assert.Empty(t, gw.logged, "no backend call for an empty routine")
}

func TestLogSetNoopBeforeBegin(t *testing.T) {
	gw := &stubGateway{}
	c := newTestController(t, gw)

	require.NoError(t, c.LogSet(context.Background(), 100, 8))
	assert.Empty(t, gw.logged)
}

func TestAdvanceClampsBothEnds(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(2), sessionID: 7}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	c.AdvanceExercise(Previous)
	assert.Equal(t, 0, c.ExerciseIndex(), "previous at first exercise clamps")

	c.AdvanceExercise(Next)
	assert.Equal(t, 1, c.ExerciseIndex())

	c.AdvanceExercise(Next)
	assert.Equal(t, 1, c.ExerciseIndex(), "next at last exercise clamps")
}

func TestAdvanceResetsSetsOnlyOnIndexChange(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(2), sessionID: 7}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))
	require.NoError(t, c.LogSet(context.Background(), 100, 8))

	// Clamped move: the pointer stays, so the local log survives.
	c.AdvanceExercise(Previous)
	assert.Len(t, c.Sets(), 1)

	// Real move discards the local log.
	c.AdvanceExercise(Next)
	assert.Empty(t, c.Sets())

	// Coming back does not restore it; numbering restarts at 1.
	c.AdvanceExercise(Previous)
	require.NoError(t, c.LogSet(context.Background(), 100, 8))
	assert.Equal(t, 1, gw.logged[len(gw.logged)-1].SetNumber)
}

func TestFinishHappensOnce(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(1), sessionID: 7}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	result, err := c.Finish(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 25, result.XPGained)
	assert.Equal(t, Finished, c.Phase())

	// Finished is terminal: no second backend call, no second result.
	result, err = c.Finish(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestFinishFailureStaysActive(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(1), sessionID: 7, finishErr: errors.New("offline")}
	c := newTestController(t, gw)
	require.NoError(t, c.Begin(context.Background(), 1))

	_, err := c.Finish(context.Background())
	require.Error(t, err)
	assert.Equal(t, Active, c.Phase(), "the session stays open for a retry")

	// Retry succeeds once the backend is reachable again.
	gw.finishErr = nil
	result, err := c.Finish(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, Finished, c.Phase())
}

// TestConcurrentBeginAndReads exercises the controller the way the UI does:
// mutations on a worker goroutine while another goroutine polls the
// accessors between renders. Run with -race. Active must never be observed
// with a nil routine.
func TestConcurrentBeginAndReads(t *testing.T) {
	gw := &stubGateway{routine: testRoutine(2), sessionID: 7}
	c := newTestController(t, gw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Begin(context.Background(), 1)
		_ = c.LogSet(context.Background(), 100, 8)
	}()

	for {
		if c.Phase() == Active {
			require.NotNil(t, c.Routine())
		}
		_ = c.Sets()
		_, _ = c.CurrentExercise()

		select {
		case <-done:
			assert.Equal(t, Active, c.Phase())
			assert.Len(t, c.Sets(), 1)
			return
		default:
		}
	}
}
