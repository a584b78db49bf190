// Package workout owns the lifecycle of one active training session: the
// current exercise pointer and the locally held set log for the exercise in
// view. It is a plain state machine with no rendering dependencies.
package workout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/meltforce/ironlog/internal/models"
)

// Gateway is the slice of the API client the controller needs.
// *api.Client satisfies it.
type Gateway interface {
	GetRoutine(ctx context.Context, id int) (*models.RoutineDetail, error)
	StartSession(ctx context.Context, routineID int) (int, error)
	LogSet(ctx context.Context, set models.SetLog) error
	FinishSession(ctx context.Context, sessionID int) (*models.FinishResult, error)
}

// Phase is the controller's lifecycle state.
type Phase int

const (
	// Loading: routine fetch and session start are in flight.
	Loading Phase = iota
	// Active: the session is open and accepts LogSet/AdvanceExercise/Finish.
	Active
	// Errored: startup failed; terminal until the caller navigates away.
	Errored
	// Finished: FinishSession succeeded; terminal.
	Finished
)

// Direction selects which neighbouring exercise AdvanceExercise moves to.
type Direction int

const (
	Next Direction = iota
	Previous
)

// SetEntry is one locally confirmed set for the exercise currently in view.
// Entries are append-only and discarded whenever the exercise pointer moves;
// the backend keeps the durable log from the LogSet calls.
type SetEntry struct {
	Weight float64
	Reps   int
}

// Controller mediates between exercise navigation / set logging and the
// backend for exactly one session. Mutations happen on worker goroutines
// while the UI reads the accessors, so all state lives behind mu. The lock
// is never held across a backend call.
type Controller struct {
	gw  Gateway
	log *slog.Logger

	mu        sync.RWMutex
	phase     Phase
	err       error
	routine   *models.RoutineDetail
	sessionID int
	index     int
	sets      []SetEntry
}

// NewController creates a controller in the Loading phase.
func NewController(gw Gateway, log *slog.Logger) *Controller {
	return &Controller{gw: gw, log: log, phase: Loading}
}

// Begin fetches the routine definition and requests a new session id
// concurrently. Both must succeed to enter Active; either failure is
// terminal (Errored), with no automatic retry.
func (c *Controller) Begin(ctx context.Context, routineID int) error {
	c.mu.Lock()
	if c.phase != Loading {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	var (
		wg         sync.WaitGroup
		routine    *models.RoutineDetail
		sessionID  int
		routineErr error
		sessionErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		routine, routineErr = c.gw.GetRoutine(ctx, routineID)
	}()
	go func() {
		defer wg.Done()
		sessionID, sessionErr = c.gw.StartSession(ctx, routineID)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if routineErr != nil {
		c.phase = Errored
		c.err = routineErr
		return routineErr
	}
	if sessionErr != nil {
		c.phase = Errored
		c.err = sessionErr
		return sessionErr
	}

	c.routine = routine
	c.sessionID = sessionID
	c.index = 0
	c.sets = nil
	c.phase = Active
	c.log.Info("session started", "session_id", sessionID, "routine_id", routineID,
		"exercises", len(routine.Exercises))
	return nil
}

// Phase returns the controller's current lifecycle state.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Err returns the startup error when the controller is Errored.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// SessionID returns the backend-assigned session id (0 while Loading).
func (c *Controller) SessionID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Routine returns the routine being trained, or nil while Loading/Errored.
func (c *Controller) Routine() *models.RoutineDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.routine
}

// ExerciseIndex returns the current exercise pointer.
func (c *Controller) ExerciseIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Sets returns the locally confirmed sets for the exercise in view.
func (c *Controller) Sets() []SetEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sets
}

// CurrentExercise returns the exercise in view. ok is false when the routine
// has no exercises.
func (c *Controller) CurrentExercise() (models.RoutineExercise, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentExercise()
}

// currentExercise is CurrentExercise without the lock; callers hold mu.
func (c *Controller) currentExercise() (models.RoutineExercise, bool) {
	if c.routine == nil || len(c.routine.Exercises) == 0 {
		return models.RoutineExercise{}, false
	}
	return c.routine.Exercises[c.index], true
}

// LogSet records one set for the exercise in view. The set number is the
// local count plus one. The local log is appended only after the backend
// accepts the write, so the displayed list never shows a rejected entry.
// A no-op (nil, no backend call) when there is no open session or the
// routine has no exercises. Weight and reps are passed through unvalidated;
// the backend is the sole validator.
func (c *Controller) LogSet(ctx context.Context, weight float64, reps int) error {
	c.mu.RLock()
	if c.phase != Active || c.sessionID == 0 {
		c.mu.RUnlock()
		return nil
	}
	exercise, ok := c.currentExercise()
	if !ok {
		c.mu.RUnlock()
		return nil
	}
	set := models.SetLog{
		SessionID:  c.sessionID,
		ExerciseID: exercise.ExerciseID,
		SetNumber:  len(c.sets) + 1,
		Weight:     weight,
		Reps:       reps,
	}
	c.mu.RUnlock()

	if err := c.gw.LogSet(ctx, set); err != nil {
		return err
	}

	c.mu.Lock()
	c.sets = append(c.sets, SetEntry{Weight: weight, Reps: reps})
	c.mu.Unlock()
	return nil
}

// AdvanceExercise moves the exercise pointer, clamped to the routine's
// bounds in both directions. Any index change discards the local set log,
// so numbering restarts at 1 on the next LogSet even when the backend
// already holds sets for that exercise from an earlier visit in this
// session; the two sequences are intentionally not reconciled.
func (c *Controller) AdvanceExercise(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Active || c.routine == nil {
		return
	}

	next := c.index
	switch dir {
	case Next:
		if c.index < len(c.routine.Exercises)-1 {
			next = c.index + 1
		}
	case Previous:
		if c.index > 0 {
			next = c.index - 1
		}
	}

	if next != c.index {
		c.index = next
		c.sets = nil
	}
}

// Finish closes the session. On success the controller enters Finished and
// returns the gamification outcome exactly once; on failure it stays Active
// with the session intact. A no-op when the controller is not Active.
func (c *Controller) Finish(ctx context.Context) (*models.FinishResult, error) {
	c.mu.RLock()
	if c.phase != Active || c.sessionID == 0 {
		c.mu.RUnlock()
		return nil, nil
	}
	sessionID := c.sessionID
	c.mu.RUnlock()

	result, err := c.gw.FinishSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.phase = Finished
	c.mu.Unlock()
	c.log.Info("session finished", "session_id", sessionID, "xp_gained", result.XPGained)
	return result, nil
}
