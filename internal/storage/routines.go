package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// ListExercises returns the exercise catalog, optionally filtered by
// muscle group.
func (db *DB) ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	query := `SELECT id, name, COALESCE(muscle_group, ''), COALESCE(description, '') FROM exercises`
	args := []any{}
	if muscleGroup != "" {
		query += ` WHERE muscle_group = ?`
		args = append(args, muscleGroup)
	}
	query += ` ORDER BY name`

	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// ListRoutines returns a user's routines.
func (db *DB) ListRoutines(ctx context.Context, userID int) ([]models.Routine, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at, is_public
		 FROM routines WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing routines: %w", err)
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		var r models.Routine
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.IsPublic); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

// CreateRoutine inserts a routine with its ordered exercise slots and
// returns the new id.
func (db *DB) CreateRoutine(ctx context.Context, userID int, routine models.NewRoutine) (int, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO routines (user_id, name, description, is_public) VALUES (?, ?, ?, ?)`,
		userID, routine.Name, routine.Description, routine.IsPublic)
	if err != nil {
		return 0, fmt.Errorf("inserting routine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading routine id: %w", err)
	}

	for i, ex := range routine.Exercises {
		sets := ex.Sets
		if sets == 0 {
			sets = 3
		}
		repsTarget := ex.RepsTarget
		if repsTarget == "" {
			repsTarget = "8-12"
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO routine_exercises (routine_id, exercise_id, position, sets, reps_target)
			 VALUES (?, ?, ?, ?, ?)`,
			id, ex.ExerciseID, i, sets, repsTarget)
		if err != nil {
			return 0, fmt.Errorf("inserting routine exercise: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing routine: %w", err)
	}
	return int(id), nil
}

// RoutineDetail returns a routine with its exercises in stored order. When
// ownerID is non-zero the routine must belong to that user; when publicOnly
// is set it must be published.
func (db *DB) RoutineDetail(ctx context.Context, routineID, ownerID int, publicOnly bool) (*models.RoutineDetail, error) {
	query := `SELECT id, name, COALESCE(description, ''), created_at FROM routines WHERE id = ?`
	args := []any{routineID}
	if ownerID != 0 {
		query += ` AND user_id = ?`
		args = append(args, ownerID)
	}
	if publicOnly {
		query += ` AND is_public = 1`
	}

	var detail models.RoutineDetail
	err := db.sql.QueryRowContext(ctx, query, args...).
		Scan(&detail.ID, &detail.Name, &detail.Description, &detail.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning routine: %w", err)
	}

	rows, err := db.sql.QueryContext(ctx,
		`SELECT re.id, re.exercise_id, e.name, COALESCE(e.muscle_group, ''), re.sets, re.reps_target, re.position
		 FROM routine_exercises re
		 JOIN exercises e ON e.id = re.exercise_id
		 WHERE re.routine_id = ?
		 ORDER BY re.position`, routineID)
	if err != nil {
		return nil, fmt.Errorf("listing routine exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex models.RoutineExercise
		err := rows.Scan(&ex.ID, &ex.ExerciseID, &ex.ExerciseName, &ex.MuscleGroup,
			&ex.Sets, &ex.RepsTarget, &ex.Order)
		if err != nil {
			return nil, fmt.Errorf("scanning routine exercise: %w", err)
		}
		detail.Exercises = append(detail.Exercises, ex)
	}
	return &detail, rows.Err()
}

// DeleteRoutine removes one of a user's routines. ErrNotFound when the
// routine does not exist or belongs to someone else.
func (db *DB) DeleteRoutine(ctx context.Context, routineID, userID int) error {
	res, err := db.sql.ExecContext(ctx,
		`DELETE FROM routines WHERE id = ? AND user_id = ?`, routineID, userID)
	if err != nil {
		return fmt.Errorf("deleting routine: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting routine: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublish flips a routine's community visibility and returns the new
// state.
func (db *DB) TogglePublish(ctx context.Context, routineID, userID int) (bool, error) {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE routines SET is_public = 1 - is_public WHERE id = ? AND user_id = ?`,
		routineID, userID)
	if err != nil {
		return false, fmt.Errorf("toggling publish: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggling publish: %w", err)
	}
	if n == 0 {
		return false, ErrNotFound
	}

	var isPublic bool
	err = db.sql.QueryRowContext(ctx,
		`SELECT is_public FROM routines WHERE id = ?`, routineID).Scan(&isPublic)
	if err != nil {
		return false, fmt.Errorf("reading publish state: %w", err)
	}
	return isPublic, nil
}
