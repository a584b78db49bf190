package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// StartSession opens a new workout session and returns its id.
func (db *DB) StartSession(ctx context.Context, userID, routineID int, start time.Time) (int, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO workout_sessions (user_id, routine_id, start_time) VALUES (?, ?, ?)`,
		userID, routineID, start.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}
	return int(id), nil
}

// SessionOwner resolves a session's owning user; ErrNotFound when the
// session does not exist.
func (db *DB) SessionOwner(ctx context.Context, sessionID int) (int, error) {
	var userID int
	err := db.sql.QueryRowContext(ctx,
		`SELECT user_id FROM workout_sessions WHERE id = ?`, sessionID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("looking up session owner: %w", err)
	}
	return userID, nil
}

// CloseSession stamps a session's end time.
func (db *DB) CloseSession(ctx context.Context, sessionID int, end time.Time) error {
	_, err := db.sql.ExecContext(ctx,
		`UPDATE workout_sessions SET end_time = ? WHERE id = ?`,
		end.UTC().Format(time.RFC3339), sessionID)
	if err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

// InsertLog records one set and returns the log id.
func (db *DB) InsertLog(ctx context.Context, set models.SetLog, at time.Time) (int, error) {
	res, err := db.sql.ExecContext(ctx,
		`INSERT INTO workout_logs (session_id, exercise_id, set_number, weight, reps, rpe, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		set.SessionID, set.ExerciseID, set.SetNumber, set.Weight, set.Reps, set.RPE,
		at.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading log id: %w", err)
	}
	return int(id), nil
}

// ListSessions returns a user's sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, userID int) ([]models.WorkoutSession, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, COALESCE(routine_id, 0), start_time, COALESCE(end_time, '')
		 FROM workout_sessions WHERE user_id = ? ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.RoutineID, &s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// sessionLogRow is one workout_logs row joined with its exercise.
type sessionLogRow struct {
	ExerciseID   int
	ExerciseName string
	SetNumber    int
	Weight       float64
	Reps         int
	RPE          *int
	CreatedAt    string
}

func (db *DB) sessionLogs(ctx context.Context, sessionID int) ([]sessionLogRow, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT l.exercise_id, e.name, l.set_number, l.weight, l.reps, l.rpe, l.created_at
		 FROM workout_logs l
		 JOIN exercises e ON e.id = l.exercise_id
		 WHERE l.session_id = ?
		 ORDER BY l.created_at, l.id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing session logs: %w", err)
	}
	defer rows.Close()

	var logs []sessionLogRow
	for rows.Next() {
		var l sessionLogRow
		err := rows.Scan(&l.ExerciseID, &l.ExerciseName, &l.SetNumber, &l.Weight, &l.Reps, &l.RPE, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SessionDetail returns the set-by-set breakdown of one session, grouped by
// exercise in first-logged order.
func (db *DB) SessionDetail(ctx context.Context, sessionID, userID int) (*models.SessionDetail, error) {
	var detail models.SessionDetail
	var endTime *string
	err := db.sql.QueryRowContext(ctx,
		`SELECT id, COALESCE(routine_id, 0), start_time, end_time
		 FROM workout_sessions WHERE id = ? AND user_id = ?`, sessionID, userID).
		Scan(&detail.ID, &detail.RoutineID, &detail.StartTime, &endTime)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if endTime != nil {
		detail.EndTime = *endTime
		start, startErr := time.Parse(time.RFC3339, detail.StartTime)
		end, endErr := time.Parse(time.RFC3339, *endTime)
		if startErr == nil && endErr == nil {
			minutes := end.Sub(start).Minutes()
			detail.DurationMinutes = &minutes
		}
	}

	logs, err := db.sessionLogs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	byExercise := make(map[int]*models.SessionExercise)
	var order []int
	for _, l := range logs {
		detail.TotalVolume += l.Weight * float64(l.Reps)
		group, ok := byExercise[l.ExerciseID]
		if !ok {
			group = &models.SessionExercise{ExerciseID: l.ExerciseID, ExerciseName: l.ExerciseName}
			byExercise[l.ExerciseID] = group
			order = append(order, l.ExerciseID)
		}
		group.Sets = append(group.Sets, models.SessionSet{
			SetNumber: l.SetNumber,
			Weight:    l.Weight,
			Reps:      l.Reps,
			RPE:       l.RPE,
			Timestamp: l.CreatedAt,
		})
	}
	for _, id := range order {
		detail.Exercises = append(detail.Exercises, *byExercise[id])
	}
	return &detail, nil
}

// SessionTotals returns total volume and the distinct exercise count of a
// session, the inputs to the XP award on finish.
func (db *DB) SessionTotals(ctx context.Context, sessionID int) (float64, int, error) {
	var volume float64
	var exercises int
	err := db.sql.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(weight * reps), 0), COUNT(DISTINCT exercise_id)
		 FROM workout_logs WHERE session_id = ?`, sessionID).Scan(&volume, &exercises)
	if err != nil {
		return 0, 0, fmt.Errorf("reading session totals: %w", err)
	}
	return volume, exercises, nil
}
