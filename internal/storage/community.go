package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meltforce/ironlog/internal/models"
)

// Feed returns all public routines, newest first, with like/save flags for
// the viewing user.
func (db *DB) Feed(ctx context.Context, viewerID int) ([]models.FeedRoutine, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT r.id, r.name, COALESCE(r.description, ''), r.created_at, r.user_id,
		        u.username, u.level, u.avatar_icon, u.username_color,
		        (SELECT COUNT(*) FROM routine_exercises re WHERE re.routine_id = r.id),
		        (SELECT COUNT(*) FROM routine_likes rl WHERE rl.routine_id = r.id),
		        EXISTS (SELECT 1 FROM routine_likes rl WHERE rl.routine_id = r.id AND rl.user_id = ?),
		        EXISTS (SELECT 1 FROM saved_routines sr WHERE sr.original_routine_id = r.id AND sr.user_id = ?)
		 FROM routines r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.is_public = 1
		 ORDER BY r.created_at DESC, r.id DESC`, viewerID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("querying feed: %w", err)
	}
	defer rows.Close()

	var feed []models.FeedRoutine
	for rows.Next() {
		var entry models.FeedRoutine
		var author models.FeedAuthor
		var ownerID int
		err := rows.Scan(&entry.ID, &entry.Name, &entry.Description, &entry.CreatedAt, &ownerID,
			&author.Username, &author.Level, &author.AvatarIcon, &author.UsernameColor,
			&entry.ExerciseCount, &entry.Likes, &entry.UserLiked, &entry.UserSaved)
		if err != nil {
			return nil, fmt.Errorf("scanning feed entry: %w", err)
		}
		author.ID = ownerID
		entry.IsOwn = ownerID == viewerID
		entry.Author = &author
		feed = append(feed, entry)
	}
	return feed, rows.Err()
}

// routinePublic verifies the routine exists and is published, returning its
// owner.
func (db *DB) routinePublic(ctx context.Context, routineID int) (int, error) {
	var ownerID int
	err := db.sql.QueryRowContext(ctx,
		`SELECT user_id FROM routines WHERE id = ? AND is_public = 1`, routineID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("looking up public routine: %w", err)
	}
	return ownerID, nil
}

// ToggleLike flips a like on a public routine and returns the authoritative
// state.
func (db *DB) ToggleLike(ctx context.Context, routineID, userID int) (*models.LikeResult, error) {
	if _, err := db.routinePublic(ctx, routineID); err != nil {
		return nil, err
	}

	res, err := db.sql.ExecContext(ctx,
		`DELETE FROM routine_likes WHERE routine_id = ? AND user_id = ?`, routineID, userID)
	if err != nil {
		return nil, fmt.Errorf("removing like: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("removing like: %w", err)
	}

	liked := false
	if removed == 0 {
		_, err := db.sql.ExecContext(ctx,
			`INSERT INTO routine_likes (routine_id, user_id) VALUES (?, ?)`, routineID, userID)
		if err != nil {
			return nil, fmt.Errorf("adding like: %w", err)
		}
		liked = true
	}

	var likes int
	err = db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM routine_likes WHERE routine_id = ?`, routineID).Scan(&likes)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}
	return &models.LikeResult{Liked: liked, Likes: likes}, nil
}

// ErrOwnRoutine is returned when a user tries to save their own routine.
var ErrOwnRoutine = fmt.Errorf("cannot save own routine")

// SaveRoutine clones a public routine (exercises included) into the user's
// collection, or removes the saved marker when already saved.
func (db *DB) SaveRoutine(ctx context.Context, routineID, userID int) (*models.SaveResult, error) {
	ownerID, err := db.routinePublic(ctx, routineID)
	if err != nil {
		return nil, err
	}
	if ownerID == userID {
		return nil, ErrOwnRoutine
	}

	res, err := db.sql.ExecContext(ctx,
		`DELETE FROM saved_routines WHERE original_routine_id = ? AND user_id = ?`,
		routineID, userID)
	if err != nil {
		return nil, fmt.Errorf("removing saved routine: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("removing saved routine: %w", err)
	}
	if removed > 0 {
		return &models.SaveResult{Saved: false, Msg: "routine removed from your collection"}, nil
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var name, authorName string
	var description sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT r.name, r.description, u.username FROM routines r
		 JOIN users u ON u.id = r.user_id WHERE r.id = ?`, routineID).
		Scan(&name, &description, &authorName)
	if err != nil {
		return nil, fmt.Errorf("reading routine to clone: %w", err)
	}

	cloneRes, err := tx.ExecContext(ctx,
		`INSERT INTO routines (user_id, name, description, is_public) VALUES (?, ?, ?, 0)`,
		userID, fmt.Sprintf("%s (from %s)", name, authorName), description.String)
	if err != nil {
		return nil, fmt.Errorf("cloning routine: %w", err)
	}
	cloneID, err := cloneRes.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading clone id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO routine_exercises (routine_id, exercise_id, position, sets, reps_target)
		 SELECT ?, exercise_id, position, sets, reps_target
		 FROM routine_exercises WHERE routine_id = ?`, cloneID, routineID)
	if err != nil {
		return nil, fmt.Errorf("cloning routine exercises: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO saved_routines (user_id, original_routine_id) VALUES (?, ?)`,
		userID, routineID)
	if err != nil {
		return nil, fmt.Errorf("marking routine saved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing save: %w", err)
	}
	return &models.SaveResult{
		Saved:        true,
		Msg:          "routine saved to your collection",
		NewRoutineID: int(cloneID),
	}, nil
}

// FeedExercises returns a public routine's exercise detail.
func (db *DB) FeedExercises(ctx context.Context, routineID int) ([]models.FeedExercise, error) {
	if _, err := db.routinePublic(ctx, routineID); err != nil {
		return nil, err
	}

	rows, err := db.sql.QueryContext(ctx,
		`SELECT e.name, COALESCE(e.muscle_group, ''), re.sets, re.reps_target
		 FROM routine_exercises re
		 JOIN exercises e ON e.id = re.exercise_id
		 WHERE re.routine_id = ?
		 ORDER BY re.position`, routineID)
	if err != nil {
		return nil, fmt.Errorf("listing feed exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.FeedExercise
	for rows.Next() {
		var ex models.FeedExercise
		if err := rows.Scan(&ex.ExerciseName, &ex.MuscleGroup, &ex.Sets, &ex.RepsTarget); err != nil {
			return nil, fmt.Errorf("scanning feed exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}
