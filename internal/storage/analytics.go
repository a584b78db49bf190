package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// VolumeByMuscle returns total volume per muscle group for logs in the last
// days.
func (db *DB) VolumeByMuscle(ctx context.Context, userID, days int, now time.Time) ([]models.MuscleVolume, error) {
	cutoff := now.UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := db.sql.QueryContext(ctx,
		`SELECT COALESCE(e.muscle_group, 'Uncategorized'), SUM(l.weight * l.reps)
		 FROM workout_logs l
		 JOIN workout_sessions s ON s.id = l.session_id
		 JOIN exercises e ON e.id = l.exercise_id
		 WHERE s.user_id = ? AND l.created_at >= ?
		 GROUP BY e.muscle_group
		 ORDER BY SUM(l.weight * l.reps) DESC`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying volume: %w", err)
	}
	defer rows.Close()

	var volume []models.MuscleVolume
	for rows.Next() {
		var v models.MuscleVolume
		if err := rows.Scan(&v.MuscleGroup, &v.Volume); err != nil {
			return nil, fmt.Errorf("scanning volume: %w", err)
		}
		v.Volume = round2(v.Volume)
		volume = append(volume, v)
	}
	return volume, rows.Err()
}

// logRow is the slice of a workout log the Go-side aggregations need.
type logRow struct {
	ExerciseID   int
	ExerciseName string
	MuscleGroup  string
	Weight       float64
	Reps         int
	CreatedAt    time.Time
}

func (db *DB) userLogs(ctx context.Context, userID int, since time.Time) ([]logRow, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT l.exercise_id, e.name, COALESCE(e.muscle_group, ''), l.weight, l.reps, l.created_at
		 FROM workout_logs l
		 JOIN workout_sessions s ON s.id = l.session_id
		 JOIN exercises e ON e.id = l.exercise_id
		 WHERE s.user_id = ? AND l.created_at >= ?
		 ORDER BY l.created_at`, userID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying logs: %w", err)
	}
	defer rows.Close()

	var logs []logRow
	for rows.Next() {
		var l logRow
		var createdAt string
		if err := rows.Scan(&l.ExerciseID, &l.ExerciseName, &l.MuscleGroup, &l.Weight, &l.Reps, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing log timestamp: %w", err)
		}
		l.CreatedAt = t
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// WeeklyVolume returns total volume per ISO week over the last weeks.
func (db *DB) WeeklyVolume(ctx context.Context, userID, weeks int, now time.Time) ([]models.WeeklyVolume, error) {
	logs, err := db.userLogs(ctx, userID, now.UTC().AddDate(0, 0, -7*weeks))
	if err != nil {
		return nil, err
	}

	byWeek := make(map[string]float64)
	for _, l := range logs {
		year, week := l.CreatedAt.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		byWeek[key] += l.Weight * float64(l.Reps)
	}

	keys := make([]string, 0, len(byWeek))
	for k := range byWeek {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]models.WeeklyVolume, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.WeeklyVolume{Week: k, Volume: round2(byWeek[k])})
	}
	return result, nil
}

// PersonalRecords returns the best estimated 1RM per exercise across the
// user's whole history.
func (db *DB) PersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecord, error) {
	logs, err := db.userLogs(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}

	best := make(map[int]models.PersonalRecord)
	var order []int
	for _, l := range logs {
		oneRM := models.Estimated1RM(l.Weight, l.Reps)
		pr, seen := best[l.ExerciseID]
		if !seen {
			order = append(order, l.ExerciseID)
		}
		if !seen || oneRM > pr.Estimated1RM {
			best[l.ExerciseID] = models.PersonalRecord{
				ExerciseID:   l.ExerciseID,
				ExerciseName: l.ExerciseName,
				MuscleGroup:  l.MuscleGroup,
				Estimated1RM: round2(oneRM),
				Weight:       l.Weight,
				Reps:         l.Reps,
				Date:         l.CreatedAt.Format(time.RFC3339),
			}
		}
	}

	records := make([]models.PersonalRecord, 0, len(order))
	for _, id := range order {
		records = append(records, best[id])
	}
	return records, nil
}

// Progression returns the daily best estimated 1RM for one exercise over the
// last days.
func (db *DB) Progression(ctx context.Context, userID, exerciseID, days int, now time.Time) ([]models.ProgressionPoint, error) {
	logs, err := db.userLogs(ctx, userID, now.UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	daily := make(map[string]float64)
	for _, l := range logs {
		if l.ExerciseID != exerciseID {
			continue
		}
		day := l.CreatedAt.Format("2006-01-02")
		oneRM := models.Estimated1RM(l.Weight, l.Reps)
		if oneRM > daily[day] {
			daily[day] = oneRM
		}
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]models.ProgressionPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, models.ProgressionPoint{Date: d, Estimated1RM: round2(daily[d])})
	}
	return points, nil
}

// Heatmap returns sessions per training day over the last days.
func (db *DB) Heatmap(ctx context.Context, userID, days int, now time.Time) ([]models.HeatmapDay, error) {
	cutoff := now.UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := db.sql.QueryContext(ctx,
		`SELECT date(start_time), COUNT(*)
		 FROM workout_sessions
		 WHERE user_id = ? AND start_time >= ?
		 GROUP BY date(start_time)
		 ORDER BY date(start_time)`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying heatmap: %w", err)
	}
	defer rows.Close()

	var heatmap []models.HeatmapDay
	for rows.Next() {
		var day models.HeatmapDay
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, fmt.Errorf("scanning heatmap: %w", err)
		}
		heatmap = append(heatmap, day)
	}
	return heatmap, rows.Err()
}

// StatsSummary returns overall training statistics for a user.
func (db *DB) StatsSummary(ctx context.Context, userID int, now time.Time) (*models.StatsSummary, error) {
	var summary models.StatsSummary
	cutoff := now.UTC().AddDate(0, 0, -30).Format(time.RFC3339)
	err := db.sql.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM workout_sessions WHERE user_id = ?),
			(SELECT COUNT(*) FROM workout_sessions WHERE user_id = ? AND start_time >= ?),
			(SELECT COALESCE(SUM(l.weight * l.reps), 0)
			 FROM workout_logs l JOIN workout_sessions s ON s.id = l.session_id
			 WHERE s.user_id = ?)`,
		userID, userID, cutoff, userID).
		Scan(&summary.TotalSessions, &summary.RecentSessions, &summary.TotalVolumeKg)
	if err != nil {
		return nil, fmt.Errorf("querying stats summary: %w", err)
	}
	summary.TotalVolumeKg = round2(summary.TotalVolumeKg)

	summary.FavoriteExercise = "N/A"
	rows, err := db.sql.QueryContext(ctx,
		`SELECT e.name FROM workout_logs l
		 JOIN workout_sessions s ON s.id = l.session_id
		 JOIN exercises e ON e.id = l.exercise_id
		 WHERE s.user_id = ?
		 GROUP BY e.name ORDER BY COUNT(l.id) DESC LIMIT 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorite exercise: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&summary.FavoriteExercise); err != nil {
			return nil, fmt.Errorf("scanning favorite exercise: %w", err)
		}
	}
	return &summary, rows.Err()
}
