// Package models holds the wire-level types shared by the API client and the
// reference server. Field names follow the documented REST contract.
package models

// User is the authenticated user's profile snapshot as returned by
// GET /api/auth/me and GET /api/profile.
type User struct {
	ID            int     `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email,omitempty"`
	Level         int     `json:"level"`
	XP            int     `json:"xp"`
	Coins         int     `json:"coins"`
	XPProgress    float64 `json:"xp_progress"`
	AvatarIcon    string  `json:"avatar_icon,omitempty"`
	UsernameColor string  `json:"username_color,omitempty"`
	IsVerified    bool    `json:"is_verified"`
	Title         string  `json:"title,omitempty"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// LoginResult is the response of POST /api/auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Exercise is a catalog entry from GET /api/exercises.
type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	Description string `json:"description,omitempty"`
}

// Routine is a routine summary from GET /api/routines.
type Routine struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// RoutineExercise is one ordered slot in a routine, joined with its exercise.
type RoutineExercise struct {
	ID           int    `json:"id"`
	ExerciseID   int    `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
	MuscleGroup  string `json:"muscle_group,omitempty"`
	Sets         int    `json:"sets"`
	RepsTarget   string `json:"reps_target"`
	Order        int    `json:"order"`
}

// RoutineDetail is a routine with its full exercise list
// (GET /api/routines/{id}).
type RoutineDetail struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
	Exercises   []RoutineExercise `json:"exercises"`
}

// NewRoutineExercise is one exercise slot in a routine creation request.
type NewRoutineExercise struct {
	ExerciseID int    `json:"exercise_id"`
	Sets       int    `json:"sets"`
	RepsTarget string `json:"reps_target"`
}

// NewRoutine is the body of POST /api/routines.
type NewRoutine struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	IsPublic    bool                 `json:"is_public,omitempty"`
	Exercises   []NewRoutineExercise `json:"exercises"`
}

// SetLog is the body of POST /api/workouts/logs. SetNumber is 1-based and
// scoped to the client's current exercise view.
type SetLog struct {
	SessionID  int     `json:"session_id"`
	ExerciseID int     `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	RPE        *int    `json:"rpe,omitempty"`
}

// WorkoutSession is a session summary from GET /api/workouts/sessions.
type WorkoutSession struct {
	ID        int    `json:"id"`
	RoutineID int    `json:"routine_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
}

// SessionSet is one logged set inside a session detail.
type SessionSet struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	RPE       *int    `json:"rpe,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// SessionExercise groups the logged sets of one exercise in a session detail.
type SessionExercise struct {
	ExerciseID   int          `json:"exercise_id"`
	ExerciseName string       `json:"exercise_name"`
	Sets         []SessionSet `json:"sets"`
}

// SessionDetail is the full breakdown of one session
// (GET /api/workouts/sessions/{id}).
type SessionDetail struct {
	ID              int               `json:"id"`
	RoutineID       int               `json:"routine_id"`
	StartTime       string            `json:"start_time"`
	EndTime         string            `json:"end_time,omitempty"`
	DurationMinutes *float64          `json:"duration_minutes,omitempty"`
	TotalVolume     float64           `json:"total_volume"`
	Exercises       []SessionExercise `json:"exercises"`
}

// FinishResult is the gamification outcome of POST
// /api/workouts/sessions/{id}/finish.
type FinishResult struct {
	XPGained        int  `json:"xp_gained"`
	TotalXP         int  `json:"total_xp"`
	Level           int  `json:"level"`
	LevelUp         bool `json:"level_up,omitempty"`
	NewLevel        int  `json:"new_level,omitempty"`
	CoinsEarned     int  `json:"coins_earned,omitempty"`
	CurrentStreak   int  `json:"current_streak"`
	LongestStreak   int  `json:"longest_streak"`
	StreakMilestone bool `json:"streak_milestone"`
}

// MuscleVolume is one bar of GET /api/analytics/volume.
type MuscleVolume struct {
	MuscleGroup string  `json:"muscle_group"`
	Volume      float64 `json:"volume"`
}

// WeeklyVolume is one point of GET /api/analytics/weekly-volume,
// keyed by ISO week ("2026-W08").
type WeeklyVolume struct {
	Week   string  `json:"week"`
	Volume float64 `json:"volume"`
}

// PersonalRecord is the best estimated 1RM for one exercise.
type PersonalRecord struct {
	ExerciseID   int     `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	MuscleGroup  string  `json:"muscle_group,omitempty"`
	Estimated1RM float64 `json:"estimated_1rm"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Date         string  `json:"date"`
}

// ProgressionPoint is the daily best estimated 1RM for one exercise.
type ProgressionPoint struct {
	Date         string  `json:"date"`
	Estimated1RM float64 `json:"estimated_1rm"`
}

// HeatmapDay is one cell of the training-frequency heatmap.
type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsSummary is GET /api/analytics/stats-summary.
type StatsSummary struct {
	TotalSessions    int     `json:"total_sessions"`
	RecentSessions   int     `json:"recent_sessions"`
	TotalVolumeKg    float64 `json:"total_volume_kg"`
	FavoriteExercise string  `json:"favorite_exercise"`
}

// ShopItem is a purchasable cosmetic from GET /api/profile/shop.
type ShopItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type"`
	Value         string `json:"value"`
	Price         int    `json:"price"`
	RequiredLevel int    `json:"required_level"`
	CanBuy        bool   `json:"can_buy"`
	Locked        bool   `json:"locked"`
}

// PurchaseResult is the outcome of POST /api/profile/shop/purchase/{id}.
type PurchaseResult struct {
	Msg            string `json:"msg"`
	RemainingCoins int    `json:"remaining_coins"`
	ItemApplied    bool   `json:"item_applied"`
}

// Achievement is one entry of GET /api/profile/achievements, flagged with
// whether the current user has unlocked it.
type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Category    string `json:"category,omitempty"`
	XPReward    int    `json:"xp_reward"`
	CoinsReward int    `json:"coins_reward"`
	Unlocked    bool   `json:"unlocked"`
}

// LevelReward is one row of the level rewards table.
type LevelReward struct {
	Level    int    `json:"level"`
	Reward   string `json:"reward"`
	Type     string `json:"type"`
	Unlocked bool   `json:"unlocked"`
}

// FeedAuthor is the author block on a community feed entry.
type FeedAuthor struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Level         int    `json:"level"`
	AvatarIcon    string `json:"avatar_icon,omitempty"`
	UsernameColor string `json:"username_color,omitempty"`
}

// FeedRoutine is one public routine in the community feed.
type FeedRoutine struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	CreatedAt     string      `json:"created_at,omitempty"`
	ExerciseCount int         `json:"exercise_count"`
	Likes         int         `json:"likes"`
	UserLiked     bool        `json:"user_liked"`
	UserSaved     bool        `json:"user_saved"`
	IsOwn         bool        `json:"is_own"`
	Author        *FeedAuthor `json:"author,omitempty"`
}

// LikeResult is the authoritative like state returned by the toggle endpoint.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// SaveResult is the authoritative saved state returned by the save endpoint.
type SaveResult struct {
	Saved        bool   `json:"saved"`
	Msg          string `json:"msg,omitempty"`
	NewRoutineID int    `json:"new_routine_id,omitempty"`
}

// FeedExercise is one row of a public routine's exercise detail.
type FeedExercise struct {
	ExerciseName string `json:"exercise_name"`
	MuscleGroup  string `json:"muscle_group,omitempty"`
	Sets         int    `json:"sets"`
	RepsTarget   string `json:"reps_target"`
}
