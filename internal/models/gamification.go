package models

import (
	"math"
	"time"
)

// LevelForXP converts accumulated XP into a level: floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// XPForLevel returns the XP threshold at which the given level starts.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * (level - 1) * 100
}

// XPProgress returns the percentage progress from the current level's
// threshold to the next one, clamped to [0, 100].
func XPProgress(xp int) float64 {
	level := LevelForXP(xp)
	floor := XPForLevel(level)
	ceil := XPForLevel(level + 1)
	if ceil == floor {
		return 100
	}
	p := float64(xp-floor) / float64(ceil-floor) * 100
	return math.Min(math.Max(p, 0), 100)
}

// Estimated1RM computes a one-repetition maximum via the Epley formula.
// A single rep is the lift itself.
func Estimated1RM(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// StreakUpdate is the outcome of applying a finished session to a streak.
type StreakUpdate struct {
	Current int
	Longest int
	Updated bool
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ApplyStreak advances a daily training streak for a session finished at now.
// Same-day sessions do not double-count; training yesterday extends the
// streak, any longer gap resets it to 1.
func ApplyStreak(last *time.Time, current, longest int, now time.Time) (StreakUpdate, time.Time) {
	today := dateOnly(now)
	if last != nil && dateOnly(*last).Equal(today) {
		return StreakUpdate{Current: current, Longest: longest, Updated: false}, *last
	}

	yesterday := today.AddDate(0, 0, -1)
	if last != nil && dateOnly(*last).Equal(yesterday) {
		current++
	} else {
		current = 1
	}
	if current > longest {
		longest = current
	}
	return StreakUpdate{Current: current, Longest: longest, Updated: true}, today
}
