package models

import (
	"math"
	"testing"
	"time"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{2500, 6},
		{-50, 1},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPForLevelInvertsLevelForXP(t *testing.T) {
	for level := 1; level <= 30; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)) = %d", level, got)
		}
		if level > 1 {
			if got := LevelForXP(threshold - 1); got != level-1 {
				t.Errorf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
			}
		}
	}
}

func TestXPProgress(t *testing.T) {
	tests := []struct {
		xp   int
		want float64
	}{
		{0, 0},
		{50, 50},   // level 1 spans 0..100
		{100, 0},   // start of level 2
		{250, 50},  // level 2 spans 100..400
		{400, 0},   // start of level 3
	}
	for _, tt := range tests {
		if got := XPProgress(tt.xp); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("XPProgress(%d) = %.2f, want %.2f", tt.xp, got, tt.want)
		}
	}
}

func TestEstimated1RM(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 1, 100},
		{100, 0, 100},
		{100, 10, 100 * (1 + 10.0/30)},
		{60, 5, 60 * (1 + 5.0/30)},
	}
	for _, tt := range tests {
		if got := Estimated1RM(tt.weight, tt.reps); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Estimated1RM(%.1f, %d) = %.3f, want %.3f", tt.weight, tt.reps, got, tt.want)
		}
	}
}

func TestApplyStreak(t *testing.T) {
	now := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)
	earlierToday := time.Date(2026, 8, 29, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		last        *time.Time
		current     int
		longest     int
		wantCurrent int
		wantLongest int
		wantUpdated bool
	}{
		{"first ever", nil, 0, 0, 1, 1, true},
		{"same day no-op", &earlierToday, 4, 6, 4, 6, false},
		{"yesterday extends", &yesterday, 4, 6, 5, 6, true},
		{"extends past record", &yesterday, 6, 6, 7, 7, true},
		{"gap resets", &lastWeek, 9, 12, 1, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, _ := ApplyStreak(tt.last, tt.current, tt.longest, now)
			if update.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", update.Current, tt.wantCurrent)
			}
			if update.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", update.Longest, tt.wantLongest)
			}
			if update.Updated != tt.wantUpdated {
				t.Errorf("Updated = %v, want %v", update.Updated, tt.wantUpdated)
			}
		})
	}
}

// TestApplyStreakAcrossMidnight verifies a late-night session followed by an
// early-morning one counts as consecutive days.
func TestApplyStreakAcrossMidnight(t *testing.T) {
	lateNight := time.Date(2026, 8, 28, 23, 50, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 8, 29, 0, 10, 0, 0, time.UTC)

	update, _ := ApplyStreak(&lateNight, 2, 2, earlyMorning)
	if !update.Updated || update.Current != 3 {
		t.Errorf("got current=%d updated=%v, want 3/true", update.Current, update.Updated)
	}
}
