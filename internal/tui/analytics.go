package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
)

const (
	volumeSparkWidth  = 36
	volumeSparkHeight = 4
	muscleBarWidth    = 24
	prRows            = 8
	heatmapDays       = 56
)

// analyticsModel is the Analytics tab: weekly volume trend, per-muscle
// split, and personal records.
type analyticsModel struct {
	client *api.Client

	weekly  []models.WeeklyVolume
	muscles []models.MuscleVolume
	records []models.PersonalRecord
	heatmap []models.HeatmapDay
	loaded  bool
}

type analyticsDataMsg struct {
	weekly  []models.WeeklyVolume
	muscles []models.MuscleVolume
	records []models.PersonalRecord
	heatmap []models.HeatmapDay
}

func newAnalyticsModel(client *api.Client) analyticsModel {
	return analyticsModel{client: client}
}

func (m analyticsModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			wg      sync.WaitGroup
			weekly  []models.WeeklyVolume
			muscles []models.MuscleVolume
			records []models.PersonalRecord
			heatmap []models.HeatmapDay
			errs    [4]error
		)
		wg.Add(4)
		go func() {
			defer wg.Done()
			weekly, errs[0] = client.WeeklyVolume(ctx, 12)
		}()
		go func() {
			defer wg.Done()
			muscles, errs[1] = client.Volume(ctx, 30)
		}()
		go func() {
			defer wg.Done()
			records, errs[2] = client.PersonalRecords(ctx)
		}()
		go func() {
			defer wg.Done()
			heatmap, errs[3] = client.Heatmap(ctx, heatmapDays)
		}()
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return errMsg{err}
			}
		}
		return analyticsDataMsg{weekly: weekly, muscles: muscles, records: records, heatmap: heatmap}
	}
}

func (m analyticsModel) Update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		m.weekly = msg.weekly
		m.muscles = msg.muscles
		m.records = msg.records
		m.heatmap = msg.heatmap
		m.loaded = true
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.load()
		}
	}
	return m, nil
}

func (m analyticsModel) View() string {
	if !m.loaded {
		return "\n" + dimStyle.Render("loading analytics...")
	}

	out := "\n" + sectionStyle.Render("┃ Weekly Volume") + "\n"
	out += m.volumeSparkline() + "\n"
	if n := len(m.weekly); n > 0 {
		latest := m.weekly[n-1]
		out += labelStyle.Render("  Latest: ") + valueStyle.Render(formatVolume(latest.Volume)) +
			dimStyle.Render("  "+latest.Week) + "\n"
	}

	out += "\n" + sectionStyle.Render("┃ Muscle Split (30d)") + "\n"
	out += m.muscleBars()

	out += "\n" + sectionStyle.Render("┃ Activity (8 weeks)") + "\n"
	out += m.activityStrip() + "\n"

	out += "\n" + sectionStyle.Render("┃ Personal Records") + "\n"
	if len(m.records) == 0 {
		out += dimStyle.Render("  log some sets first") + "\n"
	}
	for i, pr := range m.records {
		if i >= prRows {
			out += dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.records)-prRows)) + "\n"
			break
		}
		out += labelStyle.Render("  "+pr.ExerciseName+": ") +
			valueStyle.Render(fmt.Sprintf("%.1fkg e1RM", pr.Estimated1RM)) +
			dimStyle.Render(fmt.Sprintf("  (%.1fkg x %d)", pr.Weight, pr.Reps)) + "\n"
	}

	out += "\n" + footerKeys("r", "refresh", "1-6", "tabs")
	return out
}

func (m analyticsModel) volumeSparkline() string {
	if len(m.weekly) == 0 {
		return dimStyle.Render("  no data")
	}
	spark := sparkline.New(volumeSparkWidth, volumeSparkHeight)
	for _, w := range m.weekly {
		spark.Push(w.Volume)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

// activityStrip renders one cell per day for the heatmap window, oldest
// first, shaded by session count.
func (m analyticsModel) activityStrip() string {
	counts := make(map[string]int, len(m.heatmap))
	for _, day := range m.heatmap {
		counts[day.Date] = day.Count
	}

	var cells strings.Builder
	today := time.Now()
	for i := heatmapDays - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format("2006-01-02")
		switch n := counts[key]; {
		case n == 0:
			cells.WriteString("·")
		case n == 1:
			cells.WriteString("▒")
		default:
			cells.WriteString("█")
		}
	}
	return "  " + sparklineStyle.Render(cells.String())
}

func (m analyticsModel) muscleBars() string {
	if len(m.muscles) == 0 {
		return dimStyle.Render("  no data") + "\n"
	}

	max := 0.0
	for _, mv := range m.muscles {
		if mv.Volume > max {
			max = mv.Volume
		}
	}

	var out string
	for _, mv := range m.muscles {
		width := 1
		if max > 0 {
			width = int(mv.Volume / max * muscleBarWidth)
			if width < 1 {
				width = 1
			}
		}
		out += labelStyle.Render(fmt.Sprintf("  %-12s", mv.MuscleGroup)) +
			sparklineStyle.Render(strings.Repeat("█", width)) +
			dimStyle.Render(" "+formatVolume(mv.Volume)) + "\n"
	}
	return out
}
