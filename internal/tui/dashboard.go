package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/session"
)

const recentSessionRows = 5

// dashboardModel is the landing tab: profile summary, lifetime stats, and
// recent sessions.
type dashboardModel struct {
	client  *api.Client
	session *session.Store

	xpBar    progress.Model
	stats    *models.StatsSummary
	sessions []models.WorkoutSession
	cursor   int
	detail   *models.SessionDetail
	loaded   bool
}

type dashboardDataMsg struct {
	stats    *models.StatsSummary
	sessions []models.WorkoutSession
}

type sessionDetailMsg struct {
	detail *models.SessionDetail
}

func newDashboardModel(client *api.Client, sess *session.Store) dashboardModel {
	bar := progress.New(
		progress.WithGradient("#ff8700", "#ffff00"),
		progress.WithWidth(40),
	)
	return dashboardModel{client: client, session: sess, xpBar: bar}
}

func (m dashboardModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			wg          sync.WaitGroup
			stats       *models.StatsSummary
			sessions    []models.WorkoutSession
			statsErr    error
			sessionsErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			stats, statsErr = client.StatsSummary(ctx)
		}()
		go func() {
			defer wg.Done()
			sessions, sessionsErr = client.ListSessions(ctx)
		}()
		wg.Wait()

		if statsErr != nil {
			return errMsg{statsErr}
		}
		if sessionsErr != nil {
			return errMsg{sessionsErr}
		}
		return dashboardDataMsg{stats: stats, sessions: sessions}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.stats = msg.stats
		m.sessions = msg.sessions
		m.cursor = 0
		m.detail = nil
		m.loaded = true
		return m, nil
	case sessionDetailMsg:
		m.detail = msg.detail
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.load()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.detail = nil
			}
		case "down", "j":
			if m.cursor < m.visibleSessions()-1 {
				m.cursor++
				m.detail = nil
			}
		case "enter":
			if m.detail != nil {
				m.detail = nil
				return m, nil
			}
			if m.cursor < m.visibleSessions() {
				return m, m.loadDetail(m.sessions[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m dashboardModel) visibleSessions() int {
	if len(m.sessions) > recentSessionRows {
		return recentSessionRows
	}
	return len(m.sessions)
}

func (m dashboardModel) loadDetail(sessionID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		detail, err := client.SessionDetail(ctx, sessionID)
		if err != nil {
			return errMsg{err}
		}
		return sessionDetailMsg{detail: detail}
	}
}

func (m dashboardModel) View() string {
	user := m.session.User()
	if user == nil {
		return ""
	}

	name := user.Username
	if user.Title != "" {
		name += " " + dimStyle.Render("· "+user.Title)
	}
	if user.IsVerified {
		name += " " + successStyle.Render("✓")
	}

	out := "\n" + valueStyle.Render(name) + "\n"
	out += labelStyle.Render("Level: ") + valueStyle.Render(fmt.Sprintf("%d", user.Level)) +
		dimStyle.Render(fmt.Sprintf("  (%d XP)", user.XP)) +
		labelStyle.Render("   Coins: ") + valueStyle.Render(fmt.Sprintf("%d", user.Coins)) + "\n"
	out += labelStyle.Render("Next level: ") + m.xpBar.ViewAs(user.XPProgress/100) + "\n"
	out += labelStyle.Render("Streak: ") +
		valueStyle.Render(fmt.Sprintf("%d days", user.CurrentStreak)) +
		dimStyle.Render(fmt.Sprintf("  best %d", user.LongestStreak)) + "\n"

	if !m.loaded {
		out += "\n" + dimStyle.Render("loading...")
		return out
	}

	if m.stats != nil {
		out += "\n" + sectionStyle.Render("┃ Lifetime") + "\n"
		out += labelStyle.Render("  Workouts: ") + valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalSessions)) +
			dimStyle.Render(fmt.Sprintf("  (%d this month)", m.stats.RecentSessions)) + "\n"
		out += labelStyle.Render("  Volume: ") + valueStyle.Render(formatVolume(m.stats.TotalVolumeKg)) + "\n"
		out += labelStyle.Render("  Favorite: ") + valueStyle.Render(m.stats.FavoriteExercise) + "\n"
	}

	out += "\n" + sectionStyle.Render("┃ Recent Sessions") + "\n"
	if len(m.sessions) == 0 {
		out += dimStyle.Render("  nothing logged yet") + "\n"
	}
	for i, s := range m.sessions {
		if i >= recentSessionRows {
			break
		}
		marker := "  "
		if i == m.cursor {
			marker = selectedStyle.Render("▸ ")
		}
		out += marker + dimStyle.Render(formatSessionTime(s.StartTime)) + "  " +
			valueStyle.Render(fmt.Sprintf("session #%d", s.ID))
		if s.EndTime == "" {
			out += " " + dimStyle.Render("(open)")
		}
		out += "\n"
		if m.detail != nil && m.detail.ID == s.ID {
			out += m.viewDetail()
		}
	}

	out += "\n" + footerKeys("enter", "detail", "r", "refresh", "1-6", "tabs", "q", "quit")
	return out
}

func (m dashboardModel) viewDetail() string {
	d := m.detail
	out := labelStyle.Render("    Volume: ") + valueStyle.Render(formatVolume(d.TotalVolume))
	if d.DurationMinutes != nil {
		out += labelStyle.Render("   Duration: ") + valueStyle.Render(fmt.Sprintf("%.0f min", *d.DurationMinutes))
	}
	out += "\n"
	for _, ex := range d.Exercises {
		out += "    " + valueStyle.Render(ex.ExerciseName) + "\n"
		for _, set := range ex.Sets {
			out += dimStyle.Render(fmt.Sprintf("      %d: %.1fkg x %d", set.SetNumber, set.Weight, set.Reps)) + "\n"
		}
	}
	return out
}

func formatVolume(kg float64) string {
	if kg >= 1000 {
		return fmt.Sprintf("%.1ft", kg/1000)
	}
	return fmt.Sprintf("%.0fkg", kg)
}

func formatSessionTime(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Local().Format("Jan 02 15:04")
}
