// Package tui is the terminal frontend: a tabbed bubbletea application over
// the REST client, gated on the session store.
package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/session"
	"github.com/meltforce/ironlog/internal/workout"
)

// Tab identifies one top-level view.
type Tab int

const (
	TabDashboard Tab = iota
	TabRoutines
	TabWorkout
	TabAnalytics
	TabCommunity
	TabProfile
)

var tabNames = []string{"Dashboard", "Routines", "Workout", "Analytics", "Community", "Profile"}

const requestTimeout = 15 * time.Second

// App is the root model. All tabs except the auth screen require an
// authenticated session; until the stored token is validated the app shows a
// loading line, and with no session it shows the login form.
type App struct {
	client  *api.Client
	session *session.Store
	log     *slog.Logger

	width, height int
	tab           Tab
	status        string
	quitting      bool

	auth      authModel
	dashboard dashboardModel
	routines  routinesModel
	logger    loggerModel
	analytics analyticsModel
	community communityModel
	profile   profileModel
}

// NewApp wires the root model. The session store should not yet be
// initialized; Init validates any stored token.
func NewApp(client *api.Client, sess *session.Store, log *slog.Logger) App {
	return App{
		client:    client,
		session:   sess,
		log:       log,
		tab:       TabDashboard,
		auth:      newAuthModel(client, sess),
		dashboard: newDashboardModel(client, sess),
		routines:  newRoutinesModel(client),
		analytics: newAnalyticsModel(client),
		community: newCommunityModel(client),
		profile:   newProfileModel(client),
	}
}

type sessionInitMsg struct{}

// errMsg is a failed fetch surfaced on the status line.
type errMsg struct{ err error }

// statusMsg is a transient one-line notice.
type statusMsg string

// startWorkoutMsg asks the app to open a logging session for a routine.
type startWorkoutMsg struct{ routineID int }

// loggedInMsg signals that the session store now holds a user.
type loggedInMsg struct{}

func (a App) Init() tea.Cmd {
	client, sess := a.client, a.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = sess.Initialize(ctx, client)
		return sessionInitMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case sessionInitMsg:
		if a.session.User() != nil {
			return a, a.dashboard.load()
		}
		return a, a.auth.focusCmd()

	case loggedInMsg:
		a.tab = TabDashboard
		a.status = ""
		return a, a.dashboard.load()

	case errMsg:
		if api.IsAuthError(msg.err) {
			a.session.Logout()
			a.status = "session expired, log in again"
			return a, a.auth.focusCmd()
		}
		a.status = msg.err.Error()
		// Views also see the error so they can clear in-flight state.
		return a.route(msg)

	case statusMsg:
		a.status = string(msg)
		return a, nil

	case startWorkoutMsg:
		ctrl := workout.NewController(a.client, a.log)
		a.logger = newLoggerModel(ctrl)
		a.tab = TabWorkout
		return a, a.logger.begin(msg.routineID)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		if a.session.User() == nil {
			break
		}
		if cmd, handled := a.handleGlobalKey(msg.String()); handled {
			return a, cmd
		}
	}

	return a.route(msg)
}

// handleGlobalKey handles tab switching and quit when no text input is
// focused on the active tab.
func (a *App) handleGlobalKey(key string) (tea.Cmd, bool) {
	if a.activeInputFocused() {
		return nil, false
	}

	switch key {
	case "q":
		a.quitting = true
		return tea.Quit, true
	case "1":
		return a.switchTab(TabDashboard), true
	case "2":
		return a.switchTab(TabRoutines), true
	case "3":
		if a.logger.ctrl == nil {
			a.status = "no active workout, start one from Routines"
			return nil, true
		}
		return a.switchTab(TabWorkout), true
	case "4":
		return a.switchTab(TabAnalytics), true
	case "5":
		return a.switchTab(TabCommunity), true
	case "6":
		return a.switchTab(TabProfile), true
	}
	return nil, false
}

func (a *App) activeInputFocused() bool {
	switch a.tab {
	case TabRoutines:
		return a.routines.inputFocused()
	case TabWorkout:
		return a.logger.inputFocused()
	case TabProfile:
		return a.profile.inputFocused()
	}
	return false
}

func (a *App) switchTab(tab Tab) tea.Cmd {
	if a.tab == tab {
		return nil
	}
	a.tab = tab
	a.status = ""
	switch tab {
	case TabDashboard:
		return a.dashboard.load()
	case TabRoutines:
		return a.routines.load()
	case TabAnalytics:
		return a.analytics.load()
	case TabCommunity:
		return a.community.load()
	case TabProfile:
		return a.profile.load()
	}
	return nil
}

// route forwards a message to the active view.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.session.User() == nil {
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd
	}

	switch a.tab {
	case TabDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case TabRoutines:
		a.routines, cmd = a.routines.Update(msg)
	case TabWorkout:
		a.logger, cmd = a.logger.Update(msg)
	case TabAnalytics:
		a.analytics, cmd = a.analytics.Update(msg)
	case TabCommunity:
		a.community, cmd = a.community.Update(msg)
	case TabProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.quitting {
		return ""
	}

	if a.session.Loading() {
		return containerStyle.Render(headerStyle.Render(" IronLog ") + "\n\n" +
			dimStyle.Render("checking saved login..."))
	}

	if a.session.User() == nil {
		return a.auth.View()
	}

	var body string
	switch a.tab {
	case TabDashboard:
		body = a.dashboard.View()
	case TabRoutines:
		body = a.routines.View()
	case TabWorkout:
		body = a.logger.View()
	case TabAnalytics:
		body = a.analytics.View()
	case TabCommunity:
		body = a.community.View()
	case TabProfile:
		body = a.profile.View()
	}

	out := a.tabBar() + "\n" + body
	if a.status != "" {
		out += "\n" + errorStyle.Render(a.status)
	}
	return containerStyle.Render(out)
}

func (a App) tabBar() string {
	var tabs []string
	for i, name := range tabNames {
		label := name
		if Tab(i) == TabWorkout && a.logger.ctrl != nil && a.logger.ctrl.Phase() == workout.Active {
			label = name + "*"
		}
		if Tab(i) == a.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return headerStyle.Render(" IronLog ") + " " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
