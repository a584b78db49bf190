package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/session"
)

// authModel is the login/register form shown while the session store holds
// no user.
type authModel struct {
	client  *api.Client
	session *session.Store

	registering bool
	inputs      []textinput.Model
	focus       int
	busy        bool
	notice      string
}

const (
	fieldUsername = iota
	fieldPassword
	fieldEmail
)

func newAuthModel(client *api.Client, sess *session.Store) authModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	return authModel{
		client:  client,
		session: sess,
		inputs:  []textinput.Model{username, password, email},
	}
}

func (m authModel) focusCmd() tea.Cmd {
	return func() tea.Msg { return authFocusMsg{} }
}

type authFocusMsg struct{}
type authErrMsg struct{ err error }

func (m authModel) fieldCount() int {
	if m.registering {
		return 3
	}
	return 2
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authFocusMsg:
		return m, m.inputs[fieldUsername].Focus()

	case authErrMsg:
		m.busy = false
		m.notice = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1)
		case "shift+tab", "up":
			return m.moveFocus(-1)
		case "ctrl+r":
			m.registering = !m.registering
			m.notice = ""
			if !m.registering && m.focus == fieldEmail {
				return m.setFocus(fieldUsername)
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m authModel) moveFocus(delta int) (authModel, tea.Cmd) {
	next := (m.focus + delta + m.fieldCount()) % m.fieldCount()
	return m.setFocus(next)
}

func (m authModel) setFocus(next int) (authModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = next
	return m, m.inputs[m.focus].Focus()
}

func (m authModel) submit() (authModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())

	if username == "" || password == "" {
		m.notice = "username and password are required"
		return m, nil
	}
	if m.registering && email == "" {
		m.notice = "email is required"
		return m, nil
	}

	m.busy = true
	m.notice = ""
	client, sess, registering := m.client, m.session, m.registering

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if registering {
			if err := client.Register(ctx, username, email, password); err != nil {
				return authErrMsg{err}
			}
		}

		result, err := client.Login(ctx, username, password)
		if err != nil {
			return authErrMsg{err}
		}
		if err := sess.Login(ctx, client, result.AccessToken, result.User); err != nil {
			return authErrMsg{err}
		}
		return loggedInMsg{}
	}
}

func (m authModel) View() string {
	title := "Log in"
	if m.registering {
		title = "Create account"
	}

	out := headerStyle.Render(" IronLog ") + "\n\n"
	out += sectionStyle.Render(title) + "\n\n"
	out += labelStyle.Render("Username: ") + m.inputs[fieldUsername].View() + "\n"
	out += labelStyle.Render("Password: ") + m.inputs[fieldPassword].View() + "\n"
	if m.registering {
		out += labelStyle.Render("Email:    ") + m.inputs[fieldEmail].View() + "\n"
	}

	if m.busy {
		out += "\n" + dimStyle.Render("signing in...")
	}
	if m.notice != "" {
		out += "\n" + errorStyle.Render(m.notice)
	}

	out += "\n\n" + footerKeys("enter", "submit", "tab", "next field", "ctrl+r", "toggle register", "ctrl+c", "quit")
	return containerStyle.Render(out)
}
