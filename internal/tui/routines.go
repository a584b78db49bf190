package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
)

// routinesMode selects which pane of the Routines tab is showing.
type routinesMode int

const (
	routinesList routinesMode = iota
	routinesDetail
	routinesBuilder
)

// routinesModel lists the user's routines and hosts the routine builder.
type routinesModel struct {
	client *api.Client

	mode     routinesMode
	routines []models.Routine
	cursor   int
	loaded   bool

	detail *models.RoutineDetail

	// builder state
	nameInput textinput.Model
	catalog   []models.Exercise
	catCursor int
	chosen    []models.NewRoutineExercise
	naming    bool
}

type routinesMsg []models.Routine
type routineDetailMsg *models.RoutineDetail
type catalogMsg []models.Exercise

func newRoutinesModel(client *api.Client) routinesModel {
	name := textinput.New()
	name.Placeholder = "routine name"
	name.CharLimit = 80
	return routinesModel{client: client, nameInput: name}
}

func (m routinesModel) inputFocused() bool {
	return m.mode == routinesBuilder && m.naming
}

func (m routinesModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		routines, err := client.ListRoutines(ctx)
		if err != nil {
			return errMsg{err}
		}
		return routinesMsg(routines)
	}
}

func (m routinesModel) loadDetail(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := client.GetRoutine(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return routineDetailMsg(detail)
	}
}

func (m routinesModel) loadCatalog() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		catalog, err := client.ListExercises(ctx, "")
		if err != nil {
			return errMsg{err}
		}
		return catalogMsg(catalog)
	}
}

func (m routinesModel) Update(msg tea.Msg) (routinesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case routinesMsg:
		m.routines = msg
		m.loaded = true
		if m.cursor >= len(m.routines) {
			m.cursor = 0
		}
		return m, nil

	case routineDetailMsg:
		m.detail = msg
		m.mode = routinesDetail
		return m, nil

	case catalogMsg:
		m.catalog = msg
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case routinesList:
			return m.updateList(msg)
		case routinesDetail:
			return m.updateDetail(msg)
		case routinesBuilder:
			return m.updateBuilder(msg)
		}
	}
	return m, nil
}

func (m routinesModel) updateList(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.routines)-1 {
			m.cursor++
		}
	case "enter":
		if r, ok := m.selected(); ok {
			return m, m.loadDetail(r.ID)
		}
	case "s":
		if r, ok := m.selected(); ok {
			id := r.ID
			return m, func() tea.Msg { return startWorkoutMsg{routineID: id} }
		}
	case "p":
		if r, ok := m.selected(); ok {
			return m, m.togglePublish(r.ID)
		}
	case "x":
		if r, ok := m.selected(); ok {
			return m, m.deleteRoutine(r.ID)
		}
	case "n":
		m.mode = routinesBuilder
		m.naming = true
		m.chosen = nil
		m.catCursor = 0
		m.nameInput.SetValue("")
		return m, tea.Batch(m.nameInput.Focus(), m.loadCatalog())
	case "r":
		return m, m.load()
	}
	return m, nil
}

func (m routinesModel) selected() (models.Routine, bool) {
	if len(m.routines) == 0 {
		return models.Routine{}, false
	}
	return m.routines[m.cursor], true
}

func (m routinesModel) updateDetail(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = routinesList
		m.detail = nil
	case "s":
		if m.detail != nil {
			id := m.detail.ID
			return m, func() tea.Msg { return startWorkoutMsg{routineID: id} }
		}
	}
	return m, nil
}

func (m routinesModel) updateBuilder(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	if m.naming {
		switch msg.String() {
		case "esc":
			m.mode = routinesList
			m.nameInput.Blur()
			return m, nil
		case "enter", "tab":
			if strings.TrimSpace(m.nameInput.Value()) == "" {
				return m, func() tea.Msg { return statusMsg("routine needs a name") }
			}
			m.naming = false
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.mode = routinesList
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "down", "j":
		if m.catCursor < len(m.catalog)-1 {
			m.catCursor++
		}
	case "a", " ":
		if len(m.catalog) > 0 {
			ex := m.catalog[m.catCursor]
			m.chosen = append(m.chosen, models.NewRoutineExercise{
				ExerciseID: ex.ID,
				Sets:       3,
				RepsTarget: "8-12",
			})
		}
	case "backspace":
		if len(m.chosen) > 0 {
			m.chosen = m.chosen[:len(m.chosen)-1]
		}
	case "tab":
		m.naming = true
		return m, m.nameInput.Focus()
	case "enter":
		if len(m.chosen) == 0 {
			return m, func() tea.Msg { return statusMsg("add at least one exercise") }
		}
		return m.create()
	}
	return m, nil
}

func (m routinesModel) create() (routinesModel, tea.Cmd) {
	routine := models.NewRoutine{
		Name:      strings.TrimSpace(m.nameInput.Value()),
		Exercises: m.chosen,
	}
	m.mode = routinesList
	client, load := m.client, m.load()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.CreateRoutine(ctx, routine); err != nil {
			return errMsg{err}
		}
		return load()
	}
}

func (m routinesModel) togglePublish(id int) tea.Cmd {
	client, load := m.client, m.load()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.TogglePublish(ctx, id); err != nil {
			return errMsg{err}
		}
		return load()
	}
}

func (m routinesModel) deleteRoutine(id int) tea.Cmd {
	client, load := m.client, m.load()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.DeleteRoutine(ctx, id); err != nil {
			return errMsg{err}
		}
		return load()
	}
}

func (m routinesModel) View() string {
	switch m.mode {
	case routinesDetail:
		return m.viewDetail()
	case routinesBuilder:
		return m.viewBuilder()
	}
	return m.viewList()
}

func (m routinesModel) viewList() string {
	out := "\n" + sectionStyle.Render("┃ My Routines") + "\n"
	if !m.loaded {
		return out + dimStyle.Render("  loading...")
	}
	if len(m.routines) == 0 {
		out += dimStyle.Render("  no routines yet, press [n] to build one") + "\n"
	}
	for i, r := range m.routines {
		line := fmt.Sprintf("  %s", r.Name)
		if r.IsPublic {
			line += "  " + dimStyle.Render("(public)")
		}
		if i == m.cursor {
			out += selectedStyle.Render("▸"+line) + "\n"
		} else {
			out += line + "\n"
		}
	}
	out += "\n" + footerKeys("enter", "detail", "s", "start workout", "n", "new", "p", "publish", "x", "delete", "r", "refresh")
	return out
}

func (m routinesModel) viewDetail() string {
	if m.detail == nil {
		return dimStyle.Render("loading...")
	}
	out := "\n" + sectionStyle.Render("┃ "+m.detail.Name) + "\n"
	if m.detail.Description != "" {
		out += dimStyle.Render("  "+m.detail.Description) + "\n"
	}
	for i, ex := range m.detail.Exercises {
		out += fmt.Sprintf("  %d. %s  %s\n", i+1,
			valueStyle.Render(ex.ExerciseName),
			dimStyle.Render(fmt.Sprintf("%d x %s (%s)", ex.Sets, ex.RepsTarget, ex.MuscleGroup)))
	}
	out += "\n" + footerKeys("s", "start workout", "esc", "back")
	return out
}

func (m routinesModel) viewBuilder() string {
	out := "\n" + sectionStyle.Render("┃ New Routine") + "\n"
	out += labelStyle.Render("  Name: ") + m.nameInput.View() + "\n"

	out += "\n" + labelStyle.Render("  Exercises ("+fmt.Sprintf("%d", len(m.chosen))+" picked):") + "\n"
	for i, c := range m.chosen {
		out += dimStyle.Render(fmt.Sprintf("    %d. %s\n", i+1, m.exerciseName(c.ExerciseID)))
	}

	if !m.naming {
		out += "\n" + labelStyle.Render("  Catalog:") + "\n"
		window := 8
		start := m.catCursor - window/2
		if start < 0 {
			start = 0
		}
		for i := start; i < len(m.catalog) && i < start+window; i++ {
			ex := m.catalog[i]
			line := fmt.Sprintf("  %s  %s", ex.Name, dimStyle.Render(ex.MuscleGroup))
			if i == m.catCursor {
				out += selectedStyle.Render("▸"+line) + "\n"
			} else {
				out += line + "\n"
			}
		}
	}

	out += "\n" + footerKeys("a", "add", "backspace", "remove last", "tab", "edit name", "enter", "save", "esc", "cancel")
	return out
}

func (m routinesModel) exerciseName(id int) string {
	for _, ex := range m.catalog {
		if ex.ID == id {
			return ex.Name
		}
	}
	return fmt.Sprintf("exercise #%d", id)
}
