package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
)

// communityModel is the Community tab: the public routine feed with
// like/save/clone actions.
type communityModel struct {
	client *api.Client

	feed   []models.FeedRoutine
	cursor int
	loaded bool

	// expanded exercise detail for the routine under the cursor
	detailFor int
	detail    []models.FeedExercise
}

type feedMsg []models.FeedRoutine

type likeToggledMsg struct {
	routineID int
	result    *models.LikeResult
}

type routineSavedMsg struct {
	routineID int
	result    *models.SaveResult
}

type feedDetailMsg struct {
	routineID int
	exercises []models.FeedExercise
}

func newCommunityModel(client *api.Client) communityModel {
	return communityModel{client: client, detailFor: -1}
}

func (m communityModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		feed, err := client.GetFeed(ctx)
		if err != nil {
			return errMsg{err}
		}
		return feedMsg(feed)
	}
}

func (m communityModel) Update(msg tea.Msg) (communityModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedMsg:
		m.feed = msg
		m.loaded = true
		m.detailFor = -1
		if m.cursor >= len(m.feed) {
			m.cursor = 0
		}
		return m, nil

	case likeToggledMsg:
		for i := range m.feed {
			if m.feed[i].ID == msg.routineID {
				m.feed[i].UserLiked = msg.result.Liked
				m.feed[i].Likes = msg.result.Likes
			}
		}
		return m, nil

	case routineSavedMsg:
		for i := range m.feed {
			if m.feed[i].ID == msg.routineID {
				m.feed[i].UserSaved = msg.result.Saved
			}
		}
		return m, func() tea.Msg { return statusMsg(msg.result.Msg) }

	case feedDetailMsg:
		m.detailFor = msg.routineID
		m.detail = msg.exercises
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m communityModel) handleKey(msg tea.KeyMsg) (communityModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.detailFor = -1
		}
	case "down", "j":
		if m.cursor < len(m.feed)-1 {
			m.cursor++
			m.detailFor = -1
		}
	case "enter":
		if entry, ok := m.selected(); ok {
			if m.detailFor == entry.ID {
				m.detailFor = -1
				return m, nil
			}
			return m, m.loadDetail(entry.ID)
		}
	case "l":
		if entry, ok := m.selected(); ok {
			return m, m.toggleLike(entry.ID)
		}
	case "s":
		if entry, ok := m.selected(); ok {
			if entry.IsOwn {
				return m, func() tea.Msg { return statusMsg("that one is already yours") }
			}
			return m, m.save(entry.ID)
		}
	case "r":
		return m, m.load()
	}
	return m, nil
}

func (m communityModel) selected() (models.FeedRoutine, bool) {
	if len(m.feed) == 0 {
		return models.FeedRoutine{}, false
	}
	return m.feed[m.cursor], true
}

func (m communityModel) toggleLike(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := client.ToggleLike(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return likeToggledMsg{routineID: id, result: result}
	}
}

func (m communityModel) save(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := client.SaveRoutine(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return routineSavedMsg{routineID: id, result: result}
	}
}

func (m communityModel) loadDetail(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		exercises, err := client.GetRoutineExercises(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return feedDetailMsg{routineID: id, exercises: exercises}
	}
}

func (m communityModel) View() string {
	out := "\n" + sectionStyle.Render("┃ Community Feed") + "\n"
	if !m.loaded {
		return out + dimStyle.Render("  loading...")
	}
	if len(m.feed) == 0 {
		out += dimStyle.Render("  nothing published yet") + "\n"
	}

	for i, entry := range m.feed {
		line := "  " + entry.Name
		if entry.Author != nil {
			line += dimStyle.Render(fmt.Sprintf("  by %s (lv%d)", entry.Author.Username, entry.Author.Level))
		}
		line += dimStyle.Render(fmt.Sprintf("  %d exercises", entry.ExerciseCount))

		heart := "♡"
		if entry.UserLiked {
			heart = "♥"
		}
		line += "  " + labelStyle.Render(fmt.Sprintf("%s %d", heart, entry.Likes))
		if entry.UserSaved {
			line += "  " + successStyle.Render("saved")
		}
		if entry.IsOwn {
			line += "  " + dimStyle.Render("(yours)")
		}

		if i == m.cursor {
			out += selectedStyle.Render("▸"+line) + "\n"
		} else {
			out += line + "\n"
		}

		if m.detailFor == entry.ID {
			for _, ex := range m.detail {
				out += dimStyle.Render(fmt.Sprintf("      %s  %d x %s (%s)",
					ex.ExerciseName, ex.Sets, ex.RepsTarget, ex.MuscleGroup)) + "\n"
			}
		}
	}

	out += "\n" + footerKeys("enter", "exercises", "l", "like", "s", "save copy", "r", "refresh")
	return out
}
