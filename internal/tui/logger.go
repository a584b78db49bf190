package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/workout"
)

// loggerModel is the active-workout tab. It renders whatever phase the
// workout controller is in and drives it from key input.
type loggerModel struct {
	ctrl *workout.Controller

	startedAt time.Time
	elapsed   time.Duration

	weightInput textinput.Model
	repsInput   textinput.Model
	focusReps   bool
	busy        bool

	result *models.FinishResult
}

type workoutTickMsg time.Time
type workoutBeganMsg struct{}
type setLoggedMsg struct{}
type workoutDoneMsg struct{ result *models.FinishResult }

func newLoggerModel(ctrl *workout.Controller) loggerModel {
	weight := textinput.New()
	weight.Placeholder = "kg"
	weight.CharLimit = 7
	weight.Width = 7

	reps := textinput.New()
	reps.Placeholder = "reps"
	reps.CharLimit = 3
	reps.Width = 5

	return loggerModel{ctrl: ctrl, weightInput: weight, repsInput: reps}
}

func (m loggerModel) inputFocused() bool {
	return m.weightInput.Focused() || m.repsInput.Focused()
}

func (m loggerModel) begin(routineID int) tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if err := ctrl.Begin(ctx, routineID); err != nil {
				return errMsg{err}
			}
			return workoutBeganMsg{}
		},
		workoutTick(),
	)
}

func workoutTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return workoutTickMsg(t)
	})
}

func (m loggerModel) Update(msg tea.Msg) (loggerModel, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case workoutBeganMsg:
		m.startedAt = time.Now()
		return m, m.weightInput.Focus()

	case workoutTickMsg:
		// The tick chain stays alive through Loading so a slow session
		// start cannot strand the clock; it ends with the workout.
		phase := m.ctrl.Phase()
		if phase != workout.Loading && phase != workout.Active {
			return m, nil
		}
		if !m.startedAt.IsZero() {
			m.elapsed = time.Since(m.startedAt)
		}
		return m, workoutTick()

	case setLoggedMsg:
		m.busy = false
		m.weightInput.SetValue("")
		m.repsInput.SetValue("")
		m.repsInput.Blur()
		m.focusReps = false
		return m, m.weightInput.Focus()

	case workoutDoneMsg:
		m.busy = false
		m.result = msg.result
		m.weightInput.Blur()
		m.repsInput.Blur()
		return m, nil

	case errMsg:
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m loggerModel) handleKey(msg tea.KeyMsg) (loggerModel, tea.Cmd) {
	if m.ctrl.Phase() != workout.Active || m.busy {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m.toggleFocus()
	case "enter":
		return m.logSet()
	case "right", "ctrl+n":
		m.ctrl.AdvanceExercise(workout.Next)
		return m, nil
	case "left", "ctrl+p":
		m.ctrl.AdvanceExercise(workout.Previous)
		return m, nil
	case "ctrl+f":
		return m.finish()
	}

	var cmd tea.Cmd
	if m.focusReps {
		m.repsInput, cmd = m.repsInput.Update(msg)
	} else {
		m.weightInput, cmd = m.weightInput.Update(msg)
	}
	return m, cmd
}

func (m loggerModel) toggleFocus() (loggerModel, tea.Cmd) {
	m.focusReps = !m.focusReps
	if m.focusReps {
		m.weightInput.Blur()
		return m, m.repsInput.Focus()
	}
	m.repsInput.Blur()
	return m, m.weightInput.Focus()
}

func (m loggerModel) logSet() (loggerModel, tea.Cmd) {
	weight, werr := strconv.ParseFloat(strings.TrimSpace(m.weightInput.Value()), 64)
	reps, rerr := strconv.Atoi(strings.TrimSpace(m.repsInput.Value()))
	if werr != nil || rerr != nil {
		return m, func() tea.Msg { return statusMsg("enter weight and reps first") }
	}

	m.busy = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := ctrl.LogSet(ctx, weight, reps); err != nil {
			return errMsg{err}
		}
		return setLoggedMsg{}
	}
}

func (m loggerModel) finish() (loggerModel, tea.Cmd) {
	m.busy = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := ctrl.Finish(ctx)
		if err != nil {
			return errMsg{err}
		}
		return workoutDoneMsg{result: result}
	}
}

func (m loggerModel) View() string {
	if m.ctrl == nil {
		return dimStyle.Render("\nno active workout")
	}

	switch m.ctrl.Phase() {
	case workout.Loading:
		return dimStyle.Render("\nstarting session...")
	case workout.Errored:
		return "\n" + errorStyle.Render("could not start session: "+m.ctrl.Err().Error()) +
			"\n\n" + footerKeys("2", "back to routines")
	case workout.Finished:
		return m.viewFinished()
	}
	return m.viewActive()
}

func (m loggerModel) viewActive() string {
	routine := m.ctrl.Routine()

	out := "\n" + sectionStyle.Render("┃ "+routine.Name) + "  " +
		dimStyle.Render(formatElapsed(m.elapsed)) + "\n"

	exercise, ok := m.ctrl.CurrentExercise()
	if !ok {
		out += dimStyle.Render("  this routine has no exercises") + "\n"
		out += "\n" + footerKeys("ctrl+f", "finish", "2", "routines")
		return out
	}

	out += labelStyle.Render(fmt.Sprintf("  Exercise %d/%d: ", m.ctrl.ExerciseIndex()+1, len(routine.Exercises))) +
		valueStyle.Render(exercise.ExerciseName) + "  " +
		dimStyle.Render(fmt.Sprintf("target %d x %s", exercise.Sets, exercise.RepsTarget)) + "\n"

	out += "\n" + labelStyle.Render("  Logged sets:") + "\n"
	sets := m.ctrl.Sets()
	if len(sets) == 0 {
		out += dimStyle.Render("    none yet") + "\n"
	}
	for i, s := range sets {
		out += fmt.Sprintf("    %d. %s\n", i+1,
			valueStyle.Render(fmt.Sprintf("%.1fkg x %d", s.Weight, s.Reps)))
	}

	out += "\n" + labelStyle.Render("  Weight: ") + m.weightInput.View() +
		labelStyle.Render("  Reps: ") + m.repsInput.View() + "\n"
	if m.busy {
		out += dimStyle.Render("  saving...") + "\n"
	}

	out += "\n" + footerKeys("enter", "log set", "tab", "weight/reps", "←/→", "exercise", "ctrl+f", "finish")
	return out
}

func (m loggerModel) viewFinished() string {
	out := "\n" + successStyle.Render("Workout complete!") + "\n"
	if m.result == nil {
		return out
	}

	out += "\n" + labelStyle.Render("  XP gained: ") + valueStyle.Render(fmt.Sprintf("+%d", m.result.XPGained)) +
		dimStyle.Render(fmt.Sprintf("  (total %d)", m.result.TotalXP)) + "\n"
	if m.result.LevelUp {
		out += successStyle.Render(fmt.Sprintf("  LEVEL UP! You are now level %d", m.result.NewLevel)) + "\n"
		out += labelStyle.Render("  Coins earned: ") + valueStyle.Render(fmt.Sprintf("%d", m.result.CoinsEarned)) + "\n"
	}
	out += labelStyle.Render("  Streak: ") + valueStyle.Render(fmt.Sprintf("%d days", m.result.CurrentStreak))
	if m.result.StreakMilestone {
		out += " " + successStyle.Render("new record!")
	}
	out += "\n\n" + footerKeys("1", "dashboard", "2", "routines")
	return out
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
