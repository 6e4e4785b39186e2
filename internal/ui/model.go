package ui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"timed-quiz-service/internal/session"
)

// Model renders a quiz session in the terminal using Bubble Tea.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	updates <-chan session.Snapshot
	// unsubscribe releases updates; it is also released when the session closes.
	unsubscribe func()
	snap        session.Snapshot
	noColor     bool
}

// Options configures the terminal model.
type Options struct {
	NoColor bool
}

// NewModel constructs a model driving sess. The model subscribes to the
// session and unsubscribes when the user quits.
func NewModel(ctx context.Context, sess *session.Session, opts Options) Model {
	updates, unsubscribe := sess.Subscribe()
	return Model{
		ctx:         ctx,
		sess:        sess,
		updates:     updates,
		unsubscribe: unsubscribe,
		snap:        sess.Snapshot(),
		noColor:     opts.NoColor,
	}
}

// Init waits for the first snapshot.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

// Update consumes key presses and session snapshots.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case SnapshotMsg:
		m.snap = typed.Snapshot
		return m, waitForSnapshot(m.updates)
	case tea.KeyMsg:
		return m.handleKey(typed.String())
	}
	return m, nil
}

// View renders the current snapshot.
func (m Model) View() string {
	return Render(m.snap, m.noColor)
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" || key == "q" {
		m.unsubscribe()
		return m, tea.Quit
	}

	switch m.snap.State {
	case session.StateStart:
		if key == "enter" || key == "s" {
			return m, m.run(m.sess.Start)
		}
	case session.StateQuiz:
		switch key {
		case "n", "right":
			m.sess.Next()
		case "p", "left":
			m.sess.Previous()
		case "s":
			return m, m.run(m.sess.Submit)
		case "enter":
			if m.snap.IsLastQuestion() {
				return m, m.run(m.sess.Submit)
			}
			m.sess.Next()
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
				m.sess.SelectAnswer(n - 1)
			}
		}
	case session.StateResults, session.StateError:
		if key == "r" || key == "enter" {
			m.sess.Restart()
		}
	}
	return m, nil
}

// run executes a blocking session call off the update loop.
func (m Model) run(action func(context.Context) bool) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		action(ctx)
		return actionDoneMsg{}
	}
}

// SnapshotMsg wraps a session snapshot for Bubble Tea.
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

type actionDoneMsg struct{}

// waitForSnapshot blocks until the session publishes a change.
func waitForSnapshot(updates <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		snap, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return SnapshotMsg{Snapshot: snap}
	}
}
