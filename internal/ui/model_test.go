package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
	"timed-quiz-service/internal/session"
)

func newTestModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(memory.SampleQuestions()), time.Minute)
	service := app.NewQuizService(repo)
	sess := session.New(service, service,
		session.WithTimeLimit(90*time.Second),
		session.WithScheduler(func(time.Duration, func()) func() { return func() {} }),
	)
	t.Cleanup(sess.Close)
	return NewModel(context.Background(), sess, Options{NoColor: true}), sess
}

func press(t *testing.T, m Model, sess *session.Session, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	model := next.(Model)
	if cmd != nil {
		if _, ok := cmd().(actionDoneMsg); !ok {
			t.Fatalf("unexpected command result for %q", key.String())
		}
	}
	synced, _ := model.Update(SnapshotMsg{Snapshot: sess.Snapshot()})
	return synced.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelDrivesSessionToResults(t *testing.T) {
	m, sess := newTestModel(t)
	assert.Contains(t, m.View(), "1:30")

	m = press(t, m, sess, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, session.StateQuiz, m.snap.State)
	assert.Contains(t, m.View(), "Question 1 of 5")
	assert.Contains(t, m.View(), "Time Left: 1:30")

	for i, choice := range []string{"3", "2", "1", "4", "1"} {
		m = press(t, m, sess, runes(choice))
		if i < 4 {
			m = press(t, m, sess, runes("n"))
		}
	}
	assert.Contains(t, m.View(), "> 1. 8")

	m = press(t, m, sess, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, session.StateResults, m.snap.State)
	view := m.View()
	assert.Contains(t, view, "5/5")
	assert.Contains(t, view, "You scored 100%")
	assert.Equal(t, 5, strings.Count(view, "Correct"))

	m = press(t, m, sess, runes("r"))
	assert.Equal(t, session.StateStart, m.snap.State)
}

func TestModelNavigationKeys(t *testing.T) {
	m, sess := newTestModel(t)
	m = press(t, m, sess, runes("s"))
	m = press(t, m, sess, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.snap.CurrentQuestionIndex)
	m = press(t, m, sess, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(t, m, sess, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.snap.CurrentQuestionIndex)
}

func TestModelQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModelQuitReleasesSubscription(t *testing.T) {
	m, sess := newTestModel(t)
	_, _ = m.Update(runes("q"))

	closed := false
	for i := 0; i < 16 && !closed; i++ {
		if _, ok := <-m.updates; !ok {
			closed = true
		}
	}
	assert.True(t, closed, "expected updates channel to be closed after quit")
	assert.Equal(t, session.StateStart, sess.State())
}

func TestRenderStates(t *testing.T) {
	left := 45
	quiz := session.Snapshot{
		State:     session.StateQuiz,
		Questions: []domain.Question{{ID: 7, Text: "Pick one", Options: []string{"x", "y"}}},
		Answers:   []domain.Answer{{QuestionID: 7, SelectedOptionIndex: 1}},
		TimeLeft:  &left,
	}
	view := Render(quiz, true)
	assert.Contains(t, view, "Time Left: 0:45")
	assert.Contains(t, view, "> 2. y")
	assert.Contains(t, view, "enter/s: submit quiz")

	errView := Render(session.Snapshot{State: session.StateError, Error: "Failed to load questions."}, true)
	assert.Contains(t, errView, "Failed to load questions.")

	empty := Render(session.Snapshot{State: session.StateResults, Results: &domain.SubmitResponse{Results: []domain.ScoreResult{}}}, true)
	assert.Contains(t, empty, "0/0")
	assert.Contains(t, empty, "You scored 0%")
}
