package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"timed-quiz-service/internal/session"
)

var (
	titleColor    = lipgloss.Color("252")
	mutedColor    = lipgloss.Color("244")
	urgentColor   = lipgloss.Color("160")
	correctColor  = lipgloss.Color("34")
	wrongColor    = lipgloss.Color("160")
	selectedColor = lipgloss.Color("39")
)

// Render draws a snapshot for the terminal.
func Render(snap session.Snapshot, noColor bool) string {
	var body string
	switch snap.State {
	case session.StateStart:
		body = renderStart(snap, noColor)
	case session.StateLoading:
		body = stylize("Loading...", noColor, mutedColor)
	case session.StateQuiz:
		body = renderQuestion(snap, noColor)
	case session.StateResults:
		body = renderResults(snap, noColor)
	case session.StateError:
		body = renderError(snap, noColor)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func renderStart(snap session.Snapshot, noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		bold("Quiz", noColor),
		"",
		fmt.Sprintf("Answer the questions before the %s timer runs out.", session.FormatTime(snap.TimeLimit)),
		"",
		stylize("enter: start  q: quit", noColor, mutedColor),
	)
}

func renderQuestion(snap session.Snapshot, noColor bool) string {
	question, ok := snap.CurrentQuestion()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left,
			"No questions available.",
			"",
			stylize("s: submit  q: quit", noColor, mutedColor),
		)
	}

	lines := []string{bold("Quiz Time!", noColor)}
	if snap.TimeLeft != nil {
		timer := "Time Left: " + session.FormatTime(*snap.TimeLeft)
		if *snap.TimeLeft < 60 {
			timer = stylize(timer, noColor, urgentColor)
		}
		lines = append(lines, timer)
	}
	lines = append(lines,
		progressBar(snap.CurrentQuestionIndex, len(snap.Questions), 30),
		"",
		fmt.Sprintf("Question %d of %d", snap.CurrentQuestionIndex+1, len(snap.Questions)),
		question.Text,
		"",
	)

	selected, hasSelection := snap.SelectedOption(question.ID)
	for i, option := range question.Options {
		line := fmt.Sprintf("  %d. %s", i+1, option)
		if hasSelection && selected == i {
			line = stylize(fmt.Sprintf("> %d. %s", i+1, option), noColor, selectedColor)
		}
		lines = append(lines, line)
	}

	help := "1-9: select  p: previous  n: next  s: submit  q: quit"
	if snap.IsLastQuestion() {
		help = "1-9: select  p: previous  enter/s: submit quiz  q: quit"
	}
	lines = append(lines, "", stylize(help, noColor, mutedColor))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResults(snap session.Snapshot, noColor bool) string {
	if snap.Results == nil {
		return ""
	}
	res := snap.Results
	lines := []string{
		bold("Quiz Complete", noColor),
		"",
		fmt.Sprintf("%d/%d", res.Score, res.Total),
		fmt.Sprintf("You scored %d%%", res.Percentage()),
		"",
		"Question Results:",
	}

	texts := make(map[int]string, len(snap.Questions))
	for _, q := range snap.Questions {
		texts[q.ID] = q.Text
	}
	for i, r := range res.Results {
		verdict := stylize("Incorrect", noColor, wrongColor)
		if r.Correct {
			verdict = stylize("Correct", noColor, correctColor)
		}
		lines = append(lines, fmt.Sprintf("Question %d: %s  %s", i+1, texts[r.QuestionID], verdict))
	}
	lines = append(lines, "", stylize("r: take quiz again  q: quit", noColor, mutedColor))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderError(snap session.Snapshot, noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		stylize("Error", noColor, urgentColor),
		"",
		snap.Error,
		"",
		stylize("r: try again  q: quit", noColor, mutedColor),
	)
}

func progressBar(index, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := index * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func bold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(titleColor).Render(text)
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
