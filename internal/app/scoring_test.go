package app_test

import (
	"reflect"
	"testing"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

var fiveKeys = []domain.AnswerKey{
	{QuestionID: 1, CorrectOptionIndex: 2},
	{QuestionID: 2, CorrectOptionIndex: 1},
	{QuestionID: 3, CorrectOptionIndex: 0},
	{QuestionID: 4, CorrectOptionIndex: 3},
	{QuestionID: 5, CorrectOptionIndex: 0},
}

func answersFor(selected ...int) []domain.Answer {
	answers := make([]domain.Answer, 0, len(selected))
	for i, s := range selected {
		answers = append(answers, domain.Answer{QuestionID: i + 1, SelectedOptionIndex: s})
	}
	return answers
}

func correctness(resp domain.SubmitResponse) []bool {
	out := make([]bool, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, r.Correct)
	}
	return out
}

func expectScore(t *testing.T, resp domain.SubmitResponse, score, total int) {
	t.Helper()
	if resp.Score != score || resp.Total != total {
		t.Fatalf("expected %d/%d, got %d/%d", score, total, resp.Score, resp.Total)
	}
}

func TestScorePerfect(t *testing.T) {
	resp := app.Score(answersFor(2, 1, 0, 3, 0), fiveKeys)

	expectScore(t, resp, 5, 5)
	if got := correctness(resp); !reflect.DeepEqual(got, []bool{true, true, true, true, true}) {
		t.Fatalf("unexpected correctness %v", got)
	}
}

func TestScorePartial(t *testing.T) {
	resp := app.Score(answersFor(2, 0, 0, 1, 0), fiveKeys)

	expectScore(t, resp, 3, 5)
	if got := correctness(resp); !reflect.DeepEqual(got, []bool{true, false, true, false, true}) {
		t.Fatalf("unexpected correctness %v", got)
	}
}

func TestScoreZero(t *testing.T) {
	expectScore(t, app.Score(answersFor(0, 0, 1, 0, 1), fiveKeys), 0, 5)
}

func TestScoreEmptyAnswers(t *testing.T) {
	resp := app.Score(nil, fiveKeys)

	expectScore(t, resp, 0, 0)
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %#v", resp.Results)
	}
}

func TestScoreOrphanAnswer(t *testing.T) {
	resp := app.Score([]domain.Answer{
		{QuestionID: 999, SelectedOptionIndex: 0},
		{QuestionID: 1, SelectedOptionIndex: 2},
	}, fiveKeys)

	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Correct || resp.Results[0].CorrectOptionIndex != nil {
		t.Fatalf("expected orphan result, got %+v", resp.Results[0])
	}
	if !resp.Results[1].Correct {
		t.Fatalf("expected second answer correct")
	}
	expectScore(t, resp, 1, 2)
}

func TestScoreAgainstNoKeys(t *testing.T) {
	resp := app.Score(answersFor(0, 1), nil)

	expectScore(t, resp, 0, 2)
	for _, r := range resp.Results {
		if r.Correct || r.CorrectOptionIndex != nil {
			t.Fatalf("expected orphan result, got %+v", r)
		}
	}
}

func TestScoreKeepsAnswerOrderAndCorrectIndices(t *testing.T) {
	resp := app.Score([]domain.Answer{
		{QuestionID: 4, SelectedOptionIndex: 3},
		{QuestionID: 2, SelectedOptionIndex: 0},
		{QuestionID: 1, SelectedOptionIndex: 2},
	}, fiveKeys)

	ids := []int{resp.Results[0].QuestionID, resp.Results[1].QuestionID, resp.Results[2].QuestionID}
	if !reflect.DeepEqual(ids, []int{4, 2, 1}) {
		t.Fatalf("expected input order, got %v", ids)
	}
	if idx := resp.Results[1].CorrectOptionIndex; idx == nil || *idx != 1 {
		t.Fatalf("expected correct index 1 for question 2, got %v", idx)
	}
	if idx := resp.Results[2].CorrectOptionIndex; idx == nil || *idx != 2 {
		t.Fatalf("expected correct index 2 for question 1, got %v", idx)
	}
}

func TestScoreDuplicatesAreScoredIndependently(t *testing.T) {
	resp := app.Score([]domain.Answer{
		{QuestionID: 1, SelectedOptionIndex: 2},
		{QuestionID: 1, SelectedOptionIndex: 0},
	}, fiveKeys)

	expectScore(t, resp, 1, 2)
	if got := correctness(resp); !reflect.DeepEqual(got, []bool{true, false}) {
		t.Fatalf("unexpected correctness %v", got)
	}
}

func TestScoreDuplicateKeysLastWins(t *testing.T) {
	keys := []domain.AnswerKey{
		{QuestionID: 1, CorrectOptionIndex: 0},
		{QuestionID: 1, CorrectOptionIndex: 3},
	}
	resp := app.Score([]domain.Answer{{QuestionID: 1, SelectedOptionIndex: 3}}, keys)

	if !resp.Results[0].Correct || *resp.Results[0].CorrectOptionIndex != 3 {
		t.Fatalf("expected last key to win, got %+v", resp.Results[0])
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	answers := []domain.Answer{
		{QuestionID: 3, SelectedOptionIndex: 0},
		{QuestionID: 42, SelectedOptionIndex: 1},
		{QuestionID: 5, SelectedOptionIndex: 2},
	}
	first := app.Score(answers, fiveKeys)
	second := app.Score(answers, fiveKeys)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	correct := 0
	for _, r := range first.Results {
		if r.Correct {
			correct++
		}
	}
	expectScore(t, first, correct, len(answers))
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		resp domain.SubmitResponse
		want int
	}{
		{domain.SubmitResponse{}, 0},
		{domain.SubmitResponse{Score: 3, Total: 5}, 60},
		{domain.SubmitResponse{Score: 2, Total: 3}, 67},
	}
	for _, tc := range cases {
		if got := tc.resp.Percentage(); got != tc.want {
			t.Fatalf("percentage of %d/%d: expected %d, got %d", tc.resp.Score, tc.resp.Total, tc.want, got)
		}
	}
}
