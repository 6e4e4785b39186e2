package domain

import "math"

// Question is the client-visible view of a quiz question. It never carries the answer key.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuestionRecord is the authoritative stored form of a question.
type QuestionRecord struct {
	Question
	CorrectOptionIndex int `json:"correctOptionIndex"`
}

// Key returns the answer key paired with the record.
func (r QuestionRecord) Key() AnswerKey {
	return AnswerKey{QuestionID: r.ID, CorrectOptionIndex: r.CorrectOptionIndex}
}

// AnswerKey pairs a question with its correct option.
type AnswerKey struct {
	QuestionID         int `json:"questionId"`
	CorrectOptionIndex int `json:"correctOptionIndex"`
}

// Answer is a user's selection for one question.
type Answer struct {
	QuestionID          int `json:"questionId"`
	SelectedOptionIndex int `json:"selectedOptionIndex"`
}

// ScoreResult is the outcome for a single submitted answer.
// CorrectOptionIndex is nil when the answer referenced an unknown question.
type ScoreResult struct {
	QuestionID         int  `json:"questionId"`
	Correct            bool `json:"correct"`
	CorrectOptionIndex *int `json:"correctOptionIndex,omitempty"`
}

// SubmitResponse summarizes a scored submission. Total counts submitted answers, not questions.
type SubmitResponse struct {
	Score   int           `json:"score"`
	Total   int           `json:"total"`
	Results []ScoreResult `json:"results"`
}

// Percentage returns the rounded percent score, or 0 for an empty submission.
func (r SubmitResponse) Percentage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}

// Questions strips answer keys from stored records, preserving order.
func Questions(records []QuestionRecord) []Question {
	questions := make([]Question, 0, len(records))
	for _, r := range records {
		questions = append(questions, r.Question)
	}
	return questions
}

// Keys extracts the answer keys from stored records, preserving order.
func Keys(records []QuestionRecord) []AnswerKey {
	keys := make([]AnswerKey, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.Key())
	}
	return keys
}
