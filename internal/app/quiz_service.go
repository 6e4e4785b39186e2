package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"timed-quiz-service/internal/domain"
)

// QuestionRepository loads questions and answer keys (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
	AnswerKeys(ctx context.Context) ([]domain.AnswerKey, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	questions QuestionRepository
}

func NewQuizService(questions QuestionRepository) *QuizService {
	return &QuizService{questions: questions}
}

// Questions returns the client-visible questions ordered by id.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.questions.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	return questions, nil
}

// Submit scores answers against the stored answer keys.
func (s *QuizService) Submit(ctx context.Context, answers []domain.Answer) (domain.SubmitResponse, error) {
	keys, err := s.questions.AnswerKeys(ctx)
	if err != nil {
		return domain.SubmitResponse{}, fmt.Errorf("%w: %w", domain.ErrSubmitFailure, err)
	}
	return Score(answers, keys), nil
}

// FetchQuestions lets the service act as a session question source in-process.
func (s *QuizService) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.Questions(ctx)
}

// SubmitAnswers lets the service act as a session submission sink in-process.
func (s *QuizService) SubmitAnswers(ctx context.Context, answers []domain.Answer) (domain.SubmitResponse, error) {
	return s.Submit(ctx, answers)
}

type answerPayload struct {
	QuestionID          *int `json:"questionId"`
	SelectedOptionIndex *int `json:"selectedOptionIndex"`
}

// ParseAnswers validates a raw answers payload before scoring.
// The payload must be a JSON array of objects with integer questionId and selectedOptionIndex.
func ParseAnswers(raw json.RawMessage) ([]domain.Answer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.ValidationError{Reason: "Answers must be an array"}
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(trimmed, &payloads); err != nil {
		return nil, &domain.ValidationError{Reason: "Answers must be an array"}
	}

	answers := make([]domain.Answer, 0, len(payloads))
	for i, item := range payloads {
		var p answerPayload
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("answer %d is malformed", i)}
		}
		if p.QuestionID == nil || p.SelectedOptionIndex == nil {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("answer %d requires questionId and selectedOptionIndex", i)}
		}
		answers = append(answers, domain.Answer{
			QuestionID:          *p.QuestionID,
			SelectedOptionIndex: *p.SelectedOptionIndex,
		})
	}
	return answers, nil
}
