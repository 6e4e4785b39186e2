package app

import "timed-quiz-service/internal/domain"

// Score checks each answer against the answer keys.
// Results keep the order of answers; answers for unknown questions are never correct
// and carry no correct option. Total is the number of answers, not of keys.
func Score(answers []domain.Answer, keys []domain.AnswerKey) domain.SubmitResponse {
	lookup := make(map[int]int, len(keys))
	for _, k := range keys {
		lookup[k.QuestionID] = k.CorrectOptionIndex
	}

	results := make([]domain.ScoreResult, 0, len(answers))
	score := 0
	for _, a := range answers {
		result := domain.ScoreResult{QuestionID: a.QuestionID}
		if correctIndex, ok := lookup[a.QuestionID]; ok {
			idx := correctIndex
			result.CorrectOptionIndex = &idx
			result.Correct = a.SelectedOptionIndex == correctIndex
		}
		if result.Correct {
			score++
		}
		results = append(results, result)
	}

	return domain.SubmitResponse{
		Score:   score,
		Total:   len(answers),
		Results: results,
	}
}
