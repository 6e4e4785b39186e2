package memory

import "timed-quiz-service/internal/domain"

// SampleQuestions is the default question set used for demos and database seeding.
func SampleQuestions() []domain.QuestionRecord {
	return []domain.QuestionRecord{
		{
			Question: domain.Question{
				ID:      1,
				Text:    "What is the capital of France?",
				Options: []string{"London", "Berlin", "Paris", "Madrid"},
			},
			CorrectOptionIndex: 2,
		},
		{
			Question: domain.Question{
				ID:      2,
				Text:    "Which programming language is known for its use in web development?",
				Options: []string{"Python", "JavaScript", "C++", "Java"},
			},
			CorrectOptionIndex: 1,
		},
		{
			Question: domain.Question{
				ID:   3,
				Text: "What does HTML stand for?",
				Options: []string{
					"HyperText Markup Language",
					"High Tech Modern Language",
					"Home Tool Markup Language",
					"Hyperlink and Text Markup Language",
				},
			},
			CorrectOptionIndex: 0,
		},
		{
			Question: domain.Question{
				ID:      4,
				Text:    "Which of the following is NOT a JavaScript framework?",
				Options: []string{"React", "Vue", "Angular", "Django"},
			},
			CorrectOptionIndex: 3,
		},
		{
			Question: domain.Question{
				ID:      5,
				Text:    "What is the result of 2 + 2 * 3?",
				Options: []string{"8", "10", "12", "6"},
			},
			CorrectOptionIndex: 0,
		},
	}
}
