package session

import "timed-quiz-service/internal/domain"

// State is the lifecycle phase of a quiz session.
type State string

const (
	StateStart   State = "start"   // waiting for the user to begin
	StateLoading State = "loading" // fetching questions or scoring answers
	StateQuiz    State = "quiz"    // answering questions, timer running
	StateResults State = "results" // scored
	StateError   State = "error"   // load or submit failed; restart to recover
)

// Snapshot is a point-in-time copy of a session, safe to render or serialize.
type Snapshot struct {
	ID                   string                 `json:"id"`
	State                State                  `json:"state"`
	Questions            []domain.Question      `json:"questions"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex"`
	Answers              []domain.Answer        `json:"answers"`
	Results              *domain.SubmitResponse `json:"results,omitempty"`
	TimeLimit            int                    `json:"timeLimit"`
	TimeLeft             *int                   `json:"timeLeft"`
	Error                string                 `json:"error,omitempty"`
}

// CurrentQuestion returns the question under the cursor, if any.
func (s Snapshot) CurrentQuestion() (domain.Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return domain.Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// SelectedOption returns the recorded selection for a question.
func (s Snapshot) SelectedOption(questionID int) (int, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a.SelectedOptionIndex, true
		}
	}
	return 0, false
}

// IsLastQuestion reports whether the cursor is on the final question.
func (s Snapshot) IsLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentQuestionIndex == len(s.Questions)-1
}

// answerSet holds at most one answer per question. A replaced answer moves to
// the end of the submission order.
type answerSet struct {
	byQuestion map[int]int
	order      []int
}

func newAnswerSet() answerSet {
	return answerSet{byQuestion: make(map[int]int)}
}

func (a *answerSet) put(questionID, optionIndex int) {
	if _, ok := a.byQuestion[questionID]; ok {
		for i, id := range a.order {
			if id == questionID {
				a.order = append(a.order[:i], a.order[i+1:]...)
				break
			}
		}
	}
	a.byQuestion[questionID] = optionIndex
	a.order = append(a.order, questionID)
}

func (a answerSet) get(questionID int) (int, bool) {
	idx, ok := a.byQuestion[questionID]
	return idx, ok
}

func (a answerSet) list() []domain.Answer {
	answers := make([]domain.Answer, 0, len(a.order))
	for _, id := range a.order {
		answers = append(answers, domain.Answer{QuestionID: id, SelectedOptionIndex: a.byQuestion[id]})
	}
	return answers
}
