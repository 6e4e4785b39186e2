package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"timed-quiz-service/internal/domain"
)

const (
	// DefaultTimeLimit is the quiz duration when none is configured.
	DefaultTimeLimit = 300 * time.Second
	// DefaultSubmitTimeout bounds automatic submits fired by the timer.
	DefaultSubmitTimeout = 15 * time.Second

	tickInterval = time.Second

	loadErrorMessage   = "Failed to load questions. Please make sure the backend is running."
	submitErrorMessage = "Failed to submit quiz. Please make sure the backend is running."
)

// QuestionSource provides the questions for a session (answer keys excluded).
type QuestionSource interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
}

// SubmissionSink scores a set of answers.
type SubmissionSink interface {
	SubmitAnswers(ctx context.Context, answers []domain.Answer) (domain.SubmitResponse, error)
}

// Option configures a Session.
type Option func(*Session)

// WithTimeLimit sets the countdown length. Sub-second remainders are dropped.
func WithTimeLimit(d time.Duration) Option {
	return func(s *Session) {
		if secs := int(d / time.Second); secs > 0 {
			s.timeLimit = secs
		}
	}
}

// WithScheduler replaces the wall-clock ticker, mainly for tests.
func WithScheduler(schedule Scheduler) Option {
	return func(s *Session) {
		if schedule != nil {
			s.schedule = schedule
		}
	}
}

// WithSubmitTimeout bounds automatic submits fired when time runs out.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is one attempt at the quiz. All state is owned by the session and
// changed only through its transition methods; timer ticks are serialized with
// caller actions by the session mutex.
type Session struct {
	id            string
	source        QuestionSource
	sink          SubmissionSink
	timeLimit     int
	submitTimeout time.Duration
	schedule      Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	questions []domain.Question
	current   int
	answers   answerSet
	results   *domain.SubmitResponse
	timeLeft  *int
	err       error

	// generation changes on Restart and Close; async completions from an
	// older generation are discarded.
	generation uint64
	timerID    uint64
	stopTimer  func()
	closed     bool

	subscribers map[chan Snapshot]struct{}
}

// New creates a session in the start state.
func New(source QuestionSource, sink SubmissionSink, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:            uuid.NewString(),
		source:        source,
		sink:          sink,
		timeLimit:     int(DefaultTimeLimit / time.Second),
		submitTimeout: DefaultSubmitTimeout,
		schedule:      TickerScheduler,
		ctx:           ctx,
		cancel:        cancel,
		state:         StateStart,
		answers:       newAnswerSet(),
		subscribers:   make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start fetches questions and begins the quiz. It reports false when the
// session is not in the start state.
func (s *Session) Start(ctx context.Context) bool {
	s.mu.Lock()
	if s.closed || s.state != StateStart {
		s.mu.Unlock()
		return false
	}
	s.state = StateLoading
	s.err = nil
	gen := s.generation
	s.broadcastLocked()
	s.mu.Unlock()

	questions, err := s.source.FetchQuestions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return false
	}
	if err != nil {
		log.Printf("session %s: load questions: %v", s.id, err)
		s.failLocked(fmt.Errorf("%w: %w", domain.ErrLoadFailure, err))
		return true
	}

	s.questions = questions
	s.current = 0
	s.answers = newAnswerSet()
	s.results = nil
	left := s.timeLimit
	s.timeLeft = &left
	s.state = StateQuiz
	s.startTimerLocked()
	log.Printf("session %s: quiz started with %d questions, %ds limit", s.id, len(questions), s.timeLimit)
	s.broadcastLocked()
	return true
}

// SelectAnswer records optionIndex for the current question, replacing any
// earlier selection for it. It reports false when there is no current question
// or the index is outside the question's options.
func (s *Session) SelectAnswer(optionIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQuiz || s.current >= len(s.questions) {
		return false
	}
	question := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return false
	}
	s.answers.put(question.ID, optionIndex)
	s.broadcastLocked()
	return true
}

// Next moves to the following question; no-op on the last one.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= len(s.questions)-1 {
		return false
	}
	s.current++
	s.broadcastLocked()
	return true
}

// Previous moves to the preceding question; no-op on the first one.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= 0 {
		return false
	}
	s.current--
	s.broadcastLocked()
	return true
}

// Submit sends the collected answers for scoring. Only the first call per
// quiz is honored; later calls while loading or finished report false.
func (s *Session) Submit(ctx context.Context) bool {
	s.mu.Lock()
	gen, answers, ok := s.beginSubmitLocked()
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.finishSubmit(ctx, gen, answers)
	return true
}

func (s *Session) beginSubmitLocked() (uint64, []domain.Answer, bool) {
	if s.closed || s.state != StateQuiz {
		return 0, nil, false
	}
	s.stopTimerLocked()
	s.state = StateLoading
	s.broadcastLocked()
	return s.generation, s.answers.list(), true
}

func (s *Session) finishSubmit(ctx context.Context, gen uint64, answers []domain.Answer) {
	resp, err := s.sink.SubmitAnswers(ctx, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return
	}
	if err != nil {
		log.Printf("session %s: submit answers: %v", s.id, err)
		s.failLocked(fmt.Errorf("%w: %w", domain.ErrSubmitFailure, err))
		return
	}

	s.results = &resp
	s.timeLeft = nil
	s.state = StateResults
	log.Printf("session %s: scored %d/%d", s.id, resp.Score, resp.Total)
	s.broadcastLocked()
}

// Restart returns the session to the start state with everything cleared.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.generation++
	s.state = StateStart
	s.questions = nil
	s.current = 0
	s.answers = newAnswerSet()
	s.results = nil
	s.timeLeft = nil
	s.err = nil
	s.broadcastLocked()
}

// Close stops the timer, abandons in-flight calls and closes subscriber channels.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.generation++
	s.cancel()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// CurrentAnswer returns the selection for the current question, if any.
func (s *Session) CurrentAnswer() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.questions) {
		return 0, false
	}
	return s.answers.get(s.questions[s.current].ID)
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the classified failure behind the error state, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every change,
// starting with the current one. The caller must invoke the returned cancel
// function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) failLocked(err error) {
	s.stopTimerLocked()
	s.err = err
	s.state = StateError
	s.broadcastLocked()
}

func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	id := s.timerID
	s.stopTimer = s.schedule(tickInterval, func() { s.tick(id) })
}

func (s *Session) stopTimerLocked() {
	s.timerID++
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// tick counts down one second. The tick that would reach zero clears the
// countdown and submits in the same critical section, so a manual submit
// cannot slip in between.
func (s *Session) tick(id uint64) {
	s.mu.Lock()
	if id != s.timerID || s.stopTimer == nil || s.state != StateQuiz || s.timeLeft == nil {
		s.mu.Unlock()
		return
	}
	if *s.timeLeft > 1 {
		left := *s.timeLeft - 1
		s.timeLeft = &left
		s.broadcastLocked()
		s.mu.Unlock()
		return
	}

	s.timeLeft = nil
	gen, answers, ok := s.beginSubmitLocked()
	s.mu.Unlock()
	if !ok {
		return
	}

	log.Printf("session %s: time limit reached, submitting %d answers", s.id, len(answers))
	ctx, cancel := context.WithTimeout(s.ctx, s.submitTimeout)
	defer cancel()
	s.finishSubmit(ctx, gen, answers)
}

func (s *Session) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// slow subscriber: drop the oldest snapshot, the newest one wins
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:                   s.id,
		State:                s.state,
		Questions:            make([]domain.Question, len(s.questions)),
		CurrentQuestionIndex: s.current,
		Answers:              s.answers.list(),
		TimeLimit:            s.timeLimit,
	}
	copy(snap.Questions, s.questions)
	if s.results != nil {
		results := *s.results
		snap.Results = &results
	}
	if s.timeLeft != nil {
		left := *s.timeLeft
		snap.TimeLeft = &left
	}
	if s.state == StateError && s.err != nil {
		snap.Error = submitErrorMessage
		if errors.Is(s.err, domain.ErrLoadFailure) {
			snap.Error = loadErrorMessage
		}
	}
	return snap
}
