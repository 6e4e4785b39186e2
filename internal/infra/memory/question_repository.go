package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"timed-quiz-service/internal/domain"
)

// QuestionLoader fetches question records, answer keys included, from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.QuestionRecord, error)
}

// QuestionRepository caches question records with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	records   []domain.QuestionRecord
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Questions(records), nil
}

func (r *QuestionRepository) AnswerKeys(ctx context.Context) ([]domain.AnswerKey, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Keys(records), nil
}

func (r *QuestionRepository) load(ctx context.Context) ([]domain.QuestionRecord, error) {
	if records, ok := r.cached(r.clock()); ok {
		return records, nil
	}

	result, err, _ := r.sf.Do("questions", func() (interface{}, error) {
		now := r.clock()
		if records, ok := r.cached(now); ok {
			return records, nil
		}

		records, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []domain.QuestionRecord{}
		}

		r.mu.Lock()
		r.records = records
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuestionRecord), nil
}

func (r *QuestionRepository) cached(now time.Time) ([]domain.QuestionRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.records != nil && r.expiresAt.After(now) {
		return r.records, true
	}
	return nil, false
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticQuestionLoader struct {
	records []domain.QuestionRecord
}

func NewStaticQuestionLoader(records []domain.QuestionRecord) *StaticQuestionLoader {
	sorted := make([]domain.QuestionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &StaticQuestionLoader{records: sorted}
}

// LoadQuestions returns the records ordered by id; an empty store yields an empty slice.
func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.QuestionRecord, error) {
	return l.records, nil
}
