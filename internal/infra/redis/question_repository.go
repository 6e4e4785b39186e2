package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
)

const (
	questionsKey = "quiz:questions"
	answersKey   = "quiz:answers"
)

// QuestionRepository caches questions in Redis and falls back to a loader on cache miss.
// Client-visible questions are stored as JSON: SET quiz:questions [...]
// Answer keys are stored as a hash:           HSET quiz:answers {questionID} {correctOptionIndex}
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := r.cachedQuestions(ctx); ok {
		return questions, nil
	}
	records, err := r.fill(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Questions(records), nil
}

func (r *QuestionRepository) AnswerKeys(ctx context.Context) ([]domain.AnswerKey, error) {
	if keys, ok := r.cachedKeys(ctx); ok {
		return keys, nil
	}
	records, err := r.fill(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Keys(records), nil
}

// fill loads records from the backing store and writes both cache entries.
func (r *QuestionRepository) fill(ctx context.Context) ([]domain.QuestionRecord, error) {
	result, err, _ := r.sf.Do("questions", func() (interface{}, error) {
		records, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(domain.Questions(records))
		if err != nil {
			return nil, fmt.Errorf("marshal questions: %w", err)
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, answersKey)
		for _, rec := range records {
			pipe.HSet(ctx, answersKey, strconv.Itoa(rec.ID), rec.CorrectOptionIndex)
		}
		pipe.Set(ctx, questionsKey, data, ttl)
		if ttl > 0 {
			pipe.Expire(ctx, answersKey, ttl)
		}
		// best-effort: a failed cache write still serves the loaded records
		_, _ = pipe.Exec(ctx)

		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuestionRecord), nil
}

func (r *QuestionRepository) cachedQuestions(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, questionsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil || questions == nil {
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) cachedKeys(ctx context.Context) ([]domain.AnswerKey, bool) {
	answers, err := r.client.HGetAll(ctx, answersKey).Result()
	if err != nil {
		return nil, false
	}
	if len(answers) == 0 {
		// an empty store has no answers hash, only the questions entry
		if n, err := r.client.Exists(ctx, questionsKey).Result(); err != nil || n == 0 {
			return nil, false
		}
	}
	return buildKeysFromCache(answers), true
}

func buildKeysFromCache(answers map[string]string) []domain.AnswerKey {
	keys := make([]domain.AnswerKey, 0, len(answers))
	for questionID, optionIndex := range answers {
		id, err := strconv.Atoi(questionID)
		if err != nil {
			continue
		}
		idx, err := strconv.Atoi(optionIndex)
		if err != nil {
			continue
		}
		keys = append(keys, domain.AnswerKey{QuestionID: id, CorrectOptionIndex: idx})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].QuestionID < keys[j].QuestionID })
	return keys
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
