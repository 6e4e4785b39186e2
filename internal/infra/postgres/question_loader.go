package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"timed-quiz-service/internal/domain"
)

// QuestionLoader loads question records, answer keys included, from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.QuestionRecord, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, text, options, correct_option_index FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	records := []domain.QuestionRecord{}
	for rows.Next() {
		var (
			rec domain.QuestionRecord
			raw []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &raw, &rec.CorrectOptionIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(raw, &rec.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for question %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return records, nil
}
