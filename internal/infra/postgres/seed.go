package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"timed-quiz-service/internal/domain"
)

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	ID                 int       `bun:"id,pk,autoincrement"`
	Text               string    `bun:"text,notnull"`
	Options            []string  `bun:"options,type:jsonb,notnull"`
	CorrectOptionIndex int       `bun:"correct_option_index,notnull"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Seed replaces all stored questions with records. Record ids are ignored;
// Postgres assigns fresh ones in slice order.
func Seed(ctx context.Context, db *bun.DB, records []domain.QuestionRecord) (int, error) {
	models := make([]questionModel, 0, len(records))
	for _, rec := range records {
		models = append(models, questionModel{
			Text:               rec.Text,
			Options:            rec.Options,
			CorrectOptionIndex: rec.CorrectOptionIndex,
		})
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*questionModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(models), nil
}
