package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/memory"
	"timed-quiz-service/internal/infra/postgres"
)

// NewSeedCmd replaces the stored questions with the sample set.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := postgres.Seed(ctx, db, memory.SampleQuestions())
	if err != nil {
		return err
	}
	log.Printf("seeded %d questions", n)
	return nil
}
