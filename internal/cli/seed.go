package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"campus-club-service/internal/config"
	"campus-club-service/internal/domain"
	"campus-club-service/internal/infra/postgres"
	redisinfra "campus-club-service/internal/infra/redis"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Students []domain.StudentIdentity `yaml:"students"`
	Quizzes  []domain.Quiz            `yaml:"quizzes"`
}

// NewSeedCmd loads students and quizzes from a YAML file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert students and quizzes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			data, err := readSeedFile(file)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, data)
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/seed.yaml", "path to the seed YAML")
	return cmd
}

func readSeedFile(path string) (seedFile, error) {
	var data seedFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse %s: %w", path, err)
	}
	// Validate everything before the first write.
	for _, q := range data.Quizzes {
		if err := domain.ValidateQuiz(q); err != nil {
			return data, err
		}
	}
	return data, nil
}

// quizInvalidator drops cached quiz documents.
type quizInvalidator interface {
	Invalidate(ctx context.Context, quizID string) error
}

// invalidateQuizzes evicts re-seeded quizzes so running servers reload them on next read.
func invalidateQuizzes(ctx context.Context, cache quizInvalidator, quizzes []domain.Quiz) error {
	for _, q := range quizzes {
		if err := cache.Invalidate(ctx, q.ID); err != nil {
			return fmt.Errorf("invalidate cached quiz %s: %w", q.ID, err)
		}
	}
	return nil
}

func runSeed(ctx context.Context, cfg config.Config, data seedFile) error {
	if err := runMigrations(ctx, cfg); err != nil {
		return err
	}

	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()
	students := postgres.NewStudentDirectory(db)
	for _, s := range data.Students {
		if err := students.Upsert(ctx, s); err != nil {
			return err
		}
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	quizzes := postgres.NewQuizStore(pool)
	for _, q := range data.Quizzes {
		if err := quizzes.SaveQuiz(ctx, q); err != nil {
			return err
		}
	}

	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		cache := redisinfra.NewQuizRepository(client, quizzes, 0)
		if err := invalidateQuizzes(ctx, cache, data.Quizzes); err != nil {
			return err
		}
	}
	log.Printf("seeded %d students and %d quizzes", len(data.Students), len(data.Quizzes))
	return nil
}
