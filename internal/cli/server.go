package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"campus-club-service/internal/app"
	"campus-club-service/internal/config"
	"campus-club-service/internal/domain"
	"campus-club-service/internal/infra/memory"
	"campus-club-service/internal/infra/postgres"
	redisinfra "campus-club-service/internal/infra/redis"
	transport "campus-club-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides config and PORT)")
	return cmd
}

// services is everything the router needs, assembled from config.
type services struct {
	quizzes  *app.QuizService
	teams    *app.TeamService
	students app.StudentDirectory
	closers  []func()
}

func (s services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(svc.quizzes, svc.teams, svc.students),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting campus club service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildServices picks adapters: Postgres for durable data when configured, Redis for the
// quiz cache and leaderboard when configured, in-memory stores otherwise.
func buildServices(ctx context.Context, cfg config.Config) (services, error) {
	var svc services

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		svc.closers = append(svc.closers, func() { _ = redisClient.Close() })
	}

	var (
		loader      memory.QuizLoader
		attempts    app.AttemptRepository
		leaderboard app.LeaderboardStore
		teams       app.TeamRepository
		students    app.StudentDirectory
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return svc, err
		}
		svc.closers = append(svc.closers, pool.Close)
		db := postgres.Open(cfg.Postgres.URL)
		svc.closers = append(svc.closers, func() { _ = db.Close() })

		loader = postgres.NewQuizStore(pool)
		attemptRepo := postgres.NewAttemptRepository(db)
		attempts, leaderboard = attemptRepo, attemptRepo
		teams = postgres.NewTeamRepository(db)
		students = postgres.NewStudentDirectory(db)
	} else {
		log.Printf("postgres not configured, using in-memory stores with sample data")
		loader = memory.NewStaticQuizLoader(sampleQuizzes())
		attemptStore := memory.NewAttemptStore()
		attempts, leaderboard = attemptStore, attemptStore
		teams = memory.NewTeamRepository()
		students = memory.NewStudentDirectory(sampleStudents()...)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
		leaderboard = redisinfra.NewLeaderboardStore(redisClient)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	svc.quizzes = app.NewQuizService(quizRepo, attempts, leaderboard, app.NewLeaderboardHub())
	svc.quizzes.SetLeaderboardSize(cfg.Quiz.LeaderboardSize)
	svc.teams = app.NewTeamService(teams, students)
	svc.students = students
	return svc, nil
}

// newRedisClient returns nil when Redis is not configured.
func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// sampleQuizzes backs the in-memory mode; use the seed command to load real quizzes into Postgres.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:      "quiz-1",
			Title:   "Warm-up",
			Visible: true,
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Answers: []domain.Answer{
						{Text: "3"},
						{Text: "4", IsCorrect: true},
						{Text: "5"},
						{Text: "22"},
					},
					TimeLimitSeconds: 20,
					Marks:            10,
				},
			},
		},
	}
}

func sampleStudents() []domain.StudentIdentity {
	return []domain.StudentIdentity{
		{ID: "s1", Name: "Alice", Email: "alice@example.edu", RegistrationNumber: "2024-001"},
		{ID: "s2", Name: "Bob", Email: "bob@example.edu", RegistrationNumber: "2024-002"},
		{ID: "s3", Name: "Chen", Email: "chen@example.edu", RegistrationNumber: "2024-003"},
	}
}
