package cli

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"github.com/MarianoIzarriaga/Trivia/internal/config"
	"github.com/MarianoIzarriaga/Trivia/internal/domain"
	"github.com/MarianoIzarriaga/Trivia/internal/game"
	"github.com/MarianoIzarriaga/Trivia/internal/infra/memory"
	infrapg "github.com/MarianoIzarriaga/Trivia/internal/infra/postgres"
	infraredis "github.com/MarianoIzarriaga/Trivia/internal/infra/redis"
	transport "github.com/MarianoIzarriaga/Trivia/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var rooms game.RoomDirectory
	var bank game.QuestionBank
	var results game.ResultStore
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bundb := bun.NewDB(sqldb, pgdialect.New())
		defer bundb.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		rooms = infrapg.NewRoomDirectory(bundb)
		bank = infrapg.NewQuestionBank(pool)
		results = infrapg.NewResultStore(bundb)
	} else {
		logger.Info("postgres not configured, using in-memory stores")
		rooms = memory.NewRoomDirectory()
		bank = memory.NewQuestionBank(sampleQuestions())
		results = memory.NewResultStore()
	}

	if redisClient != nil {
		bank = infraredis.NewQuestionCache(redisClient, bank, redisTTL)
	}

	var store game.SessionStore = game.NewStore()
	if redisClient != nil {
		store = infraredis.NewGameStore(redisClient, store, redisTTL)
	}

	questionCount := config.IntOr(cfg.Game.QuestionCount, 10)
	points := config.IntOr(cfg.Game.PointsPerAnswer, 10)
	engine := game.NewEngine(store, rooms, bank, results, questionCount, points)

	countdownStart := config.IntOr(cfg.Countdown.Start, 6)
	countdownInterval := config.Duration(cfg.Countdown.Interval, time.Second)
	coordinator := game.NewCoordinator(engine, rooms, logger, countdownStart, countdownInterval)

	streamInterval := config.Duration(cfg.Stream.Interval, 2*time.Second)
	handler := transport.NewHandler(rooms, engine, coordinator, logger, streamInterval)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming endpoints hold connections open
	}

	go func() {
		logger.Info("starting trivia server", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions seeds the in-memory bank for the no-database demo mode.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: 1, Text: "What is the capital of France?", Category: "Geography", Difficulty: "Easy",
			Answers: []domain.Answer{
				{ID: 1, Text: "Paris", IsCorrect: true, QuestionID: 1},
				{ID: 2, Text: "Lyon", QuestionID: 1},
				{ID: 3, Text: "Marseille", QuestionID: 1},
			},
		},
		{
			ID: 2, Text: "Which planet is known as the Red Planet?", Category: "Science", Difficulty: "Easy",
			Answers: []domain.Answer{
				{ID: 4, Text: "Mars", IsCorrect: true, QuestionID: 2},
				{ID: 5, Text: "Venus", QuestionID: 2},
				{ID: 6, Text: "Jupiter", QuestionID: 2},
			},
		},
		{
			ID: 3, Text: "What is the smallest prime number?", Category: "Math", Difficulty: "Easy",
			Answers: []domain.Answer{
				{ID: 7, Text: "2", IsCorrect: true, QuestionID: 3},
				{ID: 8, Text: "1", QuestionID: 3},
				{ID: 9, Text: "0", QuestionID: 3},
			},
		},
	}
}
