// Package main is the entrypoint for the fitlog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/cache"
	"github.com/fitlog/fitlog/internal/config"
	"github.com/fitlog/fitlog/internal/handler"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
	"github.com/fitlog/fitlog/internal/repository/memory"
	"github.com/fitlog/fitlog/internal/router"
	"github.com/fitlog/fitlog/internal/server"
	"github.com/fitlog/fitlog/internal/service"
)

// stores bundles the persistence layer selected by DATABASE_URL.
type stores struct {
	users    service.UserStore
	foods    service.EntryStore[*model.FoodLog, model.FoodLogPatch]
	workouts service.EntryStore[*model.WorkoutLog, model.WorkoutLogPatch]
	health   handler.HealthChecker
	close    func()
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error(
			"failed to open database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		st.close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		logger.Error("invalid bcrypt cost", "error", err)
		os.Exit(1)
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	if !cfg.ResetRequireChallenge {
		logger.Warn("password reset does not require a challenge; anyone who knows an email can reset its password",
			"setting", "RESET_REQUIRE_CHALLENGE")
	}

	// Initialize services
	metricsRecorder := metrics.NewPrometheus()
	accounts := service.NewAccountService(st.users, hasher, tokens, service.ResetPolicy{
		RequireChallenge: cfg.ResetRequireChallenge,
		ChallengeTTL:     cfg.ResetChallengeTTL,
		Codes:            cacheClient,
		Sender: &service.LogChallengeSender{
			Logger:     logger,
			RevealCode: cfg.IsDevelopment(),
		},
	}, metricsRecorder, logger)

	r := router.New(router.Deps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metricsRecorder,
		Exposer:  metricsRecorder.Handler(),
		Accounts: accounts,
		Foods:    service.NewFoodLogbook(st.foods, metricsRecorder),
		Workouts: service.NewWorkoutLogbook(st.workouts, metricsRecorder),
		Tokens:   tokens,
		Limiter:  cacheClient,
		Store:    st.health,
		Cache:    cacheClient,
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("database", func(context.Context) error {
		st.close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"api_prefix", cfg.APIPrefix,
		"env", cfg.AppEnv,
		"store", storeKind(cfg),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStores connects to PostgreSQL, applying migrations first when
// enabled, or builds the in-process store for memory://.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.UsesMemoryStore() {
		mem := memory.New()
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			users:    mem,
			foods:    mem.FoodLogs(),
			workouts: mem.WorkoutLogs(),
			health:   mem,
			close:    mem.Close,
		}, nil
	}

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	return &stores{
		users:    repo,
		foods:    repo.FoodLogs(),
		workouts: repo.WorkoutLogs(),
		health:   repo,
		close:    repo.Close,
	}, nil
}

func storeKind(cfg *config.Config) string {
	if cfg.UsesMemoryStore() {
		return "memory"
	}
	return "postgres"
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
