// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/proofofhustle/api/internal/admin"
	"github.com/proofofhustle/api/internal/application"
	"github.com/proofofhustle/api/internal/auth"
	"github.com/proofofhustle/api/internal/config"
	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/health"
	"github.com/proofofhustle/api/internal/middleware"
	"github.com/proofofhustle/api/internal/migrations"
	"github.com/proofofhustle/api/internal/notify"
	"github.com/proofofhustle/api/internal/payment"
	"github.com/proofofhustle/api/internal/pricing"
	"github.com/proofofhustle/api/internal/project"
	"github.com/proofofhustle/api/internal/server"
	"github.com/proofofhustle/api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if err := migrations.Up(ctx, db.DB.DB); err != nil {
		return err
	}
	logger.Info("database migrations applied")

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if err := ensureKeyPair(cfg, logger); err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized", "algorithm", "ES256")

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Telegram.BotToken != "" {
		tg, tgErr := notify.NewTelegram(cfg.Telegram, logger)
		if tgErr != nil {
			logger.Warn("telegram notifier unavailable", "error", tgErr)
		} else {
			notifier = tg
		}
	}

	mailer := notify.NewMailer(cfg.SMTP, cfg.App.Name)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo, jwtManager, userSvc, redis.Client, mailer, logger,
	)
	authHandler := auth.NewHandler(authSvc)

	appRepo := application.NewRepository(db.DB)
	appSvc := application.NewService(db.DB, appRepo, userSvc, notifier, logger)
	appHandler := application.NewHandler(appSvc)

	projectRepo := project.NewRepository(db.DB)
	projectSvc := project.NewService(projectRepo, userSvc, notifier, logger)
	projectHandler := project.NewHandler(projectSvc)

	paymentRepo := payment.NewRepository(db.DB)
	paymentSvc := payment.NewService(db.DB, paymentRepo, userSvc, notifier, logger)
	paymentHandler := payment.NewHandler(paymentSvc)

	pricingHandler := pricing.NewHandler(
		pricing.NewResolver(cfg.Pricing, logger),
	)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	if err := userSvc.EnsureAdmin(
		ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name,
	); err != nil {
		return err
	}

	sweeper := payment.NewSweeper(userSvc, cfg.Payment.SweepInterval, logger)
	go sweeper.Run(ctx)

	srv := server.New(server.Config{
		Server:       cfg.Server,
		CORS:         cfg.CORS,
		Logger:       logger,
		IsProduction: cfg.IsProduction(),
	})

	router := srv.Router()

	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	// Every authenticated group also passes the per-member tiered
	// limiter, keyed by user once claims are on the context.
	authn := middleware.Authenticator(jwtManager)
	tiered := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers)
	authenticator := func(next http.Handler) http.Handler {
		return authn(tiered(next))
	}
	adminOnly := middleware.RequireAdmin

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		appHandler.RegisterRoutes(r)
		pricingHandler.RegisterRoutes(r)

		userHandler.RegisterRoutes(r, authenticator)
		projectHandler.RegisterRoutes(r, authenticator)
		paymentHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		appHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		projectHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		paymentHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthHandler.SetShutdown(true)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// ensureKeyPair generates a signing key pair on first boot outside
// production, so a fresh clone runs without a provisioning step.
func ensureKeyPair(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		return nil
	}

	if _, err := os.Stat(cfg.JWT.PrivateKeyPath); err == nil {
		return nil
	}

	logger.Info("generating development signing keys",
		"private_key", cfg.JWT.PrivateKeyPath,
	)

	return auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
