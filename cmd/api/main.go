package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/seojin-ahn/todoboard/internal/config"
	"github.com/seojin-ahn/todoboard/internal/database"
	todohttp "github.com/seojin-ahn/todoboard/internal/http"
	"github.com/seojin-ahn/todoboard/internal/identity"
	"github.com/seojin-ahn/todoboard/internal/metrics"
	"github.com/seojin-ahn/todoboard/internal/middleware"
	"github.com/seojin-ahn/todoboard/internal/repository"
	"github.com/seojin-ahn/todoboard/internal/service"
	"github.com/seojin-ahn/todoboard/internal/session"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"log_level", cfg.LogLevel,
	)

	// Database connection and schema
	db, err := database.Open(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cfg.DB.DSN()); err != nil {
		return err
	}
	logger.Info("database ready")

	// Repositories
	userRepo := repository.NewPostgresUser(db)
	todoRepo := repository.NewPostgresTodo(db)
	sessionRepo := repository.NewPostgresSession(db)

	// Session manager + background cleanup
	sessions := session.NewManager(sessionRepo, session.Config{
		TTL:            cfg.Session.TTL,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: cfg.Session.SameSite(),
	})

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go sessions.RunJanitor(janitorCtx, sessionCleanupInterval, logger)

	// Identity provider integration
	keys := identity.NewKeySet(identity.JWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID))
	verifier := identity.NewTokenVerifier(
		keys,
		identity.Issuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID),
		cfg.Cognito.AppClientID,
	)

	provider, err := identity.NewCognitoProvider(
		ctx,
		cfg.Cognito.Region,
		cfg.Cognito.AppClientID,
		cfg.Cognito.AppClientSecret,
	)
	if err != nil {
		return err
	}

	// Services
	authSvc := service.NewAuthService(provider)
	userSvc := service.NewUserService(userRepo)
	todoSvc := service.NewTodoService(todoRepo)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Rate limiting for the credential endpoints
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer limiter.Stop()

	router := todohttp.NewRouter(&todohttp.RouterDeps{
		Logger:          logger,
		AuthService:     authSvc,
		UserService:     userSvc,
		TodoService:     todoSvc,
		Sessions:        sessions,
		Verifier:        verifier,
		Metrics:         collector,
		MetricsRegistry: registry,
		RateLimiter:     limiter,
	})

	server := todohttp.NewServer(cfg.ServerPort, logger, router)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
