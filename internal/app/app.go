package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	activityrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/activity"
	bossrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/boss"
	narrativerepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/narrative"
	userrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/user"
	"github.com/pagebound/bossraid-backend/internal/auth"
	"github.com/pagebound/bossraid-backend/internal/config"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/internal/service/battle"
	"github.com/pagebound/bossraid-backend/internal/service/progression"
	"github.com/pagebound/bossraid-backend/internal/transport/middleware"
	"github.com/pagebound/bossraid-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories and services into the HTTP server, and
// blocks until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	bosses := bossrepo.New(pool)
	narratives := narrativerepo.New(pool)
	activities := activityrepo.New(pool)
	users := userrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	rules := domain.BattleRules{
		MaxHitPoints:        cfg.Battle.MaxHitPoints,
		DailyMinuteLimit:    cfg.Battle.DailyMinuteLimit,
		MaxMinutesPerSubmit: cfg.Battle.MaxMinutesPerSubmit,
		VictoryBonusMinutes: cfg.Battle.VictoryBonusMinutes,
	}

	battleSvc, err := battle.NewService(logger, bosses, narratives, activities, users, txManager, rules)
	if err != nil {
		return fmt.Errorf("create battle service: %w", err)
	}
	progressionSvc := progression.NewService(logger, bosses, activities)

	validator := auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer rateLimiter.Stop()

	mux := rest.Routes(
		rest.NewBattleHandler(battleSvc, logger),
		rest.NewProgressHandler(progressionSvc, logger),
		rest.NewHealthHandler(pool, BuildVersion()),
		rateLimiter.Limit(cfg.RateLimit.BattlePerMinute),
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(validator),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
