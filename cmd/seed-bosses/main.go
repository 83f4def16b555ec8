// Command seed-bosses ensures a boss exists for every category. Bosses are
// also created lazily on first API access, so running this is optional; it
// exists so fresh environments start with a full roster instead of creating
// bosses one request at a time.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	bossrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/boss"
	"github.com/pagebound/bossraid-backend/internal/app"
	"github.com/pagebound/bossraid-backend/internal/config"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	bosses := bossrepo.New(pool)

	for _, category := range domain.AllBossCategories() {
		boss, err := bosses.GetOrCreate(ctx, category, domain.DefaultBossName(category), cfg.Battle.MaxHitPoints)
		if err != nil {
			logger.Error("seed boss",
				slog.String("category", category.String()),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}

		logger.Info("boss ready",
			slog.String("category", category.String()),
			slog.String("name", boss.Name),
			slog.String("boss_id", boss.ID.String()),
		)
	}
}
