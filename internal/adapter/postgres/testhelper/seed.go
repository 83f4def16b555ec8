package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagebound/bossraid-backend/internal/domain"
)

// SeedUser inserts a user row and returns its ID.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, display_name, created_at) VALUES ($1, $2, $3, $4)`,
		id, username, username, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// SeedBoss inserts a boss row for a unique throwaway category and returns it.
// Tests share one database, so each test gets its own category string.
func SeedBoss(t *testing.T, pool *pgxpool.Pool, maxHitPoints int) *domain.Boss {
	t.Helper()

	b := &domain.Boss{
		ID:           uuid.New(),
		Category:     domain.BossCategory("TEST_" + uuid.NewString()),
		Name:         "Test Boss",
		MaxHitPoints: maxHitPoints,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO bosses (id, category, name, max_hit_points, created_at) VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Category.String(), b.Name, b.MaxHitPoints, b.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed boss: %v", err)
	}
	return b
}
