// Package boss implements the Boss repository using PostgreSQL.
package boss

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// Repo provides boss persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new boss repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByCategorySQL = `
SELECT id, category, name, max_hit_points, created_at
FROM bosses
WHERE category = $1`

const insertBossSQL = `
INSERT INTO bosses (id, category, name, max_hit_points, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (category) DO NOTHING`

const listBossesSQL = `
SELECT id, category, name, max_hit_points, created_at
FROM bosses
ORDER BY category`

// GetByCategory returns the boss for a category.
// Returns domain.ErrNotFound if no boss exists yet.
func (r *Repo) GetByCategory(ctx context.Context, category domain.BossCategory) (*domain.Boss, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var b domain.Boss
	err := querier.QueryRow(ctx, getByCategorySQL, category.String()).
		Scan(&b.ID, &b.Category, &b.Name, &b.MaxHitPoints, &b.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "boss", uuid.Nil)
	}

	return &b, nil
}

// GetOrCreate returns the boss for a category, lazily creating it with the
// given defaults on first access. The insert uses ON CONFLICT DO NOTHING so
// concurrent first accesses converge on a single row.
func (r *Repo) GetOrCreate(ctx context.Context, category domain.BossCategory, name string, maxHitPoints int) (*domain.Boss, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	_, err := querier.Exec(ctx, insertBossSQL, id, category.String(), name, maxHitPoints, time.Now().UTC())
	if err != nil {
		return nil, postgres.MapError(err, "boss", id)
	}

	boss, err := r.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("get boss after create: %w", err)
	}

	return boss, nil
}

// List returns all bosses ordered by category. Used by the bonus distributor
// to credit every category on a defeat.
func (r *Repo) List(ctx context.Context) ([]*domain.Boss, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listBossesSQL)
	if err != nil {
		return nil, fmt.Errorf("list bosses: %w", err)
	}
	defer rows.Close()

	var bosses []*domain.Boss
	for rows.Next() {
		var b domain.Boss
		if err := rows.Scan(&b.ID, &b.Category, &b.Name, &b.MaxHitPoints, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan boss: %w", err)
		}
		bosses = append(bosses, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bosses: %w", err)
	}

	if bosses == nil {
		bosses = []*domain.Boss{}
	}

	return bosses, nil
}
