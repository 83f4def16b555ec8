// Package narrative implements the append-only narrative log repository using
// PostgreSQL. Entries are never updated or deleted; dynamic listing filters
// are built with squirrel, point lookups use raw SQL.
package narrative

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// Repo provides narrative log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new narrative repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const appendEntrySQL = `
INSERT INTO narrative_entries (id, boss_id, kind, content, meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING seq`

const lastByKindSQL = `
SELECT id, boss_id, kind, content, meta, created_at, seq
FROM narrative_entries
WHERE boss_id = $1 AND kind = $2
ORDER BY created_at DESC, seq DESC
LIMIT 1`

const lastByKindBeforeSQL = `
SELECT id, boss_id, kind, content, meta, created_at, seq
FROM narrative_entries
WHERE boss_id = $1 AND kind = $2 AND (created_at, seq) < ($3, $4)
ORDER BY created_at DESC, seq DESC
LIMIT 1`

const milestoneExistsAfterSQL = `
SELECT EXISTS(
    SELECT 1 FROM narrative_entries
    WHERE boss_id = $1
      AND kind = $2
      AND meta->>'tag' = $3
      AND (created_at, seq) > ($4, $5)
)`

// Append inserts a new narrative entry. CreatedAt must be set by the caller
// (introductions are backdated); the database assigns the insertion-order seq,
// which is written back into the entry.
func (r *Repo) Append(ctx context.Context, e *domain.NarrativeEntry) (*domain.NarrativeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	metaBytes, err := marshalMeta(e.Meta)
	if err != nil {
		return nil, fmt.Errorf("narrative_entry marshal meta: %w", err)
	}

	err = querier.QueryRow(ctx, appendEntrySQL,
		e.ID, e.BossID, e.Kind.String(), e.Content, metaBytes, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return nil, postgres.MapError(err, "narrative_entry", e.ID)
	}

	return e, nil
}

// List returns entries matching the filter, ordered oldest-first unless
// NewestFirst is set.
func (r *Repo) List(ctx context.Context, f domain.NarrativeFilter) ([]*domain.NarrativeEntry, error) {
	normalize(&f)

	b := psql.Select("id", "boss_id", "kind", "content", "meta", "created_at", "seq").
		From("narrative_entries").
		Where(sq.Eq{"boss_id": f.BossID})

	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = k.String()
		}
		b = b.Where(sq.Eq{"kind": kinds})
	}

	if f.After != nil {
		b = b.Where(sq.Expr("(created_at, seq) > (?, ?)", f.After.Time, f.After.Seq))
	}

	if f.NewestFirst {
		b = b.OrderBy("created_at DESC", "seq DESC")
	} else {
		b = b.OrderBy("created_at ASC", "seq ASC")
	}

	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build narrative list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list narrative_entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.NarrativeEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate narrative_entries: %w", err)
	}

	if entries == nil {
		entries = []*domain.NarrativeEntry{}
	}

	return entries, nil
}

// LastByKind returns the most recent entry of a kind for a boss.
// Returns domain.ErrNotFound if none exists.
func (r *Repo) LastByKind(ctx context.Context, bossID uuid.UUID, kind domain.EntryKind) (*domain.NarrativeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, lastByKindSQL, bossID, kind.String())
	e, err := scanEntry(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "narrative_entry", bossID)
	}

	return e, nil
}

// LastByKindBefore returns the most recent entry of a kind strictly before the
// given log position. The bonus distributor uses it to find the previous
// cycle's DEFEAT, skipping the one just written.
// Returns domain.ErrNotFound if none exists.
func (r *Repo) LastByKindBefore(ctx context.Context, bossID uuid.UUID, kind domain.EntryKind, before domain.LogPosition) (*domain.NarrativeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, lastByKindBeforeSQL, bossID, kind.String(), before.Time, before.Seq)
	e, err := scanEntry(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "narrative_entry", bossID)
	}

	return e, nil
}

// MilestoneExistsAfter reports whether a MILESTONE entry with the given tag
// exists strictly after the log position. Scoping the lookup to the current
// cycle keeps a milestone from a previous cycle from suppressing the same
// milestone after a respawn.
func (r *Repo) MilestoneExistsAfter(ctx context.Context, bossID uuid.UUID, tag domain.MilestoneTag, after domain.LogPosition) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := querier.QueryRow(ctx, milestoneExistsAfterSQL,
		bossID, domain.EntryKindMilestone.String(), tag.String(), after.Time, after.Seq,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("milestone exists check: %w", err)
	}

	return exists, nil
}

// scanEntry scans one narrative row using the provided scan function,
// decoding the kind-specific meta payload.
func scanEntry(scan func(dest ...any) error) (*domain.NarrativeEntry, error) {
	var (
		e    domain.NarrativeEntry
		kind string
		meta []byte
	)

	if err := scan(&e.ID, &e.BossID, &kind, &e.Content, &meta, &e.CreatedAt, &e.Seq); err != nil {
		return nil, err
	}

	e.Kind = domain.EntryKind(kind)

	m, err := unmarshalMeta(e.Kind, meta)
	if err != nil {
		return nil, fmt.Errorf("narrative_entry %s: %w", e.ID, err)
	}
	e.Meta = m

	return &e, nil
}
