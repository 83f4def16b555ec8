// Package activity implements the activity record repository using
// PostgreSQL. Records are append-only; aggregates (quota sums, battle stats,
// progression totals) are computed in SQL with squirrel-built queries.
package activity

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// Repo provides activity record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const appendRecordSQL = `
INSERT INTO activity_records
    (id, boss_id, user_id, book_id, minutes, damage, activity_type, is_bonus, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const participantsSinceSQL = `
SELECT DISTINCT ON (user_id) user_id, book_id
FROM activity_records
WHERE boss_id = $1 AND user_id IS NOT NULL AND damage > 0 AND created_at > $2
ORDER BY user_id, created_at DESC`

const statsSinceSQL = `
SELECT
    COALESCE(sum(damage), 0) AS total_damage,
    COALESCE(sum(minutes), 0) AS total_minutes,
    count(DISTINCT user_id) FILTER (WHERE user_id IS NOT NULL) AS unique_contributors
FROM activity_records
WHERE boss_id = $1 AND created_at >= $2`

// Append inserts a new activity record. CreatedAt must be set by the caller.
func (r *Repo) Append(ctx context.Context, rec *domain.ActivityRecord) (*domain.ActivityRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, appendRecordSQL,
		rec.ID, rec.BossID, rec.UserID, rec.BookID,
		rec.Minutes, rec.Damage, rec.ActivityType.String(), rec.IsBonus, rec.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "activity_record", rec.ID)
	}

	return rec, nil
}

// SumMinutesByUser returns the total minutes a user logged across all bosses
// within [from, to]. This is the quota projection: every record counts,
// granted bonus minutes included.
func (r *Repo) SumMinutesByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	query, args, err := psql.Select("COALESCE(sum(minutes), 0)").
		From("activity_records").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.LtOrEq{"created_at": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build quota sum query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum minutes by user: %w", err)
	}

	return total, nil
}

// SumMinutes returns the total minutes attributable to a user on one boss,
// bonus records included. This is the progression projection.
func (r *Repo) SumMinutes(ctx context.Context, bossID, userID uuid.UUID) (int, error) {
	query, args, err := psql.Select("COALESCE(sum(minutes), 0)").
		From("activity_records").
		Where(sq.Eq{"boss_id": bossID}).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build progression sum query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum minutes: %w", err)
	}

	return total, nil
}

// ParticipantsSince returns the distinct users who dealt damage to a boss
// strictly after the given time, each with the most recent book they fought
// with (if any).
func (r *Repo) ParticipantsSince(ctx context.Context, bossID uuid.UUID, since time.Time) ([]domain.Participant, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, participantsSinceSQL, bossID, since)
	if err != nil {
		return nil, fmt.Errorf("participants since: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.BookID); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	if participants == nil {
		participants = []domain.Participant{}
	}

	return participants, nil
}

// StatsSince returns aggregate battle stats for a boss since the given time,
// computed entirely in SQL.
func (r *Repo) StatsSince(ctx context.Context, bossID uuid.UUID, since time.Time) (domain.BattleStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var stats domain.BattleStats
	err := querier.QueryRow(ctx, statsSinceSQL, bossID, since).
		Scan(&stats.TotalDamage, &stats.TotalMinutes, &stats.UniqueContributors)
	if err != nil {
		return domain.BattleStats{}, fmt.Errorf("stats since: %w", err)
	}

	return stats, nil
}
