// Package battle implements the boss battle business logic: submitting
// battles, deriving boss hit points from the narrative log, milestone
// detection, defeat handling, and victory bonus distribution.
package battle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type bossRepo interface {
	GetByCategory(ctx context.Context, category domain.BossCategory) (*domain.Boss, error)
	GetOrCreate(ctx context.Context, category domain.BossCategory, name string, maxHitPoints int) (*domain.Boss, error)
	List(ctx context.Context) ([]*domain.Boss, error)
}

type narrativeRepo interface {
	Append(ctx context.Context, e *domain.NarrativeEntry) (*domain.NarrativeEntry, error)
	List(ctx context.Context, f domain.NarrativeFilter) ([]*domain.NarrativeEntry, error)
	LastByKind(ctx context.Context, bossID uuid.UUID, kind domain.EntryKind) (*domain.NarrativeEntry, error)
	LastByKindBefore(ctx context.Context, bossID uuid.UUID, kind domain.EntryKind, before domain.LogPosition) (*domain.NarrativeEntry, error)
	MilestoneExistsAfter(ctx context.Context, bossID uuid.UUID, tag domain.MilestoneTag, after domain.LogPosition) (bool, error)
}

type activityRepo interface {
	Append(ctx context.Context, rec *domain.ActivityRecord) (*domain.ActivityRecord, error)
	SumMinutesByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
	ParticipantsSince(ctx context.Context, bossID uuid.UUID, since time.Time) ([]domain.Participant, error)
	StatsSince(ctx context.Context, bossID uuid.UUID, since time.Time) (domain.BattleStats, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the battle business logic.
type Service struct {
	bosses     bossRepo
	narratives narrativeRepo
	activities activityRepo
	users      userRepo
	tx         txManager
	log        *slog.Logger
	rules      domain.BattleRules
	locks      *keyedMutex
	now        func() time.Time
}

// NewService creates a new Battle service.
func NewService(
	log *slog.Logger,
	bosses bossRepo,
	narratives narrativeRepo,
	activities activityRepo,
	users userRepo,
	tx txManager,
	rules domain.BattleRules,
) (*Service, error) {
	if rules.MaxHitPoints <= 0 {
		return nil, fmt.Errorf("invalid battle rules: max hit points must be positive")
	}
	if rules.MaxMinutesPerSubmit <= 0 || rules.MaxMinutesPerSubmit > rules.DailyMinuteLimit {
		return nil, fmt.Errorf("invalid battle rules: max minutes per submit must be in (0, daily limit]")
	}

	return &Service{
		bosses:     bosses,
		narratives: narratives,
		activities: activities,
		users:      users,
		tx:         tx,
		log:        log.With("service", "battle"),
		rules:      rules,
		locks:      newKeyedMutex(),
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}
