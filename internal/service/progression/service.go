// Package progression converts accumulated per-category activity minutes
// into four category-specific leveling models. The calculators are pure
// functions over a minute total; the service resolves that total from the
// activity log for the calling user.
package progression

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

type bossRepo interface {
	GetByCategory(ctx context.Context, category domain.BossCategory) (*domain.Boss, error)
}

type activityRepo interface {
	SumMinutes(ctx context.Context, bossID, userID uuid.UUID) (int, error)
}

// Service implements the progression business logic.
type Service struct {
	bosses     bossRepo
	activities activityRepo
	log        *slog.Logger
}

// NewService creates a new Progression service.
func NewService(log *slog.Logger, bosses bossRepo, activities activityRepo) *Service {
	return &Service{
		bosses:     bosses,
		activities: activities,
		log:        log.With("service", "progression"),
	}
}
