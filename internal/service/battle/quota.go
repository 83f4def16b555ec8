package battle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/pkg/ctxutil"
)

// remainingMinutes computes a user's used and remaining minutes over the
// trailing quota window ending at now. The window slides continuously; there
// is no midnight reset.
func (s *Service) remainingMinutes(ctx context.Context, userID uuid.UUID, now time.Time) (used, remaining int, err error) {
	used, err = s.activities.SumMinutesByUser(ctx, userID, now.Add(-domain.QuotaWindow), now)
	if err != nil {
		return 0, 0, fmt.Errorf("sum quota window: %w", err)
	}

	remaining = s.rules.DailyMinuteLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return used, remaining, nil
}

// GetDailyMinutes reports the caller's position against the daily quota.
func (s *Service) GetDailyMinutes(ctx context.Context) (*DailyMinutes, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	used, remaining, err := s.remainingMinutes(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	return &DailyMinutes{
		UsedMinutes:      used,
		RemainingMinutes: remaining,
		LimitMinutes:     s.rules.DailyMinuteLimit,
	}, nil
}
