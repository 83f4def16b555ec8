package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/pkg/ctxutil"
)

// GetProgress returns the caller's standing in one category, computed from
// their total activity minutes against that category's boss (bonus minutes
// included).
func (s *Service) GetProgress(ctx context.Context, category domain.BossCategory) (*CategoryProgress, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "must be CULTIVATION, GAMELIT, APOCALYPSE, or PORTAL")
	}

	total := 0
	boss, err := s.bosses.GetByCategory(ctx, category)
	switch {
	case err == nil:
		total, err = s.activities.SumMinutes(ctx, boss.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("sum progression minutes: %w", err)
		}
	case errors.Is(err, domain.ErrNotFound):
		// No boss yet means no activity: progression starts from zero.
	default:
		return nil, fmt.Errorf("get boss: %w", err)
	}

	progress := Compute(category, total)
	return &progress, nil
}
