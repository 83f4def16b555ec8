package battle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// handleDefeat closes the cycle with a DEFEAT entry and distributes the
// victory bonus. The boss respawns implicitly: the DEFEAT entry resets the
// HP derivation window. Best-effort throughout.
func (s *Service) handleDefeat(ctx context.Context, boss *domain.Boss, finalBlowBy string) {
	defeat, err := s.narratives.Append(ctx, &domain.NarrativeEntry{
		ID:      uuid.New(),
		BossID:  boss.ID,
		Kind:    domain.EntryKindDefeat,
		Content: defeatText(boss.Category, boss.Name, finalBlowBy),
		Meta: domain.DefeatMeta{
			FinalBlowBy: finalBlowBy,
			TotalDamage: boss.MaxHitPoints,
		},
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "defeat entry append failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	s.distributeVictoryBonus(ctx, boss, defeat)
}

// distributeVictoryBonus grants every distinct damage dealer of the ended
// cycle bonus minutes on every category's boss. The bonus is universal:
// defeating one boss advances all four progressions.
func (s *Service) distributeVictoryBonus(ctx context.Context, boss *domain.Boss, defeat *domain.NarrativeEntry) {
	var since time.Time
	prev, err := s.narratives.LastByKindBefore(ctx, boss.ID, domain.EntryKindDefeat, domain.PositionOf(defeat))
	switch {
	case err == nil:
		since = prev.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		// First defeat of this boss, the whole log is the cycle.
	default:
		s.log.ErrorContext(ctx, "previous defeat lookup failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	participants, err := s.activities.ParticipantsSince(ctx, boss.ID, since)
	if err != nil {
		s.log.ErrorContext(ctx, "participant lookup failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(participants) == 0 {
		return
	}

	bosses, err := s.bosses.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "boss list failed during bonus distribution",
			slog.String("error", err.Error()),
		)
		return
	}

	now := s.now()
	granted := 0
	for _, target := range bosses {
		for _, p := range participants {
			userID := p.UserID
			_, err := s.activities.Append(ctx, &domain.ActivityRecord{
				ID:           uuid.New(),
				BossID:       target.ID,
				UserID:       &userID,
				BookID:       p.BookID,
				Minutes:      s.rules.VictoryBonusMinutes,
				Damage:       0,
				ActivityType: domain.ActivityTypeBossVictory,
				IsBonus:      true,
				CreatedAt:    now,
			})
			if err != nil {
				s.log.ErrorContext(ctx, "bonus record append failed",
					slog.String("boss_id", target.ID.String()),
					slog.String("user_id", userID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			granted++
		}
	}

	s.log.InfoContext(ctx, "victory bonus distributed",
		slog.String("defeated_boss", boss.Category.String()),
		slog.Int("participants", len(participants)),
		slog.Int("records_granted", granted),
		slog.Int("minutes_each", s.rules.VictoryBonusMinutes),
	)
}
