package battle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/pkg/ctxutil"
)

const anonymousActor = "A mysterious stranger"

// SubmitBattle records a reading session as an attack on a category's boss.
// Submissions are serialized per user (quota read-then-write) and per boss
// (HP read-then-write). The activity record and the battle entry are written
// in one transaction; everything after that write is best-effort.
func (s *Service) SubmitBattle(ctx context.Context, input SubmitBattleInput) (*BattleResult, error) {
	if err := input.Validate(s.rules); err != nil {
		return nil, err
	}

	userID, authenticated := ctxutil.UserIDFromCtx(ctx)

	// Lock order is always user before boss.
	if authenticated {
		userKey := "user:" + userID.String()
		s.locks.Lock(userKey)
		defer s.locks.Unlock(userKey)
	}
	bossKey := "boss:" + input.Category.String()
	s.locks.Lock(bossKey)
	defer s.locks.Unlock(bossKey)

	boss, err := s.bosses.GetOrCreate(ctx, input.Category, domain.DefaultBossName(input.Category), s.rules.MaxHitPoints)
	if err != nil {
		return nil, fmt.Errorf("get boss: %w", err)
	}

	now := s.now()

	if authenticated {
		_, remaining, err := s.remainingMinutes(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		if input.Minutes > remaining {
			return nil, &domain.QuotaError{Requested: input.Minutes, Remaining: remaining}
		}
	}

	state, err := s.resolveHP(ctx, boss)
	if err != nil {
		return nil, err
	}

	damage := min(input.Minutes, state.current)
	hpAfter := state.current - damage

	actorName := s.resolveActorName(ctx, userID, authenticated)

	var recordUserID *uuid.UUID
	if authenticated {
		recordUserID = &userID
	}

	entry := &domain.NarrativeEntry{
		ID:      uuid.New(),
		BossID:  boss.ID,
		Kind:    domain.EntryKindBattleAction,
		Content: battleText(boss.Category, actorName, damage, input.BookTitle),
		Meta: domain.BattleMeta{
			Damage:      damage,
			MinutesRead: input.Minutes,
			ActorName:   actorName,
			BookTitle:   input.BookTitle,
			HPBefore:    state.current,
			HPAfter:     hpAfter,
		},
		CreatedAt: now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.activities.Append(txCtx, &domain.ActivityRecord{
			ID:           uuid.New(),
			BossID:       boss.ID,
			UserID:       recordUserID,
			BookID:       input.BookID,
			Minutes:      input.Minutes,
			Damage:       damage,
			ActivityType: domain.ActivityTypeReading,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("append activity record: %w", err)
		}

		if _, err := s.narratives.Append(txCtx, entry); err != nil {
			return fmt.Errorf("append battle entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &BattleResult{
		Boss:             boss,
		Damage:           damage,
		HPBefore:         state.current,
		CurrentHitPoints: hpAfter,
		Entry:            entry,
	}

	// The damage is durable from here on. Defeat and milestone entries are
	// best-effort: failures are logged, never surfaced to the submitter.
	if state.current > 0 && hpAfter <= 0 {
		result.Defeated = true
		result.CurrentHitPoints = boss.MaxHitPoints
		s.handleDefeat(ctx, boss, actorName)
	} else {
		result.Milestone = s.detectMilestone(ctx, boss, state.cycleStart, hpAfter)
	}

	s.log.InfoContext(ctx, "battle submitted",
		slog.String("category", boss.Category.String()),
		slog.String("actor", actorName),
		slog.Int("minutes", input.Minutes),
		slog.Int("damage", damage),
		slog.Int("hp_after", result.CurrentHitPoints),
		slog.Bool("defeated", result.Defeated),
	)

	return result, nil
}

// resolveActorName returns the display name for narrative text. A failed
// lookup never blocks a battle.
func (s *Service) resolveActorName(ctx context.Context, userID uuid.UUID, authenticated bool) string {
	if !authenticated {
		return anonymousActor
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "actor name lookup failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return anonymousActor
	}

	return u.BattleName()
}
