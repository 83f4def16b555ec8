package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagebound/bossraid-backend/internal/domain"
)

// hpState is a boss's hit points derived from the narrative log, together
// with the position of the current cycle's start.
type hpState struct {
	current int
	// cycleStart is the position of the last DEFEAT entry. Zero value when
	// the boss has never been defeated, meaning the whole log is one cycle.
	cycleStart domain.LogPosition
}

// resolveHP folds BATTLE_ACTION damage since the last defeat into the boss's
// current hit points. The fold clamps at zero and stops there; the result is
// always within [0, MaxHitPoints]. Read-only and idempotent.
func (s *Service) resolveHP(ctx context.Context, boss *domain.Boss) (hpState, error) {
	state := hpState{current: boss.MaxHitPoints}

	lastDefeat, err := s.narratives.LastByKind(ctx, boss.ID, domain.EntryKindDefeat)
	switch {
	case err == nil:
		state.cycleStart = domain.PositionOf(lastDefeat)
	case errors.Is(err, domain.ErrNotFound):
		// First cycle: fold the whole log.
	default:
		return hpState{}, fmt.Errorf("find last defeat: %w", err)
	}

	var after *domain.LogPosition
	if !state.cycleStart.Time.IsZero() {
		pos := state.cycleStart
		after = &pos
	}

	entries, err := s.narratives.List(ctx, domain.NarrativeFilter{
		BossID: boss.ID,
		Kinds:  []domain.EntryKind{domain.EntryKindBattleAction},
		After:  after,
	})
	if err != nil {
		return hpState{}, fmt.Errorf("list battle actions: %w", err)
	}

	for _, e := range entries {
		meta, ok := e.Meta.(domain.BattleMeta)
		if !ok {
			continue
		}
		state.current -= meta.Damage
		if state.current <= 0 {
			state.current = 0
			break
		}
	}

	return state, nil
}
