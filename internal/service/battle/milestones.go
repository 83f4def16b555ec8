package battle

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// milestoneFor returns the milestone band containing the given hit points.
// Bands are (50%, 75%], (25%, 50%] and (0%, 25%] of the maximum.
func milestoneFor(hitPoints, maxHitPoints int) (domain.MilestoneTag, float64, bool) {
	pct := float64(hitPoints) / float64(maxHitPoints) * 100

	switch {
	case pct > 50 && pct <= 75:
		return domain.Milestone75Percent, pct, true
	case pct > 25 && pct <= 50:
		return domain.Milestone50Percent, pct, true
	case pct > 0 && pct <= 25:
		return domain.Milestone25Percent, pct, true
	}

	return "", pct, false
}

// detectMilestone appends a MILESTONE entry if the boss's hit points landed in
// a band not yet announced this cycle. Returns the tag if one was written.
// Best-effort: errors are logged and swallowed.
func (s *Service) detectMilestone(ctx context.Context, boss *domain.Boss, cycleStart domain.LogPosition, hitPoints int) *domain.MilestoneTag {
	tag, pct, ok := milestoneFor(hitPoints, boss.MaxHitPoints)
	if !ok {
		return nil
	}

	// The lookup is scoped to the current cycle so a milestone from before a
	// respawn does not suppress the same milestone now.
	exists, err := s.narratives.MilestoneExistsAfter(ctx, boss.ID, tag, cycleStart)
	if err != nil {
		s.log.WarnContext(ctx, "milestone dedup check failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("tag", tag.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if exists {
		return nil
	}

	_, err = s.narratives.Append(ctx, &domain.NarrativeEntry{
		ID:        uuid.New(),
		BossID:    boss.ID,
		Kind:      domain.EntryKindMilestone,
		Content:   milestoneText(boss.Category, boss.Name, tag),
		Meta:      domain.MilestoneMeta{Tag: tag, HPPercent: pct},
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.WarnContext(ctx, "milestone entry append failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("tag", tag.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return &tag
}
