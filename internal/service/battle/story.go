package battle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

const (
	defaultStoryLimit  = 100
	recentEntriesLimit = 10
	statsWindow        = 24 * time.Hour
)

// GetBoss returns a category's boss with its current hit points, lazily
// creating the boss on first access.
func (s *Service) GetBoss(ctx context.Context, category domain.BossCategory) (*BossStatus, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "must be CULTIVATION, GAMELIT, APOCALYPSE, or PORTAL")
	}

	boss, err := s.bosses.GetOrCreate(ctx, category, domain.DefaultBossName(category), s.rules.MaxHitPoints)
	if err != nil {
		return nil, fmt.Errorf("get boss: %w", err)
	}

	state, err := s.resolveHP(ctx, boss)
	if err != nil {
		return nil, err
	}

	return &BossStatus{Boss: boss, CurrentHitPoints: state.current}, nil
}

// GetStory returns a boss's narrative log, oldest entry first. When the log
// exceeds the limit the most recent entries win, so a long-running boss still
// shows what just happened. Every story opens with an INTRODUCTION; for bosses
// that predate their own introduction one is written backdated so it sorts
// before everything else.
func (s *Service) GetStory(ctx context.Context, input GetStoryInput) (*StoryResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultStoryLimit
	}

	boss, err := s.bosses.GetOrCreate(ctx, input.Category, domain.DefaultBossName(input.Category), s.rules.MaxHitPoints)
	if err != nil {
		return nil, fmt.Errorf("get boss: %w", err)
	}

	s.ensureIntroduction(ctx, boss)

	state, err := s.resolveHP(ctx, boss)
	if err != nil {
		return nil, err
	}

	// Fetch the newest entries within the limit, then restore chronological
	// order for the reader.
	entries, err := s.narratives.List(ctx, domain.NarrativeFilter{
		BossID:      boss.ID,
		NewestFirst: true,
		Limit:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list story entries: %w", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return &StoryResult{Boss: boss, CurrentHitPoints: state.current, Entries: entries}, nil
}

// GetStats returns the last 24 hours of a boss's battle: aggregate damage,
// minutes and contributors, plus the most recent entries newest-first.
func (s *Service) GetStats(ctx context.Context, category domain.BossCategory) (*StatsResult, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "must be CULTIVATION, GAMELIT, APOCALYPSE, or PORTAL")
	}

	boss, err := s.bosses.GetOrCreate(ctx, category, domain.DefaultBossName(category), s.rules.MaxHitPoints)
	if err != nil {
		return nil, fmt.Errorf("get boss: %w", err)
	}

	state, err := s.resolveHP(ctx, boss)
	if err != nil {
		return nil, err
	}

	stats, err := s.activities.StatsSince(ctx, boss.ID, s.now().Add(-statsWindow))
	if err != nil {
		return nil, err
	}

	recent, err := s.narratives.List(ctx, domain.NarrativeFilter{
		BossID:      boss.ID,
		NewestFirst: true,
		Limit:       recentEntriesLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}

	return &StatsResult{
		Boss:             boss,
		CurrentHitPoints: state.current,
		Stats:            stats,
		RecentEntries:    recent,
	}, nil
}

// ensureIntroduction backdates an INTRODUCTION entry for a boss that has
// none, so it sorts before any battle action already in the log.
// Best-effort: a story without an introduction beats no story at all.
func (s *Service) ensureIntroduction(ctx context.Context, boss *domain.Boss) {
	_, err := s.narratives.LastByKind(ctx, boss.ID, domain.EntryKindIntroduction)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.log.WarnContext(ctx, "introduction lookup failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	at := boss.CreatedAt
	first, err := s.narratives.List(ctx, domain.NarrativeFilter{BossID: boss.ID, Limit: 1})
	if err == nil && len(first) > 0 && !first[0].CreatedAt.After(at) {
		at = first[0].CreatedAt.Add(-time.Second)
	}

	_, err = s.narratives.Append(ctx, &domain.NarrativeEntry{
		ID:        uuid.New(),
		BossID:    boss.ID,
		Kind:      domain.EntryKindIntroduction,
		Content:   introText(boss.Category, boss.Name, boss.MaxHitPoints),
		Meta:      domain.IntroMeta{MaxHitPoints: boss.MaxHitPoints},
		CreatedAt: at,
	})
	if err != nil {
		s.log.WarnContext(ctx, "introduction append failed",
			slog.String("boss_id", boss.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
