package battle

import (
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// BossStatus is a boss together with its log-derived current hit points.
type BossStatus struct {
	Boss             *domain.Boss
	CurrentHitPoints int
}

// BattleResult is the outcome of one battle submission. On a defeat the boss
// respawns immediately, so CurrentHitPoints reports the full pool again.
type BattleResult struct {
	Boss             *domain.Boss
	Damage           int
	HPBefore         int
	CurrentHitPoints int
	Defeated         bool
	Milestone        *domain.MilestoneTag
	Entry            *domain.NarrativeEntry
}

// StoryResult is a boss's battle story, oldest entry first.
type StoryResult struct {
	Boss             *domain.Boss
	CurrentHitPoints int
	Entries          []*domain.NarrativeEntry
}

// StatsResult aggregates the last 24 hours of a boss's battle.
type StatsResult struct {
	Boss             *domain.Boss
	CurrentHitPoints int
	Stats            domain.BattleStats
	RecentEntries    []*domain.NarrativeEntry
}

// DailyMinutes reports a user's position against the trailing-24h quota.
type DailyMinutes struct {
	UsedMinutes      int
	RemainingMinutes int
	LimitMinutes     int
}
