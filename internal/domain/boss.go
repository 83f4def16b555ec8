package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxHitPoints is the hit-point pool a lazily created boss starts with.
const DefaultMaxHitPoints = 10000

// Boss is a collaborative per-category target. Immutable after creation;
// current hit points are never stored — they are resolved from the narrative
// log on every read.
type Boss struct {
	ID           uuid.UUID
	Category     BossCategory
	Name         string
	MaxHitPoints int
	CreatedAt    time.Time
}

// DefaultBossName returns the flavor name a lazily created boss receives.
func DefaultBossName(category BossCategory) string {
	switch category {
	case BossCategoryCultivation:
		return "The Heavenly Tribulation Serpent"
	case BossCategoryGameLit:
		return "The Glitch Hydra"
	case BossCategoryApocalypse:
		return "The Worldender Behemoth"
	case BossCategoryPortal:
		return "The Gatekeeper of a Thousand Doors"
	default:
		return "The Nameless Horror"
	}
}
