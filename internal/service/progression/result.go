package progression

import (
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// CategoryProgress is a user's standing in one category. Exactly one of the
// model fields is set, matching the category.
type CategoryProgress struct {
	Category     domain.BossCategory
	TotalMinutes int

	Cultivation *CultivationProgress
	GameLit     *GameLitProgress
	Apocalypse  *ApocalypseProgress
	Portal      *PortalProgress
}

// CultivationProgress is the tiered cultivation model: named tiers of fixed
// size with a rising minutes-per-level cost.
type CultivationProgress struct {
	Tier            string
	TierIndex       int
	Level           int
	MinutesPerLevel int
	ProgressMinutes int
}

// GameLitProgress is the quadratic leveling model.
type GameLitProgress struct {
	Level         int
	Experience    int
	LevelFloor    int
	NextLevelAt   int
	PercentToNext float64
}

// ApocalypseProgress is the survival stat-block model.
type ApocalypseProgress struct {
	SurvivalDays int
	Stats        StatBlock
}

// StatBlock holds the seven survivor stats.
type StatBlock struct {
	STR  int
	CON  int
	DEX  int
	WIS  int
	INT  int
	CHA  int
	LUCK int
}

// PortalProgress is the reincarnation model: lives of 200 minutes, ten levels
// per life, an archetype per reincarnation.
type PortalProgress struct {
	Reincarnations int
	Archetype      string
	LifeLevel      int
	LifeMinutes    int
}
