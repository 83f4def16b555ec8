package progression

import (
	"math"

	"github.com/pagebound/bossraid-backend/internal/domain"
)

// cultivationTier is one stage of the cultivation ladder.
type cultivationTier struct {
	name            string
	levels          int
	minutesPerLevel int
}

// The minutes-per-level cost rises by 60 per tier.
var cultivationTiers = []cultivationTier{
	{name: "Qi Condensation", levels: 9, minutesPerLevel: 60},
	{name: "Foundation Establishment", levels: 9, minutesPerLevel: 120},
	{name: "Core Formation", levels: 9, minutesPerLevel: 180},
	{name: "Nascent Soul", levels: 9, minutesPerLevel: 240},
	{name: "Soul Transformation", levels: 9, minutesPerLevel: 300},
	{name: "Ascension", levels: 9, minutesPerLevel: 360},
}

var portalArchetypes = []string{
	"Lost Farmhand",
	"Guild Apprentice",
	"Wandering Adventurer",
	"Oathbound Knight",
	"Circle Archmage",
	"Demon Sovereign",
	"World Walker",
}

const (
	gamelitMinutesPerLevelSq = 45
	apocalypseMinutesPerDay  = 30
	apocalypseDaysPerBump    = 10
	apocalypseBaseStat       = 10
	portalMinutesPerLife     = 200
	portalMinutesPerLevel    = 20
	portalMaxLifeLevel       = 10
)

// Compute maps a minute total onto the category's progression curve.
// Pure and deterministic; negative totals are treated as zero.
func Compute(category domain.BossCategory, totalMinutes int) CategoryProgress {
	if totalMinutes < 0 {
		totalMinutes = 0
	}

	p := CategoryProgress{Category: category, TotalMinutes: totalMinutes}

	switch category {
	case domain.BossCategoryCultivation:
		p.Cultivation = computeCultivation(totalMinutes)
	case domain.BossCategoryGameLit:
		p.GameLit = computeGameLit(totalMinutes)
	case domain.BossCategoryApocalypse:
		p.Apocalypse = computeApocalypse(totalMinutes)
	case domain.BossCategoryPortal:
		p.Portal = computePortal(totalMinutes)
	}

	return p
}

// computeCultivation consumes minutes tier by tier until the remainder fits
// inside one. Past the final tier the level clamps at its maximum.
func computeCultivation(totalMinutes int) *CultivationProgress {
	remainder := totalMinutes

	for i, tier := range cultivationTiers {
		tierCost := tier.levels * tier.minutesPerLevel
		last := i == len(cultivationTiers)-1

		if remainder >= tierCost && !last {
			remainder -= tierCost
			continue
		}

		level := remainder/tier.minutesPerLevel + 1
		if level > tier.levels {
			level = tier.levels
		}

		return &CultivationProgress{
			Tier:            tier.name,
			TierIndex:       i,
			Level:           level,
			MinutesPerLevel: tier.minutesPerLevel,
			ProgressMinutes: remainder % tier.minutesPerLevel,
		}
	}

	// Unreachable: the loop always returns on the last tier.
	return nil
}

// computeGameLit is quadratic: level boundaries sit at 45·(level−1)² and
// 45·level² minutes.
func computeGameLit(totalMinutes int) *GameLitProgress {
	level := int(math.Sqrt(float64(totalMinutes)/gamelitMinutesPerLevelSq)) + 1

	floor := gamelitMinutesPerLevelSq * (level - 1) * (level - 1)
	next := gamelitMinutesPerLevelSq * level * level

	pct := float64(totalMinutes-floor) / float64(next-floor) * 100

	return &GameLitProgress{
		Level:         level,
		Experience:    totalMinutes - floor,
		LevelFloor:    floor,
		NextLevelAt:   next,
		PercentToNext: pct,
	}
}

// computeApocalypse grants a stat bump every ten survival days. CON grows at
// 1.5× the pace; LUCK erodes by 0.3× per bump but never below 1.
func computeApocalypse(totalMinutes int) *ApocalypseProgress {
	days := totalMinutes / apocalypseMinutesPerDay
	bumps := days / apocalypseDaysPerBump

	luck := apocalypseBaseStat - int(math.Floor(0.3*float64(bumps)))
	if luck < 1 {
		luck = 1
	}

	return &ApocalypseProgress{
		SurvivalDays: days,
		Stats: StatBlock{
			STR:  apocalypseBaseStat + bumps,
			CON:  apocalypseBaseStat + int(math.Floor(1.5*float64(bumps))),
			DEX:  apocalypseBaseStat + bumps,
			WIS:  apocalypseBaseStat + bumps,
			INT:  apocalypseBaseStat + bumps,
			CHA:  apocalypseBaseStat + bumps,
			LUCK: luck,
		},
	}
}

// computePortal counts 200-minute lives. The archetype list clamps at its
// last entry for long reincarnation chains.
func computePortal(totalMinutes int) *PortalProgress {
	reincarnations := totalMinutes / portalMinutesPerLife
	within := totalMinutes % portalMinutesPerLife

	lifeLevel := within/portalMinutesPerLevel + 1
	if lifeLevel > portalMaxLifeLevel {
		lifeLevel = portalMaxLifeLevel
	}

	archetypeIdx := reincarnations
	if archetypeIdx >= len(portalArchetypes) {
		archetypeIdx = len(portalArchetypes) - 1
	}

	return &PortalProgress{
		Reincarnations: reincarnations,
		Archetype:      portalArchetypes[archetypeIdx],
		LifeLevel:      lifeLevel,
		LifeMinutes:    within,
	}
}
