package domain

import "time"

// QuotaWindow is the trailing window the daily minute quota is computed over.
const QuotaWindow = 24 * time.Hour

// BattleRules are the tunable battle and quota parameters.
type BattleRules struct {
	MaxHitPoints        int
	DailyMinuteLimit    int
	MaxMinutesPerSubmit int
	VictoryBonusMinutes int
}

// DefaultBattleRules returns the production defaults.
func DefaultBattleRules() BattleRules {
	return BattleRules{
		MaxHitPoints:        DefaultMaxHitPoints,
		DailyMinuteLimit:    500,
		MaxMinutesPerSubmit: 300,
		VictoryBonusMinutes: 60,
	}
}
