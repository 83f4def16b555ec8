package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Battle.validate(); err != nil {
		return fmt.Errorf("battle: %w", err)
	}

	return nil
}

func (b *BattleConfig) validate() error {
	if b.MaxHitPoints <= 0 {
		return fmt.Errorf("max_hit_points must be > 0 (got %d)", b.MaxHitPoints)
	}
	if b.DailyMinuteLimit <= 0 {
		return fmt.Errorf("daily_minute_limit must be > 0 (got %d)", b.DailyMinuteLimit)
	}
	if b.MaxMinutesPerSubmit <= 0 {
		return fmt.Errorf("max_minutes_per_submit must be > 0 (got %d)", b.MaxMinutesPerSubmit)
	}
	if b.MaxMinutesPerSubmit > b.DailyMinuteLimit {
		return fmt.Errorf("max_minutes_per_submit (%d) must not exceed daily_minute_limit (%d)",
			b.MaxMinutesPerSubmit, b.DailyMinuteLimit)
	}
	if b.VictoryBonusMinutes < 0 {
		return fmt.Errorf("victory_bonus_minutes must be >= 0 (got %d)", b.VictoryBonusMinutes)
	}
	return nil
}
