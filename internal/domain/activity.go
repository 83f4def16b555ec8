package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityRecord is an immutable log record of minutes contributed against a
// boss. It feeds three projections: damage (HP resolution), the trailing-24h
// quota, and progression totals. Bonus records always carry zero damage and
// exist purely to grant progression minutes.
type ActivityRecord struct {
	ID           uuid.UUID
	BossID       uuid.UUID
	UserID       *uuid.UUID
	BookID       *uuid.UUID
	Minutes      int
	Damage       int
	ActivityType ActivityType
	IsBonus      bool
	CreatedAt    time.Time
}

// Participant identifies a distinct damage-dealing user of a cycle, carrying
// the book they fought with (if any) so victory bonuses can reference it.
type Participant struct {
	UserID uuid.UUID
	BookID *uuid.UUID
}

// BattleStats is an aggregate over activity records within a time window.
type BattleStats struct {
	TotalDamage        int
	TotalMinutes       int
	UniqueContributors int
}
