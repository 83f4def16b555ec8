package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogPosition identifies a point in a boss's narrative log. Entries sort by
// (created_at, seq); "after" means strictly greater in that order.
type LogPosition struct {
	Time time.Time
	Seq  int64
}

// PositionOf returns the log position of an entry.
func PositionOf(e *NarrativeEntry) LogPosition {
	return LogPosition{Time: e.CreatedAt, Seq: e.Seq}
}

// NarrativeFilter contains filtering parameters for narrative log listings.
type NarrativeFilter struct {
	// BossID restricts entries to a single boss. Required.
	BossID uuid.UUID

	// Kinds restricts entries to the given kinds. Empty means all kinds.
	Kinds []EntryKind

	// After selects entries strictly after the given log position.
	After *LogPosition

	// NewestFirst reverses the default oldest-first order.
	NewestFirst bool

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int
}
