package domain

import (
	"time"

	"github.com/google/uuid"
)

// NarrativeEntry is an immutable, append-only log record belonging to exactly
// one boss. Entries drive both HP derivation and the human-readable battle
// story. Ordering is by CreatedAt, ties broken by Seq (insertion order).
type NarrativeEntry struct {
	ID        uuid.UUID
	BossID    uuid.UUID
	Kind      EntryKind
	Content   string
	Meta      EntryMeta
	CreatedAt time.Time
	Seq       int64
}

// EntryMeta is the kind-specific structured payload of a narrative entry.
// The closed set of implementations mirrors EntryKind, so defeat/milestone
// logic can switch exhaustively instead of digging through untyped maps.
type EntryMeta interface {
	entryKind() EntryKind
}

// IntroMeta accompanies the single INTRODUCTION entry of a boss.
type IntroMeta struct {
	MaxHitPoints int
}

// BattleMeta records the outcome of one battle submission.
type BattleMeta struct {
	Damage      int
	MinutesRead int
	ActorName   string
	BookTitle   *string
	HPBefore    int
	HPAfter     int
}

// MilestoneMeta records a health-threshold crossing.
type MilestoneMeta struct {
	Tag       MilestoneTag
	HPPercent float64
}

// DefeatMeta records the end of a cycle. A DEFEAT entry resets the
// HP-derivation window.
type DefeatMeta struct {
	FinalBlowBy string
	TotalDamage int
}

func (IntroMeta) entryKind() EntryKind     { return EntryKindIntroduction }
func (BattleMeta) entryKind() EntryKind    { return EntryKindBattleAction }
func (MilestoneMeta) entryKind() EntryKind { return EntryKindMilestone }
func (DefeatMeta) entryKind() EntryKind    { return EntryKindDefeat }

// Before reports whether e sorts strictly before other in log order.
func (e *NarrativeEntry) Before(other *NarrativeEntry) bool {
	if e.CreatedAt.Equal(other.CreatedAt) {
		return e.Seq < other.Seq
	}
	return e.CreatedAt.Before(other.CreatedAt)
}
