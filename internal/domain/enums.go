package domain

// BossCategory identifies one of the four fixed genre bosses.
type BossCategory string

const (
	BossCategoryCultivation BossCategory = "CULTIVATION"
	BossCategoryGameLit     BossCategory = "GAMELIT"
	BossCategoryApocalypse  BossCategory = "APOCALYPSE"
	BossCategoryPortal      BossCategory = "PORTAL"
)

func (c BossCategory) String() string { return string(c) }

func (c BossCategory) IsValid() bool {
	switch c {
	case BossCategoryCultivation, BossCategoryGameLit, BossCategoryApocalypse, BossCategoryPortal:
		return true
	}
	return false
}

// AllBossCategories returns the fixed category set in display order.
func AllBossCategories() []BossCategory {
	return []BossCategory{
		BossCategoryCultivation,
		BossCategoryGameLit,
		BossCategoryApocalypse,
		BossCategoryPortal,
	}
}

// EntryKind identifies the kind of a narrative log entry.
type EntryKind string

const (
	EntryKindIntroduction EntryKind = "INTRODUCTION"
	EntryKindBattleAction EntryKind = "BATTLE_ACTION"
	EntryKindDefeat       EntryKind = "DEFEAT"
	EntryKindMilestone    EntryKind = "MILESTONE"
)

func (k EntryKind) String() string { return string(k) }

func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindIntroduction, EntryKindBattleAction, EntryKindDefeat, EntryKindMilestone:
		return true
	}
	return false
}

// ActivityType tags the origin of an activity record.
type ActivityType string

const (
	ActivityTypeReading       ActivityType = "READING"
	ActivityTypeWriting       ActivityType = "WRITING"
	ActivityTypeBossVictory   ActivityType = "BOSS_VICTORY"
	ActivityTypeTierAssigned  ActivityType = "TIER_ASSIGNMENT"
	ActivityTypeReview        ActivityType = "REVIEW"
	ActivityTypeReadingStatus ActivityType = "READING_STATUS"
)

func (t ActivityType) String() string { return string(t) }

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeReading, ActivityTypeWriting, ActivityTypeBossVictory,
		ActivityTypeTierAssigned, ActivityTypeReview, ActivityTypeReadingStatus:
		return true
	}
	return false
}

// IsDamageBearing reports whether records of this type may carry damage.
// Only non-bonus READING and WRITING records ever do.
func (t ActivityType) IsDamageBearing() bool {
	return t == ActivityTypeReading || t == ActivityTypeWriting
}

// MilestoneTag identifies a health-threshold milestone within a cycle.
type MilestoneTag string

const (
	Milestone75Percent MilestoneTag = "75percent"
	Milestone50Percent MilestoneTag = "50percent"
	Milestone25Percent MilestoneTag = "25percent"
)

func (m MilestoneTag) String() string { return string(m) }

func (m MilestoneTag) IsValid() bool {
	switch m {
	case Milestone75Percent, Milestone50Percent, Milestone25Percent:
		return true
	}
	return false
}
