package narrative

import (
	"encoding/json"
	"fmt"

	"github.com/pagebound/bossraid-backend/internal/domain"
)

// Intermediate structs for JSONB serialization. Domain meta types carry no
// json tags; the repo layer owns the wire shape, like every other entity here.

type battleMetaJSON struct {
	Damage      int     `json:"damage"`
	MinutesRead int     `json:"minutes_read"`
	ActorName   string  `json:"actor_name"`
	BookTitle   *string `json:"book_title,omitempty"`
	HPBefore    int     `json:"hp_before"`
	HPAfter     int     `json:"hp_after"`
}

type milestoneMetaJSON struct {
	Tag       string  `json:"tag"`
	HPPercent float64 `json:"hp_percent"`
}

type defeatMetaJSON struct {
	FinalBlowBy string `json:"final_blow_by"`
	TotalDamage int    `json:"total_damage"`
}

type introMetaJSON struct {
	MaxHitPoints int `json:"max_hit_points"`
}

// marshalMeta converts a domain.EntryMeta to JSON bytes for JSONB storage.
// Returns nil for nil input (stored as NULL).
func marshalMeta(meta domain.EntryMeta) ([]byte, error) {
	switch m := meta.(type) {
	case nil:
		return nil, nil
	case domain.BattleMeta:
		return json.Marshal(battleMetaJSON{
			Damage:      m.Damage,
			MinutesRead: m.MinutesRead,
			ActorName:   m.ActorName,
			BookTitle:   m.BookTitle,
			HPBefore:    m.HPBefore,
			HPAfter:     m.HPAfter,
		})
	case domain.MilestoneMeta:
		return json.Marshal(milestoneMetaJSON{
			Tag:       m.Tag.String(),
			HPPercent: m.HPPercent,
		})
	case domain.DefeatMeta:
		return json.Marshal(defeatMetaJSON{
			FinalBlowBy: m.FinalBlowBy,
			TotalDamage: m.TotalDamage,
		})
	case domain.IntroMeta:
		return json.Marshal(introMetaJSON{MaxHitPoints: m.MaxHitPoints})
	default:
		return nil, fmt.Errorf("unknown entry meta type %T", meta)
	}
}

// unmarshalMeta converts JSONB bytes back to the kind-specific domain meta.
// Returns nil meta for empty input.
func unmarshalMeta(kind domain.EntryKind, data []byte) (domain.EntryMeta, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch kind {
	case domain.EntryKindBattleAction:
		var j battleMetaJSON
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("unmarshal battle meta: %w", err)
		}
		return domain.BattleMeta{
			Damage:      j.Damage,
			MinutesRead: j.MinutesRead,
			ActorName:   j.ActorName,
			BookTitle:   j.BookTitle,
			HPBefore:    j.HPBefore,
			HPAfter:     j.HPAfter,
		}, nil
	case domain.EntryKindMilestone:
		var j milestoneMetaJSON
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("unmarshal milestone meta: %w", err)
		}
		return domain.MilestoneMeta{
			Tag:       domain.MilestoneTag(j.Tag),
			HPPercent: j.HPPercent,
		}, nil
	case domain.EntryKindDefeat:
		var j defeatMetaJSON
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("unmarshal defeat meta: %w", err)
		}
		return domain.DefeatMeta{
			FinalBlowBy: j.FinalBlowBy,
			TotalDamage: j.TotalDamage,
		}, nil
	case domain.EntryKindIntroduction:
		var j introMetaJSON
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, fmt.Errorf("unmarshal intro meta: %w", err)
		}
		return domain.IntroMeta{MaxHitPoints: j.MaxHitPoints}, nil
	default:
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}
}
