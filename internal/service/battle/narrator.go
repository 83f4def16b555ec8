package battle

import (
	"fmt"

	"github.com/pagebound/bossraid-backend/internal/domain"
)

// Narrative text generation. Each category gets its own genre flavor; the
// structured facts live in the entry meta, the text is for humans.

func introText(category domain.BossCategory, name string, maxHitPoints int) string {
	switch category {
	case domain.BossCategoryCultivation:
		return fmt.Sprintf("Dark clouds gather over the sect as %s descends from the ninth heaven, its scales crackling with tribulation lightning. The elders whisper of a trial worth %d breaths of qi.", name, maxHitPoints)
	case domain.BossCategoryGameLit:
		return fmt.Sprintf("[WORLD ANNOUNCEMENT] A raid boss has spawned: %s (HP: %d). Party up and good luck, adventurers.", name, maxHitPoints)
	case domain.BossCategoryApocalypse:
		return fmt.Sprintf("The ground splits and %s rises from the ruins of the old world. Survivors estimate it can endure %d strikes before it falls.", name, maxHitPoints)
	case domain.BossCategoryPortal:
		return fmt.Sprintf("A gate shimmers open and %s steps through, guarding the threshold between worlds with %d wards of power.", name, maxHitPoints)
	default:
		return fmt.Sprintf("%s appears, bristling with %d hit points.", name, maxHitPoints)
	}
}

func battleText(category domain.BossCategory, actor string, damage int, bookTitle *string) string {
	weapon := "their favorite book"
	if bookTitle != nil && *bookTitle != "" {
		weapon = fmt.Sprintf("%q", *bookTitle)
	}

	switch category {
	case domain.BossCategoryCultivation:
		return fmt.Sprintf("%s channels the insights of %s into a sword of pure qi, carving away %d of the serpent's scales.", actor, weapon, damage)
	case domain.BossCategoryGameLit:
		return fmt.Sprintf("%s casts Chapter Strike with %s equipped. Critical hit! %d damage dealt.", actor, weapon, damage)
	case domain.BossCategoryApocalypse:
		return fmt.Sprintf("%s scavenges knowledge from %s and strikes from the rubble, dealing %d damage to the behemoth.", actor, weapon, damage)
	case domain.BossCategoryPortal:
		return fmt.Sprintf("%s steps through a page of %s and emerges behind the gatekeeper, landing a blow for %d damage.", actor, weapon, damage)
	default:
		return fmt.Sprintf("%s attacks for %d damage.", actor, damage)
	}
}

func milestoneText(category domain.BossCategory, name string, tag domain.MilestoneTag) string {
	var condition string
	switch tag {
	case domain.Milestone75Percent:
		condition = "staggers, wounded for the first time"
	case domain.Milestone50Percent:
		condition = "roars in fury, half its strength spent"
	case domain.Milestone25Percent:
		condition = "falters, clinging to its last reserves"
	default:
		condition = "shudders"
	}

	switch category {
	case domain.BossCategoryCultivation:
		return fmt.Sprintf("%s %s. The tribulation clouds thin and the sect dares to hope.", name, condition)
	case domain.BossCategoryGameLit:
		return fmt.Sprintf("[RAID UPDATE] %s %s. Keep the DPS rolling!", name, condition)
	case domain.BossCategoryApocalypse:
		return fmt.Sprintf("%s %s. For the first time since the fall, the survivors cheer.", name, condition)
	case domain.BossCategoryPortal:
		return fmt.Sprintf("%s %s. The gate behind it flickers.", name, condition)
	default:
		return fmt.Sprintf("%s %s.", name, condition)
	}
}

func defeatText(category domain.BossCategory, name, finalBlowBy string) string {
	switch category {
	case domain.BossCategoryCultivation:
		return fmt.Sprintf("With a final strike from %s, %s dissolves into motes of spent lightning. The heavens stir; a new tribulation already gathers.", finalBlowBy, name)
	case domain.BossCategoryGameLit:
		return fmt.Sprintf("[WORLD ANNOUNCEMENT] %s has been slain! Last hit: %s. Loot distributed to all participants. Respawn timer: now.", name, finalBlowBy)
	case domain.BossCategoryApocalypse:
		return fmt.Sprintf("%s delivers the killing blow and %s collapses, shaking the wasteland. Something else is already moving beneath the ruins.", finalBlowBy, name)
	case domain.BossCategoryPortal:
		return fmt.Sprintf("%s lands the final strike and %s falls back through its own gate. The threshold seals, then immediately begins to open again.", finalBlowBy, name)
	default:
		return fmt.Sprintf("%s is defeated by %s.", name, finalBlowBy)
	}
}
