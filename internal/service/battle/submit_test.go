package battle

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/pkg/ctxutil"
)

func heavyRules() domain.BattleRules {
	// Quota and per-submit caps lifted out of the way so tests can focus on
	// HP derivation.
	return domain.BattleRules{
		MaxHitPoints:        10000,
		DailyMinuteLimit:    1_000_000,
		MaxMinutesPerSubmit: 10000,
		VictoryBonusMinutes: 60,
	}
}

func TestService_SubmitBattle_DamageSequenceWithRespawn(t *testing.T) {
	t.Parallel()

	env := newTestEnv(heavyRules())
	ctx := context.Background()

	// 10000 HP boss, four attacks of 4000 minutes each.
	steps := []struct {
		wantDamage   int
		wantHP       int
		wantDefeated bool
	}{
		{wantDamage: 4000, wantHP: 6000},
		{wantDamage: 4000, wantHP: 2000},
		{wantDamage: 2000, wantHP: 10000, wantDefeated: true}, // clamped, respawned
		{wantDamage: 4000, wantHP: 6000},                      // fresh cycle
	}

	for i, step := range steps {
		res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
			Category: domain.BossCategoryGameLit,
			Minutes:  4000,
		})
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if res.Damage != step.wantDamage {
			t.Errorf("step %d: damage = %d, want %d", i, res.Damage, step.wantDamage)
		}
		if res.CurrentHitPoints != step.wantHP {
			t.Errorf("step %d: hp = %d, want %d", i, res.CurrentHitPoints, step.wantHP)
		}
		if res.Defeated != step.wantDefeated {
			t.Errorf("step %d: defeated = %v, want %v", i, res.Defeated, step.wantDefeated)
		}
	}
}

func TestService_SubmitBattle_InvalidMinutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())

	for _, minutes := range []int{0, -5, 301} {
		_, err := env.svc.SubmitBattle(context.Background(), SubmitBattleInput{
			Category: domain.BossCategoryCultivation,
			Minutes:  minutes,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("minutes=%d: error = %v, want validation error", minutes, err)
		}
	}
}

func TestService_SubmitBattle_InvalidCategory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())

	_, err := env.svc.SubmitBattle(context.Background(), SubmitBattleInput{
		Category: domain.BossCategory("ROMANCE"),
		Minutes:  30,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestService_SubmitBattle_QuotaEnforced(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())
	userID := env.addUser("ink_knight")
	ctx := ctxutil.WithUserID(context.Background(), userID)

	// 300 + 180 = 480 of the 500-minute window.
	for _, minutes := range []int{300, 180} {
		if _, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
			Category: domain.BossCategoryApocalypse,
			Minutes:  minutes,
		}); err != nil {
			t.Fatalf("minutes=%d: unexpected error: %v", minutes, err)
		}
	}

	// 21 more would exceed the limit.
	_, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
		Category: domain.BossCategoryApocalypse,
		Minutes:  21,
	})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("error = %v, want quota exceeded", err)
	}

	var quotaErr *domain.QuotaError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("error %v does not unwrap to QuotaError", err)
	}
	if quotaErr.Remaining != 20 {
		t.Errorf("remaining = %d, want 20", quotaErr.Remaining)
	}

	// Exactly the remaining 20 still fits.
	if _, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
		Category: domain.BossCategoryApocalypse,
		Minutes:  20,
	}); err != nil {
		t.Fatalf("submitting remaining minutes: %v", err)
	}
}

func TestService_SubmitBattle_AnonymousSkipsQuota(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())
	ctx := context.Background()

	// Way past any per-user quota; anonymous submissions have no identity to
	// meter.
	for i := 0; i < 5; i++ {
		res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
			Category: domain.BossCategoryPortal,
			Minutes:  300,
		})
		if err != nil {
			t.Fatalf("submission %d: %v", i, err)
		}
		meta := res.Entry.Meta.(domain.BattleMeta)
		if meta.ActorName != anonymousActor {
			t.Errorf("actor = %q, want %q", meta.ActorName, anonymousActor)
		}
	}
}

func TestService_SubmitBattle_ActorNameFallback(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())
	// Authenticated but unknown to the users table: the name lookup fails and
	// the battle proceeds under the anonymous epithet.
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
		Category: domain.BossCategoryGameLit,
		Minutes:  30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta := res.Entry.Meta.(domain.BattleMeta); meta.ActorName != anonymousActor {
		t.Errorf("actor = %q, want %q", meta.ActorName, anonymousActor)
	}
}

func TestService_SubmitBattle_BattleMetaRecorded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(domain.DefaultBattleRules())
	userID := env.addUser("page_turner")
	ctx := ctxutil.WithUserID(context.Background(), userID)

	title := "Defiance of the Fall"
	res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
		Category:  domain.BossCategoryApocalypse,
		Minutes:   45,
		BookTitle: &title,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta := res.Entry.Meta.(domain.BattleMeta)
	if meta.Damage != 45 || meta.MinutesRead != 45 {
		t.Errorf("meta damage/minutes = %d/%d, want 45/45", meta.Damage, meta.MinutesRead)
	}
	if meta.HPBefore != 10000 || meta.HPAfter != 9955 {
		t.Errorf("meta hp = %d→%d, want 10000→9955", meta.HPBefore, meta.HPAfter)
	}
	if meta.ActorName != "page_turner" {
		t.Errorf("actor = %q, want page_turner", meta.ActorName)
	}
	if meta.BookTitle == nil || *meta.BookTitle != title {
		t.Errorf("book title = %v, want %q", meta.BookTitle, title)
	}

	// The durable write carries both the activity record and the entry.
	if len(env.activities.records) != 1 {
		t.Fatalf("activity records = %d, want 1", len(env.activities.records))
	}
	rec := env.activities.records[0]
	if rec.UserID == nil || *rec.UserID != userID {
		t.Error("activity record not attributed to the submitter")
	}
	if rec.ActivityType != domain.ActivityTypeReading || rec.IsBonus {
		t.Errorf("record type/bonus = %s/%v, want READING/false", rec.ActivityType, rec.IsBonus)
	}
}

func TestService_SubmitBattle_DefeatEntryFailureDoesNotFailSubmission(t *testing.T) {
	t.Parallel()

	env := newTestEnv(heavyRules())
	env.narratives.failKind = domain.EntryKindDefeat
	ctx := context.Background()

	res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
		Category: domain.BossCategoryGameLit,
		Minutes:  10000,
	})
	if err != nil {
		t.Fatalf("submission must survive a failed defeat side effect: %v", err)
	}
	if !res.Defeated {
		t.Error("defeated = false, want true")
	}

	// No bonus records either: distribution hangs off the defeat entry.
	for _, rec := range env.activities.records {
		if rec.IsBonus {
			t.Error("bonus granted despite failed defeat entry")
		}
	}
}

func TestService_SubmitBattle_VictoryBonus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(heavyRules())
	alice := env.addUser("alice")
	bob := env.addUser("bob")

	// All four bosses exist so the universal bonus has targets.
	for _, cat := range domain.AllBossCategories() {
		if _, err := env.svc.GetBoss(context.Background(), cat); err != nil {
			t.Fatalf("seed boss %s: %v", cat, err)
		}
	}

	aliceCtx := ctxutil.WithUserID(context.Background(), alice)
	bobCtx := ctxutil.WithUserID(context.Background(), bob)

	if _, err := env.svc.SubmitBattle(aliceCtx, SubmitBattleInput{
		Category: domain.BossCategoryCultivation, Minutes: 6000,
	}); err != nil {
		t.Fatal(err)
	}
	res, err := env.svc.SubmitBattle(bobCtx, SubmitBattleInput{
		Category: domain.BossCategoryCultivation, Minutes: 4000,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Defeated {
		t.Fatal("boss should be defeated")
	}

	// 2 participants × 4 categories = 8 bonus records of 60 minutes each.
	var bonuses []*domain.ActivityRecord
	perUser := make(map[uuid.UUID]int)
	for _, rec := range env.activities.records {
		if !rec.IsBonus {
			continue
		}
		bonuses = append(bonuses, rec)
		if rec.ActivityType != domain.ActivityTypeBossVictory {
			t.Errorf("bonus type = %s, want BOSS_VICTORY", rec.ActivityType)
		}
		if rec.Minutes != 60 || rec.Damage != 0 {
			t.Errorf("bonus minutes/damage = %d/%d, want 60/0", rec.Minutes, rec.Damage)
		}
		perUser[*rec.UserID]++
	}
	if len(bonuses) != 8 {
		t.Fatalf("bonus records = %d, want 8", len(bonuses))
	}
	if perUser[alice] != 4 || perUser[bob] != 4 {
		t.Errorf("per-user bonuses = %v, want 4 each", perUser)
	}
}

func TestService_SubmitBattle_BonusScopedToEndedCycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(heavyRules())
	alice := env.addUser("alice")
	bob := env.addUser("bob")

	aliceCtx := ctxutil.WithUserID(context.Background(), alice)
	bobCtx := ctxutil.WithUserID(context.Background(), bob)

	// Cycle 1: alice alone defeats the boss.
	if _, err := env.svc.SubmitBattle(aliceCtx, SubmitBattleInput{
		Category: domain.BossCategoryPortal, Minutes: 10000,
	}); err != nil {
		t.Fatal(err)
	}

	// Cycle 2: bob alone defeats the respawned boss.
	if _, err := env.svc.SubmitBattle(bobCtx, SubmitBattleInput{
		Category: domain.BossCategoryPortal, Minutes: 10000,
	}); err != nil {
		t.Fatal(err)
	}

	// Bonus records after the second defeat must not include alice again.
	var aliceBonuses, bobBonuses int
	for _, rec := range env.activities.records {
		if !rec.IsBonus {
			continue
		}
		switch *rec.UserID {
		case alice:
			aliceBonuses++
		case bob:
			bobBonuses++
		}
	}
	// Only the portal boss exists in this test, so one record per defeat.
	if aliceBonuses != 1 {
		t.Errorf("alice bonuses = %d, want 1 (cycle 1 only)", aliceBonuses)
	}
	if bobBonuses != 1 {
		t.Errorf("bob bonuses = %d, want 1 (cycle 2 only)", bobBonuses)
	}
}

func TestService_SubmitBattle_MilestonesOncePerCycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(heavyRules())
	ctx := context.Background()

	submit := func(minutes int) *BattleResult {
		t.Helper()
		res, err := env.svc.SubmitBattle(ctx, SubmitBattleInput{
			Category: domain.BossCategoryCultivation,
			Minutes:  minutes,
		})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	// 10000 → 7400: inside (50%, 75%], announce 75percent.
	res := submit(2600)
	if res.Milestone == nil || *res.Milestone != domain.Milestone75Percent {
		t.Fatalf("milestone = %v, want 75percent", res.Milestone)
	}

	// 7400 → 7000: still in the band, no repeat.
	if res = submit(400); res.Milestone != nil {
		t.Fatalf("milestone = %v, want none (already announced)", *res.Milestone)
	}

	// 7000 → 4000: crossed into (25%, 50%].
	if res = submit(3000); res.Milestone == nil || *res.Milestone != domain.Milestone50Percent {
		t.Fatalf("milestone = %v, want 50percent", res.Milestone)
	}

	// 4000 → 2000: (0%, 25%].
	if res = submit(2000); res.Milestone == nil || *res.Milestone != domain.Milestone25Percent {
		t.Fatalf("milestone = %v, want 25percent", res.Milestone)
	}

	// Defeat and respawn.
	if res = submit(2000); !res.Defeated {
		t.Fatal("boss should be defeated")
	}

	// New cycle: the 75percent milestone fires again, the previous cycle's
	// entry must not suppress it.
	if res = submit(2600); res.Milestone == nil || *res.Milestone != domain.Milestone75Percent {
		t.Fatalf("milestone after respawn = %v, want 75percent", res.Milestone)
	}
}

func TestMilestoneFor_Bands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hp      int
		wantTag domain.MilestoneTag
		wantOK  bool
	}{
		{hp: 10000, wantOK: false},
		{hp: 7600, wantOK: false},
		{hp: 7500, wantTag: domain.Milestone75Percent, wantOK: true},
		{hp: 5001, wantTag: domain.Milestone75Percent, wantOK: true},
		{hp: 5000, wantTag: domain.Milestone50Percent, wantOK: true},
		{hp: 2501, wantTag: domain.Milestone50Percent, wantOK: true},
		{hp: 2500, wantTag: domain.Milestone25Percent, wantOK: true},
		{hp: 1, wantTag: domain.Milestone25Percent, wantOK: true},
		{hp: 0, wantOK: false},
	}

	for _, tt := range tests {
		tag, _, ok := milestoneFor(tt.hp, 10000)
		if ok != tt.wantOK || (ok && tag != tt.wantTag) {
			t.Errorf("milestoneFor(%d) = %v/%v, want %v/%v", tt.hp, tag, ok, tt.wantTag, tt.wantOK)
		}
	}
}
