package battle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// In-memory fakes. The battle logic is a fold over an append-only log, so the
// fixtures keep real state instead of stubbing single calls.
// ---------------------------------------------------------------------------

type memBossRepo struct {
	mu     sync.Mutex
	bosses map[domain.BossCategory]*domain.Boss
	err    error
}

func newMemBossRepo() *memBossRepo {
	return &memBossRepo{bosses: make(map[domain.BossCategory]*domain.Boss)}
}

func (r *memBossRepo) GetByCategory(_ context.Context, category domain.BossCategory) (*domain.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.bosses[category]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (r *memBossRepo) GetOrCreate(_ context.Context, category domain.BossCategory, name string, maxHitPoints int) (*domain.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if b, ok := r.bosses[category]; ok {
		return b, nil
	}
	b := &domain.Boss{
		ID:           uuid.New(),
		Category:     category,
		Name:         name,
		MaxHitPoints: maxHitPoints,
		CreatedAt:    time.Now().UTC(),
	}
	r.bosses[category] = b
	return b, nil
}

func (r *memBossRepo) List(_ context.Context) ([]*domain.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Boss, 0, len(r.bosses))
	for _, b := range r.bosses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

type memNarrativeRepo struct {
	mu      sync.Mutex
	entries []*domain.NarrativeEntry
	seq     int64

	// failKind makes Append fail for one entry kind, to exercise the
	// best-effort side-effect paths.
	failKind domain.EntryKind
}

func (r *memNarrativeRepo) Append(_ context.Context, e *domain.NarrativeEntry) (*domain.NarrativeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failKind != "" && e.Kind == r.failKind {
		return nil, fmt.Errorf("append %s: %w", e.Kind, domain.ErrStoreUnavailable)
	}
	r.seq++
	e.Seq = r.seq
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *memNarrativeRepo) sorted(bossID uuid.UUID) []*domain.NarrativeEntry {
	var out []*domain.NarrativeEntry
	for _, e := range r.entries {
		if e.BossID == bossID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (r *memNarrativeRepo) List(_ context.Context, f domain.NarrativeFilter) ([]*domain.NarrativeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.NarrativeEntry
	for _, e := range r.sorted(f.BossID) {
		if len(f.Kinds) > 0 {
			match := false
			for _, k := range f.Kinds {
				if e.Kind == k {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if f.After != nil {
			after := &domain.NarrativeEntry{CreatedAt: f.After.Time, Seq: f.After.Seq}
			if !after.Before(e) {
				continue
			}
		}
		out = append(out, e)
	}
	if f.NewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memNarrativeRepo) LastByKind(_ context.Context, bossID uuid.UUID, kind domain.EntryKind) (*domain.NarrativeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.sorted(bossID)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == kind {
			return entries[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memNarrativeRepo) LastByKindBefore(_ context.Context, bossID uuid.UUID, kind domain.EntryKind, before domain.LogPosition) (*domain.NarrativeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	boundary := &domain.NarrativeEntry{CreatedAt: before.Time, Seq: before.Seq}
	entries := r.sorted(bossID)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == kind && entries[i].Before(boundary) {
			return entries[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memNarrativeRepo) MilestoneExistsAfter(_ context.Context, bossID uuid.UUID, tag domain.MilestoneTag, after domain.LogPosition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	boundary := &domain.NarrativeEntry{CreatedAt: after.Time, Seq: after.Seq}
	for _, e := range r.sorted(bossID) {
		if e.Kind != domain.EntryKindMilestone || !boundary.Before(e) {
			continue
		}
		if m, ok := e.Meta.(domain.MilestoneMeta); ok && m.Tag == tag {
			return true, nil
		}
	}
	return false, nil
}

type memActivityRepo struct {
	mu      sync.Mutex
	records []*domain.ActivityRecord
	err     error
}

func (r *memActivityRepo) Append(_ context.Context, rec *domain.ActivityRecord) (*domain.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *memActivityRepo) SumMinutesByUser(_ context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, rec := range r.records {
		if rec.UserID == nil || *rec.UserID != userID {
			continue
		}
		if rec.CreatedAt.Before(from) || rec.CreatedAt.After(to) {
			continue
		}
		total += rec.Minutes
	}
	return total, nil
}

func (r *memActivityRepo) ParticipantsSince(_ context.Context, bossID uuid.UUID, since time.Time) ([]domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := make(map[uuid.UUID]domain.Participant)
	seen := make(map[uuid.UUID]time.Time)
	for _, rec := range r.records {
		if rec.BossID != bossID || rec.UserID == nil || rec.Damage <= 0 || !rec.CreatedAt.After(since) {
			continue
		}
		if at, ok := seen[*rec.UserID]; !ok || rec.CreatedAt.After(at) {
			seen[*rec.UserID] = rec.CreatedAt
			latest[*rec.UserID] = domain.Participant{UserID: *rec.UserID, BookID: rec.BookID}
		}
	}

	out := make([]domain.Participant, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, nil
}

func (r *memActivityRepo) StatsSince(_ context.Context, bossID uuid.UUID, since time.Time) (domain.BattleStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.BattleStats
	users := make(map[uuid.UUID]bool)
	for _, rec := range r.records {
		if rec.BossID != bossID || rec.CreatedAt.Before(since) {
			continue
		}
		stats.TotalDamage += rec.Damage
		stats.TotalMinutes += rec.Minutes
		if rec.UserID != nil {
			users[*rec.UserID] = true
		}
	}
	stats.UniqueContributors = len(users)
	return stats, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// Test env
// ---------------------------------------------------------------------------

type testEnv struct {
	svc        *Service
	bosses     *memBossRepo
	narratives *memNarrativeRepo
	activities *memActivityRepo
	users      *memUserRepo
	clock      *time.Time
}

func newTestEnv(rules domain.BattleRules) *testEnv {
	env := &testEnv{
		bosses:     newMemBossRepo(),
		narratives: &memNarrativeRepo{},
		activities: &memActivityRepo{},
		users:      newMemUserRepo(),
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.clock = &now

	env.svc = &Service{
		bosses:     env.bosses,
		narratives: env.narratives,
		activities: env.activities,
		users:      env.users,
		tx:         passthroughTx{},
		log:        slog.Default(),
		rules:      rules,
		locks:      newKeyedMutex(),
		now: func() time.Time {
			*env.clock = env.clock.Add(time.Second)
			return *env.clock
		},
	}

	return env
}

func (e *testEnv) addUser(name string) uuid.UUID {
	id := uuid.New()
	e.users.users[id] = &domain.User{ID: id, Username: name, DisplayName: name}
	return id
}
