package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/internal/service/battle"
)

// battleService defines the minimal interface needed by BattleHandler.
type battleService interface {
	GetBoss(ctx context.Context, category domain.BossCategory) (*battle.BossStatus, error)
	GetStory(ctx context.Context, input battle.GetStoryInput) (*battle.StoryResult, error)
	GetStats(ctx context.Context, category domain.BossCategory) (*battle.StatsResult, error)
	SubmitBattle(ctx context.Context, input battle.SubmitBattleInput) (*battle.BattleResult, error)
	GetDailyMinutes(ctx context.Context) (*battle.DailyMinutes, error)
}

// BattleHandler serves the boss battle REST endpoints.
type BattleHandler struct {
	svc battleService
	log *slog.Logger
}

// NewBattleHandler creates a BattleHandler.
func NewBattleHandler(svc battleService, logger *slog.Logger) *BattleHandler {
	return &BattleHandler{svc: svc, log: logger.With("handler", "battle")}
}

type bossResponse struct {
	ID                   string `json:"id"`
	Category             string `json:"category"`
	Name                 string `json:"name"`
	MaxHitPoints         int    `json:"maxHitPoints"`
	CurrentHitPoints     int    `json:"currentHitPoints"`
	TotalDamageThisCycle int    `json:"totalDamageThisCycle"`
}

type entryResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	Battle    *battleMetaResponse    `json:"battle,omitempty"`
	Milestone *milestoneMetaResponse `json:"milestone,omitempty"`
	Defeat    *defeatMetaResponse    `json:"defeat,omitempty"`
}

type battleMetaResponse struct {
	Damage      int     `json:"damage"`
	MinutesRead int     `json:"minutesRead"`
	ActorName   string  `json:"actorName"`
	BookTitle   *string `json:"bookTitle,omitempty"`
	HPBefore    int     `json:"hpBefore"`
	HPAfter     int     `json:"hpAfter"`
}

type milestoneMetaResponse struct {
	Tag       string  `json:"tag"`
	HPPercent float64 `json:"hpPercent"`
}

type defeatMetaResponse struct {
	FinalBlowBy string `json:"finalBlowBy"`
	TotalDamage int    `json:"totalDamage"`
}

type submitBattleRequest struct {
	Minutes   int     `json:"minutes"`
	BookID    *string `json:"bookId,omitempty"`
	BookTitle *string `json:"bookTitle,omitempty"`
}

type submitBattleResponse struct {
	Boss      bossResponse `json:"boss"`
	Damage    int          `json:"damage"`
	Defeated  bool         `json:"defeated"`
	Milestone *string      `json:"milestone,omitempty"`
}

type statsResponse struct {
	Boss               bossResponse    `json:"boss"`
	TotalDamage        int             `json:"totalDamage"`
	TotalMinutes       int             `json:"totalMinutes"`
	UniqueContributors int             `json:"uniqueContributors"`
	RecentEntries      []entryResponse `json:"recentEntries"`
}

type storyResponse struct {
	Boss    bossResponse    `json:"boss"`
	Entries []entryResponse `json:"entries"`
}

type dailyMinutesResponse struct {
	UsedMinutes      int `json:"usedMinutes"`
	RemainingMinutes int `json:"remainingMinutes"`
	DailyLimit       int `json:"dailyLimit"`
}

// GetBoss handles GET /api/bosses/{category}.
func (h *BattleHandler) GetBoss(w http.ResponseWriter, r *http.Request) {
	category := domain.BossCategory(r.PathValue("category"))

	status, err := h.svc.GetBoss(r.Context(), category)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBossResponse(status.Boss, status.CurrentHitPoints))
}

// GetStory handles GET /api/bosses/{category}/story.
func (h *BattleHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	category := domain.BossCategory(r.PathValue("category"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	story, err := h.svc.GetStory(r.Context(), battle.GetStoryInput{
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entries := make([]entryResponse, 0, len(story.Entries))
	for _, e := range story.Entries {
		entries = append(entries, toEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, storyResponse{
		Boss:    toBossResponse(story.Boss, story.CurrentHitPoints),
		Entries: entries,
	})
}

// GetStats handles GET /api/bosses/{category}/stats.
func (h *BattleHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	category := domain.BossCategory(r.PathValue("category"))

	stats, err := h.svc.GetStats(r.Context(), category)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	recent := make([]entryResponse, 0, len(stats.RecentEntries))
	for _, e := range stats.RecentEntries {
		recent = append(recent, toEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Boss:               toBossResponse(stats.Boss, stats.CurrentHitPoints),
		TotalDamage:        stats.Stats.TotalDamage,
		TotalMinutes:       stats.Stats.TotalMinutes,
		UniqueContributors: stats.Stats.UniqueContributors,
		RecentEntries:      recent,
	})
}

// SubmitBattle handles POST /api/bosses/{category}/battle.
func (h *BattleHandler) SubmitBattle(w http.ResponseWriter, r *http.Request) {
	category := domain.BossCategory(r.PathValue("category"))

	var req submitBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var bookID *uuid.UUID
	if req.BookID != nil {
		id, err := uuid.Parse(*req.BookID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bookId must be a UUID")
			return
		}
		bookID = &id
	}

	result, err := h.svc.SubmitBattle(r.Context(), battle.SubmitBattleInput{
		Category:  category,
		Minutes:   req.Minutes,
		BookID:    bookID,
		BookTitle: req.BookTitle,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := submitBattleResponse{
		Boss:     toBossResponse(result.Boss, result.CurrentHitPoints),
		Damage:   result.Damage,
		Defeated: result.Defeated,
	}
	if result.Milestone != nil {
		tag := result.Milestone.String()
		resp.Milestone = &tag
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetDailyMinutes handles GET /api/users/me/daily-minutes.
func (h *BattleHandler) GetDailyMinutes(w http.ResponseWriter, r *http.Request) {
	dm, err := h.svc.GetDailyMinutes(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, dailyMinutesResponse{
		UsedMinutes:      dm.UsedMinutes,
		RemainingMinutes: dm.RemainingMinutes,
		DailyLimit:       dm.LimitMinutes,
	})
}

func toBossResponse(b *domain.Boss, currentHP int) bossResponse {
	return bossResponse{
		ID:                   b.ID.String(),
		Category:             b.Category.String(),
		Name:                 b.Name,
		MaxHitPoints:         b.MaxHitPoints,
		CurrentHitPoints:     currentHP,
		TotalDamageThisCycle: b.MaxHitPoints - currentHP,
	}
}

func toEntryResponse(e *domain.NarrativeEntry) entryResponse {
	resp := entryResponse{
		ID:        e.ID.String(),
		Kind:      e.Kind.String(),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}

	switch m := e.Meta.(type) {
	case domain.BattleMeta:
		resp.Battle = &battleMetaResponse{
			Damage:      m.Damage,
			MinutesRead: m.MinutesRead,
			ActorName:   m.ActorName,
			BookTitle:   m.BookTitle,
			HPBefore:    m.HPBefore,
			HPAfter:     m.HPAfter,
		}
	case domain.MilestoneMeta:
		resp.Milestone = &milestoneMetaResponse{
			Tag:       m.Tag.String(),
			HPPercent: m.HPPercent,
		}
	case domain.DefeatMeta:
		resp.Defeat = &defeatMetaResponse{
			FinalBlowBy: m.FinalBlowBy,
			TotalDamage: m.TotalDamage,
		}
	}

	return resp
}
