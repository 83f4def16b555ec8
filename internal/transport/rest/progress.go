package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/internal/service/progression"
)

// progressionService defines the minimal interface needed by ProgressHandler.
type progressionService interface {
	GetProgress(ctx context.Context, category domain.BossCategory) (*progression.CategoryProgress, error)
}

// ProgressHandler serves the reading progression endpoint.
type ProgressHandler struct {
	svc progressionService
	log *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(svc progressionService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{svc: svc, log: logger.With("handler", "progress")}
}

type progressResponse struct {
	Category     string `json:"category"`
	TotalMinutes int    `json:"totalMinutes"`

	Cultivation *cultivationResponse `json:"cultivation,omitempty"`
	GameLit     *gamelitResponse     `json:"gamelit,omitempty"`
	Apocalypse  *apocalypseResponse  `json:"apocalypse,omitempty"`
	Portal      *portalResponse      `json:"portal,omitempty"`
}

type cultivationResponse struct {
	Tier            string `json:"tier"`
	TierIndex       int    `json:"tierIndex"`
	Level           int    `json:"level"`
	MinutesPerLevel int    `json:"minutesPerLevel"`
	ProgressMinutes int    `json:"progressMinutes"`
}

type gamelitResponse struct {
	Level         int     `json:"level"`
	Experience    int     `json:"experience"`
	LevelFloor    int     `json:"levelFloor"`
	NextLevelAt   int     `json:"nextLevelAt"`
	PercentToNext float64 `json:"percentToNext"`
}

type apocalypseResponse struct {
	SurvivalDays int           `json:"survivalDays"`
	Stats        statsBlockDTO `json:"stats"`
}

type statsBlockDTO struct {
	STR  int `json:"str"`
	CON  int `json:"con"`
	DEX  int `json:"dex"`
	WIS  int `json:"wis"`
	INT  int `json:"int"`
	CHA  int `json:"cha"`
	LUCK int `json:"luck"`
}

type portalResponse struct {
	Reincarnations int    `json:"reincarnations"`
	Archetype      string `json:"archetype"`
	LifeLevel      int    `json:"lifeLevel"`
	LifeMinutes    int    `json:"lifeMinutes"`
}

// GetProgress handles GET /api/users/me/progress/{category}.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	category := domain.BossCategory(r.PathValue("category"))

	progress, err := h.svc.GetProgress(r.Context(), category)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(progress))
}

func toProgressResponse(p *progression.CategoryProgress) progressResponse {
	resp := progressResponse{
		Category:     p.Category.String(),
		TotalMinutes: p.TotalMinutes,
	}

	if c := p.Cultivation; c != nil {
		resp.Cultivation = &cultivationResponse{
			Tier:            c.Tier,
			TierIndex:       c.TierIndex,
			Level:           c.Level,
			MinutesPerLevel: c.MinutesPerLevel,
			ProgressMinutes: c.ProgressMinutes,
		}
	}
	if g := p.GameLit; g != nil {
		resp.GameLit = &gamelitResponse{
			Level:         g.Level,
			Experience:    g.Experience,
			LevelFloor:    g.LevelFloor,
			NextLevelAt:   g.NextLevelAt,
			PercentToNext: g.PercentToNext,
		}
	}
	if a := p.Apocalypse; a != nil {
		resp.Apocalypse = &apocalypseResponse{
			SurvivalDays: a.SurvivalDays,
			Stats: statsBlockDTO{
				STR:  a.Stats.STR,
				CON:  a.Stats.CON,
				DEX:  a.Stats.DEX,
				WIS:  a.Stats.WIS,
				INT:  a.Stats.INT,
				CHA:  a.Stats.CHA,
				LUCK: a.Stats.LUCK,
			},
		}
	}
	if pt := p.Portal; pt != nil {
		resp.Portal = &portalResponse{
			Reincarnations: pt.Reincarnations,
			Archetype:      pt.Archetype,
			LifeLevel:      pt.LifeLevel,
			LifeMinutes:    pt.LifeMinutes,
		}
	}

	return resp
}
