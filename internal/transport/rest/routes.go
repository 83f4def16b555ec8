package rest

import (
	"net/http"

	"github.com/pagebound/bossraid-backend/internal/transport/middleware"
)

// Routes wires the REST endpoints onto a ServeMux. The battle submission
// route additionally goes through the per-IP rate limiter.
func Routes(
	battles *BattleHandler,
	progress *ProgressHandler,
	health *HealthHandler,
	battleLimit middleware.Middleware,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)

	mux.HandleFunc("GET /api/bosses/{category}", battles.GetBoss)
	mux.HandleFunc("GET /api/bosses/{category}/story", battles.GetStory)
	mux.HandleFunc("GET /api/bosses/{category}/stats", battles.GetStats)
	mux.Handle("POST /api/bosses/{category}/battle", battleLimit(http.HandlerFunc(battles.SubmitBattle)))

	mux.HandleFunc("GET /api/users/me/daily-minutes", battles.GetDailyMinutes)
	mux.HandleFunc("GET /api/users/me/progress/{category}", progress.GetProgress)

	return mux
}
