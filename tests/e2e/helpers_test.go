//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pagebound/bossraid-backend/internal/adapter/postgres"
	activityrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/activity"
	bossrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/boss"
	narrativerepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/narrative"
	"github.com/pagebound/bossraid-backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/pagebound/bossraid-backend/internal/adapter/postgres/user"
	authpkg "github.com/pagebound/bossraid-backend/internal/auth"
	"github.com/pagebound/bossraid-backend/internal/config"
	"github.com/pagebound/bossraid-backend/internal/domain"
	"github.com/pagebound/bossraid-backend/internal/service/battle"
	"github.com/pagebound/bossraid-backend/internal/service/progression"
	"github.com/pagebound/bossraid-backend/internal/transport/middleware"
	"github.com/pagebound/bossraid-backend/internal/transport/rest"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testJWTSecret = "test-secret-at-least-32-chars-long!!"
	testJWTIssuer = "test-issuer"
)

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	bosses := bossrepo.New(pool)
	narratives := narrativerepo.New(pool)
	activities := activityrepo.New(pool)
	users := userrepo.New(pool)

	battleSvc, err := battle.NewService(
		logger, bosses, narratives, activities, users, txm,
		domain.DefaultBattleRules(),
	)
	if err != nil {
		t.Fatalf("create battle service: %v", err)
	}
	progressionSvc := progression.NewService(logger, bosses, activities)

	validator := authpkg.NewTokenValidator(testJWTSecret, testJWTIssuer)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rateLimiter.Stop)

	mux := rest.Routes(
		rest.NewBattleHandler(battleSvc, logger),
		rest.NewProgressHandler(progressionSvc, logger),
		rest.NewHealthHandler(pool, "test-version"),
		rateLimiter.Limit(10000), // effectively unlimited for tests
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(validator),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// createTestUser inserts a user row and returns its ID plus a valid token.
func createTestUser(t *testing.T, ts *testServer) (uuid.UUID, string) {
	t.Helper()

	id := uuid.New()
	username := fmt.Sprintf("e2e-%s", id.String()[:8])
	_, err := ts.Pool.Exec(context.Background(),
		`INSERT INTO users (id, username, display_name, created_at) VALUES ($1, $2, $3, $4)`,
		id, username, "Reader "+username, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}

	return id, signToken(t, id)
}

// signToken mints a token the way the external identity service would.
func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    testJWTIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// apiGet performs a GET request and decodes the JSON response.
func (ts *testServer) apiGet(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodGet, path, nil, token)
}

// apiPost performs a POST request with a JSON body and decodes the response.
func (ts *testServer) apiPost(t *testing.T, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return ts.do(t, http.MethodPost, path, jsonBody, token)
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, token string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, result
}

// num extracts a numeric field from a decoded JSON object.
func num(t *testing.T, obj map[string]any, field string) int {
	t.Helper()
	v, ok := obj[field].(float64)
	if !ok {
		t.Fatalf("expected numeric %q in %v", field, obj)
	}
	return int(v)
}

// obj extracts a nested object field from a decoded JSON object.
func obj(t *testing.T, m map[string]any, field string) map[string]any {
	t.Helper()
	v, ok := m[field].(map[string]any)
	if !ok {
		t.Fatalf("expected object %q in %v", field, m)
	}
	return v
}
