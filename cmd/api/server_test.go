package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
	"github.com/imadgeboyega/kiekky-discovery/internal/dating"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

type stubService struct{}

func (stubService) Recommendations(context.Context, int64, int) (*dating.Feed, error) {
	return &dating.Feed{}, nil
}

func (stubService) Compatibility(context.Context, int64, int64) (*recommend.RecommendationScore, error) {
	return &recommend.RecommendationScore{}, nil
}

func (stubService) GenerateDailyHotpicks(context.Context) error { return nil }

func (stubService) GenerateHotpicksForUser(context.Context, int64) (int, error) { return 0, nil }

func (stubService) Hotpicks(context.Context, int64, int, bool) ([]*dating.Hotpick, error) {
	return nil, nil
}

func (stubService) CleanupExpiredHotpicks(context.Context) error { return nil }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewNoOpLogger()
	handler := dating.NewHandler(stubService{}, nil, 10, 50, log)
	return newRouter(handler, auth.NewMiddleware("server-secret"), log)
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dating_hotpicks_generated_total")
}

func TestRouter_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthenticatedFeed(t *testing.T) {
	token, err := utils.GenerateJWT(3, "access", time.Hour, "server-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dating/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dating/recommendations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
