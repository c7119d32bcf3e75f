package dating

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

const handlerSecret = "handler-secret"

type fakeService struct {
	feed         *Feed
	score        *recommend.RecommendationScore
	hotpicks     []*Hotpick
	err          error
	gotLimit     int
	gotTarget    int64
	gotExclude   bool
	generateDone chan int64
}

func (f *fakeService) Recommendations(_ context.Context, _ int64, limit int) (*Feed, error) {
	f.gotLimit = limit
	return f.feed, f.err
}

func (f *fakeService) Compatibility(_ context.Context, _, targetID int64) (*recommend.RecommendationScore, error) {
	f.gotTarget = targetID
	return f.score, f.err
}

func (f *fakeService) GenerateDailyHotpicks(context.Context) error { return f.err }

func (f *fakeService) GenerateHotpicksForUser(_ context.Context, userID int64) (int, error) {
	if f.generateDone != nil {
		f.generateDone <- userID
	}
	return 1, f.err
}

func (f *fakeService) Hotpicks(_ context.Context, _ int64, limit int, excludeSeen bool) ([]*Hotpick, error) {
	f.gotLimit = limit
	f.gotExclude = excludeSeen
	return f.hotpicks, f.err
}

func (f *fakeService) CleanupExpiredHotpicks(context.Context) error { return f.err }

func newTestRouter(t *testing.T, svc Service) *mux.Router {
	t.Helper()
	return newTestRouterWithMax(t, svc, 50)
}

func newTestRouterWithMax(t *testing.T, svc Service, maxLimit int) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	handler := NewHandler(svc, nil, 10, maxLimit, logger.NewNoOpLogger())
	RegisterRoutes(router, handler, auth.NewMiddleware(handlerSecret))
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if userID != 0 {
		token, err := utils.GenerateJWT(userID, "access", time.Hour, handlerSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetRecommendations(t *testing.T) {
	svc := &fakeService{feed: &Feed{
		Ranked: true,
		Scores: []*recommend.RecommendationScore{
			{UserID: "3", Score: 0.826, Reasons: []string{"Similar age"}},
		},
	}}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dating/recommendations?limit=5", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)

	var body struct {
		Success bool                    `json:"success"`
		Data    RecommendationsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.Ranked)
	assert.Equal(t, 1, body.Data.Count)
	assert.Equal(t, 83, body.Data.Recommendations[0].MatchPercentage)
}

func TestHandler_GetRecommendations_DefaultLimit(t *testing.T) {
	svc := &fakeService{feed: &Feed{}}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dating/recommendations", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, svc.gotLimit)
	assert.Contains(t, rec.Body.String(), `"recommendations":[]`)
}

func TestHandler_ConfiguredMaxLimit(t *testing.T) {
	svc := &fakeService{feed: &Feed{}}
	router := newTestRouterWithMax(t, svc, 5)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dating/recommendations?limit=6", 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Limit must be at most 5")
	assert.Zero(t, svc.gotLimit)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/dating/hotpicks?limit=6", 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/dating/recommendations?limit=5", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)
}

func TestHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		userID     int64
		err        error
		wantStatus int
	}{
		{"unauthenticated", http.MethodGet, "/api/v1/dating/recommendations", 0, nil, http.StatusUnauthorized},
		{"limit too large", http.MethodGet, "/api/v1/dating/recommendations?limit=51", 1, nil, http.StatusBadRequest},
		{"limit zero", http.MethodGet, "/api/v1/dating/recommendations?limit=0", 1, nil, http.StatusBadRequest},
		{"limit not a number", http.MethodGet, "/api/v1/dating/recommendations?limit=ten", 1, nil, http.StatusBadRequest},
		{"profile missing", http.MethodGet, "/api/v1/dating/recommendations", 1, ErrProfileNotFound, http.StatusNotFound},
		{"wrapped db error", http.MethodGet, "/api/v1/dating/recommendations", 1, errors.New("db down"), http.StatusInternalServerError},
		{"compatibility with self", http.MethodGet, "/api/v1/dating/compatibility/1", 1, ErrCannotScoreSelf, http.StatusBadRequest},
		{"compatibility bad id", http.MethodGet, "/api/v1/dating/compatibility/abc", 1, nil, http.StatusBadRequest},
		{"hotpicks bad flag", http.MethodGet, "/api/v1/dating/hotpicks?exclude_seen=maybe", 1, nil, http.StatusBadRequest},
		{"unrouted method", http.MethodPost, "/api/v1/dating/recommendations", 1, nil, http.StatusNotFound},
		{"realtime disabled", http.MethodGet, "/api/v1/dating/ws", 1, nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{feed: &Feed{}, score: &recommend.RecommendationScore{}, err: tt.err}
			rec := doRequest(t, newTestRouter(t, svc), tt.method, tt.path, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_GetCompatibility(t *testing.T) {
	svc := &fakeService{score: &recommend.RecommendationScore{
		UserID:  "7",
		Score:   0.6,
		Reasons: []string{"Similar age", "Recently active"},
	}}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dating/compatibility/7", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotTarget)

	var body struct {
		Data CompatibilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 60, body.Data.MatchPercentage)
	assert.Equal(t, "60% match - Similar age, Recently active", body.Data.Explanation)
}

func TestHandler_GetHotpicks(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dating/hotpicks?limit=3&exclude_seen=false", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotLimit)
	assert.False(t, svc.gotExclude)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/dating/hotpicks", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.gotExclude)
}

func TestHandler_GenerateHotpicks(t *testing.T) {
	svc := &fakeService{generateDone: make(chan int64, 1)}
	router := newTestRouter(t, svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/dating/hotpicks/generate", 42)
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case userID := <-svc.generateDone:
		assert.Equal(t, int64(42), userID)
	case <-time.After(2 * time.Second):
		t.Fatal("generation was not started")
	}
}
