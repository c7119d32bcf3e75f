// internal/dating/handlers.go

package dating

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/kiekky-discovery/internal/auth"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

const generateTimeout = 30 * time.Second

type Handler struct {
	service      Service
	hub          *Hub
	log          logger.Logger
	defaultLimit int
	maxLimit     int
}

// NewHandler wires the HTTP layer. hub may be nil when realtime is disabled.
// Requests asking for more than maxLimit results are rejected.
func NewHandler(service Service, hub *Hub, defaultLimit, maxLimit int, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{service: service, hub: hub, defaultLimit: defaultLimit, maxLimit: maxLimit, log: log}
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := RecommendationsParams{Limit: h.defaultLimit}
	if !parseIntQuery(w, r, "limit", &params.Limit) {
		return
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.checkLimit(w, params.Limit) {
		return
	}

	feed, err := h.service.Recommendations(r.Context(), userID, params.Limit)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get recommendations")
		return
	}

	resp := RecommendationsResponse{
		Recommendations: make([]RecommendationResponse, 0, len(feed.Scores)),
		Ranked:          feed.Ranked,
		Count:           len(feed.Scores),
	}
	for _, s := range feed.Scores {
		resp.Recommendations = append(resp.Recommendations, toRecommendationResponse(s))
	}

	utils.RespondWithData(w, http.StatusOK, resp)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	score, err := h.service.Compatibility(r.Context(), userID, targetID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to calculate compatibility")
		return
	}

	utils.RespondWithData(w, http.StatusOK, CompatibilityResponse{
		RecommendationResponse: toRecommendationResponse(score),
		Explanation:            recommend.Explain(score),
	})
}

func (h *Handler) GetHotpicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := HotpicksParams{Limit: h.defaultLimit, ExcludeSeen: true}
	if !parseIntQuery(w, r, "limit", &params.Limit) {
		return
	}
	if v := r.URL.Query().Get("exclude_seen"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "exclude_seen must be a boolean")
			return
		}
		params.ExcludeSeen = b
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.checkLimit(w, params.Limit) {
		return
	}

	hotpicks, err := h.service.Hotpicks(r.Context(), userID, params.Limit, params.ExcludeSeen)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get hotpicks")
		return
	}
	if hotpicks == nil {
		hotpicks = []*Hotpick{}
	}

	utils.RespondWithData(w, http.StatusOK, hotpicks)
}

// GenerateHotpicks starts generation for the caller and returns immediately.
// A hotpicks_ready event is published when rows are written.
func (h *Handler) GenerateHotpicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), generateTimeout)
		defer cancel()

		n, err := h.service.GenerateHotpicksForUser(ctx, userID)
		if err != nil {
			h.log.WithError(err).Warn("On-demand hotpick generation failed", map[string]interface{}{"user_id": userID})
			return
		}
		h.log.Info("On-demand hotpicks generated", map[string]interface{}{"user_id": userID, "count": n})
	}()

	utils.RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "generating"})
}

func (h *Handler) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.hub == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Realtime updates are disabled")
		return
	}

	h.hub.ServeWS(w, r, userID)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCannotScoreSelf):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.WithError(err).Error(message, nil)
		utils.RespondWithError(w, http.StatusInternalServerError, message)
	}
}

func (h *Handler) checkLimit(w http.ResponseWriter, limit int) bool {
	if h.maxLimit > 0 && limit > h.maxLimit {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Limit must be at most %d", h.maxLimit))
		return false
	}
	return true
}

// parseIntQuery overwrites dst when the parameter is present. It writes a 400
// and returns false when the value is not an integer.
func parseIntQuery(w http.ResponseWriter, r *http.Request, name string, dst *int) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, name+" must be an integer")
		return false
	}
	*dst = n
	return true
}
