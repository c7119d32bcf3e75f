// internal/dating/dto.go

package dating

import (
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

// RecommendationsParams are the query parameters of the feed endpoint.
type RecommendationsParams struct {
	Limit int `validate:"min=1"`
}

type HotpicksParams struct {
	Limit       int `validate:"min=1"`
	ExcludeSeen bool
}

// RecommendationResponse is one entry in the feed.
type RecommendationResponse struct {
	UserID          string                   `json:"user_id"`
	Score           float64                  `json:"score"`
	MatchPercentage int                      `json:"match_percentage"`
	Reasons         []string                 `json:"reasons"`
	Breakdown       recommend.ScoreBreakdown `json:"breakdown"`
}

type RecommendationsResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Ranked          bool                     `json:"ranked"`
	Count           int                      `json:"count"`
}

type CompatibilityResponse struct {
	RecommendationResponse
	Explanation string `json:"explanation"`
}

func toRecommendationResponse(s *recommend.RecommendationScore) RecommendationResponse {
	return RecommendationResponse{
		UserID:          s.UserID,
		Score:           s.Score,
		MatchPercentage: recommend.MatchPercentage(s),
		Reasons:         s.Reasons,
		Breakdown:       s.Breakdown,
	}
}
