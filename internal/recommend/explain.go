package recommend

import (
	"fmt"
	"math"
	"strings"
)

// MatchPercentage renders a score as a whole percentage.
func MatchPercentage(score *RecommendationScore) int {
	return int(math.Round(score.Score * 100))
}

// Explain renders a score as "82% match - Strong shared interests, Nearby location".
func Explain(score *RecommendationScore) string {
	return fmt.Sprintf("%d%% match - %s", MatchPercentage(score), strings.Join(score.Reasons, ", "))
}
