package recommend

import (
	"errors"
	"time"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
)

// Weights sets how much each factor contributes to the aggregate score.
type Weights struct {
	Interests   float64 `json:"interests"`
	Location    float64 `json:"location"`
	Age         float64 `json:"age"`
	Activity    float64 `json:"activity"`
	Preferences float64 `json:"preferences"`
}

// DefaultWeights returns the production weighting. The weights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Interests:   0.25,
		Location:    0.20,
		Age:         0.15,
		Activity:    0.15,
		Preferences: 0.25,
	}
}

// Sum adds up all five weights.
func (w Weights) Sum() float64 {
	return w.Interests + w.Location + w.Age + w.Activity + w.Preferences
}

func (w Weights) apply(b ScoreBreakdown) float64 {
	return b.InterestsSimilarity*w.Interests +
		b.LocationProximity*w.Location +
		b.AgeCompatibility*w.Age +
		b.ActivityScore*w.Activity +
		b.PreferenceMatch*w.Preferences
}

const (
	defaultLimit             = 10
	defaultParallelThreshold = 256
	defaultWorkers           = 4

	fallbackReason = "New match for you"
)

// Scorer computes recommendation scores. The zero value is not usable; call NewScorer.
type Scorer struct {
	logger            logger.Logger
	weights           Weights
	maxDistanceKm     float64
	workers           int
	parallelThreshold int
	now               func() time.Time
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithDefaultMaxDistance sets the decay scale used when the subject has no setting.
func WithDefaultMaxDistance(km float64) Option {
	return func(s *Scorer) {
		if km > 0 {
			s.maxDistanceKm = km
		}
	}
}

// WithWorkers bounds how many goroutines score a large batch.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithParallelThreshold sets the batch size at which scoring fans out.
func WithParallelThreshold(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.parallelThreshold = n
		}
	}
}

// WithClock replaces time.Now for batch scoring.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScorer returns a Scorer with production weights.
func NewScorer(log logger.Logger, opts ...Option) *Scorer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Scorer{
		logger:            log.WithFields(map[string]interface{}{"component": "recommend"}),
		weights:           DefaultWeights(),
		maxDistanceKm:     DefaultMaxDistanceKm,
		workers:           defaultWorkers,
		parallelThreshold: defaultParallelThreshold,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates candidate for subject at the given instant. It never fails:
// incomplete data lowers the score toward neutral instead.
func (s *Scorer) Score(subject, candidate *Profile, settings *UserSettings, now time.Time) *RecommendationScore {
	proximity, located := s.locationScore(subject, candidate, settings)
	breakdown := ScoreBreakdown{
		InterestsSimilarity: InterestsSimilarity(subject.Interests, candidate.Interests),
		LocationProximity:   proximity,
		AgeCompatibility:    AgeCompatibility(subject.Age, candidate.Age),
		ActivityScore:       ActivityScore(candidate.LastActive, now),
		PreferenceMatch:     PreferenceMatch(subject, candidate),
	}

	return &RecommendationScore{
		UserID:    candidate.ID,
		Score:     clamp01(s.weights.apply(breakdown)),
		Reasons:   reasons(breakdown, located, candidate),
		Breakdown: breakdown,
	}
}

// locationScore reports whether both profiles had usable coordinates
// alongside the score.
func (s *Scorer) locationScore(subject, candidate *Profile, settings *UserSettings) (float64, bool) {
	from, err := s.resolve(subject)
	if err != nil {
		return NeutralLocation, false
	}
	to, err := s.resolve(candidate)
	if err != nil {
		return NeutralLocation, false
	}

	maxDistance := s.maxDistanceKm
	if settings != nil && settings.MaxDistanceKm > 0 {
		maxDistance = settings.MaxDistanceKm
	}
	return LocationProximity(from, to, maxDistance), true
}

func (s *Scorer) resolve(p *Profile) (GeoPoint, error) {
	point, err := p.Location.Point()
	if err != nil && !errors.Is(err, ErrNoLocation) {
		s.logger.Warn("could not resolve profile location", map[string]interface{}{
			"profile_id": p.ID,
			"kind":       p.Location.Kind.String(),
			"error":      err,
		})
	}
	return point, err
}

// reasons lists explanations in evaluation order. The neutral location
// fallback says nothing about distance, so it never produces a location reason.
func reasons(b ScoreBreakdown, located bool, candidate *Profile) []string {
	out := make([]string, 0, 4)

	switch {
	case b.InterestsSimilarity > 0.6:
		out = append(out, "Strong shared interests")
	case b.InterestsSimilarity > 0.3:
		out = append(out, "Some common interests")
	}

	switch {
	case !located:
	case b.LocationProximity > 0.7:
		out = append(out, "Very close by")
	case b.LocationProximity > 0.4:
		out = append(out, "Nearby location")
	}

	if b.AgeCompatibility > 0.8 {
		out = append(out, "Similar age")
	}

	if b.ActivityScore > 0.7 {
		out = append(out, "Recently active")
	}

	switch {
	case b.PreferenceMatch > 0.7:
		out = append(out, "Highly compatible lifestyle")
	case b.PreferenceMatch > 0.5:
		out = append(out, "Compatible preferences")
	}

	if candidate.IsPremium {
		out = append(out, "Premium member")
	}
	if candidate.IsVerified {
		out = append(out, "Verified profile")
	}

	if len(out) == 0 {
		out = append(out, fallbackReason)
	}
	return out
}
