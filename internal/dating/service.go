// internal/dating/service.go

package dating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCannotScoreSelf = errors.New("cannot score compatibility with yourself")
)

// hotpickRetention bounds how long hotpick rows are kept, seen or not.
const hotpickRetention = 7 * 24 * time.Hour

type Service interface {
	// Recommendations returns the user's feed. Premium users get candidates
	// ranked by score; everyone else gets them in random order.
	Recommendations(ctx context.Context, userID int64, limit int) (*Feed, error)
	Compatibility(ctx context.Context, userID, targetID int64) (*recommend.RecommendationScore, error)

	GenerateDailyHotpicks(ctx context.Context) error
	GenerateHotpicksForUser(ctx context.Context, userID int64) (int, error)
	Hotpicks(ctx context.Context, userID int64, limit int, excludeSeen bool) ([]*Hotpick, error)
	CleanupExpiredHotpicks(ctx context.Context) error
}

// Feed is a page of scored candidates.
type Feed struct {
	Scores []*recommend.RecommendationScore
	Ranked bool
}

type ServiceConfig struct {
	DefaultLimit         int
	CandidatePoolSize    int
	HotpicksPerUser      int
	HotpicksTTL          time.Duration
	ActiveUserWindowDays int
}

type service struct {
	repo      Repository
	cache     *ProfileCache
	scorer    *recommend.Scorer
	publisher Publisher
	cfg       ServiceConfig
	log       logger.Logger
	now       func() time.Time
	shuffle   func(n int, swap func(i, j int))
}

func NewService(repo Repository, cache *ProfileCache, scorer *recommend.Scorer, publisher Publisher, cfg ServiceConfig, log logger.Logger) Service {
	if publisher == nil {
		publisher = NewNoopPublisher()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &service{
		repo:      repo,
		cache:     cache,
		scorer:    scorer,
		publisher: publisher,
		cfg:       cfg,
		log:       log.WithFields(map[string]interface{}{"component": "dating_service"}),
		now:       time.Now,
		shuffle:   rand.Shuffle,
	}
}

// Recommendations

func (s *service) Recommendations(ctx context.Context, userID int64, limit int) (*Feed, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	subject, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	if subject.IsPremium {
		recommendationRequests.WithLabelValues("premium").Inc()
		timer := prometheus.NewTimer(scoringDuration.WithLabelValues("ranked_feed"))
		top := s.scorer.TopRecommendations(subject, candidates, limit, settings)
		timer.ObserveDuration()
		return &Feed{Scores: top, Ranked: true}, nil
	}

	recommendationRequests.WithLabelValues("free").Inc()
	timer := prometheus.NewTimer(scoringDuration.WithLabelValues("random_feed"))
	scores := s.scorer.ScoreAll(subject, candidates, settings, s.now())
	timer.ObserveDuration()

	s.shuffle(len(scores), func(i, j int) {
		scores[i], scores[j] = scores[j], scores[i]
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return &Feed{Scores: scores, Ranked: false}, nil
}

func (s *service) Compatibility(ctx context.Context, userID, targetID int64) (*recommend.RecommendationScore, error) {
	if userID == targetID {
		return nil, ErrCannotScoreSelf
	}

	subject, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, err := s.loadProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	score := s.scorer.Score(subject, target, settings, s.now())
	compatibilityScores.Observe(score.Score)
	return score, nil
}

// Hotpicks

func (s *service) GenerateDailyHotpicks(ctx context.Context) error {
	users, err := s.repo.GetActiveUsers(ctx, s.cfg.ActiveUserWindowDays)
	if err != nil {
		return err
	}

	var generated, skipped, failed int
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}

		hasToday, err := s.repo.HasTodayHotpicks(ctx, user.ID)
		if err != nil {
			failed++
			s.log.WithError(err).Warn("Checking today's hotpicks failed", map[string]interface{}{"user_id": user.ID})
			continue
		}
		if hasToday {
			skipped++
			continue
		}

		n, err := s.generateFor(ctx, user.ID)
		if err != nil {
			failed++
			s.log.WithError(err).Warn("Hotpick generation failed", map[string]interface{}{"user_id": user.ID})
			continue
		}
		generated += n
	}

	s.log.Info("Daily hotpicks generated", map[string]interface{}{
		"users":    len(users),
		"hotpicks": generated,
		"skipped":  skipped,
		"failed":   failed,
	})
	return nil
}

func (s *service) GenerateHotpicksForUser(ctx context.Context, userID int64) (int, error) {
	return s.generateFor(ctx, userID)
}

func (s *service) generateFor(ctx context.Context, userID int64) (int, error) {
	subject, err := s.loadProfile(ctx, userID)
	if err != nil {
		return 0, err
	}

	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return 0, err
	}

	candidates, err := s.loadCandidates(ctx, userID)
	if err != nil {
		return 0, err
	}

	timer := prometheus.NewTimer(scoringDuration.WithLabelValues("hotpicks"))
	top := s.scorer.TopRecommendations(subject, candidates, s.cfg.HotpicksPerUser, settings)
	timer.ObserveDuration()

	expiresAt := s.now().Add(s.cfg.HotpicksTTL)
	created := 0
	for _, score := range top {
		recommendedID, err := ParseUserID(score.UserID)
		if err != nil {
			return created, fmt.Errorf("candidate id %q: %w", score.UserID, err)
		}

		factors, err := json.Marshal(score.Breakdown)
		if err != nil {
			return created, fmt.Errorf("encode factors: %w", err)
		}

		hotpick := &Hotpick{
			UserID:            userID,
			RecommendedUserID: recommendedID,
			Score:             score.Score,
			Reason:            ptr(strings.Join(score.Reasons, ", ")),
			Factors:           factors,
			ExpiresAt:         ptr(expiresAt),
		}
		if err := s.repo.CreateHotpick(ctx, hotpick); err != nil {
			return created, err
		}
		compatibilityScores.Observe(score.Score)
		created++
	}
	hotpicksGenerated.Add(float64(created))

	if created > 0 {
		event := NewEvent(EventHotpicksReady, userID, map[string]interface{}{"count": created})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.WithError(err).Warn("Publishing hotpicks event failed", map[string]interface{}{"user_id": userID})
		}
	}
	return created, nil
}

// Hotpicks returns the user's live hotpicks and marks them seen.
func (s *service) Hotpicks(ctx context.Context, userID int64, limit int, excludeSeen bool) ([]*Hotpick, error) {
	if limit <= 0 {
		limit = s.cfg.HotpicksPerUser
	}

	hotpicks, err := s.repo.GetUserHotpicks(ctx, userID, limit, excludeSeen)
	if err != nil {
		return nil, err
	}

	var unseen []int64
	for _, h := range hotpicks {
		if !h.IsSeen {
			unseen = append(unseen, h.ID)
		}
	}
	if err := s.repo.MarkHotpicksSeen(ctx, userID, unseen); err != nil {
		s.log.WithError(err).Warn("Marking hotpicks seen failed", map[string]interface{}{"user_id": userID})
	}
	return hotpicks, nil
}

func (s *service) CleanupExpiredHotpicks(ctx context.Context) error {
	n, err := s.repo.DeleteExpiredHotpicks(ctx)
	if err != nil {
		return err
	}
	s.log.Info("Expired hotpicks removed", map[string]interface{}{"deleted": n})
	return nil
}

// Loading

func (s *service) loadProfile(ctx context.Context, userID int64) (*recommend.Profile, error) {
	if p, ok := s.cache.Get(ctx, userID); ok {
		return p, nil
	}

	row, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := row.ToProfile()
	s.cache.Set(ctx, userID, p)
	return p, nil
}

func (s *service) loadSettings(ctx context.Context, userID int64) (*recommend.UserSettings, error) {
	distance, err := s.repo.GetMaxDistance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if distance == nil {
		return nil, nil
	}
	return &recommend.UserSettings{MaxDistanceKm: *distance}, nil
}

func (s *service) loadCandidates(ctx context.Context, userID int64) ([]*recommend.Profile, error) {
	rows, err := s.repo.FindCandidates(ctx, userID, s.cfg.CandidatePoolSize)
	if err != nil {
		return nil, err
	}

	candidates := make([]*recommend.Profile, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.ToProfile())
	}
	return candidates, nil
}
