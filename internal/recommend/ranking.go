package recommend

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// TopRecommendations scores every candidate against subject, sorts by score
// descending and returns at most limit results. A non-positive limit means
// the default of 10. Nil candidates are skipped.
//
// The clock is read once so every candidate is judged against the same
// instant. Excluding the subject, already-seen or blocked profiles is the
// caller's job.
func (s *Scorer) TopRecommendations(subject *Profile, candidates []*Profile, limit int, settings *UserSettings) []*RecommendationScore {
	if limit <= 0 {
		limit = defaultLimit
	}

	scored := s.ScoreAll(subject, candidates, settings, s.now())

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ScoreAll scores candidates in input order without sorting. Large batches
// are split across a bounded number of goroutines; each writes only its own
// slot, so the result matches sequential scoring.
func (s *Scorer) ScoreAll(subject *Profile, candidates []*Profile, settings *UserSettings, now time.Time) []*RecommendationScore {
	present := make([]*Profile, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			present = append(present, c)
		}
	}

	out := make([]*RecommendationScore, len(present))
	if len(present) < s.parallelThreshold || s.workers < 2 {
		for i, c := range present {
			out[i] = s.Score(subject, c, settings, now)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, c := range present {
		g.Go(func() error {
			out[i] = s.Score(subject, c, settings, now)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
