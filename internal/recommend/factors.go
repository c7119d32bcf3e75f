package recommend

import (
	"math"
	"time"
)

// Neutral scores used when a factor has nothing to compare.
const (
	NeutralInterests  = 0.3
	NeutralLocation   = 0.5
	NeutralAge        = 0.5
	NeutralPreference = 0.5
)

// DefaultMaxDistanceKm is the location decay scale when the subject has no setting.
const DefaultMaxDistanceKm = 100.0

// InterestsSimilarity is the Jaccard similarity of two interest lists.
func InterestsSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return NeutralInterests
	}
	return clamp01(JaccardSimilarity(a, b))
}

// LocationProximity decays exponentially with distance: 1.0 at the same
// spot, exp(-1) at maxDistanceKm, approaching but never reaching 0.
func LocationProximity(a, b GeoPoint, maxDistanceKm float64) float64 {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	d := HaversineDistance(a, b)
	return clamp01(math.Exp(-d / maxDistanceKm))
}

// AgeCompatibility steps down as the age gap widens. A zero age on either
// side is treated as unknown.
func AgeCompatibility(a, b int) float64 {
	if a == 0 || b == 0 {
		return NeutralAge
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 5:
		return 1.0
	case diff <= 10:
		return 0.8
	case diff <= 15:
		return 0.6
	case diff <= 20:
		return 0.4
	default:
		return 0.2
	}
}

// ActivityScore rewards candidates seen recently. A zero lastActive falls
// into the oldest bucket.
func ActivityScore(lastActive, now time.Time) float64 {
	if lastActive.IsZero() {
		return 0.1
	}

	hours := now.Sub(lastActive).Hours()
	switch {
	case hours < 1:
		return 1.0
	case hours < 6:
		return 0.9
	case hours < 24:
		return 0.7
	case hours < 72:
		return 0.5
	case hours < 168:
		return 0.3
	default:
		return 0.1
	}
}

// categorical pairs a lifestyle field accessor with its match/mismatch scores.
type categorical struct {
	field    func(*Profile) string
	match    float64
	mismatch float64
}

var lifestyleFields = []categorical{
	{field: func(p *Profile) string { return p.Education }, match: 1.0, mismatch: 0.5},
	{field: func(p *Profile) string { return p.Smoking }, match: 1.0, mismatch: 0.3},
	{field: func(p *Profile) string { return p.Drinking }, match: 1.0, mismatch: 0.5},
	{field: func(p *Profile) string { return p.Religion }, match: 1.0, mismatch: 0.4},
	{field: func(p *Profile) string { return p.RelationshipType }, match: 1.0, mismatch: 0.2},
}

// PreferenceMatch averages every lifestyle attribute both profiles filled
// in. Each attribute counts once regardless of importance, so a single
// shared attribute decides the whole score.
func PreferenceMatch(a, b *Profile) float64 {
	var sum float64
	var count int

	if a.HasPets != nil && b.HasPets != nil {
		switch {
		case *a.HasPets == *b.HasPets:
			sum += 1.0
		case a.PetPreference == PetPreferenceOpen || b.PetPreference == PetPreferenceOpen:
			sum += 0.7
		default:
			sum += 0.3
		}
		count++
	}

	for _, c := range lifestyleFields {
		va, vb := c.field(a), c.field(b)
		if va == "" || vb == "" {
			continue
		}
		if va == vb {
			sum += c.match
		} else {
			sum += c.mismatch
		}
		count++
	}

	if len(a.Languages) > 0 && len(b.Languages) > 0 {
		sum += JaccardSimilarity(a.Languages, b.Languages)
		count++
	}

	if len(a.FavoriteBooks) > 0 && len(b.FavoriteBooks) > 0 {
		sum += JaccardSimilarity(a.FavoriteBooks, b.FavoriteBooks)
		count++
	}

	if count == 0 {
		return NeutralPreference
	}
	return clamp01(sum / float64(count))
}
