package recommend

import "time"

// PetPreferenceOpen marks a profile that is fine either way about pets.
const PetPreferenceOpen = "open"

// Profile is the read-only snapshot the scorer works on. Zero values mean
// "not provided".
type Profile struct {
	ID         string    `json:"id"`
	Age        int       `json:"age,omitempty"`
	LastActive time.Time `json:"last_active"`
	Interests  []string  `json:"interests,omitempty"`
	Location   *Location `json:"location,omitempty"`

	// Lifestyle
	Smoking          string   `json:"smoking,omitempty"`
	Drinking         string   `json:"drinking,omitempty"`
	Religion         string   `json:"religion,omitempty"`
	RelationshipType string   `json:"relationship_type,omitempty"`
	Education        string   `json:"education,omitempty"`
	HasPets          *bool    `json:"has_pets,omitempty"`
	PetPreference    string   `json:"pet_preference,omitempty"`
	Languages        []string `json:"languages,omitempty"`
	FavoriteBooks    []string `json:"favorite_books,omitempty"`

	IsPremium  bool `json:"is_premium"`
	IsVerified bool `json:"is_verified"`
}

// UserSettings carries the subject's tunables. A nil *UserSettings is valid.
type UserSettings struct {
	MaxDistanceKm float64 `json:"max_distance_km"`
}

// ScoreBreakdown holds the unweighted factor scores.
type ScoreBreakdown struct {
	InterestsSimilarity float64 `json:"interests_similarity"`
	LocationProximity   float64 `json:"location_proximity"`
	AgeCompatibility    float64 `json:"age_compatibility"`
	ActivityScore       float64 `json:"activity_score"`
	PreferenceMatch     float64 `json:"preference_match"`
}

// RecommendationScore is the scored, explained result for one candidate.
type RecommendationScore struct {
	UserID    string         `json:"user_id"`
	Score     float64        `json:"score"`
	Reasons   []string       `json:"reasons"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
