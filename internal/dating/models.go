// internal/dating/models.go

package dating

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/imadgeboyega/kiekky-discovery/internal/recommend"
)

// ProfileRow is a user's matching profile as stored in PostgreSQL.
// Location is the raw JSONB column; either {"lat","lng"} or a GeoJSON point.
type ProfileRow struct {
	ID               int64          `db:"id"`
	Age              *int           `db:"age"`
	LastActive       *time.Time     `db:"last_active"`
	Interests        pq.StringArray `db:"interests"`
	Location         []byte         `db:"location"`
	Smoking          *string        `db:"smoking"`
	Drinking         *string        `db:"drinking"`
	Religion         *string        `db:"religion"`
	RelationshipType *string        `db:"relationship_type"`
	Education        *string        `db:"education"`
	HasPets          *bool          `db:"has_pets"`
	PetPreference    *string        `db:"pet_preference"`
	Languages        pq.StringArray `db:"languages"`
	FavoriteBooks    pq.StringArray `db:"favorite_books"`
	IsPremium        bool           `db:"is_premium"`
	IsVerified       bool           `db:"is_verified"`
}

// ToProfile converts the row into the scorer's profile type.
func (r *ProfileRow) ToProfile() *recommend.Profile {
	p := &recommend.Profile{
		ID:               FormatUserID(r.ID),
		Age:              derefInt(r.Age, 0),
		Interests:        []string(r.Interests),
		Smoking:          derefString(r.Smoking, ""),
		Drinking:         derefString(r.Drinking, ""),
		Religion:         derefString(r.Religion, ""),
		RelationshipType: derefString(r.RelationshipType, ""),
		Education:        derefString(r.Education, ""),
		HasPets:          r.HasPets,
		PetPreference:    derefString(r.PetPreference, ""),
		Languages:        []string(r.Languages),
		FavoriteBooks:    []string(r.FavoriteBooks),
		IsPremium:        r.IsPremium,
		IsVerified:       r.IsVerified,
	}
	if r.LastActive != nil {
		p.LastActive = *r.LastActive
	}
	if len(r.Location) > 0 && string(r.Location) != "null" {
		var loc recommend.Location
		// Unknown shapes decode to LocationUnknown and are reported by the scorer.
		_ = json.Unmarshal(r.Location, &loc)
		p.Location = &loc
	}
	return p
}

// ActiveUser is a user eligible for daily hotpicks.
type ActiveUser struct {
	ID         int64     `db:"id"`
	LastActive time.Time `db:"last_active"`
}

type Hotpick struct {
	ID                int64           `json:"id" db:"id"`
	UserID            int64           `json:"user_id" db:"user_id"`
	RecommendedUserID int64           `json:"recommended_user_id" db:"recommended_user_id"`
	Score             float64         `json:"score" db:"score"`
	Reason            *string         `json:"reason,omitempty" db:"reason"`
	Factors           json.RawMessage `json:"factors,omitempty" db:"factors"`
	IsSeen            bool            `json:"is_seen" db:"is_seen"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// FormatUserID renders a database id the way the scorer identifies profiles.
func FormatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseUserID is the inverse of FormatUserID.
func ParseUserID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// Helper functions
func ptr[T any](v T) *T {
	return &v
}

func derefString(s *string, defaultValue string) string {
	if s != nil {
		return *s
	}
	return defaultValue
}

func derefInt(i *int, defaultValue int) int {
	if i != nil {
		return *i
	}
	return defaultValue
}
