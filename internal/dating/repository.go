// internal/dating/repository.go

package dating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository is the PostgreSQL access the discovery service needs.
type Repository interface {
	// Profiles
	GetProfile(ctx context.Context, userID int64) (*ProfileRow, error)
	GetMaxDistance(ctx context.Context, userID int64) (*float64, error)
	FindCandidates(ctx context.Context, userID int64, limit int) ([]*ProfileRow, error)
	GetActiveUsers(ctx context.Context, daysActive int) ([]*ActiveUser, error)

	// Hotpicks
	HasTodayHotpicks(ctx context.Context, userID int64) (bool, error)
	CreateHotpick(ctx context.Context, hotpick *Hotpick) error
	GetUserHotpicks(ctx context.Context, userID int64, limit int, excludeSeen bool) ([]*Hotpick, error)
	MarkHotpicksSeen(ctx context.Context, userID int64, ids []int64) error
	DeleteExpiredHotpicks(ctx context.Context) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	u.id,
	EXTRACT(YEAR FROM AGE(p.date_of_birth))::int AS age,
	u.last_active,
	p.interests,
	p.location,
	p.smoking,
	p.drinking,
	p.religion,
	p.relationship_type,
	p.education,
	p.has_pets,
	p.pet_preference,
	p.languages,
	p.favorite_books,
	u.is_premium,
	u.is_verified`

// Profile Methods

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*ProfileRow, error) {
	var row ProfileRow
	query := `SELECT ` + profileColumns + `
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.deleted_at IS NULL`

	err := r.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", userID, err)
	}
	return &row, nil
}

func (r *postgresRepository) GetMaxDistance(ctx context.Context, userID int64) (*float64, error) {
	var distance *float64
	query := `SELECT preferred_distance FROM profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &distance, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get max distance %d: %w", userID, err)
	}
	return distance, nil
}

// FindCandidates returns profiles the user has not seen yet: never the user
// themself, nobody blocked in either direction, nobody already requested and
// nobody already matched.
func (r *postgresRepository) FindCandidates(ctx context.Context, userID int64, limit int) ([]*ProfileRow, error) {
	var rows []*ProfileRow
	query := `SELECT ` + profileColumns + `
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> $1
			AND u.deleted_at IS NULL
			AND NOT EXISTS (
				SELECT 1 FROM blocked_users b
				WHERE (b.user_id = $1 AND b.blocked_id = u.id)
				   OR (b.user_id = u.id AND b.blocked_id = $1)
			)
			AND NOT EXISTS (
				SELECT 1 FROM date_requests d
				WHERE d.sender_id = $1 AND d.receiver_id = u.id
			)
			AND NOT EXISTS (
				SELECT 1 FROM matches m
				WHERE m.is_active = TRUE
				  AND ((m.user1_id = $1 AND m.user2_id = u.id)
				    OR (m.user1_id = u.id AND m.user2_id = $1))
			)
		ORDER BY u.last_active DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("find candidates for %d: %w", userID, err)
	}
	return rows, nil
}

func (r *postgresRepository) GetActiveUsers(ctx context.Context, daysActive int) ([]*ActiveUser, error) {
	var users []*ActiveUser
	query := `
		SELECT id, last_active
		FROM users
		WHERE deleted_at IS NULL
			AND last_active > NOW() - make_interval(days => $1)
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &users, query, daysActive); err != nil {
		return nil, fmt.Errorf("get active users: %w", err)
	}
	return users, nil
}

// Hotpick Methods

func (r *postgresRepository) HasTodayHotpicks(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM hotpicks WHERE user_id = $1 AND created_at >= CURRENT_DATE)`

	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check today's hotpicks for %d: %w", userID, err)
	}
	return exists, nil
}

func (r *postgresRepository) CreateHotpick(ctx context.Context, hotpick *Hotpick) error {
	query := `
		INSERT INTO hotpicks (
			user_id, recommended_user_id, score, reason, factors, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, recommended_user_id, DATE(created_at))
		DO UPDATE SET score = $3, reason = $4, factors = $5, expires_at = $6
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(
		ctx, query,
		hotpick.UserID, hotpick.RecommendedUserID,
		hotpick.Score, hotpick.Reason, []byte(hotpick.Factors), hotpick.ExpiresAt,
	).Scan(&hotpick.ID, &hotpick.CreatedAt)
	if err != nil {
		return fmt.Errorf("create hotpick: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetUserHotpicks(ctx context.Context, userID int64, limit int, excludeSeen bool) ([]*Hotpick, error) {
	var hotpicks []*Hotpick

	query := `
		SELECT id, user_id, recommended_user_id, score, reason, factors,
		       is_seen, expires_at, created_at
		FROM hotpicks
		WHERE user_id = $1
			AND (expires_at IS NULL OR expires_at > NOW())`

	if excludeSeen {
		query += " AND is_seen = FALSE"
	}

	query += " ORDER BY score DESC, created_at DESC LIMIT $2"

	if err := r.db.SelectContext(ctx, &hotpicks, query, userID, limit); err != nil {
		return nil, fmt.Errorf("get hotpicks for %d: %w", userID, err)
	}
	return hotpicks, nil
}

func (r *postgresRepository) MarkHotpicksSeen(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE hotpicks SET is_seen = TRUE WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return fmt.Errorf("build mark seen query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("mark hotpicks seen: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteExpiredHotpicks(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM hotpicks
		WHERE expires_at < NOW() OR created_at < NOW() - $1::interval`

	res, err := r.db.ExecContext(ctx, query, fmt.Sprintf("%d days", int(hotpickRetention/(24*time.Hour))))
	if err != nil {
		return 0, fmt.Errorf("delete expired hotpicks: %w", err)
	}
	return res.RowsAffected()
}
