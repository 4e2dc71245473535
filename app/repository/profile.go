package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/edukasiku/ms-go-premium/app/entity"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, name, email, role, premium_until, created_at, updated_at`

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = ?
	`
	return r.findOne(ctx, query, userID)
}

// FindByUserIDForUpdate takes a row lock on the profile so that concurrent
// entitlement extensions for the same user are serialized, even when they
// come from different orders. Must run inside a unit of work.
func (r *ProfileRepository) FindByUserIDForUpdate(ctx context.Context, userID string) (*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = ?
		FOR UPDATE
	`
	return r.findOne(ctx, query, userID)
}

// UpdateEntitlement writes role and expiry unconditionally. Callers confirm
// the profile exists first; the driver reports changed rows rather than
// matched rows, so a no-op rewrite of identical values is not an error.
func (r *ProfileRepository) UpdateEntitlement(ctx context.Context, userID string, role entity.Role, premiumUntil *time.Time, now time.Time) error {
	query := `
		UPDATE profiles
		SET role = ?, premium_until = ?, updated_at = ?
		WHERE user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		string(role),
		nullableTimeValue(premiumUntil),
		now,
		userID,
	)
	return err
}

func (r *ProfileRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Profile, error) {
	item := &entity.Profile{}
	if err := scanProfile(
		r.db.QueryRowContext(ctx, query, args...),
		item,
	); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func scanProfile(scanner rowScanner, item *entity.Profile) error {
	var email sql.NullString
	var role string
	var premiumUntil sql.NullTime

	err := scanner.Scan(
		&item.UserID,
		&item.Name,
		&email,
		&role,
		&premiumUntil,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if email.Valid {
		item.Email = &email.String
	} else {
		item.Email = nil
	}
	item.Role = entity.Role(role)
	if premiumUntil.Valid {
		item.PremiumUntil = &premiumUntil.Time
	} else {
		item.PremiumUntil = nil
	}

	return nil
}
