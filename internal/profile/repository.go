package profile

import (
	"context"
	"database/sql"
	"errors"

	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
	UpdateAddress(ctx context.Context, userID, email string, addr Address) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Get fetches a profile by the identity provider's user id.
func (r *repository) Get(ctx context.Context, userID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.String("user_id", userID),
	)

	query := `
		SELECT id, email, full_name, phone, address, city, state, postal_code, country, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone,
		&p.Address, &p.City, &p.State, &p.PostalCode, &p.Country,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// Upsert inserts the profile or updates it in place. Nil fields keep the
// stored value.
func (r *repository) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertProfile"),
		zap.String("user_id", p.ID),
	)

	query := `
		INSERT INTO profiles (id, email, full_name, phone, address, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET email = COALESCE(NULLIF(EXCLUDED.email, ''), profiles.email),
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			phone = COALESCE(EXCLUDED.phone, profiles.phone),
			address = COALESCE(EXCLUDED.address, profiles.address),
			city = COALESCE(EXCLUDED.city, profiles.city),
			state = COALESCE(EXCLUDED.state, profiles.state),
			postal_code = COALESCE(EXCLUDED.postal_code, profiles.postal_code),
			country = COALESCE(EXCLUDED.country, profiles.country),
			updated_at = NOW()
		RETURNING full_name, phone, address, city, state, postal_code, country, created_at, updated_at
	`

	out := *p
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Email, p.FullName, p.Phone,
		p.Address, p.City, p.State, p.PostalCode, p.Country,
	).Scan(
		&out.FullName, &out.Phone,
		&out.Address, &out.City, &out.State, &out.PostalCode, &out.Country,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert profile", zap.Error(err))
		return nil, err
	}

	log.Info("profile saved")
	return &out, nil
}

// UpdateAddress stores the shipping address used at checkout.
func (r *repository) UpdateAddress(ctx context.Context, userID, email string, addr Address) error {
	query := `
		INSERT INTO profiles (id, email, address, city, state, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		userID, email, addr.Address, addr.City, addr.State, addr.PostalCode, addr.Country,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update profile address",
			zap.String("layer", "repository"),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
