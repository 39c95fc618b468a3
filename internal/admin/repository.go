// Package admin reads the admins table. Membership is managed directly in
// the database; the service only reads it.
package admin

import (
	"context"
	"database/sql"

	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Emails(ctx context.Context) ([]string, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Emails lists every admin address, used as notification recipients.
func (r *repository) Emails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM admins WHERE email <> '' ORDER BY created_at`)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query admin emails",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
