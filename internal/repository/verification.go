package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/picture-gallery/internal/model"
)

// VerificationRepository only exposes maintenance for now;
// email verification is not enabled.
type VerificationRepository interface {
	Create(ctx context.Context, v *model.Verification) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type verificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *model.Verification) error {
	query := `
		INSERT INTO verification (id, identifier, value, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.Identifier,
		v.Value,
		v.ExpiresAt.UTC(),
		v.CreatedAt.UTC(),
		v.UpdatedAt.UTC(),
	)
	return err
}

func (r *verificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM verification WHERE expires_at <= $1`

	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
