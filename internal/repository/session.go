package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/picture-gallery/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	ByToken(ctx context.Context, token string) (*model.Session, error)
	UpdateExpiry(ctx context.Context, id string, expiresAt, updatedAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO session (id, token, user_id, expires_at, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.Token,
		session.UserID,
		session.ExpiresAt.UTC(),
		session.IPAddress,
		session.UserAgent,
		session.CreatedAt.UTC(),
		session.UpdatedAt.UTC(),
	)
	return err
}

func (r *sessionRepository) ByToken(ctx context.Context, token string) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT id, token, user_id, expires_at, ip_address, user_agent, created_at, updated_at
	          FROM session WHERE token = $1`

	err := r.db.GetContext(ctx, session, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// UpdateExpiry pushes the sliding expiry forward.
func (r *sessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt, updatedAt time.Time) error {
	query := `UPDATE session SET expires_at = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, expiresAt.UTC(), updatedAt.UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteByToken is idempotent: deleting an unknown token is not an error.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM session WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM session WHERE expires_at <= $1`

	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
