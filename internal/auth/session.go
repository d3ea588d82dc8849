package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/repository"
)

// Meta is request metadata recorded on new sessions.
type Meta struct {
	IPAddress string
	UserAgent string
}

// SessionManager issues and resolves opaque session tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID int64, meta Meta) (*model.Session, error)
	// Resolve returns nil for unknown or expired tokens. refreshed is true
	// when the sliding expiry moved and the cookie should be re-issued.
	Resolve(ctx context.Context, token string) (session *model.Session, refreshed bool, err error)
	Revoke(ctx context.Context, token string) error
}

type DBSessionManager struct {
	sessions  repository.SessionRepository
	expiry    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

func NewSessionManager(sessions repository.SessionRepository, expiry, updateAge time.Duration) *DBSessionManager {
	return &DBSessionManager{
		sessions:  sessions,
		expiry:    expiry,
		updateAge: updateAge,
		now:       time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (m *DBSessionManager) WithClock(now func() time.Time) *DBSessionManager {
	m.now = now
	return m
}

func (m *DBSessionManager) Issue(ctx context.Context, userID int64, meta Meta) (*model.Session, error) {
	now := m.now().UTC()

	session := &model.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.expiry),
		IPAddress: optional(meta.IPAddress),
		UserAgent: optional(meta.UserAgent),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := m.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (m *DBSessionManager) Resolve(ctx context.Context, token string) (*model.Session, bool, error) {
	if token == "" {
		return nil, false, nil
	}

	session, err := m.sessions.ByToken(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	now := m.now().UTC()

	if session.IsExpired(now) {
		err = m.sessions.DeleteByToken(ctx, token)
		if err != nil {
			slog.Warn("failed to delete expired session", "error", err, "session_id", session.ID)
		}
		return nil, false, nil
	}

	if !session.DueForRefresh(now, m.updateAge) {
		return session, false, nil
	}

	expiresAt := now.Add(m.expiry)
	err = m.sessions.UpdateExpiry(ctx, session.ID, expiresAt, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to refresh session: %w", err)
	}
	session.ExpiresAt = expiresAt
	session.UpdatedAt = now

	return session, true, nil
}

func (m *DBSessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := m.sessions.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
