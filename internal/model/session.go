package model

import (
	"time"
)

type Session struct {
	ID        string    `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	UserID    int64     `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	IPAddress *string   `db:"ip_address" json:"ipAddress"`
	UserAgent *string   `db:"user_agent" json:"userAgent"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"` // last sliding refresh
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// DueForRefresh reports whether the sliding expiry should be pushed forward.
func (s *Session) DueForRefresh(now time.Time, updateAge time.Duration) bool {
	return now.Sub(s.UpdatedAt) > updateAge
}
