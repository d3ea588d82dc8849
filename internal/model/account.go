package model

import (
	"time"
)

const (
	ProviderCredential = "credential"
)

// Account links a user to a sign-in method. Email/password users have exactly
// one "credential" account holding the encoded password hash.
type Account struct {
	ID         string    `db:"id"`
	AccountID  string    `db:"account_id"`
	ProviderID string    `db:"provider_id"`
	UserID     int64     `db:"user_id"`
	Password   *string   `db:"password"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (a *Account) HasPassword() bool {
	return a.Password != nil && *a.Password != ""
}
