package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/picture-gallery/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	CredentialByUserID(ctx context.Context, userID int64) (*model.Account, error)
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO account (id, account_id, provider_id, user_id, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.AccountID,
		account.ProviderID,
		account.UserID,
		account.Password,
		account.CreatedAt.UTC(),
		account.UpdatedAt.UTC(),
	)
	return err
}

// CredentialByUserID returns the email/password account of a user.
func (r *accountRepository) CredentialByUserID(ctx context.Context, userID int64) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT id, account_id, provider_id, user_id, password, created_at, updated_at
	          FROM account WHERE user_id = $1 AND provider_id = $2`

	err := r.db.GetContext(ctx, account, query, userID, model.ProviderCredential)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}
