package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/picture-gallery/internal/auth"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/validation"
)

type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User    *model.User
	Session *model.Session
}

// SessionResult is a resolved, live session.
type SessionResult struct {
	User      *model.User
	Session   *model.Session
	Refreshed bool // sliding expiry moved, re-issue the cookie
}

type AuthService struct {
	userRepository    repository.UserRepository
	accountRepository repository.AccountRepository
	sessions          auth.SessionManager
	hasher            auth.PasswordHasher
	cookies           *auth.CookieCodec
	signUpDisabled    bool
	now               func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	userRepository repository.UserRepository,
	accountRepository repository.AccountRepository,
	sessions auth.SessionManager,
	hasher auth.PasswordHasher,
	cookies *auth.CookieCodec,
	signUpDisabled bool,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		accountRepository: accountRepository,
		sessions:          sessions,
		hasher:            hasher,
		cookies:           cookies,
		signUpDisabled:    signUpDisabled,
		now:               time.Now,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput, meta auth.Meta) (*AuthResult, error) {
	if s.signUpDisabled {
		return nil, ErrSignUpDisabled
	}

	name := validation.NormalizeName(in.Name)
	email := validation.NormalizeEmail(in.Email)

	err := validation.ValidateName(name)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	_, err = s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, invalidInput("password is too long")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	account := &model.Account{
		ID:         uuid.NewString(),
		AccountID:  strconv.FormatInt(user.ID, 10),
		ProviderID: model.ProviderCredential,
		UserID:     user.ID,
		Password:   &hash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.accountRepository.Create(ctx, account)
	if err != nil {
		// A user without credentials could never sign in; remove it.
		delErr := s.userRepository.Delete(ctx, user.ID)
		if delErr != nil {
			slog.Error("failed to remove user after account creation failed", "error", delErr, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	session, err := s.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	slog.Info("user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Session: session}, nil
}

// SignIn never distinguishes an unknown email from a wrong password.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput, meta auth.Meta) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if validation.ValidateEmail(email) != nil {
		return nil, invalidInput("invalid email address format")
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.burnHash(in.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	account, err := s.accountRepository.CredentialByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		s.burnHash(in.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if !account.HasPassword() {
		s.burnHash(in.Password)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(in.Password, *account.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: session}, nil
}

// burnHash spends the same work as a real verification so response time
// does not reveal whether an email is registered.
func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			slog.Warn("failed to prepare dummy password hash", "error", err)
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// GetSession resolves the session cookie in headers. It returns nil, nil
// when there is no valid live session.
func (s *AuthService) GetSession(ctx context.Context, headers http.Header) (*SessionResult, error) {
	token, err := s.cookies.TokenFromHeader(headers)
	if err != nil {
		return nil, nil
	}

	session, refreshed, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepository.ByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}

	return &SessionResult{User: user, Session: session, Refreshed: refreshed}, nil
}

// SignOut deletes the session named by the cookie, if any.
func (s *AuthService) SignOut(ctx context.Context, headers http.Header) error {
	token, err := s.cookies.TokenFromHeader(headers)
	if err != nil {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

func (s *AuthService) SessionCookie(session *model.Session) (*http.Cookie, error) {
	return s.cookies.Cookie(session.Token, session.ExpiresAt)
}

func (s *AuthService) ClearSessionCookie() *http.Cookie {
	return s.cookies.Clear()
}
