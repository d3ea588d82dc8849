package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/auth"
	"github.com/templui/picture-gallery/internal/db/dbtest"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/repository"
	"github.com/templui/picture-gallery/internal/storage"
)

var errBoom = errors.New("boom")

type clock struct{ t time.Time }

func newClock() *clock                    { return &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)} }
func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// flakyStorage wraps memory storage and fails selected operations.
type flakyStorage struct {
	*storage.MemoryStorage
	putErr    error
	getErr    error
	deleteErr error
}

func (s *flakyStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStorage.Put(ctx, key, body, size, contentType)
}

func (s *flakyStorage) Get(ctx context.Context, key string) (*storage.Object, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStorage.Get(ctx, key)
}

func (s *flakyStorage) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStorage.Delete(ctx, key)
}

// failingPictureRepository fails Create after delegating nothing.
type failingPictureRepository struct {
	repository.PictureRepository
}

func (r failingPictureRepository) Create(ctx context.Context, p *model.Picture) error {
	return errBoom
}

type failingAccountRepository struct {
	repository.AccountRepository
}

func (r failingAccountRepository) Create(ctx context.Context, a *model.Account) error {
	return errBoom
}

type fixture struct {
	db       *sqlx.DB
	clock    *clock
	store    *flakyStorage
	users    repository.UserRepository
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	pictures repository.PictureRepository
	gallery  *GalleryService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.New(t)
	c := newClock()

	f := &fixture{
		db:       conn,
		clock:    c,
		store:    &flakyStorage{MemoryStorage: storage.NewMemoryStorage().WithClock(c.Now)},
		users:    repository.NewUserRepository(conn),
		accounts: repository.NewAccountRepository(conn),
		sessions: repository.NewSessionRepository(conn),
		pictures: repository.NewPictureRepository(conn),
	}
	f.gallery = NewGalleryService(f.pictures, f.store).WithClock(c.Now)
	f.auth = f.newAuthService(f.accounts, false)
	return f
}

func (f *fixture) newAuthService(accounts repository.AccountRepository, signUpDisabled bool) *AuthService {
	sessions := auth.NewSessionManager(f.sessions, 7*24*time.Hour, 24*time.Hour).WithClock(f.clock.Now)
	cookies := auth.NewCookieCodec("test-secret-test-secret-test-secret", false).WithClock(f.clock.Now)
	hasher := &auth.ScryptHasher{N: 1024, R: 8, P: 1, SaltLen: 16, KeyLen: 64}

	s := NewAuthService(f.users, accounts, sessions, hasher, cookies, signUpDisabled)
	s.now = f.clock.Now
	return s
}

func (f *fixture) user(t *testing.T, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, CreatedAt: f.clock.t, UpdatedAt: f.clock.t}
	require.NoError(t, f.users.Create(t.Context(), u))
	return u
}

func (f *fixture) countPictures(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM picture`))
	return n
}

func cookieHeader(t *testing.T, s *AuthService, session *model.Session) http.Header {
	t.Helper()
	cookie, err := s.SessionCookie(session)
	require.NoError(t, err)
	h := http.Header{}
	h.Set("Cookie", cookie.Name+"="+cookie.Value)
	return h
}
