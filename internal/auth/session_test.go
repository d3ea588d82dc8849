package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/db/dbtest"
	"github.com/templui/picture-gallery/internal/model"
	"github.com/templui/picture-gallery/internal/repository"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSessionManager(t *testing.T) (*DBSessionManager, *fakeClock, int64) {
	t.Helper()
	conn := dbtest.New(t)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	user := &model.User{Name: "alice", Email: "alice@example.com", CreatedAt: clock.t, UpdatedAt: clock.t}
	require.NoError(t, repository.NewUserRepository(conn).Create(t.Context(), user))

	m := NewSessionManager(repository.NewSessionRepository(conn), 7*24*time.Hour, 24*time.Hour).
		WithClock(clock.Now)
	return m, clock, user.ID
}

func TestSessionIssueAndResolve(t *testing.T) {
	m, clock, userID := newSessionManager(t)

	issued, err := m.Issue(t.Context(), userID, Meta{IPAddress: "198.51.100.4", UserAgent: "curl/8"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEqual(t, issued.ID, issued.Token)
	assert.True(t, issued.ExpiresAt.Equal(clock.t.Add(7*24*time.Hour)))

	clock.Advance(time.Hour)
	got, refreshed, err := m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, refreshed)
	assert.Equal(t, userID, got.UserID)
	require.NotNil(t, got.IPAddress)
	assert.Equal(t, "198.51.100.4", *got.IPAddress)
}

func TestSessionSlidingRefresh(t *testing.T) {
	m, clock, userID := newSessionManager(t)

	issued, err := m.Issue(t.Context(), userID, Meta{})
	require.NoError(t, err)
	assert.Nil(t, issued.IPAddress)

	clock.Advance(24 * time.Hour)
	_, refreshed, err := m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.False(t, refreshed, "exactly the update age is not yet due")

	clock.Advance(time.Minute)
	got, refreshed, err := m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.True(t, got.ExpiresAt.Equal(clock.t.Add(7*24*time.Hour)))

	clock.Advance(time.Hour)
	_, refreshed, err = m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.False(t, refreshed)
}

func TestSessionExpiredResolvesToNil(t *testing.T) {
	m, clock, userID := newSessionManager(t)

	issued, err := m.Issue(t.Context(), userID, Meta{})
	require.NoError(t, err)

	clock.Advance(7 * 24 * time.Hour)
	got, refreshed, err := m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, refreshed)

	// the expired row is gone, so winding the clock back does not revive it
	clock.Advance(-6 * 24 * time.Hour)
	got, _, err = m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRevoke(t *testing.T) {
	m, _, userID := newSessionManager(t)

	issued, err := m.Issue(t.Context(), userID, Meta{})
	require.NoError(t, err)

	require.NoError(t, m.Revoke(t.Context(), issued.Token))
	require.NoError(t, m.Revoke(t.Context(), ""))

	got, _, err := m.Resolve(t.Context(), issued.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, _, err = m.Resolve(t.Context(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
