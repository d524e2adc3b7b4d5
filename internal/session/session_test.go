package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	m, err := NewManager([]byte("test-secret"), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return m, clock
}

func TestIssueAndResolve(t *testing.T) {
	m, clock := newManager(t)

	s, err := m.Issue(7, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, clock.Now().Add(time.Hour), s.ExpiresAt)

	got, err := m.Resolve(s.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.AccountID)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, s.ID, got.ID)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))
}

func TestResolve_Expired(t *testing.T) {
	m, clock := newManager(t)

	s, err := m.Issue(1, models.RoleUser)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = m.Resolve(s.Token)
	require.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 0, m.Live(), "expired session is dropped from the registry")
}

func TestResolve_WrongSecret(t *testing.T) {
	m, _ := newManager(t)
	other, err := NewManager([]byte("other-secret"), time.Hour)
	require.NoError(t, err)

	s, err := other.Issue(1, models.RoleUser)
	require.NoError(t, err)

	_, err = m.Resolve(s.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_Malformed(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Resolve("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Resolve("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_RejectsOtherAlgorithms(t *testing.T) {
	m, clock := newManager(t)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour))},
		AccountID:        1,
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Resolve(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	m, _ := newManager(t)

	s, err := m.Issue(1, models.RoleUser)
	require.NoError(t, err)

	m.Revoke(s.Token)
	_, err = m.Resolve(s.Token)
	require.ErrorIs(t, err, ErrRevoked)

	m.Revoke(s.Token)
	m.Revoke("garbage")
}

func TestRevokeAccount(t *testing.T) {
	m, _ := newManager(t)

	a1, err := m.Issue(1, models.RoleUser)
	require.NoError(t, err)
	a2, err := m.Issue(1, models.RoleUser)
	require.NoError(t, err)
	b, err := m.Issue(2, models.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, 2, m.RevokeAccount(1))
	assert.Equal(t, 1, m.Live())

	for _, tok := range []string{a1.Token, a2.Token} {
		_, err := m.Resolve(tok)
		assert.True(t, errors.Is(err, ErrRevoked))
	}
	_, err = m.Resolve(b.Token)
	require.NoError(t, err)
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager(nil, 0)
	require.NoError(t, err)
	assert.Len(t, m.secret, 64)
	assert.Equal(t, DefaultTTL, m.ttl)
}

func TestContextToken(t *testing.T) {
	ctx := context.Background()

	_, ok := TokenFromContext(ctx)
	assert.False(t, ok)

	_, ok = TokenFromContext(WithToken(ctx, ""))
	assert.False(t, ok)

	tok, ok := TokenFromContext(WithToken(ctx, "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}
