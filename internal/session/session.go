// Package session issues and resolves the signed tokens that stand for a
// logged-in account.
//
// A token is an HS256 JWT whose jti is registered as live by Issue. Resolve
// accepts a token only while its signature checks out, it has not expired
// and its jti is still live; Revoke and RevokeAccount end sessions early.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpired      = errors.New("session expired")
	ErrRevoked      = errors.New("session revoked")
)

// DefaultTTL is used when NewManager gets a non-positive ttl.
const DefaultTTL = 12 * time.Hour

// Claims carries the account identity in addition to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"aid"`
	Role      string `json:"role"`
}

// Session is a resolved token.
type Session struct {
	ID        string
	AccountID int64
	Role      models.Role
	Token     string
	ExpiresAt time.Time
}

// Manager signs tokens and tracks which sessions are live.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu   sync.Mutex
	live map[string]int64
}

type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager signing with secret. An empty secret is
// replaced by a random one, which invalidates tokens across restarts.
func NewManager(secret []byte, ttl time.Duration, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("session secret: %w", err)
		}
		secret = []byte(s)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{secret: secret, ttl: ttl, now: time.Now, live: make(map[string]int64)}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue creates and registers a session for the account.
func (m *Manager) Issue(accountID int64, role models.Role) (*Session, error) {
	now := m.now()
	id := uuid.NewString()
	expires := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   fmt.Sprint(accountID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		AccountID: accountID,
		Role:      string(role),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	m.mu.Lock()
	m.live[id] = accountID
	m.mu.Unlock()

	return &Session{ID: id, AccountID: accountID, Role: role, Token: signed, ExpiresAt: expires}, nil
}

// Resolve validates token and returns its session.
func (m *Manager) Resolve(token string) (*Session, error) {
	claims, err := m.parse(token, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			m.forget(claims)
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	m.mu.Lock()
	owner, ok := m.live[claims.ID]
	m.mu.Unlock()
	if !ok || owner != claims.AccountID {
		return nil, ErrRevoked
	}

	s := &Session{ID: claims.ID, AccountID: claims.AccountID, Role: models.Role(claims.Role), Token: token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Revoke ends the session behind token. Unknown or malformed tokens are
// ignored.
func (m *Manager) Revoke(token string) {
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return
	}
	m.forget(claims)
}

// RevokeAccount ends every live session of the account and reports how many
// there were.
func (m *Manager) RevokeAccount(accountID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, owner := range m.live {
		if owner == accountID {
			delete(m.live, id)
			n++
		}
	}
	return n
}

// Live reports the number of live sessions.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *Manager) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return claims, err
	}
	if !parsed.Valid {
		return claims, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) forget(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	m.mu.Lock()
	delete(m.live, claims.ID)
	m.mu.Unlock()
}
