// Package session is the client-side view of who is logged in. It decodes
// the bearer token issued by the API without verifying it: the server is the
// only party that can check the signature, so the decoded identity is used
// for display and gating only.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/redmonkez12/family-health-api/internal/clock"
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrUndecodableToken = errors.New("token cannot be decoded")
)

// Identity is what the token says about its holder.
type Identity struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager caches the current token and identity. It is safe for concurrent use.
type Manager struct {
	store Store
	clock clock.Clock

	mu       sync.Mutex
	token    string
	identity *Identity
}

func NewManager(store Store, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.System{}
	}
	return &Manager{store: store, clock: clk}
}

// Bootstrap restores the persisted session. A stored token that cannot be
// decoded or has expired is removed and the manager starts logged out.
func (m *Manager) Bootstrap() error {
	token, err := m.store.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.identity = "", nil
	if token == "" {
		return nil
	}

	id, err := decode(token)
	if err != nil || !m.liveLocked(id) {
		return m.store.Clear()
	}
	m.token, m.identity = token, &id
	return nil
}

// Login adopts a freshly issued token. An undecodable token leaves the
// manager logged out.
func (m *Manager) Login(token string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := decode(token)
	if err != nil {
		m.token, m.identity = "", nil
		_ = m.store.Clear()
		return Identity{}, err
	}
	if err := m.store.Save(token); err != nil {
		return Identity{}, err
	}
	m.token, m.identity = token, &id
	return id, nil
}

func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.identity = "", nil
	return m.store.Clear()
}

// Current returns the cached identity without checking expiry.
func (m *Manager) Current() (Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

// Token returns the bearer token to attach to requests.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Require gates protected operations. A session whose token has expired since
// it was loaded is forgotten and reported as not authenticated.
func (m *Manager) Require() (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil {
		return Identity{}, ErrNotAuthenticated
	}
	if !m.liveLocked(*m.identity) {
		m.token, m.identity = "", nil
		if err := m.store.Clear(); err != nil {
			return Identity{}, err
		}
		return Identity{}, ErrNotAuthenticated
	}
	return *m.identity, nil
}

func (m *Manager) liveLocked(id Identity) bool {
	return m.clock.Now().Before(id.ExpiresAt)
}

func decode(token string) (Identity, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUndecodableToken, err)
	}
	if claims.UserID <= 0 || claims.ExpiresAt == nil {
		return Identity{}, ErrUndecodableToken
	}
	return Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
