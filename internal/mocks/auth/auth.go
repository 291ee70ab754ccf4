package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SnapshotStore    = (*MemorySnapshotStore)(nil)
	_ ports.SessionCookies   = (*CookieJar)(nil)
)

// MockIdentityProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockIdentityProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: defaultIdentity(),
	}
}

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		Subject:  "mock-user-1",
		Name:     "Mock User",
		Email:    "mock.user@example.com",
		PhotoURL: "https://mock-idp/photo.png",
	}
}

func (m *MockIdentityProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("missing code")
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.Subject == "" {
		user = defaultIdentity()
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

type storedSnapshot struct {
	snap      domainauth.Snapshot
	expiresAt time.Time
}

// MemorySnapshotStore is an in-memory snapshot store for unit tests.
type MemorySnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]storedSnapshot
	now       func() time.Time

	// SaveErr, when set, is returned by every Save call.
	SaveErr error
}

// NewMemorySnapshotStore creates a new in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[string]storedSnapshot),
		now:       time.Now,
	}
}

func (m *MemorySnapshotStore) Save(_ context.Context, id string, snap domainauth.Snapshot, ttl time.Duration) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if id == "" {
		return errors.New("snapshot ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("snapshot ttl must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[id] = storedSnapshot{snap: snap, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemorySnapshotStore) Get(_ context.Context, id string) (domainauth.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.snapshots[id]
	if !ok || id == "" {
		return domainauth.Snapshot{}, ports.ErrSnapshotNotFound
	}
	if !m.now().Before(stored.expiresAt) {
		delete(m.snapshots, id)
		return domainauth.Snapshot{}, ports.ErrSnapshotNotFound
	}
	return stored.snap, nil
}

func (m *MemorySnapshotStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

// Len returns the number of stored snapshots, expired ones included.
func (m *MemorySnapshotStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

// SetClock overrides the time source used for expiry.
func (m *MemorySnapshotStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// CookieJar is an in-memory ports.SessionCookies standing in for a backend
// client's jar.
type CookieJar struct {
	mu      sync.Mutex
	cookies []domainauth.BackendCookie

	// RestoreErr, when set, is returned by RestoreSessionCookies.
	RestoreErr error
}

// Set replaces the held cookies, as a backend response would.
func (j *CookieJar) Set(cookies ...domainauth.BackendCookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = append([]domainauth.BackendCookie(nil), cookies...)
}

func (j *CookieJar) SessionCookies() []domainauth.BackendCookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.cookies) == 0 {
		return nil
	}
	return append([]domainauth.BackendCookie(nil), j.cookies...)
}

func (j *CookieJar) RestoreSessionCookies(cookies []domainauth.BackendCookie) error {
	if j.RestoreErr != nil {
		return j.RestoreErr
	}
	j.Set(cookies...)
	return nil
}
