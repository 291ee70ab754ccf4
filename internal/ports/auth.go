package ports

// Package ports defines interfaces (hexagonal ports) for everything the
// controllers reach outside the process: the blog backend, the contact relay,
// identity providers and session persistence.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
)

// BeginInput carries inputs for initiating an identity-provider flow.
type BeginInput struct {
	RedirectURL string
}

// IdentityProvider initiates and completes a "Continue with ..." flow against an external IdP.
type IdentityProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the asserted identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthAPI is the backend's authentication surface.
type AuthAPI interface {
	// SignIn exchanges credentials for the user record and a backend session cookie.
	SignIn(ctx context.Context, c domainauth.Credentials) (domainauth.User, error)
	// SignUp registers an account. The account cannot sign in until its e-mail is verified.
	SignUp(ctx context.Context, in domainauth.SignUpInput) error
	// SignInWithIdentity signs in (creating the account on first use) with an IdP-asserted identity.
	SignInWithIdentity(ctx context.Context, id domainauth.Identity) (domainauth.User, error)
	// SignOut clears the backend session cookie.
	SignOut(ctx context.Context) error
}

// SessionCookies exports and imports the backend session cookies held by one
// workspace's backend client.
type SessionCookies interface {
	SessionCookies() []domainauth.BackendCookie
	RestoreSessionCookies(cookies []domainauth.BackendCookie) error
}

// ErrSnapshotNotFound is returned by SnapshotStore.Get when nothing is stored under the id.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// SnapshotStore persists client session snapshots between gateway restarts.
type SnapshotStore interface {
	Save(ctx context.Context, id string, snap domainauth.Snapshot, ttl time.Duration) error
	Get(ctx context.Context, id string) (domainauth.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) {
	if f != nil {
		f(path)
	}
}
