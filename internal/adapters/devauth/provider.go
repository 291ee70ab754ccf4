package devauth

// Package devauth provides a config-driven identity provider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/ports"
)

// DefaultCallbackPath is where Begin sends the browser back to.
const DefaultCallbackPath = "/ui/auth/google/callback"

// Config controls the dev identity provider.
// Name and Email are required.
type Config struct {
	Name            string
	Email           string
	PhotoURL        string
	CallbackPath    string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider without leaving the gateway.
// Begin redirects straight back to the callback with a locally generated
// state; Exchange ignores the code and returns the configured identity.
type Provider struct {
	mu              sync.Mutex
	identity        domainauth.Identity
	callback        string
	sessionDuration time.Duration
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider constructs a dev identity provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	name := strings.TrimSpace(cfg.Name)
	email := strings.TrimSpace(cfg.Email)
	if name == "" {
		return nil, errors.New("dev auth: Name is required")
	}
	if email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = 8 * time.Hour
	}
	callback := cfg.CallbackPath
	if callback == "" {
		callback = DefaultCallbackPath
	}
	return &Provider{
		identity: domainauth.Identity{
			Subject:   "dev:" + strings.ToLower(email),
			Name:      name,
			Email:     email,
			PhotoURL:  cfg.PhotoURL,
			ExpiresAt: time.Now().Add(dur),
		},
		callback:        callback,
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return p.callback + "?" + q.Encode(), state, nonce, nil
}

// Exchange returns the dev identity. State and nonce checks belong to the handler.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.identity, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
