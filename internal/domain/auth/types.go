package auth

// Package auth contains domain-level types for sign-in, sign-up and the client session.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Credentials are the sign-in form values. They exist only for the duration of a submission.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims every field, passwords included, matching the form inputs.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: strings.TrimSpace(c.Password),
	}
}

// SignUpInput is the sign-up form: a display name plus credentials.
type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims every field.
func (in SignUpInput) Normalize() SignUpInput {
	return SignUpInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: strings.TrimSpace(in.Password),
	}
}

// User is the user record returned by the backend after sign-in.
type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

// DisplayName returns the username, falling back to the e-mail local part.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Username); name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Identity is a principal asserted by an external identity provider ("Continue with Google").
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Subject   string
	Name      string
	Email     string
	PhotoURL  string
	ExpiresAt time.Time
}

// BackendCookie is a cookie the backend set on a workspace's client. It is
// persisted with the snapshot so a restored workspace keeps its backend session.
type BackendCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot is the persisted part of a client session. Pending and error state
// are view concerns and are never persisted.
type Snapshot struct {
	Authenticated bool            `json:"authenticated"`
	User          *User           `json:"user,omitempty"`
	Cookies       []BackendCookie `json:"cookies,omitempty"`
	SavedAt       time.Time       `json:"saved_at"`
}
