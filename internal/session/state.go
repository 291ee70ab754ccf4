// Package session owns the client authentication state: a pure reducer over
// a fixed set of actions and a concurrency-safe Store that holds the result.
package session

import (
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
)

// State is the client session as seen by views.
type State struct {
	Authenticated bool                `json:"authenticated"`
	User          *domainauth.User    `json:"user,omitempty"`
	Pending       bool                `json:"pending"`
	LastError     string              `json:"last_error,omitempty"`
	LastErrorCode apperrors.ErrorCode `json:"last_error_code,omitempty"`
}

// clone returns a copy that shares no memory with s.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// ActionType names a state transition.
type ActionType string

const (
	ActionSignInStart    ActionType = "sign_in_start"
	ActionSignInSuccess  ActionType = "sign_in_success"
	ActionSignInFailure  ActionType = "sign_in_failure"
	ActionSignUpComplete ActionType = "sign_up_complete"
	ActionClearError     ActionType = "clear_error"
	ActionSignOut        ActionType = "sign_out"
	ActionSettle         ActionType = "settle"
	ActionRestore        ActionType = "restore"
)

// Action is a dispatched transition with its payload.
type Action struct {
	Type    ActionType
	User    *domainauth.User
	Message string
	Code    apperrors.ErrorCode
}

// SignInStart marks an authentication request as in flight.
func SignInStart() Action { return Action{Type: ActionSignInStart} }

// SignInSuccess stores the authenticated user.
func SignInSuccess(u domainauth.User) Action {
	return Action{Type: ActionSignInSuccess, User: &u}
}

// SignInFailure records a failed authentication request.
func SignInFailure(message string, code apperrors.ErrorCode) Action {
	return Action{Type: ActionSignInFailure, Message: message, Code: code}
}

// SignUpComplete ends a successful sign-up. The user is not authenticated
// until the e-mail is verified and they sign in.
func SignUpComplete() Action { return Action{Type: ActionSignUpComplete} }

// ClearError drops the auth error.
func ClearError() Action { return Action{Type: ActionClearError} }

// SignOut resets the session. A request already in flight stays pending
// until it settles.
func SignOut() Action { return Action{Type: ActionSignOut} }

// Settle ends a pending request without applying its outcome.
func Settle() Action { return Action{Type: ActionSettle} }

// Restore rebuilds the session from a persisted snapshot.
func Restore(snap domainauth.Snapshot) Action {
	if !snap.Authenticated || snap.User == nil {
		return Action{Type: ActionRestore}
	}
	u := *snap.User
	return Action{Type: ActionRestore, User: &u}
}

// Reduce applies a to s and returns the next state. It never mutates s.
// Unknown action types leave the state unchanged.
func Reduce(s State, a Action) State {
	next := s.clone()
	switch a.Type {
	case ActionSignInStart:
		next.Pending = true
		next.LastError = ""
		next.LastErrorCode = ""
	case ActionSignInSuccess:
		if a.User == nil {
			return next
		}
		u := *a.User
		next.Authenticated = true
		next.User = &u
		next.Pending = false
		next.LastError = ""
		next.LastErrorCode = ""
	case ActionSignInFailure:
		next.Pending = false
		next.LastError = a.Message
		next.LastErrorCode = a.Code
	case ActionSignUpComplete:
		next.Pending = false
		next.LastError = ""
		next.LastErrorCode = ""
	case ActionClearError:
		next.LastError = ""
		next.LastErrorCode = ""
	case ActionSignOut:
		next = State{Pending: s.Pending}
	case ActionSettle:
		next.Pending = false
	case ActionRestore:
		next = State{Pending: s.Pending}
		if a.User != nil {
			u := *a.User
			next.Authenticated = true
			next.User = &u
		}
	}
	return next
}

// SnapshotOf returns the persistable part of s.
func SnapshotOf(s State, now time.Time) domainauth.Snapshot {
	snap := domainauth.Snapshot{Authenticated: s.Authenticated, SavedAt: now.UTC()}
	if s.User != nil {
		u := *s.User
		snap.User = &u
	}
	return snap
}
