// Package service holds the form controllers. Each controller owns one view's
// state, talks to the backend through ports, and reports outcomes as
// notices and navigation.
package service

import (
	"log/slog"
	"sync"

	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/ports"
)

// Navigation targets.
const (
	PathHome        = "/"
	PathSignIn      = "/sign-in"
	PathVerifyEmail = "/verify-email"
)

// Notice ids. A new notice replaces a live one with the same id.
const (
	noticeAuth          = "auth"
	noticeMissingSignIn = "missing-fields-signin"
	noticeUpload        = "upload"
	noticePublish       = "publish"
	noticeContact       = "contact"
)

// MsgBusy is returned when a form is submitted again while its request is in flight.
const MsgBusy = "A request is already in progress. Please wait."

// ViewEffects are the side effects a controller may trigger on the view.
// Both fields are optional.
type ViewEffects struct {
	Notices   notify.Sink
	Navigator ports.Navigator
}

func (e ViewEffects) notify(n notify.Notice) {
	if e.Notices != nil {
		e.Notices.Notify(n)
	}
}

func (e ViewEffects) navigate(path string) {
	if e.Navigator != nil {
		e.Navigator.Navigate(path)
	}
}

func loggerOrDefault(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}

// Redirects records the most recent navigation request so a request/response
// surface can hand it back to the client.
type Redirects struct {
	mu   sync.Mutex
	last string
}

// Navigate implements ports.Navigator.
func (r *Redirects) Navigate(path string) {
	r.mu.Lock()
	r.last = path
	r.mu.Unlock()
}

// Take returns and clears the pending redirect.
func (r *Redirects) Take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.last
	r.last = ""
	return out
}
