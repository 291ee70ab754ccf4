// Package notify carries transient user-facing notifications (toasts).
package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tone is the visual style of a notice.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

// DefaultTTL is how long a notice stays visible when no TTL is configured.
const DefaultTTL = 5 * time.Second

// Notice is a single toast. Notices with the same ID replace each other.
type Notice struct {
	ID        string    `json:"id"`
	Tone      Tone      `json:"tone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sink accepts notices from controllers.
type Sink interface {
	Notify(n Notice)
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(n Notice)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notice) {
	if f != nil {
		f(n)
	}
}

// Discard drops every notice.
var Discard Sink = SinkFunc(nil)

// Success builds a success notice. An empty id is replaced by a random one.
func Success(id, message string) Notice {
	return Notice{ID: id, Tone: ToneSuccess, Message: message}
}

// Error builds an error notice. An empty id falls back to the message so
// repeating the same failure does not stack toasts.
func Error(id, message string) Notice {
	if strings.TrimSpace(id) == "" {
		id = message
	}
	return Notice{ID: id, Tone: ToneError, Message: message}
}

// Info builds an informational notice.
func Info(id, message string) Notice {
	return Notice{ID: id, Tone: ToneInfo, Message: message}
}

// TrayOptions configures a Tray.
type TrayOptions struct {
	TTL time.Duration
	Now func() time.Time
	// Limit caps how many notices are kept; the oldest are evicted first.
	Limit int
}

// Tray collects notices until they expire or are drained. It is safe for concurrent use.
type Tray struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	limit   int
	notices []Notice
}

// NewTray creates a Tray.
func NewTray(opts TrayOptions) *Tray {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	return &Tray{ttl: ttl, now: now, limit: limit}
}

// Notify adds n, replacing any live notice with the same ID.
func (t *Tray) Notify(n Notice) {
	if strings.TrimSpace(n.Message) == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	n.CreatedAt = now
	if n.ExpiresAt.IsZero() {
		n.ExpiresAt = now.Add(t.ttl)
	}

	kept := t.notices[:0]
	for _, existing := range t.notices {
		if existing.ID == n.ID || !existing.ExpiresAt.After(now) {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, n)
	if over := len(kept) - t.limit; over > 0 {
		kept = kept[over:]
	}
	t.notices = kept
}

// Active returns the unexpired notices, oldest first, without removing them.
func (t *Tray) Active() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	return append([]Notice(nil), t.notices...)
}

// Drain returns the unexpired notices and empties the tray.
func (t *Tray) Drain() []Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := t.notices
	t.notices = nil
	return out
}

func (t *Tray) pruneLocked() {
	now := t.now()
	kept := t.notices[:0]
	for _, n := range t.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	t.notices = kept
}
