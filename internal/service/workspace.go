package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/observability/metrics"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/session"
)

// Registry defaults.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultSnapshotTTL = 7 * 24 * time.Hour
	snapshotIOTimeout  = 2 * time.Second
)

// WorkspaceDeps are the per-workspace backend clients. Each workspace needs
// its own so backend session cookies never leak between users.
type WorkspaceDeps struct {
	Auth  ports.AuthAPI
	Media ports.MediaAPI
	Posts ports.PostAPI
	// Cookies carries the backend session across snapshot restores. Without
	// it a persisted signed-in session is not restored.
	Cookies ports.SessionCookies
}

// WorkspaceFactory builds the backend clients for a new workspace.
type WorkspaceFactory func(id string) (WorkspaceDeps, error)

// Workspace is everything one client (browser or terminal) needs: its
// session, its controllers, its notices and its pending redirect.
type Workspace struct {
	ID        string
	Session   *session.Store
	Auth      *AuthController
	Composer  *PostComposer
	Contact   *ContactForm
	Notices   *notify.Tray
	Redirects *Redirects

	cookies ports.SessionCookies

	mu        sync.Mutex
	lastSeen  time.Time
	persisted snapshotKey
}

type snapshotKey struct {
	authenticated bool
	userID        string
}

func keyOf(st session.State) snapshotKey {
	k := snapshotKey{authenticated: st.Authenticated}
	if st.User != nil {
		k.userID = st.User.ID
	}
	return k
}

// WorkspaceConfig sets the defaults every new workspace starts from.
type WorkspaceConfig struct {
	Composer  ComposerConfig
	NoticeTTL time.Duration
}

// NewWorkspace wires one workspace around deps. relay is shared by all workspaces.
func NewWorkspace(id string, deps WorkspaceDeps, relay ports.ContactRelay, cfg WorkspaceConfig, rec *metrics.FormRecorder, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("workspace", id)

	tray := notify.NewTray(notify.TrayOptions{TTL: cfg.NoticeTTL})
	redirects := &Redirects{}
	effects := ViewEffects{Notices: tray, Navigator: redirects}
	store := session.NewStore(session.StoreOptions{Logger: logger})

	return &Workspace{
		ID:        id,
		Session:   store,
		Notices:   tray,
		Redirects: redirects,
		cookies:   deps.Cookies,
		Auth: NewAuthController(AuthControllerOptions{
			API:     deps.Auth,
			Session: store,
			Effects: effects,
			Metrics: rec,
			Logger:  logger,
		}),
		Composer: NewPostComposer(PostComposerOptions{
			Media:   deps.Media,
			Posts:   deps.Posts,
			Config:  cfg.Composer,
			Effects: effects,
			Metrics: rec,
			Logger:  logger,
		}),
		Contact: NewContactForm(ContactFormOptions{
			Relay:   relay,
			Effects: effects,
			Metrics: rec,
			Logger:  logger,
		}),
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// RegistryConfig tunes a Registry.
type RegistryConfig struct {
	Workspace   WorkspaceConfig
	IdleTTL     time.Duration
	SnapshotTTL time.Duration
}

// RegistryOptions groups dependencies for Registry.
type RegistryOptions struct {
	Factory   WorkspaceFactory   // Required
	Relay     ports.ContactRelay // Required
	Snapshots ports.SnapshotStore
	Config    RegistryConfig
	Metrics   *metrics.FormRecorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// Registry keeps one Workspace per client id and evicts idle ones. When a
// SnapshotStore is configured, signed-in sessions survive eviction and restarts.
type Registry struct {
	factory   WorkspaceFactory
	relay     ports.ContactRelay
	snapshots ports.SnapshotStore
	cfg       RegistryConfig
	metrics   *metrics.FormRecorder
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry constructs a Registry. It panics when a required dependency is missing.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Factory == nil || opts.Relay == nil {
		panic("service: Registry requires a WorkspaceFactory and a ContactRelay")
	}
	cfg := opts.Config
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultSnapshotTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		factory:    opts.Factory,
		relay:      opts.Relay,
		snapshots:  opts.Snapshots,
		cfg:        cfg,
		metrics:    opts.Metrics,
		logger:     loggerOrDefault(opts.Logger, "workspace_registry"),
		now:        now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating (and restoring) it on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, errors.New("workspace id is required")
	}
	if ws, ok := r.Lookup(id); ok {
		return ws, nil
	}

	deps, err := r.factory(id)
	if err != nil {
		return nil, fmt.Errorf("build workspace: %w", err)
	}
	ws := NewWorkspace(id, deps, r.relay, r.cfg.Workspace, r.metrics, r.logger)
	r.restore(ctx, ws)
	ws.touch(r.now())

	r.mu.Lock()
	if existing, ok := r.workspaces[id]; ok {
		r.mu.Unlock()
		existing.touch(r.now())
		return existing, nil
	}
	r.workspaces[id] = ws
	r.mu.Unlock()

	ws.Session.Subscribe(func(st session.State) { r.persist(ws, st) })
	r.logger.DebugContext(ctx, "workspace created", "workspace", id)
	return ws, nil
}

// Lookup returns an existing workspace without creating one.
func (r *Registry) Lookup(id string) (*Workspace, bool) {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	r.mu.Unlock()
	if ok {
		ws.touch(r.now())
	}
	return ws, ok
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the idle TTL and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > r.cfg.IdleTTL {
			delete(r.workspaces, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.InfoContext(ctx, "evicted idle workspaces", "count", n, "live", r.Len())
			}
		}
	}
}

func (r *Registry) restore(ctx context.Context, ws *Workspace) {
	if r.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotIOTimeout)
	defer cancel()

	snap, err := r.snapshots.Get(ctx, ws.ID)
	if err != nil {
		if !errors.Is(err, ports.ErrSnapshotNotFound) {
			r.logger.WarnContext(ctx, "restore session snapshot failed", "workspace", ws.ID, "error", err)
		}
		return
	}
	if snap.Authenticated {
		if err := restoreCookies(ws.cookies, snap.Cookies); err != nil {
			// Without its cookies the backend no longer knows this session.
			r.logger.InfoContext(ctx, "discarding session snapshot", "workspace", ws.ID, "reason", err)
			if delErr := r.snapshots.Delete(ctx, ws.ID); delErr != nil {
				r.logger.WarnContext(ctx, "delete session snapshot failed", "workspace", ws.ID, "error", delErr)
			}
			return
		}
	}
	st := ws.Session.Dispatch(session.Restore(snap))
	ws.persisted = keyOf(st)
}

func restoreCookies(dst ports.SessionCookies, cookies []domainauth.BackendCookie) error {
	if dst == nil {
		return errors.New("workspace cannot carry backend cookies")
	}
	if len(cookies) == 0 {
		return errors.New("snapshot has no backend cookies")
	}
	return dst.RestoreSessionCookies(cookies)
}

// persist mirrors sign-in and sign-out into the snapshot store. Other
// transitions (pending, errors) are not persisted.
func (r *Registry) persist(ws *Workspace, st session.State) {
	if r.snapshots == nil {
		return
	}
	key := keyOf(st)
	ws.mu.Lock()
	changed := key != ws.persisted
	ws.persisted = key
	ws.mu.Unlock()
	if !changed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotIOTimeout)
	defer cancel()

	var err error
	if st.Authenticated {
		snap := session.SnapshotOf(st, r.now())
		if ws.cookies != nil {
			snap.Cookies = ws.cookies.SessionCookies()
		}
		err = r.snapshots.Save(ctx, ws.ID, snap, r.cfg.SnapshotTTL)
	} else {
		err = r.snapshots.Delete(ctx, ws.ID)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "persist session snapshot failed", "workspace", ws.ID, "error", err)
	}
}
