package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abctechblog/blogfront/internal/service"
)

// WorkspaceCookieName identifies the browser's workspace.
const WorkspaceCookieName = "blogfront_ws"

const workspaceCookieMaxAge = 30 * 24 * time.Hour

var errWorkspaceUnavailable = errors.New("workspace unavailable")

// workspaceKey is an unexported context key type to avoid collisions across packages.
type workspaceKey struct{}

// WithWorkspace returns a child context that carries ws.
func WithWorkspace(ctx context.Context, ws *service.Workspace) context.Context {
	if ws == nil {
		return ctx
	}
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// WorkspaceFromContext returns the request's workspace and whether one is present.
func WorkspaceFromContext(ctx context.Context) (*service.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*service.Workspace)
	return ws, ok && ws != nil
}

// WorkspaceProvider is the part of service.Registry the middleware needs.
type WorkspaceProvider interface {
	Get(ctx context.Context, id string) (*service.Workspace, error)
}

// WorkspaceConfig configures the workspace cookie.
type WorkspaceConfig struct {
	Provider     WorkspaceProvider
	CookieDomain string
	CookieSecure bool
	Logger       *slog.Logger
}

// Workspaces attaches the caller's workspace to the request context, issuing
// a new workspace cookie when the request has none (or an unusable one).
func Workspaces(cfg WorkspaceConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(WorkspaceCookieName); err == nil {
				if parsed, parseErr := uuid.Parse(c.Value); parseErr == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     WorkspaceCookieName,
					Value:    id,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: true,
					Secure:   cfg.CookieSecure || isSecureRequest(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(workspaceCookieMaxAge.Seconds()),
				})
			}

			ws, err := cfg.Provider.Get(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "open workspace failed", "workspace", id, "error", err)
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "workspace_unavailable",
					Err:     errWorkspaceUnavailable,
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// workspaceHandler is a handler that needs the caller's workspace.
type workspaceHandler func(w http.ResponseWriter, r *http.Request, ws *service.Workspace)

// withWS adapts h to http.Handler. Routes using it must sit behind Workspaces.
func withWS(h workspaceHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFromContext(r.Context())
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "workspace_unavailable",
				Err:     errWorkspaceUnavailable,
			})
			return
		}
		h(w, r, ws)
	}
}
