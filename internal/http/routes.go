// Package httpx is the browser-facing gateway. It maps JSON routes onto the
// per-client workspaces of internal/service and returns each outcome with
// the workspace's pending notices and navigation.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/abctechblog/blogfront/internal/catalog"
	"github.com/abctechblog/blogfront/internal/ports"
)

// RouterOptions holds everything the router needs.
type RouterOptions struct {
	Workspaces WorkspaceProvider // Required
	// Identity is optional; nil disables the Google routes.
	Identity     ports.IdentityProvider
	Catalog      *catalog.Catalog // Required
	CookieDomain string
	CookieSecure bool
	// MaxBodyBytes caps /ui request bodies; zero disables the cap.
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewRouter creates the gateway router.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	registerCatalogRoutes(mux, &CatalogHandlers{Catalog: opts.Catalog})

	ui := http.NewServeMux()
	registerAuthRoutes(ui, &AuthHandlers{
		Identity:     opts.Identity,
		CookieDomain: opts.CookieDomain,
		CookieSecure: opts.CookieSecure,
		Logger:       logger,
	})
	registerPostRoutes(ui, &PostHandlers{Logger: logger})
	ui.Handle("POST /ui/contact", withWS(Contact))

	var h http.Handler = ui
	h = Workspaces(WorkspaceConfig{
		Provider:     opts.Workspaces,
		CookieDomain: opts.CookieDomain,
		CookieSecure: opts.CookieSecure,
		Logger:       logger,
	})(h)
	h = CSRFProtection(CSRFConfig{CookieDomain: opts.CookieDomain, CookieSecure: opts.CookieSecure})(h)
	h = MaxBody(opts.MaxBodyBytes)(h)
	mux.Handle("/ui/", h)

	return mux
}

func registerCatalogRoutes(mux *http.ServeMux, h *CatalogHandlers) {
	mux.HandleFunc("GET /ui/projects", h.Projects)
	mux.HandleFunc("GET /ui/projects/{id}", h.Project)
	mux.HandleFunc("GET /ui/community", h.Community)
	mux.HandleFunc("GET /ui/categories", h.Categories)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET /ui/session", withWS(h.Session))
	mux.Handle("POST /ui/auth/signin", withWS(h.SignIn))
	mux.Handle("POST /ui/auth/signup", withWS(h.SignUp))
	mux.Handle("POST /ui/auth/signout", withWS(h.SignOut))
	mux.Handle("POST /ui/views/{view}/{action}", withWS(h.View))
	mux.HandleFunc("GET /ui/auth/google/login", h.GoogleLogin)
	mux.Handle("GET /ui/auth/google/callback", withWS(h.GoogleCallback))
}

func registerPostRoutes(mux *http.ServeMux, h *PostHandlers) {
	mux.Handle("GET /ui/posts/draft", withWS(h.Draft))
	mux.Handle("PUT /ui/posts/draft", withWS(h.EditDraft))
	mux.Handle("POST /ui/posts/draft/image", withWS(h.UploadImage))
	mux.Handle("POST /ui/posts/publish", withWS(h.Publish))
}
