package httpx

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/service"
	"github.com/abctechblog/blogfront/internal/session"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 600 // seconds
)

var (
	errIdentityDisabled = errors.New("identity provider sign-in is not enabled")
	errInvalidState     = errors.New("invalid or missing state parameter")
	errMissingCode      = errors.New("authorization code is required")
	errMissingNonce     = errors.New("missing nonce")
	errUnknownView      = errors.New("unknown view")
)

// AuthHandlers serves the sign-in, sign-up and identity provider routes.
type AuthHandlers struct {
	// Identity is optional; nil disables "Continue with Google".
	Identity     ports.IdentityProvider
	CookieDomain string
	CookieSecure bool
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// sessionView is the client-visible session with the sign-up form error.
type sessionView struct {
	session.State
	FormField string `json:"form_field,omitempty"`
	FormError string `json:"form_error,omitempty"`
	Google    bool   `json:"google_enabled"`
}

func (h *AuthHandlers) view(ws *service.Workspace) sessionView {
	field, msg := ws.Auth.FormError()
	return sessionView{
		State:     ws.Auth.State(),
		FormField: field,
		FormError: msg,
		Google:    h.Identity != nil,
	}
}

// detached keeps backend calls alive when the browser drops the request.
// The backend client's own timeout still bounds them.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// Session returns the current session.
// GET /ui/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, _ *http.Request, ws *service.Workspace) {
	respond(w, ws, h.view(ws), nil)
}

// SignIn submits the sign-in form.
// POST /ui/auth/signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	var creds domainauth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}
	_, err := ws.Auth.SubmitSignIn(detached(r), creds)
	respond(w, ws, h.view(ws), err)
}

// SignUp submits the sign-up form.
// POST /ui/auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	var in domainauth.SignUpInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	err := ws.Auth.SubmitSignUp(detached(r), in)
	respond(w, ws, h.view(ws), err)
}

// SignOut clears the session.
// POST /ui/auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	ws.Auth.SignOut(detached(r))
	respond(w, ws, h.view(ws), nil)
}

// View handles view mount and unmount.
// POST /ui/views/{view}/{action} where action is enter or leave.
func (h *AuthHandlers) View(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	enter := false
	switch r.PathValue("action") {
	case "enter":
		enter = true
	case "leave":
	default:
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errUnknownView})
		return
	}

	var data any
	switch r.PathValue("view") {
	case "auth":
		if enter {
			ws.Auth.Enter()
		} else {
			ws.Auth.Leave()
		}
		data = h.view(ws)
	case "create-post":
		if enter {
			ws.Composer.Mount()
		} else {
			ws.Composer.Unmount()
		}
		data = ws.Composer.View()
	default:
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errUnknownView})
		return
	}
	respond(w, ws, data, nil)
}

// GoogleLogin starts the identity provider flow.
// GET /ui/auth/google/login?redirect_uri=<optional path>.
func (h *AuthHandlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Identity == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "identity_disabled", Err: errIdentityDisabled})
		return
	}

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	authURL, state, nonce, err := h.Identity.Begin(r.Context(), ports.BeginInput{RedirectURL: redirectURI})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin identity flow failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "login_failed", Err: errors.New("could not start sign-in")})
		return
	}

	h.setCookie(w, r, oauthStateCookie, state, oauthCookieLifetime)
	h.setCookie(w, r, oauthNonceCookie, nonce, oauthCookieLifetime)
	h.setCookie(w, r, postLoginCookie, redirectURI, oauthCookieLifetime)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleCallback completes the identity provider flow and signs in with the
// asserted identity. Failures send the browser back to the sign-in page with
// an error notice waiting in the workspace.
// GET /ui/auth/google/callback?code=<code>&state=<state>.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	if h.Identity == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "identity_disabled", Err: errIdentityDisabled})
		return
	}
	ctx := detached(r)
	target := h.takePostLoginRedirect(w, r)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	in, err := readCallback(r)
	if err != nil {
		ws.Auth.IdentityFailed(ctx, err)
		http.Redirect(w, r, redirectOr(ws, service.PathSignIn), http.StatusFound)
		return
	}

	id, err := h.Identity.Exchange(ctx, in)
	if err != nil {
		ws.Auth.IdentityFailed(ctx, err)
		http.Redirect(w, r, redirectOr(ws, service.PathSignIn), http.StatusFound)
		return
	}

	if _, err := ws.Auth.SignInWithIdentity(ctx, id); err != nil {
		http.Redirect(w, r, redirectOr(ws, service.PathSignIn), http.StatusFound)
		return
	}
	// The controller asks for the home page; the page the user started from wins.
	ws.Redirects.Take()
	http.Redirect(w, r, target, http.StatusFound)
}

func readCallback(r *http.Request) (ports.ExchangeInput, error) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return ports.ExchangeInput{}, apperrors.Rejected(http.StatusUnauthorized, "identity provider returned "+e)
	}
	state := q.Get("state")
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(state)) != 1 {
		return ports.ExchangeInput{}, errInvalidState
	}
	code := q.Get("code")
	if code == "" {
		return ports.ExchangeInput{}, errMissingCode
	}
	nonce, err := r.Cookie(oauthNonceCookie)
	if err != nil || nonce.Value == "" {
		return ports.ExchangeInput{}, errMissingNonce
	}
	return ports.ExchangeInput{Code: code, State: state, Nonce: nonce.Value}, nil
}

func redirectOr(ws *service.Workspace, fallback string) string {
	if p := ws.Redirects.Take(); p != "" {
		return p
	}
	return fallback
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.CookieSecure || isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.CookieSecure || isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// takePostLoginRedirect returns the stored post-login path and clears its cookie.
func (h *AuthHandlers) takePostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(postLoginCookie)
	if err != nil {
		return service.PathHome
	}
	h.clearCookie(w, r, postLoginCookie)
	return safeRedirectPath(c.Value)
}

// safeRedirectPath returns candidate when it is a same-origin relative path,
// and "/" otherwise.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return service.PathHome
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return service.PathHome
	}
	return candidate
}
