package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/service"
	"github.com/abctechblog/blogfront/internal/validation"
)

func TestSession_IssuesWorkspaceAndCSRFCookies(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	v := b.session()
	assert.False(t, v.Authenticated)
	assert.False(t, v.Pending)
	assert.True(t, v.Google)

	assert.NotEmpty(t, b.cookie(WorkspaceCookieName))
	assert.NotEmpty(t, b.cookie(DefaultCSRFCookieName))
	assert.Equal(t, 1, g.registry.Len())

	// The same cookie keeps the same workspace.
	b.session()
	assert.Equal(t, 1, g.registry.Len())
}

func TestSignIn_Success(t *testing.T) {
	g := newGateway(t)
	u := g.addVerifiedUser()
	b := g.browser()

	env := b.signIn(u.Email, u.Password)
	assert.Nil(t, env.Error)
	assert.Equal(t, service.PathHome, env.RedirectTo)
	assert.Contains(t, messages(env.Notices), service.MsgSignedIn)

	var v sessionView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.True(t, v.Authenticated)
	assert.False(t, v.Pending)
	require.NotNil(t, v.User)
	assert.Equal(t, u.ID, v.User.ID)

	// Notices are delivered once.
	_, next := b.do(http.MethodGet, "/ui/session", nil)
	assert.Empty(t, next.Notices)
	assert.Empty(t, next.RedirectTo)
}

func TestSignIn_Failures(t *testing.T) {
	tests := []struct {
		name       string
		structured bool
		formError  bool
		user       domainauth.Credentials
		wantStatus int
		wantCode   apperrors.ErrorCode
		wantMsg    string
		wantTo     string
	}{
		{
			name:       "wrong password",
			user:       domainauth.Credentials{Email: "reader@example.com", Password: "nope12345!"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.ErrCodeRejected,
			wantMsg:    "Invalid password",
		},
		{
			name:       "missing field",
			formError:  true,
			user:       domainauth.Credentials{Email: "reader@example.com"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ErrCodeValidation,
			wantMsg:    validation.MsgSignInIncomplete,
		},
		{
			name:       "unverified with structured code",
			structured: true,
			user:       domainauth.Credentials{Email: "new@example.com", Password: "Abc12345!"},
			wantStatus: http.StatusForbidden,
			wantCode:   apperrors.ErrCodeVerificationRequired,
			wantMsg:    "Account pending activation",
			wantTo:     service.PathVerifyEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)
			g.addVerifiedUser()
			g.backend.AddUser(unverifiedUser())
			g.backend.StructuredCodes = tt.structured
			b := g.browser()

			status, env := b.do(http.MethodPost, "/ui/auth/signin", tt.user)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantMsg, env.Error.Message)
			assert.Equal(t, tt.wantTo, env.RedirectTo)

			v := b.session()
			assert.False(t, v.Authenticated)
			assert.False(t, v.Pending)
			if tt.formError {
				assert.Equal(t, tt.wantMsg, v.FormError)
				assert.Empty(t, v.LastError)
				assert.Zero(t, g.backend.Hits("/api/auth/signin"))
				return
			}
			assert.Equal(t, tt.wantMsg, v.LastError)
		})
	}
}

func TestSignUp_ClientValidationMakesNoRequest(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	status, env := b.do(http.MethodPost, "/ui/auth/signup", domainauth.SignUpInput{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "short1!",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "password", env.Error.Field)
	assert.Equal(t, validation.MsgPasswordShort, env.Error.Message)
	assert.Zero(t, g.backend.Hits("/api/auth/signup"))

	var v sessionView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "password", v.FormField)
	assert.Equal(t, validation.MsgPasswordShort, v.FormError)
	assert.Empty(t, v.LastError)
}

func TestSignUp_SuccessNavigatesToVerification(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	status, env := b.do(http.MethodPost, "/ui/auth/signup", domainauth.SignUpInput{
		Username: "newbie",
		Email:    "a@b.com",
		Password: "Abc12345!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.PathVerifyEmail, env.RedirectTo)
	assert.Contains(t, messages(env.Notices), service.MsgSignedUp)
	assert.Equal(t, 1, g.backend.Hits("/api/auth/signup"))
}

func TestSignOut(t *testing.T) {
	g := newGateway(t)
	u := g.addVerifiedUser()
	b := g.browser()
	b.signIn(u.Email, u.Password)

	status, env := b.do(http.MethodPost, "/ui/auth/signout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, messages(env.Notices), service.MsgSignedOut)
	assert.False(t, b.session().Authenticated)
	assert.Equal(t, 1, g.backend.Hits("/api/user/signout"))
}

func TestMutatingRoutesRequireCSRFHeader(t *testing.T) {
	g := newGateway(t)
	b := g.browser()
	b.session()

	req, err := http.NewRequest(http.MethodPost, g.srv.URL+"/ui/auth/signout", nil)
	require.NoError(t, err)
	resp, err := b.http.Do(req)
	require.NoError(t, err)
	status, env := b.decode(resp)

	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperrors.ErrorCode("csrf_failed"), env.Error.Code)
}

func TestViews(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	status, _ := b.do(http.MethodPost, "/ui/views/auth/enter", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = b.do(http.MethodPost, "/ui/views/create-post/enter", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = b.do(http.MethodPost, "/ui/views/create-post/leave", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := b.do(http.MethodPost, "/ui/views/dashboard/enter", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)

	status, _ = b.do(http.MethodPost, "/ui/views/auth/explode", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGoogleLogin_SetsCookiesAndRedirects(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	resp := b.raw(http.MethodGet, "/ui/auth/google/login?redirect_uri=/create-post", "", nil)
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://mock-idp/auth", resp.Header.Get("Location"))
	assert.Equal(t, "state-1", b.cookie(oauthStateCookie))
	assert.Equal(t, "nonce-1", b.cookie(oauthNonceCookie))
	assert.Equal(t, "/create-post", b.cookie(postLoginCookie))
}

func TestGoogleLogin_RejectsOffsiteRedirect(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	resp := b.raw(http.MethodGet, "/ui/auth/google/login?redirect_uri=https://evil.example/", "", nil)
	resp.Body.Close()
	assert.Equal(t, "/", b.cookie(postLoginCookie))
}

func TestGoogleCallback_SignsIn(t *testing.T) {
	g := newGateway(t)
	var gotNonce string
	g.idp.ExchangeFunc = func(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
		gotNonce = in.Nonce
		return g.idp.DefaultUser, nil
	}
	b := g.browser()

	resp := b.raw(http.MethodGet, "/ui/auth/google/login?redirect_uri=/create-post", "", nil)
	resp.Body.Close()

	resp = b.raw(http.MethodGet, "/ui/auth/google/callback?code=abc&state=state-1", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/create-post", resp.Header.Get("Location"))
	assert.Equal(t, "nonce-1", gotNonce)
	assert.Empty(t, b.cookie(oauthStateCookie))
	assert.Equal(t, 1, g.backend.Hits("/api/auth/google"))

	_, env := b.do(http.MethodGet, "/ui/session", nil)
	var v sessionView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.True(t, v.Authenticated)
	assert.Contains(t, messages(env.Notices), service.MsgSignedIn)
	assert.Empty(t, env.RedirectTo)
}

func TestGoogleCallback_Failures(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		exchange error
	}{
		{name: "state mismatch", query: "code=abc&state=forged"},
		{name: "missing code", query: "state=state-1"},
		{name: "consent denied", query: "error=access_denied&state=state-1"},
		{name: "exchange failure", query: "code=abc&state=state-1", exchange: errors.New("token endpoint down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)
			if tt.exchange != nil {
				g.idp.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
					return domainauth.Identity{}, tt.exchange
				}
			}
			b := g.browser()
			resp := b.raw(http.MethodGet, "/ui/auth/google/login", "", nil)
			resp.Body.Close()

			resp = b.raw(http.MethodGet, "/ui/auth/google/callback?"+tt.query, "", nil)
			resp.Body.Close()
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, service.PathSignIn, resp.Header.Get("Location"))
			assert.Zero(t, g.backend.Hits("/api/auth/google"))

			_, env := b.do(http.MethodGet, "/ui/session", nil)
			assert.Contains(t, messages(env.Notices), service.MsgIdentityFailed)
		})
	}
}

func TestGoogleRoutesDisabledWithoutProvider(t *testing.T) {
	g := newGateway(t, gatewayOptions{disableIdentity: true})
	b := g.browser()

	assert.False(t, b.session().Google)
	resp := b.raw(http.MethodGet, "/ui/auth/google/login", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/create-post", "/create-post"},
		{"/post/hello?x=1", "/post/hello?x=1"},
		{"https://evil.example/", "/"},
		{"//evil.example/path", "/"},
		{"relative", "/"},
		{"javascript:alert(1)", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.in), tt.in)
	}
}

func TestHealthz(t *testing.T) {
	g := newGateway(t)
	resp, err := http.Get(g.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
