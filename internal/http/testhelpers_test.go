package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/abctechblog/blogfront/internal/adapters/blogapi"
	"github.com/abctechblog/blogfront/internal/catalog"
	"github.com/abctechblog/blogfront/internal/mocks"
	mocksauth "github.com/abctechblog/blogfront/internal/mocks/auth"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/service"
	"github.com/abctechblog/blogfront/internal/testutil"
)

// gateway is a running router wired to a fake backend.
type gateway struct {
	t        *testing.T
	backend  *testutil.FakeBackend
	relay    *mocks.MockContactRelay
	idp      *mocksauth.MockIdentityProvider
	registry *service.Registry
	srv      *httptest.Server
}

type gatewayOptions struct {
	disableIdentity bool
	maxBodyBytes    int64
}

func newGateway(t *testing.T, opts ...gatewayOptions) *gateway {
	t.Helper()
	var o gatewayOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	backend := testutil.NewFakeBackend()
	t.Cleanup(backend.Close)

	ctrl := gomock.NewController(t)
	relay := mocks.NewMockContactRelay(ctrl)

	registry := service.NewRegistry(service.RegistryOptions{
		Factory: func(string) (service.WorkspaceDeps, error) {
			c, err := blogapi.NewClient(blogapi.Config{BaseURL: backend.URL})
			if err != nil {
				return service.WorkspaceDeps{}, err
			}
			return service.WorkspaceDeps{Auth: c, Media: c, Posts: c, Cookies: c}, nil
		},
		Relay: relay,
	})

	cat, err := catalog.Default()
	require.NoError(t, err)

	g := &gateway{t: t, backend: backend, relay: relay, registry: registry}
	ropts := RouterOptions{
		Workspaces:   registry,
		Catalog:      cat,
		MaxBodyBytes: o.maxBodyBytes,
	}
	if !o.disableIdentity {
		g.idp = mocksauth.NewMockIdentityProvider()
		ropts.Identity = g.idp
	}
	g.srv = httptest.NewServer(NewRouter(ropts))
	t.Cleanup(g.srv.Close)
	return g
}

// browser is one cookie-carrying client of the gateway.
type browser struct {
	t    *testing.T
	g    *gateway
	jar  *cookiejar.Jar
	http *http.Client
}

func (g *gateway) browser() *browser {
	g.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(g.t, err)
	return &browser{
		t:   g.t,
		g:   g,
		jar: jar,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Error      *ErrorBody      `json:"error"`
	Notices    []notify.Notice `json:"notices"`
	RedirectTo string          `json:"redirect_to"`
}

func (b *browser) cookie(name string) string {
	u, err := url.Parse(b.g.srv.URL)
	require.NoError(b.t, err)
	for _, c := range b.jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// raw sends a request with the CSRF header set from the jar, fetching the
// session first when no token has been issued yet.
func (b *browser) raw(method, path, contentType string, body io.Reader) *http.Response {
	b.t.Helper()
	if method != http.MethodGet && b.cookie(DefaultCSRFCookieName) == "" {
		resp := b.raw(http.MethodGet, "/ui/session", "", nil)
		resp.Body.Close()
	}
	req, err := http.NewRequest(method, b.g.srv.URL+path, body)
	require.NoError(b.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := b.cookie(DefaultCSRFCookieName); tok != "" {
		req.Header.Set(DefaultCSRFHeaderName, tok)
	}
	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	return resp
}

func (b *browser) do(method, path string, payload any) (int, envelope) {
	b.t.Helper()
	var body io.Reader
	contentType := ""
	if payload != nil {
		buf, err := json.Marshal(payload)
		require.NoError(b.t, err)
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return b.decode(b.raw(method, path, contentType, body))
}

func (b *browser) decode(resp *http.Response) (int, envelope) {
	b.t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (b *browser) session() sessionView {
	b.t.Helper()
	status, env := b.do(http.MethodGet, "/ui/session", nil)
	require.Equal(b.t, http.StatusOK, status)
	var v sessionView
	require.NoError(b.t, json.Unmarshal(env.Data, &v))
	return v
}

func (b *browser) signIn(email, password string) envelope {
	b.t.Helper()
	status, env := b.do(http.MethodPost, "/ui/auth/signin", map[string]string{"email": email, "password": password})
	require.Equal(b.t, http.StatusOK, status, "sign in failed: %+v", env.Error)
	return env
}

func (g *gateway) addVerifiedUser() testutil.BackendUser {
	u := testutil.BackendUser{ID: "u1", Username: "reader", Email: "reader@example.com", Password: "Abc12345!", Verified: true}
	g.backend.AddUser(u)
	return u
}

func messages(notices []notify.Notice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}

func unverifiedUser() testutil.BackendUser {
	return testutil.BackendUser{ID: "u9", Username: "pending", Email: "new@example.com", Password: "Abc12345!"}
}
