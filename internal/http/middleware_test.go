package httpx

import (
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/abctechblog/blogfront/internal/errors"
)

func TestCompression(t *testing.T) {
	body := `{"data":"` + strings.Repeat("gopher ", 500) + `"}`
	jsonHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
	})
	textHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	})

	tests := []struct {
		name           string
		handler        http.Handler
		method         string
		acceptEncoding string
		expectGzip     bool
	}{
		{name: "json with gzip", handler: jsonHandler, method: http.MethodGet, acceptEncoding: "gzip, deflate", expectGzip: true},
		{name: "json without gzip", handler: jsonHandler, method: http.MethodGet, acceptEncoding: "deflate"},
		{name: "gzip refused with q=0", handler: jsonHandler, method: http.MethodGet, acceptEncoding: "gzip;q=0"},
		{name: "non json passes through", handler: textHandler, method: http.MethodGet, acceptEncoding: "gzip"},
		{name: "head passes through", handler: jsonHandler, method: http.MethodHead, acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Compression(CompressionConfig{Level: 6})(tt.handler)
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if !tt.expectGzip {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				if tt.method != http.MethodHead {
					assert.Equal(t, body, rec.Body.String())
				}
				return
			}
			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
			zr, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			got, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestCompression_InvalidLevelFallsBack(t *testing.T) {
	h := Compression(CompressionConfig{Level: 42})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_RecordsStatus(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/ui/session", nil)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookieName, Value: "ws-1"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/ui/session")
	assert.Contains(t, out, "workspace=ws-1")
}

func TestMaxBody(t *testing.T) {
	var decoded bool
	h := MaxBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var v map[string]string
		decoded = DecodeJSON(w, r, &v)
	}))

	t.Run("announced length", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a very long value"}`)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unknown length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(`{"name":"a very long value"}`)))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.False(t, decoded)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("small body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`)))
		assert.True(t, decoded)
	})
}

func TestCSRFProtection(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := CSRFProtection(CSRFConfig{})(ok)

	t.Run("get issues a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, DefaultCSRFCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.False(t, cookies[0].HttpOnly)
	})

	tests := []struct {
		name   string
		cookie string
		header string
		want   int
	}{
		{name: "matching header", cookie: "tok", header: "tok", want: http.StatusNoContent},
		{name: "missing header", cookie: "tok", want: http.StatusForbidden},
		{name: "mismatched header", cookie: "tok", header: "other", want: http.StatusForbidden},
		{name: "no cookie", header: "tok", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIsSecureRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(req))
	req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isSecureRequest(req))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad"), http.StatusBadRequest},
		{apperrors.Unauthenticated("who"), http.StatusUnauthorized},
		{apperrors.VerificationRequired("verify"), http.StatusForbidden},
		{apperrors.Conflict("taken"), http.StatusConflict},
		{apperrors.Rejected(http.StatusBadRequest, "no"), http.StatusUnprocessableEntity},
		{apperrors.Busy("wait"), http.StatusTooManyRequests},
		{apperrors.Network(errors.New("dial"), "offline"), http.StatusBadGateway},
		{apperrors.Wrap(errors.New("slow"), apperrors.ErrCodeTimeout, "timeout"), http.StatusGatewayTimeout},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestWorkspaces_ReplacesMalformedCookie(t *testing.T) {
	g := newGateway(t)
	b := g.browser()

	req, err := http.NewRequest(http.MethodGet, g.srv.URL+"/ui/session", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: WorkspaceCookieName, Value: "../../etc/passwd"})
	resp, err := b.http.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	var issued string
	for _, c := range resp.Cookies() {
		if c.Name == WorkspaceCookieName {
			issued = c.Value
		}
	}
	assert.Len(t, issued, 36)
	assert.Equal(t, 1, g.registry.Len())
}

func TestWorkspaces_AreIsolatedPerBrowser(t *testing.T) {
	g := newGateway(t)
	u := g.addVerifiedUser()
	alice, bob := g.browser(), g.browser()

	alice.signIn(u.Email, u.Password)
	assert.True(t, alice.session().Authenticated)
	assert.False(t, bob.session().Authenticated)
	assert.Equal(t, 2, g.registry.Len())
}
