// Package blogapi is the HTTP client for the blog backend. One Client holds
// one cookie jar, so each browser workspace gets its own Client.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/net/publicsuffix"

	apperrors "github.com/abctechblog/blogfront/internal/errors"
)

// User-facing messages for failures that carry no server message.
const (
	MsgNetwork  = "Network error. Please check your connection and try again."
	MsgTimeout  = "The request timed out. Please try again."
	MsgCanceled = "The request was canceled."
)

// DefaultErrorMessagePath reads the message from the backend's error body.
const DefaultErrorMessagePath = "message || error"

const (
	defaultTimeout          = 15 * time.Second
	defaultMaxResponseBytes = 1 << 20
	defaultUserAgent        = "blogfront"
)

// verificationMarker is matched against rejection messages when the backend
// sends no structured code.
const verificationMarker = "verify your email"

var verificationCodes = map[string]bool{
	"email_not_verified":    true,
	"verification_required": true,
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// ErrorMessagePath is a JMESPath expression evaluated against error bodies.
	ErrorMessagePath string
	MaxResponseBytes int64
	UserAgent        string
	// Client overrides the HTTP client. When nil a client with its own cookie jar is built.
	Client *http.Client
	Logger *slog.Logger
}

// Client talks to the blog backend.
type Client struct {
	base        *url.URL
	hc          *http.Client
	messagePath string
	maxBody     int64
	userAgent   string
	logger      *slog.Logger
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	path := strings.TrimSpace(cfg.ErrorMessagePath)
	if path == "" {
		path = DefaultErrorMessagePath
	}
	if _, compileErr := jmespath.Compile(path); compileErr != nil {
		return nil, fmt.Errorf("compile error message path %q: %w", path, compileErr)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.Client
	if hc == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = defaultMaxResponseBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:        base,
		hc:          hc,
		messagePath: path,
		maxBody:     maxBody,
		userAgent:   fallbackString(strings.TrimSpace(cfg.UserAgent), defaultUserAgent),
		logger:      logger.With("component", "blogapi"),
	}, nil
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// envelope is the subset of backend bodies that signals failure.
type envelope struct {
	Success *bool  `json:"success"`
	Code    string `json:"code"`
}

type response struct {
	status int
	body   []byte
	doc    any
	env    envelope
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300 && (r.env.Success == nil || *r.env.Success)
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = c.base.Path + path
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode backend request")
	}
	return c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

// send performs req and reads the body. Transport failures come back as
// network, timeout or canceled AppErrors. HTTP error statuses do not.
func (c *Client) send(req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.WarnContext(req.Context(), "backend request failed",
			"method", req.Method, "path", req.URL.Path, "error", err, "duration", time.Since(start))
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, apperrors.Network(fmt.Errorf("response body exceeds %d bytes", c.maxBody), MsgNetwork)
	}

	c.logger.DebugContext(req.Context(), "backend request",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "duration", time.Since(start))

	out := &response{status: resp.StatusCode, body: body}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &out.doc) == nil {
		if _, isObject := out.doc.(map[string]any); isObject {
			_ = json.Unmarshal(body, &out.env)
		}
	}
	return out, nil
}

func transportError(err error) *apperrors.AppError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, MsgCanceled)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, MsgTimeout)
	default:
		return apperrors.Network(err, MsgNetwork)
	}
}

// rejection classifies a non-ok response. Structured codes win; the
// "verify your email" marker is only consulted when no code is present.
func (c *Client) rejection(r *response, fallback string) *apperrors.AppError {
	msg := c.message(r.doc)
	if msg == "" {
		msg = fallback
	}
	code := strings.ToLower(strings.TrimSpace(r.env.Code))

	var appErr *apperrors.AppError
	switch {
	case verificationCodes[code]:
		appErr = apperrors.VerificationRequired(msg)
	case code == "" && strings.Contains(strings.ToLower(msg), verificationMarker):
		appErr = apperrors.VerificationRequired(msg)
	case code == "conflict" || r.status == http.StatusConflict:
		appErr = apperrors.Conflict(msg)
	default:
		appErr = apperrors.Rejected(r.status, msg)
	}
	appErr.Status = r.status
	return appErr
}

// message evaluates the configured expression against the decoded body.
// A bare JSON string body is taken as the message.
func (c *Client) message(doc any) string {
	switch v := doc.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		res, err := jmespath.Search(c.messagePath, v)
		if err != nil {
			return ""
		}
		if s, ok := res.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// decode unmarshals a successful body into dst. An unreadable success body
// is a network failure: the request may have succeeded but we cannot tell.
func decode(r *response, dst any) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return apperrors.Network(fmt.Errorf("decode backend response: %w", err), MsgNetwork)
	}
	return nil
}

// postJSON sends payload and returns the response when it is ok.
func (c *Client) postJSON(ctx context.Context, path string, payload any, fallback string) (*response, error) {
	req, err := c.newJSONRequest(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.rejection(resp, fallback)
	}
	return resp, nil
}
