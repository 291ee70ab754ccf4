// Package web3forms relays contact-form messages through the Web3Forms e-mail service.
package web3forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/abctechblog/blogfront/internal/domain/contact"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
)

// DefaultEndpoint is the public submit URL.
const DefaultEndpoint = "https://api.web3forms.com/submit"

// User-facing messages.
const (
	MsgRejected = "Failed to submit form. Please try again."
	MsgNetwork  = "Network error. Please check your connection and try again."
)

const maxResponseBytes = 64 << 10

var _ ports.ContactRelay = (*Client)(nil)

// Config captures the relay settings.
type Config struct {
	Endpoint  string
	AccessKey string
	// FromName is shown as the sender name in the delivered e-mail (optional).
	FromName string
	Timeout  time.Duration
	Client   *http.Client
	Logger   *slog.Logger
}

// Client submits contact messages to the relay. It sends no cookies.
type Client struct {
	endpoint  string
	accessKey string
	fromName  string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient builds a relay client. An access key is required.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.AccessKey)
	if key == "" {
		return nil, errors.New("web3forms access key is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:  endpoint,
		accessKey: key,
		fromName:  strings.TrimSpace(cfg.FromName),
		client:    hc,
		logger:    logger.With("component", "web3forms"),
	}, nil
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit sends m. A response without success=true is a rejection carrying
// the relay's message when it has one.
func (c *Client) Submit(ctx context.Context, m contact.Message) error {
	body, contentType, err := c.form(m)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode contact form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build relay request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "contact relay request failed", "error", err)
		return apperrors.Network(err, MsgNetwork)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Network(err, MsgNetwork)
	}

	var out submitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return apperrors.Network(fmt.Errorf("decode relay response (status %d): %w", resp.StatusCode, err), MsgNetwork)
	}
	if !out.Success {
		msg := strings.TrimSpace(out.Message)
		if msg == "" {
			msg = MsgRejected
		}
		c.logger.InfoContext(ctx, "contact relay rejected submission", "status", resp.StatusCode)
		return apperrors.Rejected(resp.StatusCode, msg)
	}
	return nil
}

func (c *Client) form(m contact.Message) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"access_key", c.accessKey},
		{"name", m.Name},
		{"email", m.Email},
		{"subject", m.Subject},
		{"message", m.Message},
	}
	if c.fromName != "" {
		fields = append(fields, struct{ name, value string }{"from_name", c.fromName})
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
