package blogapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
)

var _ ports.MediaAPI = (*Client)(nil)

// MsgUploadFailed is the upload rejection fallback.
const MsgUploadFailed = "Image upload failed"

const (
	pathUploadImage = "/api/upload/image"
	uploadField     = "file"
)

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// UploadImage sends the asset as multipart field "file" and returns the
// public URL. progress, when set, receives the share of the body sent so far.
func (c *Client) UploadImage(ctx context.Context, a domainpost.Asset, progress ports.ProgressFunc) (string, error) {
	body, contentType, err := multipartBody(a)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}

	size := int64(body.Len())
	req, err := c.newRequest(ctx, http.MethodPost, pathUploadImage, newProgressReader(body, size, progress), contentType)
	if err != nil {
		return "", err
	}
	req.ContentLength = size

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", c.rejection(resp, MsgUploadFailed)
	}

	var out uploadResponse
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	url := strings.TrimSpace(out.URL)
	if !out.Success || url == "" {
		return "", apperrors.Rejected(resp.status, MsgUploadFailed)
	}
	return url, nil
}

func multipartBody(a domainpost.Asset) (*bytes.Buffer, string, error) {
	filename := strings.TrimSpace(a.Filename)
	if filename == "" {
		filename = "image"
	}
	ct := strings.TrimSpace(a.ContentType)
	if ct == "" {
		ct = http.DetectContentType(a.Data)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     uploadField,
		"filename": filename,
	}))
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(a.Data); err != nil {
		return nil, "", fmt.Errorf("write part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// progressReader reports the percentage of bytes read. The HTTP transport
// may read from another goroutine, so fn must be safe to call from there.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ports.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ports.ProgressFunc) io.Reader {
	if fn == nil || total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if pct := int(p.read * 100 / p.total); pct != p.last && (n > 0 || errors.Is(err, io.EOF)) {
		p.last = pct
		p.fn(pct)
	}
	return n, err
}
