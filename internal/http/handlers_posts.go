package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/service"
	"github.com/abctechblog/blogfront/internal/validation"
)

const (
	uploadField        = "file"
	multipartMemoryMax = 8 << 20
	msgSignInToPublish = "Please sign in to publish a post."
)

// PostHandlers serves the create-post routes.
type PostHandlers struct {
	Logger *slog.Logger
}

func (h *PostHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// uploadResult is returned by the image route.
type uploadResult struct {
	URL      string               `json:"url,omitempty"`
	Composer service.ComposerView `json:"composer"`
}

// Draft returns the composer state.
// GET /ui/posts/draft.
func (h *PostHandlers) Draft(w http.ResponseWriter, _ *http.Request, ws *service.Workspace) {
	respond(w, ws, ws.Composer.View(), nil)
}

// EditDraft applies a partial edit to the draft.
// PUT /ui/posts/draft.
func (h *PostHandlers) EditDraft(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	var edit service.DraftEdit
	if !DecodeJSON(w, r, &edit) {
		return
	}
	view, err := ws.Composer.Edit(edit)
	respond(w, ws, view, err)
}

// UploadImage selects the posted file and uploads it.
// POST /ui/posts/draft/image (multipart, field "file").
func (h *PostHandlers) UploadImage(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	asset, err := readAsset(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "body_too_large", Err: err})
			return
		}
		respond(w, ws, uploadResult{Composer: ws.Composer.View()}, err)
		return
	}

	ws.Composer.SelectAsset(asset)
	url, err := ws.Composer.UploadAsset(detached(r))
	if err != nil {
		h.logger().DebugContext(r.Context(), "upload image request failed", "error", err)
	}
	respond(w, ws, uploadResult{URL: url, Composer: ws.Composer.View()}, err)
}

func readAsset(r *http.Request) (domainpost.Asset, error) {
	if err := r.ParseMultipartForm(multipartMemoryMax); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domainpost.Asset{}, err
		}
		return domainpost.Asset{}, apperrors.ValidationField(uploadField, validation.MsgImageMissing)
	}
	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		return domainpost.Asset{}, apperrors.ValidationField(uploadField, validation.MsgImageMissing)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domainpost.Asset{}, err
	}
	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return domainpost.Asset{Filename: hdr.Filename, ContentType: ct, Data: data}, nil
}

// Publish submits the draft. Only signed-in sessions may publish.
// POST /ui/posts/publish.
func (h *PostHandlers) Publish(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	if !ws.Session.State().Authenticated {
		respond(w, ws, ws.Composer.View(), apperrors.Unauthenticated(msgSignInToPublish))
		return
	}
	created, err := ws.Composer.SubmitCreatePost(detached(r))
	if err != nil {
		respond(w, ws, ws.Composer.View(), err)
		return
	}
	respond(w, ws, created, nil)
}
