package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abctechblog/blogfront/internal/content"
	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/observability/metrics"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/validation"
)

// Composer messages.
const (
	MsgUploadFailed  = "Image upload failed"
	MsgPublishFailed = "Something went wrong"
	MsgImageUploaded = "Image uploaded successfully"
	MsgPublished     = "Post published!"
)

// ComposerConfig tunes the post composer.
type ComposerConfig struct {
	// DefaultImageURL replaces a missing image on publish. Empty means domainpost.DefaultImageURL.
	DefaultImageURL string
	// MaxUploadBytes caps selected images; zero disables the check.
	MaxUploadBytes int64
}

// PostComposerOptions groups dependencies for PostComposer.
type PostComposerOptions struct {
	Media   ports.MediaAPI // Required
	Posts   ports.PostAPI  // Required
	Config  ComposerConfig
	Effects ViewEffects
	Metrics *metrics.FormRecorder
	Logger  *slog.Logger
}

// DraftEdit changes the draft fields that are set. Nil fields are left alone.
type DraftEdit struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	BodyHTML *string `json:"content,omitempty"`
}

// excerptRunes bounds the draft preview excerpt.
const excerptRunes = 160

// DraftPreview summarises the draft body for the view. It is informational:
// publishing never depends on it and the backend decides what it accepts.
type DraftPreview struct {
	Excerpt        string `json:"excerpt,omitempty"`
	ReadingMinutes int    `json:"reading_minutes"`
	Blank          bool   `json:"blank"`
}

// ComposerView is a read-only copy of the composer state.
type ComposerView struct {
	Draft        domainpost.Draft `json:"draft"`
	Preview      DraftPreview     `json:"preview"`
	AssetName    string           `json:"asset_name,omitempty"`
	Uploading    bool             `json:"uploading"`
	Progress     *int             `json:"progress,omitempty"`
	UploadError  string           `json:"upload_error,omitempty"`
	Publishing   bool             `json:"publishing"`
	PublishError string           `json:"publish_error,omitempty"`
}

// PostComposer drives the create-post view: the draft, the image upload and
// publishing. Upload and publish errors are independent and neither clears
// the other.
type PostComposer struct {
	media        ports.MediaAPI
	posts        ports.PostAPI
	defaultImage string
	maxUpload    int64
	effects      ViewEffects
	metrics      *metrics.FormRecorder
	logger       *slog.Logger

	mu           sync.Mutex
	gen          uint64
	draft        domainpost.Draft
	asset        domainpost.Asset
	uploading    bool
	progress     *int
	uploadError  string
	publishing   bool
	publishError string
}

// NewPostComposer constructs a PostComposer. It panics when a required dependency is missing.
func NewPostComposer(opts PostComposerOptions) *PostComposer {
	if opts.Media == nil || opts.Posts == nil {
		panic("service: PostComposer requires MediaAPI and PostAPI")
	}
	img := strings.TrimSpace(opts.Config.DefaultImageURL)
	if img == "" {
		img = domainpost.DefaultImageURL
	}
	return &PostComposer{
		media:        opts.Media,
		posts:        opts.Posts,
		defaultImage: img,
		maxUpload:    opts.Config.MaxUploadBytes,
		effects:      opts.Effects,
		metrics:      opts.Metrics,
		logger:       loggerOrDefault(opts.Logger, "post_composer"),
	}
}

// Mount starts a fresh draft.
func (p *PostComposer) Mount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

// Unmount discards the draft. Responses to requests issued before Unmount
// are ignored.
func (p *PostComposer) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *PostComposer) resetLocked() {
	p.gen++
	p.draft = domainpost.Draft{}
	p.asset = domainpost.Asset{}
	p.uploading = false
	p.progress = nil
	p.uploadError = ""
	p.publishing = false
	p.publishError = ""
}

// View returns a copy of the composer state.
func (p *PostComposer) View() ComposerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *PostComposer) viewLocked() ComposerView {
	v := ComposerView{
		Draft: p.draft,
		Preview: DraftPreview{
			Excerpt:        content.Excerpt(p.draft.BodyHTML, excerptRunes),
			ReadingMinutes: content.ReadingMinutes(p.draft.BodyHTML),
			Blank:          content.IsBlank(p.draft.BodyHTML),
		},
		AssetName:    p.asset.Filename,
		Uploading:    p.uploading,
		UploadError:  p.uploadError,
		Publishing:   p.publishing,
		PublishError: p.publishError,
	}
	if p.progress != nil {
		pct := *p.progress
		v.Progress = &pct
	}
	return v
}

// Edit applies e to the draft.
func (p *PostComposer) Edit(e DraftEdit) (ComposerView, error) {
	var cat domainpost.Category
	if e.Category != nil {
		parsed, ok := domainpost.ParseCategory(*e.Category)
		if !ok {
			return p.View(), apperrors.ValidationField("category", validation.MsgPostCategory)
		}
		cat = parsed
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Title != nil {
		p.draft.Title = *e.Title
	}
	if e.Category != nil {
		p.draft.Category = cat
	}
	if e.BodyHTML != nil {
		p.draft.BodyHTML = *e.BodyHTML
	}
	return p.viewLocked(), nil
}

// SelectAsset records the chosen image. It does not upload it.
func (p *PostComposer) SelectAsset(a domainpost.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asset = a
	p.uploadError = ""
}

// UploadAsset uploads the selected image and stores its URL in the draft.
func (p *PostComposer) UploadAsset(ctx context.Context) (url string, err error) {
	defer p.metrics.Since(metrics.FormUpload, time.Now(), &err)

	p.mu.Lock()
	if p.uploading {
		p.mu.Unlock()
		return "", apperrors.Busy(MsgBusy)
	}
	if vErr := validation.Asset(p.asset, p.maxUpload); vErr != nil {
		p.uploadError = apperrors.UserMessage(vErr, MsgUploadFailed)
		p.mu.Unlock()
		return "", vErr
	}
	asset := p.asset
	gen := p.gen
	zero := 0
	p.uploading = true
	p.progress = &zero
	p.uploadError = ""
	p.mu.Unlock()

	url, err = p.media.UploadImage(ctx, asset, func(pct int) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen == gen && p.uploading {
			v := pct
			p.progress = &v
		}
	})

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		p.logger.DebugContext(ctx, "dropping upload response for a discarded draft")
		return url, err
	}
	p.uploading = false
	p.progress = nil
	if err != nil {
		msg := MsgUploadFailed
		if !apperrors.IsNetwork(err) {
			msg = apperrors.UserMessage(err, MsgUploadFailed)
		}
		p.uploadError = msg
		p.mu.Unlock()
		p.logger.WarnContext(ctx, "image upload failed", "error", err)
		p.effects.notify(notify.Error(noticeUpload, msg))
		return "", err
	}
	p.draft.ImageURL = url
	p.mu.Unlock()

	p.effects.notify(notify.Success(noticeUpload, MsgImageUploaded))
	return url, nil
}

// SubmitCreatePost sanitises and publishes the draft. Required fields are
// checked by the backend, whose message becomes the publish error. On
// success the draft is cleared and the view navigates to the new post; on
// failure the draft is kept.
func (p *PostComposer) SubmitCreatePost(ctx context.Context) (created domainpost.Created, err error) {
	defer p.metrics.Since(metrics.FormPublish, time.Now(), &err)

	p.mu.Lock()
	if p.publishing {
		p.mu.Unlock()
		return domainpost.Created{}, apperrors.Busy(MsgBusy)
	}
	draft := p.draft
	draft.Title = strings.TrimSpace(draft.Title)
	draft.BodyHTML = content.Sanitize(draft.BodyHTML)
	if strings.TrimSpace(draft.ImageURL) == "" {
		draft.ImageURL = p.defaultImage
	}
	gen := p.gen
	p.publishing = true
	p.publishError = ""
	p.mu.Unlock()

	created, err = p.posts.CreatePost(ctx, draft.Payload())

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		p.logger.DebugContext(ctx, "dropping publish response for a discarded draft")
		return created, err
	}
	p.publishing = false
	if err != nil {
		msg := MsgPublishFailed
		if !apperrors.IsNetwork(err) {
			msg = apperrors.UserMessage(err, MsgPublishFailed)
		}
		p.publishError = msg
		p.mu.Unlock()
		p.logger.WarnContext(ctx, "publish failed", "error", err)
		p.effects.notify(notify.Error(noticePublish, msg))
		return domainpost.Created{}, err
	}
	p.resetLocked()
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "post published", "slug", created.Slug)
	p.effects.notify(notify.Success(noticePublish, MsgPublished))
	p.effects.navigate(created.Path())
	return created, nil
}
