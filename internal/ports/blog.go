package ports

import (
	"context"

	"github.com/abctechblog/blogfront/internal/domain/contact"
	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
)

// ProgressFunc receives upload progress as a percentage in [0,100].
type ProgressFunc func(percent int)

// MediaAPI uploads post images.
type MediaAPI interface {
	// UploadImage sends the asset and returns its public URL.
	UploadImage(ctx context.Context, a domainpost.Asset, progress ProgressFunc) (string, error)
}

// PostAPI publishes posts.
type PostAPI interface {
	CreatePost(ctx context.Context, p domainpost.Payload) (domainpost.Created, error)
}

// ContactRelay delivers contact-form messages by e-mail through a third-party service.
type ContactRelay interface {
	Submit(ctx context.Context, msg contact.Message) error
}
