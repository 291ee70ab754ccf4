package blogapi

import (
	"context"
	"errors"
	"strings"

	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
)

var _ ports.PostAPI = (*Client)(nil)

// MsgPublishFailed is the create-post rejection fallback.
const MsgPublishFailed = "Something went wrong"

const pathCreatePost = "/api/post/create"

// CreatePost publishes p and returns the new post's slug.
func (c *Client) CreatePost(ctx context.Context, p domainpost.Payload) (domainpost.Created, error) {
	resp, err := c.postJSON(ctx, pathCreatePost, p, MsgPublishFailed)
	if err != nil {
		return domainpost.Created{}, err
	}
	var out domainpost.Created
	if err := decode(resp, &out); err != nil {
		return domainpost.Created{}, err
	}
	out.Slug = strings.TrimSpace(out.Slug)
	if out.Slug == "" {
		return domainpost.Created{}, apperrors.Network(errors.New("create-post response carries no slug"), MsgNetwork)
	}
	return out, nil
}
