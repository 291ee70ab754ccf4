package blogapi

import (
	"errors"
	"net/http"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/ports"
)

var _ ports.SessionCookies = (*Client)(nil)

var errNoJar = errors.New("backend client has no cookie jar")

// SessionCookies returns the cookies the jar would send to the backend.
func (c *Client) SessionCookies() []domainauth.BackendCookie {
	if c.hc.Jar == nil {
		return nil
	}
	jarred := c.hc.Jar.Cookies(c.base)
	if len(jarred) == 0 {
		return nil
	}
	out := make([]domainauth.BackendCookie, 0, len(jarred))
	for _, ck := range jarred {
		out = append(out, domainauth.BackendCookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// RestoreSessionCookies loads cookies saved by SessionCookies into the jar.
// They are scoped to the backend host.
func (c *Client) RestoreSessionCookies(cookies []domainauth.BackendCookie) error {
	if c.hc.Jar == nil {
		return errNoJar
	}
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		if ck.Name == "" {
			continue
		}
		hc = append(hc, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     "/",
			Secure:   c.base.Scheme == "https",
			HttpOnly: true,
		})
	}
	if len(hc) == 0 {
		return errors.New("no backend cookies to restore")
	}
	c.hc.Jar.SetCookies(c.base, hc)
	return nil
}
