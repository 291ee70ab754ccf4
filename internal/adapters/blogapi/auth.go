package blogapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

// Fallback messages used when a rejection carries none.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgSignUpFailed       = "An error occurred during sign-up"
	MsgUsernameTaken      = "This username is already taken"
	MsgEmailTaken         = "This email is already registered"
	MsgSignOutFailed      = "Sign out failed"
)

const (
	pathSignIn  = "/api/auth/signin"
	pathSignUp  = "/api/auth/signup"
	pathGoogle  = "/api/auth/google"
	pathSignOut = "/api/user/signout"
)

// SignIn posts credentials and returns the user record. The backend sets its
// session cookie in the client's jar.
func (c *Client) SignIn(ctx context.Context, cred domainauth.Credentials) (domainauth.User, error) {
	resp, err := c.postJSON(ctx, pathSignIn, cred, MsgInvalidCredentials)
	if err != nil {
		return domainauth.User{}, err
	}
	return decodeUser(resp)
}

// SignUp registers an account. Duplicate username and e-mail rejections are
// reported as conflicts with a fixed message.
func (c *Client) SignUp(ctx context.Context, in domainauth.SignUpInput) error {
	_, err := c.postJSON(ctx, pathSignUp, in, MsgSignUpFailed)
	if err != nil {
		return signUpRejection(err)
	}
	return nil
}

func signUpRejection(err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || (appErr.Code != apperrors.ErrCodeRejected && appErr.Code != apperrors.ErrCodeConflict) {
		return err
	}
	lower := strings.ToLower(appErr.Message)
	var rewritten *apperrors.AppError
	switch {
	case strings.Contains(lower, "username"):
		rewritten = apperrors.Conflict(MsgUsernameTaken)
		rewritten.Field = "username"
	case strings.Contains(lower, "email"):
		rewritten = apperrors.Conflict(MsgEmailTaken)
		rewritten.Field = "email"
	default:
		return err
	}
	rewritten.Status = appErr.Status
	rewritten.Cause = appErr
	return rewritten
}

type identityRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

// SignInWithIdentity signs in with an identity asserted by the external provider.
func (c *Client) SignInWithIdentity(ctx context.Context, id domainauth.Identity) (domainauth.User, error) {
	body := identityRequest{Name: id.Name, Email: id.Email, GooglePhotoURL: id.PhotoURL}
	resp, err := c.postJSON(ctx, pathGoogle, body, MsgInvalidCredentials)
	if err != nil {
		return domainauth.User{}, err
	}
	return decodeUser(resp)
}

// SignOut asks the backend to clear its session cookie.
func (c *Client) SignOut(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, pathSignOut, nil, "")
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.rejection(resp, MsgSignOutFailed)
	}
	return nil
}

func decodeUser(resp *response) (domainauth.User, error) {
	var u domainauth.User
	if err := decode(resp, &u); err != nil {
		return domainauth.User{}, err
	}
	if u.ID == "" && u.Email == "" {
		return domainauth.User{}, apperrors.Network(errors.New("sign-in response carries no user"), MsgNetwork)
	}
	return u, nil
}
