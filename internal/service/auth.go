package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/observability/metrics"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/session"
	"github.com/abctechblog/blogfront/internal/validation"
)

// Auth messages.
const (
	MsgSignedIn          = "Signed in successfully!"
	MsgSignedUp          = "Signed up successfully! Please verify your email."
	MsgSignedOut         = "Signed out"
	MsgSignInFailed      = "Invalid credentials"
	MsgSignUpFailed      = "An error occurred during sign-up"
	MsgIdentityFailed    = "Could not sign in with Google. Please try again."
	MsgNetworkConnection = "Network error. Please check your connection and try again."
	MsgSignInDiscarded   = "Signed out before the request completed"
)

// AuthControllerOptions groups dependencies for AuthController.
type AuthControllerOptions struct {
	API     ports.AuthAPI  // Required
	Session *session.Store // Required
	Effects ViewEffects
	Metrics *metrics.FormRecorder
	Logger  *slog.Logger
}

// AuthController drives the sign-in and sign-up forms. Store transitions
// always complete; view effects (notices, navigation) are dropped for
// responses that arrive after the view was left.
type AuthController struct {
	api     ports.AuthAPI
	store   *session.Store
	effects ViewEffects
	metrics *metrics.FormRecorder
	logger  *slog.Logger

	gen atomic.Uint64

	mu        sync.Mutex
	formError string
	formField string
}

// NewAuthController constructs an AuthController. It panics when a required dependency is missing.
func NewAuthController(opts AuthControllerOptions) *AuthController {
	if opts.API == nil {
		panic("service: AuthController requires an AuthAPI")
	}
	if opts.Session == nil {
		panic("service: AuthController requires a session store")
	}
	return &AuthController{
		api:     opts.API,
		store:   opts.Session,
		effects: opts.Effects,
		metrics: opts.Metrics,
		logger:  loggerOrDefault(opts.Logger, "auth_controller"),
	}
}

// State returns the current session state.
func (c *AuthController) State() session.State {
	return c.store.State()
}

// FormError returns the client validation error of the last sign-in or
// sign-up submit and its field, if any.
func (c *AuthController) FormError() (field, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formField, c.formError
}

// Enter is called when the auth view mounts.
func (c *AuthController) Enter() {
	c.reset()
}

// Leave is called when the auth view unmounts. In-flight requests still
// settle the store but no longer notify or navigate.
func (c *AuthController) Leave() {
	c.reset()
}

func (c *AuthController) reset() {
	c.gen.Add(1)
	c.setFormError(nil)
	c.store.Dispatch(session.ClearError())
}

// SubmitSignIn validates credentials and signs in.
func (c *AuthController) SubmitSignIn(ctx context.Context, creds domainauth.Credentials) (user domainauth.User, err error) {
	defer c.metrics.Since(metrics.FormSignIn, time.Now(), &err)

	creds = creds.Normalize()
	if vErr := validation.SignIn(creds); vErr != nil {
		c.setFormError(vErr)
		c.effects.notify(notify.Error(noticeMissingSignIn, apperrors.UserMessage(vErr, validation.MsgSignInIncomplete)))
		return domainauth.User{}, vErr
	}
	c.setFormError(nil)

	return c.signIn(ctx, MsgSignInFailed, func(ctx context.Context) (domainauth.User, error) {
		return c.api.SignIn(ctx, creds)
	})
}

// SignInWithIdentity signs in with an identity asserted by an external provider.
func (c *AuthController) SignInWithIdentity(ctx context.Context, id domainauth.Identity) (user domainauth.User, err error) {
	defer c.metrics.Since(metrics.FormIdentity, time.Now(), &err)

	if id.Email == "" {
		return domainauth.User{}, apperrors.ValidationField("email", MsgIdentityFailed)
	}
	return c.signIn(ctx, MsgIdentityFailed, func(ctx context.Context) (domainauth.User, error) {
		return c.api.SignInWithIdentity(ctx, id)
	})
}

// IdentityFailed reports an identity-provider flow that failed before the
// backend was reached (denied consent, bad state, token exchange). The
// session is not touched.
func (c *AuthController) IdentityFailed(ctx context.Context, err error) {
	c.logger.WarnContext(ctx, "identity provider flow failed", "error", err)
	c.effects.notify(notify.Error(noticeAuth, MsgIdentityFailed))
	c.effects.navigate(PathSignIn)
}

func (c *AuthController) signIn(
	ctx context.Context,
	fallback string,
	call func(context.Context) (domainauth.User, error),
) (domainauth.User, error) {
	ticket, ok := c.store.Begin()
	if !ok {
		return domainauth.User{}, apperrors.Busy(MsgBusy)
	}
	gen := c.gen.Load()

	user, err := call(ctx)
	if err != nil {
		c.fail(ctx, ticket, gen, err, fallback)
		return domainauth.User{}, err
	}

	if _, applied := c.store.Finish(ticket, session.SignInSuccess(user)); !applied {
		c.logger.InfoContext(ctx, "sign-in result discarded after sign out", "user_id", user.ID)
		return domainauth.User{}, apperrors.Canceled(MsgSignInDiscarded)
	}
	c.logger.InfoContext(ctx, "signed in", "user_id", user.ID)
	if c.current(gen) {
		c.effects.notify(notify.Success(noticeAuth, MsgSignedIn))
		c.effects.navigate(PathHome)
	}
	return user, nil
}

// SubmitSignUp validates the sign-up form locally and registers the account.
// Local validation failures are reported through FormError and never reach
// the backend or the session error.
func (c *AuthController) SubmitSignUp(ctx context.Context, in domainauth.SignUpInput) (err error) {
	defer c.metrics.Since(metrics.FormSignUp, time.Now(), &err)

	in = in.Normalize()
	if vErr := validation.SignUp(in); vErr != nil {
		c.setFormError(vErr)
		return vErr
	}
	c.setFormError(nil)

	ticket, ok := c.store.Begin()
	if !ok {
		return apperrors.Busy(MsgBusy)
	}
	gen := c.gen.Load()

	if err = c.api.SignUp(ctx, in); err != nil {
		c.fail(ctx, ticket, gen, err, MsgSignUpFailed)
		return err
	}

	if _, applied := c.store.Finish(ticket, session.SignUpComplete()); !applied {
		return apperrors.Canceled(MsgSignInDiscarded)
	}
	c.logger.InfoContext(ctx, "signed up")
	if c.current(gen) {
		c.effects.notify(notify.Success(noticeAuth, MsgSignedUp))
		c.effects.navigate(PathVerifyEmail)
	}
	return nil
}

// SignOut clears the session locally, then asks the backend to drop its
// cookie. A backend failure is logged and otherwise ignored. A sign-in still
// in flight keeps the session pending, and its result is discarded without
// notices or navigation.
func (c *AuthController) SignOut(ctx context.Context) {
	c.gen.Add(1)
	c.store.Dispatch(session.SignOut())
	c.effects.notify(notify.Info(noticeAuth, MsgSignedOut))
	if err := c.api.SignOut(ctx); err != nil {
		c.logger.WarnContext(ctx, "backend sign out failed", "error", err)
	}
}

// fail records err as the auth error. Unverified accounts are sent to the
// verification page when the view is still current.
func (c *AuthController) fail(ctx context.Context, ticket session.Ticket, gen uint64, err error, fallback string) {
	msg := failureMessage(err, fallback)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	_, applied := c.store.Finish(ticket, session.SignInFailure(msg, code))
	c.logger.InfoContext(ctx, "auth request failed", "code", code, "error", err)

	if !applied || !c.current(gen) {
		return
	}
	c.effects.notify(notify.Error(noticeAuth, msg))
	if apperrors.IsVerificationRequired(err) {
		c.effects.navigate(PathVerifyEmail)
	}
}

func (c *AuthController) current(gen uint64) bool {
	return c.gen.Load() == gen
}

func (c *AuthController) setFormError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.formField, c.formError = "", ""
		return
	}
	c.formField = apperrors.GetField(err)
	c.formError = apperrors.UserMessage(err, err.Error())
}

// failureMessage picks the message to show for a failed request. Network
// failures always read as a connectivity problem.
func failureMessage(err error, fallback string) string {
	if apperrors.IsNetwork(err) {
		return apperrors.UserMessage(err, MsgNetworkConnection)
	}
	return apperrors.UserMessage(err, fallback)
}
