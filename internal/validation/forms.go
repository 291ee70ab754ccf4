// Package validation holds field validators and the client-side rules each
// form applies before anything is sent to the backend.
package validation

import (
	"strconv"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/domain/contact"
	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
)

// SpecialChars is the set a sign-up password must draw at least one character from.
const SpecialChars = "!@#$%^&*"

const digits = "0123456789"

// Sign-up limits.
const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 20
	PasswordMinLength = 8
)

// User-facing messages for local validation failures.
const (
	MsgSignInIncomplete = "Please fill all the fields"
	MsgSignUpIncomplete = "Please fill out all fields"
	MsgUsernameLength   = "Username must be between 3 and 20 characters long"
	MsgPasswordShort    = "Password must be at least 8 characters long"
	MsgPasswordDigit    = "Password must contain at least one digit (0-9)"
	MsgPasswordSpecial  = "Password must contain at least one special character (e.g., !@#$%^&*)"
	MsgContactName      = "Please enter your name"
	MsgContactEmail     = "Please enter your email"
	MsgContactEmailFmt  = "Please enter a valid email address"
	MsgContactSubject   = "Please enter a subject"
	MsgContactMessage   = "Please enter a message"
	MsgPostCategory     = "Please choose a valid category"
	MsgImageMissing     = "Please select an image"
)

// SignIn checks that both credentials are present.
func SignIn(c domainauth.Credentials) error {
	c = c.Normalize()
	switch {
	case c.Email == "":
		return apperrors.ValidationField("email", MsgSignInIncomplete)
	case c.Password == "":
		return apperrors.ValidationField("password", MsgSignInIncomplete)
	}
	return nil
}

// SignUp applies the sign-up rules in order: completeness, username length,
// then the password length, digit and special-character rules.
func SignUp(in domainauth.SignUpInput) error {
	in = in.Normalize()
	complete := New().
		Validate("username", in.Username, Required(MsgSignUpIncomplete)).
		Validate("email", in.Email, Required(MsgSignUpIncomplete)).
		Validate("password", in.Password, Required(MsgSignUpIncomplete))
	if err := firstError(complete); err != nil {
		return err
	}

	rules := New().
		Validate("username", in.Username, RuneRange(MsgUsernameLength, UsernameMinLen, UsernameMaxLen)).
		Validate("password", in.Password,
			MinRunes(MsgPasswordShort, PasswordMinLength),
			ContainsAny(MsgPasswordDigit, digits),
			ContainsAny(MsgPasswordSpecial, SpecialChars),
		)
	return firstError(rules)
}

// Contact checks the contact form. Every field is required and the e-mail must parse.
func Contact(m contact.Message) error {
	m = m.Normalize()
	fv := New().
		Validate("name", m.Name, Required(MsgContactName), MaxRunes("Name", 100)).
		Validate("email", m.Email, Required(MsgContactEmail), Email(MsgContactEmailFmt)).
		Validate("subject", m.Subject, Required(MsgContactSubject), MaxRunes("Subject", 200)).
		Validate("message", m.Message, Required(MsgContactMessage), MaxRunes("Message", 5000))
	return firstError(fv)
}

// Asset checks that a file was selected and is within maxBytes (0 disables the limit).
func Asset(a domainpost.Asset, maxBytes int64) error {
	if a.Empty() {
		return apperrors.ValidationField("file", MsgImageMissing)
	}
	if maxBytes > 0 && a.Size() > maxBytes {
		return apperrors.ValidationField("file", "Image must be smaller than "+humanBytes(maxBytes))
	}
	return nil
}

func firstError(fv *FieldValidator) error {
	field, msg, ok := fv.First()
	if !ok {
		return nil
	}
	return apperrors.ValidationField(field, msg)
}

func humanBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + " MB"
	}
	const kb = 1 << 10
	if n >= kb && n%kb == 0 {
		return strconv.FormatInt(n/kb, 10) + " KB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
