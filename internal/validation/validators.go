package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty.
func Required(message string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return message
		}
		return ""
	}
}

// RuneRange validates that a trimmed field is between minLen and maxLen characters.
// Uses rune count for proper Unicode support.
func RuneRange(message string, minLen, maxLen int) Validator {
	return func(v string) string {
		n := utf8.RuneCountInString(strings.TrimSpace(v))
		if n < minLen || n > maxLen {
			return message
		}
		return ""
	}
}

// MinRunes validates that a field has at least minLen characters. The value is not trimmed.
func MinRunes(message string, minLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < minLen {
			return message
		}
		return ""
	}
}

// MaxRunes validates that an optional field does not exceed maxLen characters.
func MaxRunes(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// ContainsAny validates that v contains at least one rune from chars.
func ContainsAny(message, chars string) Validator {
	return func(v string) string {
		if !strings.ContainsAny(v, chars) {
			return message
		}
		return ""
	}
}

// Email validates a bare e-mail address (no display name).
func Email(message string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndexByte(v, '@')+1:], ".") {
			return message
		}
		return ""
	}
}

// HTTPSURL validates that a field is a valid HTTP(S) URL and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func HTTPSURL(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		p, e := url.Parse(v)
		if e != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return "Enter a valid http(s) URL."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
// Fields are checked in the order they are passed and the first failing
// field is remembered so forms can report a single message.
type FieldValidator struct {
	errors map[string]string
	first  string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			if fv.first == "" {
				fv.first = field
			}
			break
		}
	}
	return fv
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}

// First returns the first failing field and its message.
func (fv *FieldValidator) First() (field, message string, ok bool) {
	if fv.first == "" {
		return "", "", false
	}
	return fv.first, fv.errors[fv.first], true
}
