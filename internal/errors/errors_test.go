package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeRejected,
				Message: "Invalid credentials",
			},
			want: "Invalid credentials",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeNetwork,
				Message: "request failed",
				Cause:   errors.New("connection refused"),
			},
			want: "request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Network(cause, "wrapped error")

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find cause through AppError")
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("password", "Password must be at least 8 characters long")
	if err.Code != ErrCodeValidation {
		t.Errorf("ValidationField().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "password" {
		t.Errorf("ValidationField().Field = %v, want password", err.Field)
	}
}

func TestRejected(t *testing.T) {
	err := Rejected(401, "Invalid password")
	if err.Code != ErrCodeRejected {
		t.Errorf("Rejected().Code = %v, want %v", err.Code, ErrCodeRejected)
	}
	if err.Status != 401 {
		t.Errorf("Rejected().Status = %d, want 401", err.Status)
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "nothing"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestPredicates(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("outer: %w", err) }

	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"validation", Validation("x"), IsValidation, true},
		{"validation wrapped", wrapped(Validation("x")), IsValidation, true},
		{"rejected", Rejected(400, "x"), IsRejected, true},
		{"conflict counts as rejected", Conflict("x"), IsRejected, true},
		{"verification counts as rejected", VerificationRequired("x"), IsRejected, true},
		{"verification", wrapped(VerificationRequired("x")), IsVerificationRequired, true},
		{"network", Network(errors.New("dial"), "x"), IsNetwork, true},
		{"timeout counts as network", &AppError{Code: ErrCodeTimeout}, IsNetwork, true},
		{"busy", Busy("x"), IsBusy, true},
		{"busy is not rejected", Busy("x"), IsRejected, false},
		{"plain error", errors.New("x"), IsValidation, false},
		{"nil", nil, IsNetwork, false},
		{"unauthenticated is not rejected", Unauthenticated("x"), IsRejected, false},
		{"canceled", Canceled("x"), IsCanceled, true},
		{"canceled counts as network", Canceled("x"), IsNetwork, true},
		{"timeout", &AppError{Code: ErrCodeTimeout}, IsTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("wrap: %w", Conflict("taken"))); got != ErrCodeConflict {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeConflict)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestGetField(t *testing.T) {
	if got := GetField(ValidationField("username", "x")); got != "username" {
		t.Errorf("GetField() = %v, want username", got)
	}
	if got := GetField(Validation("x")); got != "" {
		t.Errorf("GetField() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Network(errors.New("dial tcp"), "Network error"), "fallback"); got != "Network error" {
		t.Errorf("UserMessage() = %q, want message without cause", got)
	}
	if got := UserMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage(plain) = %q, want fallback", got)
	}
	if got := UserMessage(Rejected(500, ""), "fallback"); got != "fallback" {
		t.Errorf("UserMessage(empty) = %q, want fallback", got)
	}
}
