package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/abctechblog/blogfront/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: apperrors.Busy("busy"), want: "busy"},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("submit: %w", apperrors.VerificationRequired("verify")),
			want: "verification_required",
		},
		{
			name: "app error code wins over cause",
			err:  apperrors.Network(&net.OpError{Op: "dial", Err: context.DeadlineExceeded}, "down"),
			want: "network",
		},
		{name: "canceled", err: fmt.Errorf("upload: %w", context.Canceled), want: "canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "transport", err: fmt.Errorf("post: %w", &net.OpError{Op: "dial", Err: goerrors.New("refused")}), want: "network"},
		{name: "plain wrapped error", err: fmt.Errorf("x: %w", &os.PathError{Op: "open"}), want: "fs_patherror"},
		{name: "string error", err: goerrors.New("boom"), want: "errors_errorstring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
