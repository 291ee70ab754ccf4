// Command blogctl drives the blog's sign-in, sign-up, post composer and
// contact form from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abctechblog/blogfront/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		out:        os.Stdout,
		errOut:     os.Stderr,
		prompt:     surveyPrompter{},
		loadConfig: bootstrap.LoadConfig,
	}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		if !errors.Is(err, errShown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1) //nolint:forbidigo // CLI must propagate command failure to callers
	}
}
