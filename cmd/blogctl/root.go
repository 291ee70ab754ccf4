package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abctechblog/blogfront/config"
	"github.com/abctechblog/blogfront/internal/bootstrap"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/service"
)

const workspaceID = "blogctl"

// errShown marks failures whose message already reached the user as a notice.
var errShown = errors.New("command failed")

type app struct {
	out        io.Writer
	errOut     io.Writer
	prompt     prompter
	loadConfig func() (config.AppConfig, error)
	verbose    bool

	cfg      config.AppConfig
	logger   *slog.Logger
	services *bootstrap.ServiceContainer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "blogctl",
		Short: "Terminal client for ABC Tech Blog",
		Long: `blogctl signs in to ABC Tech Blog, publishes posts from HTML files and
sends contact messages, using the same rules as the web client.

The backend and contact relay are configured through the same environment
variables as blogfront (BACKEND_URL, WEB3FORMS_ACCESS_KEY, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and outcomes to stderr")

	root.AddCommand(
		newSignInCmd(a),
		newSignUpCmd(a),
		newPostCmd(a),
		newContactCmd(a),
		newProjectsCmd(a),
		newCommunityCmd(a),
		newCategoriesCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	logCfg := cfg.Log
	logCfg.Format = "text"
	logCfg.Level = "warn"
	if a.verbose {
		logCfg.Level = "debug"
	}
	a.logger = bootstrap.NewLogger(a.errOut, logCfg)
	return nil
}

// workspace builds the single workspace a CLI run works in.
func (a *app) workspace(ctx context.Context) (*service.Workspace, error) {
	if a.services == nil {
		svc, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{Config: &a.cfg, Logger: a.logger})
		if err != nil {
			return nil, err
		}
		a.services = svc
	}
	return a.services.Registry.Get(ctx, workspaceID)
}

func (a *app) close() {
	if a.services != nil {
		_ = a.services.Close()
	}
}

// flush prints and clears the workspace's notices.
func (a *app) flush(ws *service.Workspace) int {
	notices := ws.Notices.Drain()
	for _, n := range notices {
		fmt.Fprintf(a.out, "%s %s\n", toneMark(n.Tone), n.Message)
	}
	return len(notices)
}

// report flushes notices and turns err into the error the command returns.
func (a *app) report(ws *service.Workspace, err error, fallback string) error {
	shown := a.flush(ws)
	if err == nil {
		return nil
	}
	if shown > 0 {
		return fmt.Errorf("%w: %w", errShown, err)
	}
	return errors.New(apperrors.UserMessage(err, fallback))
}

func toneMark(t notify.Tone) string {
	switch t {
	case notify.ToneSuccess:
		return "✔"
	case notify.ToneError:
		return "✖"
	default:
		return "•"
	}
}

func addEmailFlag(fs *pflag.FlagSet, email *string) {
	fs.StringVarP(email, "email", "e", "", "account e-mail (prompted when empty)")
}
