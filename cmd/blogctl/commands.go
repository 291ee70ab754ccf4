package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abctechblog/blogfront/internal/catalog"
	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/domain/contact"
	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	"github.com/abctechblog/blogfront/internal/service"
)

func newSignInCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:     "signin",
		Aliases: []string{"login"},
		Short:   "Sign in with e-mail and password",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := a.workspace(cmd.Context())
			if err != nil {
				return err
			}
			return a.signIn(cmd.Context(), ws, email)
		},
	}
	addEmailFlag(cmd.Flags(), &email)
	return cmd
}

func (a *app) signIn(ctx context.Context, ws *service.Workspace, email string) error {
	var err error
	if email == "" {
		if email, err = a.prompt.Input(ctx, "E-mail", ""); err != nil {
			return err
		}
	}
	password, err := a.prompt.Password(ctx, "Password")
	if err != nil {
		return err
	}

	ws.Auth.Enter()
	user, err := ws.Auth.SubmitSignIn(ctx, domainauth.Credentials{Email: email, Password: password})
	next := ws.Redirects.Take()
	if err := a.report(ws, err, service.MsgSignInFailed); err != nil {
		if next == service.PathVerifyEmail {
			fmt.Fprintln(a.out, "Verify your e-mail address, then sign in again.")
		}
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", user.Username)
	return nil
}

func newSignUpCmd(a *app) *cobra.Command {
	var in domainauth.SignUpInput
	cmd := &cobra.Command{
		Use:     "signup",
		Aliases: []string{"register"},
		Short:   "Create an account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var err error
			if in.Username == "" {
				if in.Username, err = a.prompt.Input(ctx, "Username", ""); err != nil {
					return err
				}
			}
			if in.Email == "" {
				if in.Email, err = a.prompt.Input(ctx, "E-mail", ""); err != nil {
					return err
				}
			}
			if in.Password, err = a.prompt.Password(ctx, "Password"); err != nil {
				return err
			}

			ws, err := a.workspace(ctx)
			if err != nil {
				return err
			}
			ws.Auth.Enter()
			err = ws.Auth.SubmitSignUp(ctx, in)
			if err := a.report(ws, err, service.MsgSignUpFailed); err != nil {
				return err
			}
			if ws.Redirects.Take() == service.PathVerifyEmail {
				fmt.Fprintf(a.out, "We sent a verification link to %s.\n", strings.TrimSpace(in.Email))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "display name (prompted when empty)")
	addEmailFlag(cmd.Flags(), &in.Email)
	return cmd
}

func newPostCmd(a *app) *cobra.Command {
	var email, title, category, image string
	cmd := &cobra.Command{
		Use:   "post FILE.html",
		Short: "Publish a post whose body is read from an HTML file",
		Long: `Publish a post. The body is read from FILE.html and sanitised before it is
sent. A cover image is optional; the blog's placeholder is used without one.
Publishing requires signing in first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read post body: %w", err)
			}
			var asset domainpost.Asset
			if image != "" {
				if asset, err = readImage(image); err != nil {
					return err
				}
			}

			ws, err := a.workspace(ctx)
			if err != nil {
				return err
			}
			if err = a.signIn(ctx, ws, email); err != nil {
				return err
			}

			if title == "" {
				if title, err = a.prompt.Input(ctx, "Title", strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))); err != nil {
					return err
				}
			}
			if category == "" {
				if category, err = a.chooseCategory(ctx); err != nil {
					return err
				}
			}

			ws.Composer.Mount()
			defer ws.Composer.Unmount()
			html := string(body)
			view, err := ws.Composer.Edit(service.DraftEdit{Title: &title, Category: &category, BodyHTML: &html})
			if err != nil {
				return a.report(ws, err, service.MsgPublishFailed)
			}
			if a.verbose {
				fmt.Fprintf(a.errOut, "%d min read: %s\n", view.Preview.ReadingMinutes, view.Preview.Excerpt)
			}
			if !asset.Empty() {
				ws.Composer.SelectAsset(asset)
				_, err = ws.Composer.UploadAsset(ctx)
				if err := a.report(ws, err, service.MsgUploadFailed); err != nil {
					return err
				}
			}

			created, err := ws.Composer.SubmitCreatePost(ctx)
			if err := a.report(ws, err, service.MsgPublishFailed); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Published at %s\n", created.Path())
			return nil
		},
	}
	addEmailFlag(cmd.Flags(), &email)
	cmd.Flags().StringVarP(&title, "title", "t", "", "post title (prompted when empty)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category value, see 'blogctl categories' (prompted when empty)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "cover image file")
	return cmd
}

func (a *app) chooseCategory(ctx context.Context) (string, error) {
	opts := domainpost.Categories()
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	idx, err := a.prompt.Select(ctx, "Category", labels)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(opts) {
		return "", fmt.Errorf("category choice %d out of range", idx)
	}
	return string(opts[idx].Value), nil
}

func readImage(path string) (domainpost.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domainpost.Asset{}, fmt.Errorf("read image: %w", err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return domainpost.Asset{Filename: filepath.Base(path), ContentType: ct, Data: data}, nil
}

func newContactCmd(a *app) *cobra.Command {
	var msg contact.Message
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the blog team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var err error
			if msg.Name == "" {
				if msg.Name, err = a.prompt.Input(ctx, "Name", ""); err != nil {
					return err
				}
			}
			if msg.Email == "" {
				if msg.Email, err = a.prompt.Input(ctx, "E-mail", ""); err != nil {
					return err
				}
			}
			if msg.Subject == "" {
				if msg.Subject, err = a.prompt.Input(ctx, "Subject", ""); err != nil {
					return err
				}
			}
			if msg.Message, err = a.prompt.Multiline(ctx, "Message"); err != nil {
				return err
			}

			ws, err := a.workspace(ctx)
			if err != nil {
				return err
			}
			ws.Contact.Edit(msg)
			err = ws.Contact.Submit(ctx)
			return a.report(ws, err, service.MsgContactFailed)
		},
	}
	cmd.Flags().StringVarP(&msg.Name, "name", "n", "", "your name (prompted when empty)")
	addEmailFlag(cmd.Flags(), &msg.Email)
	cmd.Flags().StringVarP(&msg.Subject, "subject", "s", "", "subject line (prompted when empty)")
	return cmd
}

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List showcase projects",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tTECH\tREPOSITORY")
			for _, p := range cat.Projects() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, strings.Join(p.Tech, ", "), p.GitHubURL)
			}
			return tw.Flush()
		},
	}
}

func newCommunityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "community",
		Short: "List community links",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tURL")
			for _, l := range cat.Community() {
				fmt.Fprintf(tw, "%s\t%s\n", l.Title, l.URL)
			}
			return tw.Flush()
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List post categories",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VALUE\tLABEL")
			for _, c := range domainpost.Categories() {
				fmt.Fprintf(tw, "%s\t%s\n", c.Value, c.Label)
			}
			return tw.Flush()
		},
	}
}
