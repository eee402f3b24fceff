package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"library-console/api"
	"library-console/console"
	"library-console/library"
)

// app is what every command works with: the session store, the screen and
// the prompt.
type app struct {
	sessions *library.SessionStore
	screen   *console.TerminalScreen
	prompt   *console.Prompter
	out      io.Writer
}

func openApp(cmd *cobra.Command) (*app, error) {
	path := statePath
	if path == "" {
		path = cfg.StatePath
	}
	sessions, err := library.NewSessionStore(path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := console.PlainStyles()
	if f, isFile := out.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		styles = console.DefaultStyles()
	}

	return &app{
		sessions: sessions,
		screen:   console.NewTerminalScreen(out, styles),
		prompt:   console.NewPrompter(cmd.InOrStdin(), out),
		out:      out,
	}, nil
}

func (a *app) Close() {
	if err := a.sessions.Close(); err != nil {
		logger.Warn("close session store", zap.Error(err))
	}
}

// enter loads the session and checks it may use page.
func (a *app) enter(page library.Page) (library.Session, error) {
	sess, err := a.sessions.Load()
	if err != nil {
		return library.Session{}, fmt.Errorf("load session: %w", err)
	}
	if err := library.Require(sess, page); err != nil {
		return library.Session{}, err
	}
	return sess, nil
}

// apiBase picks the base for authenticated calls: the flag, else the base
// the token was issued by, else the configured one.
func apiBase(sess library.Session) string {
	for _, b := range []string{baseURL, sess.BaseURL, cfg.BaseURL} {
		if b != "" {
			return b
		}
	}
	return ""
}

// loginBase picks the base offered for login and signup.
func loginBase(sess library.Session) string {
	for _, b := range []string{baseURL, cfg.BaseURL, sess.BaseURL} {
		if b != "" {
			return api.NormalizeBase(b)
		}
	}
	return api.DefaultBase
}

func newClient(base string, token string) *api.Client {
	return api.NewClient(base,
		api.WithLogger(logger),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithToken(token),
	)
}

func (a *app) confirmer() console.Confirmer {
	if assumeYes {
		return console.AlwaysConfirm
	}
	return a.prompt
}

func (a *app) authForms() *console.AuthForms {
	return console.NewAuthForms(func(base string) console.AuthAPI {
		return newClient(base, "")
	}, a.sessions, logger)
}

func (a *app) adminConsole(sess library.Session) *console.AdminConsole {
	return console.NewAdminConsole(newClient(apiBase(sess), sess.Token), a.screen, a.confirmer(), logger)
}

func (a *app) userConsole(sess library.Session) *console.UserConsole {
	return console.NewUserConsole(newClient(apiBase(sess), sess.Token), a.screen, logger)
}

// report prints successful and cancelled statuses and turns failures into
// the command's error.
func (a *app) report(st console.Status) error {
	if st.Success || st == console.Cancelled {
		a.screen.PrintStatus(st)
		return nil
	}
	return errors.New(st.Text)
}
