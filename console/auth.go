package console

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"library-console/api"
	"library-console/library"
)

// Mode is the form the auth page shows.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// AuthAPI is the part of the API the auth page needs.
type AuthAPI interface {
	Signup(ctx context.Context, req api.SignupRequest) (api.Payload, error)
	Login(ctx context.Context, username, password string) (api.LoginResponse, error)
}

// SessionWriter persists and forgets the session.
type SessionWriter interface {
	Save(s library.Session) error
	Clear() error
}

// AuthForms drives signup, login and logout. Each call takes the base URL
// typed for it, so connect builds a client per base.
type AuthForms struct {
	connect  func(base string) AuthAPI
	sessions SessionWriter
	logger   *zap.Logger
	mode     Mode
}

// NewAuthForms starts in login mode.
func NewAuthForms(connect func(base string) AuthAPI, sessions SessionWriter, logger *zap.Logger) *AuthForms {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthForms{connect: connect, sessions: sessions, logger: logger}
}

func (f *AuthForms) Mode() Mode  { return f.mode }
func (f *AuthForms) ShowLogin()  { f.mode = ModeLogin }
func (f *AuthForms) ShowSignup() { f.mode = ModeSignup }

// Toggle flips between login and signup.
func (f *AuthForms) Toggle() {
	if f.mode == ModeLogin {
		f.mode = ModeSignup
		return
	}
	f.mode = ModeLogin
}

// Title is the heading of the current form.
func (f *AuthForms) Title() string {
	if f.mode == ModeSignup {
		return "Sign Up"
	}
	return "Login"
}

// ToggleHint tells the user how to reach the other form.
func (f *AuthForms) ToggleHint() string {
	if f.mode == ModeSignup {
		return "Already have an account? Login"
	}
	return "Don't have an account? Sign up"
}

// Signup registers an account and switches to the login form on success.
func (f *AuthForms) Signup(ctx context.Context, base, username, password, role string) Status {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return failure("Please provide username and password.")
	}
	if _, valid := library.ParseRole(role); !valid {
		return failure("Role must be admin or user.")
	}

	base = api.NormalizeBase(base)
	_, err := f.connect(base).Signup(ctx, api.SignupRequest{Username: username, Password: password, Role: role})
	if err != nil {
		return f.requestFailure("signup", err, func(e *api.APIError) string {
			return or(e.Message(""), "Signup failed.")
		})
	}

	f.logger.Info("signed up", zap.String("username", username), zap.String("role", role))
	f.ShowLogin()
	return success("Signup successful! You can login now.")
}

// Login stores the session and sends the user to the root page, which the
// guard forwards by role.
func (f *AuthForms) Login(ctx context.Context, base, username, password string) Status {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return failure("Please enter username and password.")
	}

	base = api.NormalizeBase(base)
	res, err := f.connect(base).Login(ctx, username, password)
	if err != nil {
		return f.requestFailure("login", err, func(e *api.APIError) string {
			return e.Message("Invalid credentials")
		})
	}
	if res.Token == "" {
		msg := res.Payload.String("error")
		if msg == "" {
			msg = res.Payload.String("message")
		}
		if msg == "" {
			msg = "Invalid credentials"
		}
		return failure(msg)
	}

	if err := f.sessions.Save(library.Session{Token: res.Token, Role: res.Role, BaseURL: base}); err != nil {
		return failure("Could not save session: " + err.Error())
	}
	f.logger.Info("logged in", zap.String("username", username), zap.String("role", res.Role))

	st := success("Login successful — redirecting...")
	st.Next = library.PageRoot
	return st
}

// Logout forgets the session.
func (f *AuthForms) Logout() Status {
	if err := f.sessions.Clear(); err != nil {
		return failure("Could not clear session: " + err.Error())
	}
	st := success("Logged out.")
	st.Next = library.PageRoot
	return st
}

func (f *AuthForms) requestFailure(op string, err error, message func(*api.APIError) string) Status {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		f.logger.Debug(op+" rejected", zap.Int("status", apiErr.StatusCode))
		return failure(message(apiErr))
	}
	f.logger.Warn(op+" failed", zap.Error(err))
	return failure("Network error: " + err.Error())
}
