package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	admin := Session{Token: "t", Role: "admin"}
	user := Session{Token: "t", Role: "user"}
	odd := Session{Token: "t", Role: "librarian"}

	tests := []struct {
		name    string
		session Session
		current Page
		want    Page
		moved   bool
	}{
		{"no token on admin", Session{}, PageAdmin, PageAuth, true},
		{"no token on dashboard", Session{Role: "admin"}, PageDashboard, PageAuth, true},
		{"no token on root", Session{}, PageRoot, PageAuth, true},
		{"no token already on auth", Session{}, PageAuth, PageAuth, false},
		{"admin on root", admin, PageRoot, PageAdmin, true},
		{"admin on index", admin, PageIndex, PageAdmin, true},
		{"user on root", user, PageRoot, PageDashboard, true},
		{"user on admin", user, PageAdmin, PageDashboard, true},
		{"admin on dashboard", admin, PageDashboard, PageAdmin, true},
		{"admin stays on admin", admin, PageAdmin, PageAdmin, false},
		{"user stays on dashboard", user, PageDashboard, PageDashboard, false},
		{"logged in on auth stays", user, PageAuth, PageAuth, false},
		{"malformed role on root", odd, PageRoot, PageAuth, true},
		{"malformed role on admin", odd, PageAdmin, PageAuth, true},
		{"malformed role on dashboard", odd, PageDashboard, PageAuth, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := Guard(tt.session, tt.current)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.moved, moved)
		})
	}
}

func TestGuardIsIdempotent(t *testing.T) {
	for _, s := range []Session{{}, {Token: "t", Role: "admin"}, {Token: "t", Role: "user"}, {Token: "t", Role: "x"}} {
		for _, p := range []Page{PageAuth, PageRoot, PageAdmin, PageDashboard} {
			first, _ := Guard(s, p)
			second, moved := Guard(s, first)
			assert.Equal(t, first, second, "session %+v page %s", s, p)
			assert.False(t, moved, "session %+v page %s", s, p)
		}
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, PageAdmin, Resolve(Session{Token: "t1", Role: "admin"}, PageRoot))
	assert.Equal(t, PageDashboard, Resolve(Session{Token: "t1", Role: "user"}, PageRoot))
	assert.Equal(t, PageAuth, Resolve(Session{}, PageDashboard))
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(Session{Token: "t", Role: "admin"}, PageAdmin))

	err := Require(Session{Token: "t", Role: "user"}, PageAdmin)
	var redirectErr *RedirectError
	require.True(t, errors.As(err, &redirectErr))
	assert.Equal(t, PageAdmin, redirectErr.From)
	assert.Equal(t, PageDashboard, redirectErr.To)
	assert.Contains(t, err.Error(), "not available for this role")

	err = Require(Session{}, PageDashboard)
	require.True(t, errors.As(err, &redirectErr))
	assert.Equal(t, PageAuth, redirectErr.To)
	assert.Contains(t, err.Error(), "requires a login")
}
