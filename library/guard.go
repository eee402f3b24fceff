package library

import "fmt"

// Page is a console screen. The values double as the route names the web
// client used, so logs and errors read the same way.
type Page string

const (
	PageAuth      Page = "/auth"
	PageRoot      Page = "/"
	PageIndex     Page = "/index.html"
	PageAdmin     Page = "/admin"
	PageDashboard Page = "/dashboard"
)

// Guard decides where a session may be. It returns the page to go to and
// whether that differs from current.
//
// Without a token everything leads to the auth page. With one, the root page
// forwards by role, and each console turns away the other role. A role that is
// neither admin nor user cannot use any console and is sent back to auth.
func Guard(s Session, current Page) (Page, bool) {
	if !s.LoggedIn() {
		return redirect(current, PageAuth)
	}

	role, ok := ParseRole(s.Role)

	switch current {
	case PageAuth:
		return current, false
	case PageRoot, PageIndex:
		if !ok {
			return redirect(current, PageAuth)
		}
		if role == RoleAdmin {
			return redirect(current, PageAdmin)
		}
		return redirect(current, PageDashboard)
	case PageAdmin:
		if !ok {
			return redirect(current, PageAuth)
		}
		if role == RoleUser {
			return redirect(current, PageDashboard)
		}
	case PageDashboard:
		if !ok {
			return redirect(current, PageAuth)
		}
		if role == RoleAdmin {
			return redirect(current, PageAdmin)
		}
	}
	return current, false
}

func redirect(current, target Page) (Page, bool) {
	return target, current != target
}

// maxHops bounds Resolve; the guard settles in at most two.
const maxHops = 4

// Resolve follows Guard until the page is stable.
func Resolve(s Session, start Page) Page {
	page := start
	for i := 0; i < maxHops; i++ {
		next, moved := Guard(s, page)
		if !moved {
			return next
		}
		page = next
	}
	return page
}

// RedirectError is returned by one-shot commands whose page the guard refused.
type RedirectError struct {
	From Page
	To   Page
}

func (e *RedirectError) Error() string {
	if e.To == PageAuth {
		return fmt.Sprintf("%s requires a login: redirected to %s", e.From, e.To)
	}
	return fmt.Sprintf("%s is not available for this role: redirected to %s", e.From, e.To)
}

// Require returns a *RedirectError unless the session may stay on page.
func Require(s Session, page Page) error {
	if target := Resolve(s, page); target != page {
		return &RedirectError{From: page, To: target}
	}
	return nil
}
