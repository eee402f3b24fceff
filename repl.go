package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-console/console"
	"library-console/library"
)

// command is one entry of a page's command set.
type command struct {
	name string
	help string
	run  func(ctx context.Context) console.Status
}

// repl is the interactive console. It sits on one page at a time; the guard
// decides which, and the page decides which commands exist.
type repl struct {
	app   *app
	forms *console.AuthForms
	page  library.Page
	cmds  []command
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r := &repl{app: a, forms: a.authForms()}
	return r.run(cmd.Context())
}

func (r *repl) run(ctx context.Context) error {
	out := r.app.out
	fmt.Fprintln(out, "Welcome to the Library Management Console!")
	if err := r.navigate(ctx, library.PageRoot); err != nil {
		return err
	}

	for {
		line, more := r.app.prompt.Line(fmt.Sprintf("\n%s> ", r.page))
		if !more || ctx.Err() != nil {
			fmt.Fprintln(out)
			return nil
		}

		// the session may have changed under us (another lms process)
		if err := r.recheck(ctx); err != nil {
			return err
		}

		switch line {
		case "":
			continue
		case "help":
			r.help()
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		c, found := r.lookup(line)
		if !found {
			fmt.Fprintln(out, "Unknown command. Type 'help' to see the commands of this page.")
			continue
		}

		st := c.run(ctx)
		r.app.screen.PrintStatus(st)
		if st.Next != "" {
			if err := r.navigate(ctx, st.Next); err != nil {
				return err
			}
		}
	}
}

func (r *repl) lookup(name string) (command, bool) {
	for _, c := range r.cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (r *repl) recheck(ctx context.Context) error {
	sess, err := r.app.sessions.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if library.Resolve(sess, r.page) != r.page {
		return r.navigate(ctx, r.page)
	}
	return nil
}

// navigate asks the guard where page leads and switches the command set.
func (r *repl) navigate(ctx context.Context, page library.Page) error {
	sess, err := r.app.sessions.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	target := library.Resolve(sess, page)
	if target != page {
		logger.Debug("redirect", zap.String("from", string(page)), zap.String("to", string(target)))
	}
	r.page = target

	out := r.app.out
	switch target {
	case library.PageAdmin:
		r.cmds = r.adminCommands(r.app.adminConsole(sess))
		fmt.Fprintln(out, "\nAdmin console")
	case library.PageDashboard:
		user := r.app.userConsole(sess)
		r.cmds = r.userCommands(user)
		fmt.Fprintln(out, "\nUser dashboard")
		r.app.screen.PrintStatus(user.Load(ctx))
	default:
		r.cmds = r.authCommands(sess)
		fmt.Fprintf(out, "\n%s\n%s\n", r.forms.Title(), r.forms.ToggleHint())
	}
	r.help()
	return nil
}

func (r *repl) help() {
	out := r.app.out
	fmt.Fprintln(out, "Available commands:")
	for _, c := range r.cmds {
		fmt.Fprintf(out, "  %-16s %s\n", c.name, c.help)
	}
	fmt.Fprintf(out, "  %-16s %s\n", "help", "Show this list")
	fmt.Fprintf(out, "  %-16s %s\n", "exit", "Leave the console")
}

// ask prompts for one line; end of input reads as empty.
func (r *repl) ask(label string) string {
	s, _ := r.app.prompt.Line(label + ": ")
	return s
}

func (r *repl) askPassword(label string) string {
	s, err := r.app.prompt.Password(label + ": ")
	if err != nil {
		fmt.Fprintf(r.app.out, "Error reading password: %v\n", err)
		return ""
	}
	return s
}

// ---------------------------------------------------------------------------
// Auth page
// ---------------------------------------------------------------------------

func (r *repl) authCommands(sess library.Session) []command {
	submit := func(ctx context.Context) console.Status {
		base := r.ask(fmt.Sprintf("API base [%s]", loginBase(sess)))
		if base == "" {
			base = loginBase(sess)
		}
		username := r.ask("Username")
		password := r.askPassword("Password")
		if r.forms.Mode() == console.ModeSignup {
			role := r.ask("Role (admin/user) [user]")
			if role == "" {
				role = string(library.RoleUser)
			}
			return r.forms.Signup(ctx, base, username, password, role)
		}
		return r.forms.Login(ctx, base, username, password)
	}

	return []command{
		{"login", "Log in with username and password", func(ctx context.Context) console.Status {
			r.forms.ShowLogin()
			return submit(ctx)
		}},
		{"signup", "Register a new account", func(ctx context.Context) console.Status {
			r.forms.ShowSignup()
			return submit(ctx)
		}},
		{"submit", "Submit the current form", submit},
		{"toggle", "Switch between the login and signup forms", func(context.Context) console.Status {
			r.forms.Toggle()
			fmt.Fprintf(r.app.out, "%s\n%s\n", r.forms.Title(), r.forms.ToggleHint())
			return console.Status{}
		}},
	}
}

// ---------------------------------------------------------------------------
// Admin console
// ---------------------------------------------------------------------------

func (r *repl) adminCommands(c *console.AdminConsole) []command {
	askBook := func() console.BookForm {
		return console.BookForm{
			Title:    r.ask("Title"),
			Author:   r.ask("Author"),
			ISBN:     r.ask("ISBN"),
			Category: r.ask("Category"),
			Copies:   r.ask("Available copies"),
		}
	}

	return []command{
		{"list users", "Show all accounts", c.GetUsers},
		{"create user", "Create a user account", func(ctx context.Context) console.Status {
			return c.CreateUser(ctx, r.ask("Username"), r.askPassword("Password"))
		}},
		{"update user", "Change a username or password", func(ctx context.Context) console.Status {
			id := r.ask("User ID")
			username := r.ask("New username (blank to keep)")
			password := r.askPassword("New password (blank to keep)")
			return c.UpdateUser(ctx, id, username, password)
		}},
		{"delete user", "Delete an account", func(ctx context.Context) console.Status {
			return c.DeleteUser(ctx, r.ask("User ID"))
		}},
		{"list books", "Show the catalogue", c.GetBooks},
		{"search books", "Filter the catalogue", func(ctx context.Context) console.Status {
			return c.SearchBooks(ctx, r.ask("Search"))
		}},
		{"add book", "Add a book", func(ctx context.Context) console.Status {
			return c.CreateBook(ctx, askBook())
		}},
		{"update book", "Edit a book (blank fields are kept)", func(ctx context.Context) console.Status {
			id := r.ask("Book ID")
			return c.UpdateBook(ctx, id, askBook())
		}},
		{"delete book", "Delete a book", func(ctx context.Context) console.Status {
			return c.DeleteBook(ctx, r.ask("Book ID"))
		}},
		{"list borrows", "Show requested, borrowed and returned records", c.GetBorrows},
		{"filter borrows", "Filter the borrow table by one column", func(context.Context) console.Status {
			column := r.ask("Column (" + strings.Join(c.Borrows().Headers, ", ") + ")")
			return c.FilterBorrows(column, r.ask("Contains"))
		}},
		{"approve", "Approve a pending request", func(ctx context.Context) console.Status {
			return c.UpdateBorrow(ctx, r.ask("Borrow ID"), "approve")
		}},
		{"reject", "Reject a pending request", func(ctx context.Context) console.Status {
			return c.UpdateBorrow(ctx, r.ask("Borrow ID"), "reject")
		}},
		{"return", "Mark a loan as returned", func(ctx context.Context) console.Status {
			return c.ReturnBorrow(ctx, r.ask("Borrow ID"))
		}},
		{"logout", "Log out", func(context.Context) console.Status { return r.forms.Logout() }},
	}
}

// ---------------------------------------------------------------------------
// User dashboard
// ---------------------------------------------------------------------------

func (r *repl) userCommands(c *console.UserConsole) []command {
	return []command{
		{"list books", "Show the catalogue", c.GetBooks},
		{"search books", "Filter by title, author or category", func(ctx context.Context) console.Status {
			return c.FilterBooks(ctx, r.ask("Search"))
		}},
		{"borrow", "Request a copy of a book", func(ctx context.Context) console.Status {
			return c.BorrowBook(ctx, r.ask("Book ID"))
		}},
		{"my borrows", "Show your requests and loans", c.GetMyBorrows},
		{"refresh", "Reload the catalogue and your borrows", c.Load},
		{"logout", "Log out", func(context.Context) console.Status { return r.forms.Logout() }},
	}
}
