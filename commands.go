package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"library-console/console"
	"library-console/library"
)

// ---------------------------------------------------------------------------
// Account
// ---------------------------------------------------------------------------

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.sessions.Load()
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		role, _ := cmd.Flags().GetString("role")
		if username == "" {
			username, _ = a.prompt.Line("Username: ")
		}
		password, err := a.prompt.Password("Password: ")
		if err != nil {
			return err
		}

		forms := a.authForms()
		forms.ShowSignup()
		return a.report(forms.Signup(cmd.Context(), loginBase(sess), username, password, role))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.sessions.Load()
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			username, _ = a.prompt.Line("Username: ")
		}
		password, err := a.prompt.Password("Password: ")
		if err != nil {
			return err
		}

		st := a.authForms().Login(cmd.Context(), loginBase(sess), username, password)
		if err := a.report(st); err != nil {
			return err
		}

		sess, err = a.sessions.Load()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Now on %s\n", pageName(library.Resolve(sess, st.Next)))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.report(a.authForms().Logout())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.sessions.Load()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		fmt.Fprintf(a.out, "Role:  %s\n", orDash(sess.Role))
		fmt.Fprintf(a.out, "API:   %s\n", newClient(apiBase(sess), "").Base())
		fmt.Fprintf(a.out, "Token: %s\n", redact(sess.Token))
		fmt.Fprintf(a.out, "Page:  %s\n", pageName(library.Resolve(sess, library.PageRoot)))
		return nil
	},
}

// ---------------------------------------------------------------------------
// Admin console
// ---------------------------------------------------------------------------

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console: users, books and borrow records",
}

// adminRun runs fn against the admin console after the guard let the stored
// session onto the admin page.
func adminRun(fn func(ctx context.Context, c *console.AdminConsole, cmd *cobra.Command, args []string) console.Status) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.enter(library.PageAdmin)
		if err != nil {
			return err
		}
		return a.report(fn(cmd.Context(), a.adminConsole(sess), cmd, args))
	}
}

var adminUsersCmd = &cobra.Command{Use: "users", Short: "Manage accounts"}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, _ []string) console.Status {
		return c.GetUsers(ctx)
	}),
}

var adminUsersCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create a user account (password is prompted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.enter(library.PageAdmin)
		if err != nil {
			return err
		}
		password, err := a.prompt.Password("Password: ")
		if err != nil {
			return err
		}
		return a.report(a.adminConsole(sess).CreateUser(cmd.Context(), args[0], password))
	},
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change an account's username and/or password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.enter(library.PageAdmin)
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		askPassword, _ := cmd.Flags().GetBool("password")
		var password string
		if askPassword {
			if password, err = a.prompt.Password("New password: "); err != nil {
				return err
			}
		}
		return a.report(a.adminConsole(sess).UpdateUser(cmd.Context(), args[0], username, password))
	},
}

var adminUsersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, args []string) console.Status {
		return c.DeleteUser(ctx, args[0])
	}),
}

var adminBooksCmd = &cobra.Command{Use: "books", Short: "Manage the catalogue"}

var adminBooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogue",
	Args:  cobra.NoArgs,
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, _ []string) console.Status {
		return c.GetBooks(ctx)
	}),
}

var adminBooksSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Filter the catalogue by title, author or category",
	Args:  cobra.ArbitraryArgs,
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, args []string) console.Status {
		return c.SearchBooks(ctx, strings.Join(args, " "))
	}),
}

func bookForm(cmd *cobra.Command) console.BookForm {
	var f console.BookForm
	f.Title, _ = cmd.Flags().GetString("title")
	f.Author, _ = cmd.Flags().GetString("author")
	f.ISBN, _ = cmd.Flags().GetString("isbn")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Copies, _ = cmd.Flags().GetString("copies")
	return f
}

var adminBooksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a book",
	Example: `  lms admin books create --title "Dune" --author "Frank Herbert" \
    --isbn 9780441172719 --category SF --copies 3`,
	Args: cobra.NoArgs,
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, cmd *cobra.Command, _ []string) console.Status {
		return c.CreateBook(ctx, bookForm(cmd))
	}),
}

var adminBooksUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change the given fields of a book",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, cmd *cobra.Command, args []string) console.Status {
		return c.UpdateBook(ctx, args[0], bookForm(cmd))
	}),
}

var adminBooksDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a book",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, args []string) console.Status {
		return c.DeleteBook(ctx, args[0])
	}),
}

var adminBorrowsCmd = &cobra.Command{Use: "borrows", Short: "Moderate borrow requests and loans"}

var adminBorrowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List requested, borrowed and returned records",
	Args:  cobra.NoArgs,
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, cmd *cobra.Command, _ []string) console.Status {
		column, _ := cmd.Flags().GetString("column")
		if column == "" {
			return c.GetBorrows(ctx)
		}
		// the filtered table replaces the full one, so load it off screen
		match, _ := cmd.Flags().GetString("match")
		if st := c.LoadBorrows(ctx); !st.Success {
			return st
		}
		return c.FilterBorrows(column, match)
	}),
}

func decideCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, args []string) console.Status {
			// the row actions are checked against the table, so it must load
			if st := c.LoadBorrows(ctx); !st.Success {
				return st
			}
			return c.UpdateBorrow(ctx, args[0], action)
		}),
	}
}

var (
	adminBorrowsApproveCmd = decideCmd("approve", "Approve a pending request")
	adminBorrowsRejectCmd  = decideCmd("reject", "Reject a pending request")
)

var adminBorrowsReturnCmd = &cobra.Command{
	Use:   "return ID",
	Short: "Mark a loan as returned",
	Args:  cobra.ExactArgs(1),
	RunE: adminRun(func(ctx context.Context, c *console.AdminConsole, _ *cobra.Command, args []string) console.Status {
		// the row actions are checked against the table, so it must load
		if st := c.LoadBorrows(ctx); !st.Success {
			return st
		}
		return c.ReturnBorrow(ctx, args[0])
	}),
}

// ---------------------------------------------------------------------------
// User dashboard
// ---------------------------------------------------------------------------

// userRun runs fn against the dashboard after the guard let the stored
// session onto it.
func userRun(fn func(ctx context.Context, c *console.UserConsole, cmd *cobra.Command, args []string) console.Status) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.enter(library.PageDashboard)
		if err != nil {
			return err
		}
		return a.report(fn(cmd.Context(), a.userConsole(sess), cmd, args))
	}
}

var booksCmd = &cobra.Command{Use: "books", Short: "Browse and borrow books"}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogue with your request counts",
	Args:  cobra.NoArgs,
	RunE: userRun(func(ctx context.Context, c *console.UserConsole, _ *cobra.Command, _ []string) console.Status {
		return c.GetBooks(ctx)
	}),
}

var booksSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find books by title, author or category",
	Args:  cobra.ArbitraryArgs,
	RunE: userRun(func(ctx context.Context, c *console.UserConsole, cmd *cobra.Command, args []string) console.Status {
		q := strings.Join(args, " ")
		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			return c.SearchBooks(ctx, q)
		}
		return c.FilterBooks(ctx, q)
	}),
}

var booksBorrowCmd = &cobra.Command{
	Use:   "borrow BOOK_ID",
	Short: "Request a copy of a book",
	Args:  cobra.ExactArgs(1),
	RunE: userRun(func(ctx context.Context, c *console.UserConsole, _ *cobra.Command, args []string) console.Status {
		return c.BorrowBook(ctx, args[0])
	}),
}

var borrowsCmd = &cobra.Command{Use: "borrows", Short: "Your borrow history"}

var borrowsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your borrow requests and loans",
	Args:  cobra.NoArgs,
	RunE: userRun(func(ctx context.Context, c *console.UserConsole, _ *cobra.Command, _ []string) console.Status {
		return c.GetMyBorrows(ctx)
	}),
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func pageName(p library.Page) string {
	switch p {
	case library.PageAdmin:
		return "the admin console"
	case library.PageDashboard:
		return "the user dashboard"
	case library.PageAuth:
		return "the login page"
	}
	return string(p)
}

// redact keeps the first four characters of a secret.
func redact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", 8)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
