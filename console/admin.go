package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"library-console/api"
	"library-console/library"
)

// AdminAPI is the part of the API the admin console needs.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]library.User, error)
	CreateUser(ctx context.Context, username, password string) error
	UpdateUser(ctx context.Context, id library.ID, update api.UserUpdate) error
	DeleteUser(ctx context.Context, id library.ID) error

	ListBooks(ctx context.Context) ([]library.Book, error)
	CreateBook(ctx context.Context, book api.NewBook) error
	UpdateBook(ctx context.Context, id library.ID, update api.BookUpdate) error
	DeleteBook(ctx context.Context, id library.ID) error

	AdminBorrows(ctx context.Context) (library.BorrowPartitions, error)
	DecideBorrow(ctx context.Context, id library.ID, action api.BorrowAction) error
	ReturnBorrow(ctx context.Context, id library.ID) error
}

// BookForm is a book as typed by the admin. Copies is parsed on submit.
type BookForm struct {
	Title    string
	Author   string
	ISBN     string
	Category string
	Copies   string
}

func (f BookForm) trimmed() BookForm {
	return BookForm{
		Title:    strings.TrimSpace(f.Title),
		Author:   strings.TrimSpace(f.Author),
		ISBN:     strings.TrimSpace(f.ISBN),
		Category: strings.TrimSpace(f.Category),
		Copies:   strings.TrimSpace(f.Copies),
	}
}

// Cancelled is returned when a confirmation is declined.
var Cancelled = Status{Text: "Cancelled."}

// AdminConsole manages users, the catalogue and borrow records.
type AdminConsole struct {
	api     AdminAPI
	screen  Screen
	confirm Confirmer
	logger  *zap.Logger

	books       *BookCache
	booksLoaded bool
	borrows     Table
}

// NewAdminConsole wires the console to its collaborators.
func NewAdminConsole(a AdminAPI, screen Screen, confirm Confirmer, logger *zap.Logger) *AdminConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminConsole{
		api:     a,
		screen:  screen,
		confirm: confirm,
		logger:  logger.Named("admin"),
		books:   NewBookCache(),
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (c *AdminConsole) CreateUser(ctx context.Context, username, password string) Status {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return failure("Username and password required")
	}
	if err := c.api.CreateUser(ctx, username, password); err != nil {
		return c.fail("create user", err, "")
	}
	c.refreshUsers(ctx)
	return success("User created successfully")
}

func (c *AdminConsole) GetUsers(ctx context.Context) Status {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return c.fail("list users", err, "")
	}
	c.screen.Show(UserTable(users))
	return success("Fetched users successfully")
}

// UpdateUser sends only the fields that were given.
func (c *AdminConsole) UpdateUser(ctx context.Context, id, username, password string) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("User ID required.")
	}
	update := api.UserUpdate{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if update.Username == "" && update.Password == "" {
		return failure("Provide a new username or password.")
	}
	if err := c.api.UpdateUser(ctx, library.ID(id), update); err != nil {
		return c.fail("update user", err, "")
	}
	c.refreshUsers(ctx)
	return success("User updated successfully.")
}

func (c *AdminConsole) DeleteUser(ctx context.Context, id string) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("User ID required.")
	}
	if !c.confirm.Confirm("Are you sure you want to delete this user?") {
		return Cancelled
	}
	if err := c.api.DeleteUser(ctx, library.ID(id)); err != nil {
		return c.fail("delete user", err, "")
	}
	c.refreshUsers(ctx)
	return success("User deleted successfully.")
}

func (c *AdminConsole) refreshUsers(ctx context.Context) {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		c.logger.Warn("refresh users", zap.Error(err))
		return
	}
	c.screen.Show(UserTable(users))
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

func (c *AdminConsole) CreateBook(ctx context.Context, form BookForm) Status {
	form = form.trimmed()
	if form.Title == "" || form.Author == "" || form.ISBN == "" || form.Category == "" || form.Copies == "" {
		return failure("All fields required")
	}
	copies, err := strconv.Atoi(form.Copies)
	if err != nil {
		return failure("available_copies must be a number")
	}

	err = c.api.CreateBook(ctx, api.NewBook{
		Title:           form.Title,
		Author:          form.Author,
		ISBN:            form.ISBN,
		Category:        form.Category,
		AvailableCopies: copies,
	})
	if err != nil {
		return c.fail("create book", err, "")
	}
	c.refreshBooks(ctx)
	return success("Book added successfully")
}

// GetBooks fetches the catalogue into the search cache.
func (c *AdminConsole) GetBooks(ctx context.Context) Status {
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		return c.fail("list books", err, "")
	}
	c.books.Replace(books)
	c.booksLoaded = true
	c.screen.Show(BookTable(books))
	return success("Fetched books successfully")
}

// SearchBooks filters the cached catalogue without asking the server. The
// catalogue is fetched once, unshown, if nothing has loaded it yet.
func (c *AdminConsole) SearchBooks(ctx context.Context, query string) Status {
	if !c.booksLoaded {
		books, err := c.api.ListBooks(ctx)
		if err != nil {
			return c.fail("list books", err, "")
		}
		c.books.Replace(books)
		c.booksLoaded = true
	}
	books := c.books.Filter(query)
	c.screen.Show(BookTable(books))
	return success(fmt.Sprintf("%d book(s) shown.", len(books)))
}

// UpdateBook changes the given fields of a book. Copies, when given, must be
// a number.
func (c *AdminConsole) UpdateBook(ctx context.Context, id string, form BookForm) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("Book ID required.")
	}
	form = form.trimmed()
	update := api.BookUpdate{Title: form.Title, Author: form.Author, ISBN: form.ISBN, Category: form.Category}
	if form.Copies != "" {
		n, err := strconv.Atoi(form.Copies)
		if err != nil {
			return failure("available_copies must be a number")
		}
		update.Quantity = &n
	}
	if update.Empty() {
		return failure("Provide at least one field to update.")
	}
	if err := c.api.UpdateBook(ctx, library.ID(id), update); err != nil {
		return c.fail("update book", err, "")
	}
	c.refreshBooks(ctx)
	return success("Book updated successfully.")
}

func (c *AdminConsole) DeleteBook(ctx context.Context, id string) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("Book ID required.")
	}
	if !c.confirm.Confirm("Are you sure you want to delete this book?") {
		return Cancelled
	}
	if err := c.api.DeleteBook(ctx, library.ID(id)); err != nil {
		return c.fail("delete book", err, "")
	}
	c.refreshBooks(ctx)
	return success("Book deleted successfully.")
}

func (c *AdminConsole) refreshBooks(ctx context.Context) {
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		c.logger.Warn("refresh books", zap.Error(err))
		return
	}
	c.books.Replace(books)
	c.booksLoaded = true
	c.screen.Show(BookTable(books))
}

// ---------------------------------------------------------------------------
// Borrows
// ---------------------------------------------------------------------------

// GetBorrows shows requested, borrowed and returned records in one table.
func (c *AdminConsole) GetBorrows(ctx context.Context) Status {
	st := c.LoadBorrows(ctx)
	if st.Success {
		c.screen.Show(c.borrows)
	}
	return st
}

// LoadBorrows fetches the borrow table without showing it.
func (c *AdminConsole) LoadBorrows(ctx context.Context) Status {
	parts, err := c.api.AdminBorrows(ctx)
	if err != nil {
		return c.fail("list borrows", err, "")
	}
	c.borrows = BorrowTable(parts)
	if parts.Empty() {
		return success("No records found.")
	}
	return success("Borrow records loaded.")
}

// Borrows returns the borrow table last fetched.
func (c *AdminConsole) Borrows() Table { return c.borrows }

// UpdateBorrow approves or rejects a pending request, then refetches.
func (c *AdminConsole) UpdateBorrow(ctx context.Context, id, action string) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("Borrow ID required.")
	}
	act, err := api.ParseBorrowAction(strings.ToLower(strings.TrimSpace(action)))
	if err != nil {
		return failure(err.Error())
	}
	if st, refused := c.refuse(library.ID(id), string(act)); refused {
		return st
	}
	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to %s this borrow request?", act)) {
		return Cancelled
	}

	if err := c.api.DecideBorrow(ctx, library.ID(id), act); err != nil {
		return c.fail(string(act)+" borrow", err, fmt.Sprintf("Failed to %s request.", act))
	}
	c.refreshBorrows(ctx)
	return success(fmt.Sprintf("Borrow request %s successfully.", pastTense(act)))
}

// ReturnBorrow marks a loan as returned, then refetches.
func (c *AdminConsole) ReturnBorrow(ctx context.Context, id string) Status {
	id = strings.TrimSpace(id)
	if id == "" {
		return failure("Borrow ID required.")
	}
	if st, refused := c.refuse(library.ID(id), ActReturn); refused {
		return st
	}
	if !c.confirm.Confirm("Mark this borrow as returned?") {
		return Cancelled
	}

	if err := c.api.ReturnBorrow(ctx, library.ID(id)); err != nil {
		return c.fail("return borrow", err, "Failed to mark as returned.")
	}
	c.refreshBorrows(ctx)
	return success("Borrow marked as returned successfully.")
}

// FilterBorrows shows the rows of the last borrow table whose column
// contains term.
func (c *AdminConsole) FilterBorrows(column, term string) Status {
	if c.borrows.Name == "" {
		return failure("Load borrow records first.")
	}
	if c.borrows.Column(column) < 0 {
		return failure(fmt.Sprintf("Unknown column %q: want one of %s.", column, strings.Join(c.borrows.Headers, ", ")))
	}
	filtered := FilterRows(c.borrows, column, term)
	c.screen.Show(filtered)
	return success(fmt.Sprintf("%d of %d record(s) shown.", len(filtered.Rows), len(c.borrows.Rows)))
}

// refuse rejects an action the displayed row does not offer. Records that
// are not on screen are left to the server.
func (c *AdminConsole) refuse(id library.ID, action string) (Status, bool) {
	row, found := c.borrows.Find(id)
	if !found || row.Allows(action) {
		return Status{}, false
	}
	return failure(fmt.Sprintf("Borrow record %s does not allow %s.", id, action)), true
}

func (c *AdminConsole) refreshBorrows(ctx context.Context) {
	parts, err := c.api.AdminBorrows(ctx)
	if err != nil {
		c.logger.Warn("refresh borrows", zap.Error(err))
		return
	}
	c.borrows = BorrowTable(parts)
	c.screen.Show(c.borrows)
}

func pastTense(a api.BorrowAction) string {
	if a == api.ActionApprove {
		return "approved"
	}
	return "rejected"
}

// fail turns an API error into a status. Server errors show the error field,
// else fallback, else the raw body; transport errors show as-is.
func (c *AdminConsole) fail(op string, err error, fallback string) Status {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		c.logger.Debug(op+" rejected", zap.Int("status", apiErr.StatusCode))
		return failure(serverError(apiErr, fallback))
	}
	c.logger.Warn(op+" failed", zap.Error(err))
	return failure(err.Error())
}

func serverError(e *api.APIError, fallback string) string {
	if s := e.Payload.String("error"); s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return string(e.Payload.Raw())
}
