package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"library-console/api"
	"library-console/library"
)

// UserAPI is the part of the API the user dashboard needs.
type UserAPI interface {
	ListBooks(ctx context.Context) ([]library.Book, error)
	SearchBooks(ctx context.Context, q string) ([]library.Book, error)
	RequestBorrow(ctx context.Context, bookID library.ID) error
	MyBorrows(ctx context.Context) ([]library.BorrowRecord, error)
}

// UserConsole is the dashboard of a regular user: the catalogue with borrow
// buttons and the user's own borrow history.
type UserConsole struct {
	api    UserAPI
	screen Screen
	logger *zap.Logger
	books  *BookCache
	loaded bool
}

// NewUserConsole wires the dashboard to its collaborators.
func NewUserConsole(a UserAPI, screen Screen, logger *zap.Logger) *UserConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserConsole{api: a, screen: screen, logger: logger.Named("user"), books: NewBookCache()}
}

// Books exposes the catalogue cache.
func (c *UserConsole) Books() *BookCache { return c.books }

// Load fetches the catalogue and the user's borrows at the same time. Both
// are applied only after both calls finish, books first, so borrow titles
// are joined against the fresh catalogue.
func (c *UserConsole) Load(ctx context.Context) Status {
	var (
		g          errgroup.Group
		books      []library.Book
		records    []library.BorrowRecord
		booksErr   error
		borrowsErr error
	)
	g.Go(func() error {
		books, booksErr = c.api.ListBooks(ctx)
		return booksErr
	})
	g.Go(func() error {
		records, borrowsErr = c.api.MyBorrows(ctx)
		return borrowsErr
	})
	err := g.Wait()

	if booksErr == nil {
		c.showBooks(books)
	}
	if borrowsErr == nil {
		c.screen.Show(MyBorrowTable(records, c.books.Books()))
	}
	if err != nil {
		return c.fail("load dashboard", err)
	}
	return success("Books and borrowed books loaded.")
}

func (c *UserConsole) GetBooks(ctx context.Context) Status {
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		return c.fail("list books", err)
	}
	c.showBooks(books)
	return success("Books loaded.")
}

func (c *UserConsole) showBooks(books []library.Book) {
	c.books.Replace(books)
	c.loaded = true
	c.screen.Show(CatalogueTable(books, c.books.Requests))
}

// ensureBooks fills the cache, without rendering, if nothing has loaded it.
func (c *UserConsole) ensureBooks(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	books, err := c.api.ListBooks(ctx)
	if err != nil {
		return err
	}
	c.books.Replace(books)
	c.loaded = true
	return nil
}

// FilterBooks narrows the shown catalogue by title, author or category.
func (c *UserConsole) FilterBooks(ctx context.Context, term string) Status {
	if err := c.ensureBooks(ctx); err != nil {
		return c.fail("list books", err)
	}
	books := c.books.Filter(term)
	c.screen.Show(CatalogueTable(books, c.books.Requests))
	return success(fmt.Sprintf("%d book(s) shown.", len(books)))
}

// SearchBooks asks the server for matching titles. The results are shown but
// do not replace the cached catalogue.
func (c *UserConsole) SearchBooks(ctx context.Context, q string) Status {
	books, err := c.api.SearchBooks(ctx, strings.TrimSpace(q))
	if err != nil {
		return c.fail("search books", err)
	}
	c.screen.Show(CatalogueTable(books, c.books.Requests))
	return success(fmt.Sprintf("%d book(s) found.", len(books)))
}

// BorrowBook requests a copy of a cached book. Books with no copies left
// are refused locally and no request is sent.
func (c *UserConsole) BorrowBook(ctx context.Context, id string) Status {
	if err := c.ensureBooks(ctx); err != nil {
		return c.fail("list books", err)
	}
	book, found := c.books.Find(library.ID(strings.TrimSpace(id)))
	if !found {
		return failure("Book not found.")
	}
	if book.Copies() <= 0 {
		return failure("Cannot borrow: No available copies.")
	}

	if err := c.api.RequestBorrow(ctx, book.ID); err != nil {
		return c.fail("borrow", err)
	}

	n := c.books.RecordRequest(book.ID)
	c.screen.ShowRow(TableCatalogue, CatalogueRow(book, n))
	c.logger.Debug("borrow requested", zap.String("book", string(book.ID)), zap.Int("requests", n))

	if st := c.GetMyBorrows(ctx); !st.Success {
		c.logger.Warn("refresh borrows", zap.String("status", st.Text))
	}
	return success("Borrow request sent successfully!")
}

func (c *UserConsole) GetMyBorrows(ctx context.Context) Status {
	records, err := c.api.MyBorrows(ctx)
	if err != nil {
		return c.fail("my borrows", err)
	}
	c.screen.Show(MyBorrowTable(records, c.books.Books()))
	return success("Borrowed books loaded.")
}

func (c *UserConsole) fail(op string, err error) Status {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		c.logger.Debug(op+" rejected", zap.Int("status", apiErr.StatusCode))
		return failure(serverError(apiErr, ""))
	}
	c.logger.Warn(op+" failed", zap.Error(err))
	return failure(err.Error())
}
