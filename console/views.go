package console

import (
	"strconv"
	"strings"

	"library-console/library"
)

// Table names double as screen slots: rendering a table replaces whatever was
// shown under the same name.
const (
	TableUsers     = "users"
	TableBooks     = "books"
	TableBorrows   = "borrows"
	TableCatalogue = "catalogue"
	TableMyBorrows = "my-borrows"
)

// Row actions.
const (
	ActApprove = "approve"
	ActReject  = "reject"
	ActReturn  = "return"
	ActBorrow  = "borrow"
)

// Action is a command offered on one row.
type Action struct {
	Name   string
	Label  string
	Target library.ID
}

// Row is one rendered line. ID is the entity the row stands for.
type Row struct {
	ID      library.ID
	Cells   []string
	Actions []Action
}

// Allows reports whether the row offers the named action.
func (r Row) Allows(name string) bool {
	for _, a := range r.Actions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Table is the view-model of one screen table. Empty is shown instead of
// rows when there are none.
type Table struct {
	Name    string
	Headers []string
	Rows    []Row
	Empty   string
}

// Find returns the row for id.
func (t Table) Find(id library.ID) (Row, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Column returns the index of the named header, case-insensitively.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// FilterRows keeps the rows whose cell in column contains term
// (case-insensitive). An empty term or unknown column keeps everything.
func FilterRows(t Table, column, term string) Table {
	idx := t.Column(column)
	term = strings.ToLower(strings.TrimSpace(term))
	if idx < 0 || term == "" {
		return t
	}

	out := t
	out.Rows = nil
	for _, r := range t.Rows {
		if idx < len(r.Cells) && strings.Contains(strings.ToLower(r.Cells[idx]), term) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func intOr(n *int, fallback string) string {
	if n == nil {
		return fallback
	}
	return strconv.Itoa(*n)
}

// ---------------------------------------------------------------------------
// Admin views
// ---------------------------------------------------------------------------

// UserTable renders the admin user list.
func UserTable(users []library.User) Table {
	t := Table{Name: TableUsers, Headers: []string{"ID", "Username", "Role"}, Empty: "No users found"}
	for _, u := range users {
		t.Rows = append(t.Rows, Row{
			ID:    u.ID,
			Cells: []string{or(string(u.ID), "N/A"), u.Username, u.Role},
		})
	}
	return t
}

// BookTable renders the admin catalogue. A copy count of zero is shown as 0;
// only a missing count is N/A.
func BookTable(books []library.Book) Table {
	t := Table{Name: TableBooks, Headers: []string{"ID", "Title", "Author", "Category", "Available"}, Empty: "No books found"}
	for _, b := range books {
		t.Rows = append(t.Rows, Row{
			ID: b.ID,
			Cells: []string{
				or(string(b.ID), "N/A"),
				or(b.Title, "N/A"),
				or(b.Author, "N/A"),
				or(b.Category, "N/A"),
				intOr(b.AvailableCopies, "N/A"),
			},
		})
	}
	return t
}

// BorrowActions maps a record status to the actions offered for it. Nothing
// else about the record is consulted.
func BorrowActions(status library.BorrowStatus, id library.ID) []Action {
	switch status {
	case library.StatusPending:
		return []Action{
			{Name: ActApprove, Label: "Approve", Target: id},
			{Name: ActReject, Label: "Reject", Target: id},
		}
	case library.StatusBorrowed:
		return []Action{{Name: ActReturn, Label: "Mark Returned", Target: id}}
	}
	return nil
}

// BorrowTable merges the three partitions, requested first, then borrowed,
// then returned. Requests have no due or return date yet.
func BorrowTable(parts library.BorrowPartitions) Table {
	t := Table{
		Name:    TableBorrows,
		Headers: []string{"ID", "Status", "User", "Book", "Available", "Borrowed", "Due", "Returned", "Actions"},
		Empty:   "No borrow records found",
	}

	add := func(r library.BorrowRecord, borrowed, due, returned string) {
		actions := BorrowActions(r.Status, r.ID)
		t.Rows = append(t.Rows, Row{
			ID: r.ID,
			Cells: []string{
				or(string(r.ID), "-"),
				or(string(r.Status), "N/A"),
				or(r.Username, "-"),
				or(r.BookName, "-"),
				intOr(r.AvailableQuantity, "-"),
				borrowed,
				due,
				returned,
				actionLabels(actions),
			},
			Actions: actions,
		})
	}

	for _, r := range parts.Requested {
		add(r, r.RequestedAt.DateOr("-"), "-", "-")
	}
	for _, r := range parts.Borrowed {
		add(r, r.BorrowDate.DateOr("-"), r.DueDate.DateOr("-"), r.ReturnDate.DateOr("-"))
	}
	for _, r := range parts.Returned {
		add(r, r.BorrowDate.DateOr("-"), r.DueDate.DateOr("-"), r.ReturnDate.DateOr("-"))
	}
	return t
}

func actionLabels(actions []Action) string {
	if len(actions) == 0 {
		return "-"
	}
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = "[" + a.Label + "]"
	}
	return strings.Join(labels, " ")
}

// ---------------------------------------------------------------------------
// User views
// ---------------------------------------------------------------------------

// CatalogueRow renders one book of the user catalogue. Zero and missing copy
// counts both show as "-". The ID column stands in for the row's button.
func CatalogueRow(b library.Book, requests int) Row {
	copies := "-"
	if b.Copies() != 0 {
		copies = strconv.Itoa(b.Copies())
	}
	actions := []Action{{Name: ActBorrow, Label: "Borrow", Target: b.ID}}
	return Row{
		ID: b.ID,
		Cells: []string{
			or(string(b.ID), "N/A"),
			b.Title,
			or(b.Author, "-"),
			or(b.Category, "-"),
			copies,
			strconv.Itoa(requests),
			actionLabels(actions),
		},
		Actions: actions,
	}
}

// CatalogueTable renders books with their local request counts.
func CatalogueTable(books []library.Book, requests func(library.ID) int) Table {
	t := Table{
		Name:    TableCatalogue,
		Headers: []string{"ID", "Title", "Author", "Category", "Available", "Requests", "Actions"},
		Empty:   "No books found",
	}
	for _, b := range books {
		t.Rows = append(t.Rows, CatalogueRow(b, requests(b.ID)))
	}
	return t
}

// BorrowTitle resolves the title shown for a record: the server's own title,
// else the cached book with that id, else N/A.
func BorrowTitle(r library.BorrowRecord, books []library.Book) string {
	if r.BookTitle != "" {
		return r.BookTitle
	}
	for _, b := range books {
		if r.BookID != "" && b.ID == r.BookID {
			return or(b.Title, "N/A")
		}
	}
	return "N/A"
}

// MyBorrowTable renders the user's own records joined against books.
func MyBorrowTable(records []library.BorrowRecord, books []library.Book) Table {
	t := Table{
		Name:    TableMyBorrows,
		Headers: []string{"Title", "Borrowed", "Return By", "Status"},
		Empty:   "No borrowed books",
	}
	for _, r := range records {
		back := r.ReturnDate
		if back.IsZero() {
			back = r.DueDate
		}
		t.Rows = append(t.Rows, Row{
			ID: r.ID,
			Cells: []string{
				BorrowTitle(r, books),
				r.BorrowDate.DateOr("N/A"),
				back.DateOr("N/A"),
				or(string(r.Status), "N/A"),
			},
		})
	}
	return t
}
