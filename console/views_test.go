package console

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-console/library"
)

func TestBorrowActions(t *testing.T) {
	tests := []struct {
		status library.BorrowStatus
		want   []string
	}{
		{library.StatusPending, []string{ActApprove, ActReject}},
		{library.StatusBorrowed, []string{ActReturn}},
		{library.StatusApproved, nil},
		{library.StatusRejected, nil},
		{library.StatusReturned, nil},
		{"", nil},
		{"lost", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var got []string
			for _, a := range BorrowActions(tt.status, "r1") {
				assert.Equal(t, library.ID("r1"), a.Target)
				got = append(got, a.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBorrowTableSinglePending(t *testing.T) {
	got := BorrowTable(library.BorrowPartitions{
		Requested: []library.BorrowRecord{{ID: "1", Status: library.StatusPending}},
	})

	want := Table{
		Name:    TableBorrows,
		Headers: []string{"ID", "Status", "User", "Book", "Available", "Borrowed", "Due", "Returned", "Actions"},
		Empty:   "No borrow records found",
		Rows: []Row{{
			ID:    "1",
			Cells: []string{"1", "pending", "-", "-", "-", "-", "-", "-", "[Approve] [Reject]"},
			Actions: []Action{
				{Name: ActApprove, Label: "Approve", Target: "1"},
				{Name: ActReject, Label: "Reject", Target: "1"},
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BorrowTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestBorrowTableOrderAndDates(t *testing.T) {
	due := library.Timestamp{Time: time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)}
	got := BorrowTable(library.BorrowPartitions{
		Returned:  []library.BorrowRecord{{ID: "3", Status: library.StatusReturned}},
		Borrowed:  []library.BorrowRecord{{ID: "2", Status: library.StatusBorrowed, DueDate: due, AvailableQuantity: intp(0)}},
		Requested: []library.BorrowRecord{{ID: "1", Status: library.StatusRejected}},
	})

	require.Len(t, got.Rows, 3)
	assert.Equal(t, library.ID("1"), got.Rows[0].ID)
	assert.Equal(t, library.ID("2"), got.Rows[1].ID)
	assert.Equal(t, library.ID("3"), got.Rows[2].ID)

	assert.Empty(t, got.Rows[0].Actions)
	assert.Equal(t, "-", got.Rows[0].Cells[8])
	assert.True(t, got.Rows[1].Allows(ActReturn))
	assert.Equal(t, "0", got.Rows[1].Cells[4])
	assert.Equal(t, "2025-10-15", got.Rows[1].Cells[6])
	assert.Empty(t, got.Rows[2].Actions)
}

func TestBookTable(t *testing.T) {
	got := BookTable([]library.Book{
		{ID: "b1", Title: "Dune", Author: "Herbert", Category: "SF", AvailableCopies: intp(0)},
		{Title: "Untitled"},
	})

	want := [][]string{
		{"b1", "Dune", "Herbert", "SF", "0"},
		{"N/A", "Untitled", "N/A", "N/A", "N/A"},
	}
	var cells [][]string
	for _, r := range got.Rows {
		cells = append(cells, r.Cells)
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("BookTable() cells mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogueRow(t *testing.T) {
	assert.Equal(t, "-", CatalogueRow(library.Book{ID: "a", AvailableCopies: intp(0)}, 0).Cells[4])
	assert.Equal(t, "-", CatalogueRow(library.Book{ID: "a"}, 0).Cells[4])

	r := CatalogueRow(library.Book{ID: "a", Title: "Dune", AvailableCopies: intp(3)}, 2)
	assert.Equal(t, []string{"a", "Dune", "-", "-", "3", "2", "[Borrow]"}, r.Cells)
	assert.True(t, r.Allows(ActBorrow))
	assert.False(t, r.Allows(ActReturn))
}

func TestMyBorrowTableTitles(t *testing.T) {
	books := []library.Book{{ID: "b1", Title: "Dune"}, {ID: "b2"}}
	borrowed := library.Timestamp{Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	due := library.Timestamp{Time: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)}
	returned := library.Timestamp{Time: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)}

	got := MyBorrowTable([]library.BorrowRecord{
		{ID: "1", BookTitle: "Emma", BookID: "b1", BorrowDate: borrowed, DueDate: due, Status: library.StatusBorrowed},
		{ID: "2", BookID: "b1", BorrowDate: borrowed, DueDate: due, ReturnDate: returned, Status: library.StatusReturned},
		{ID: "3", BookID: "b2"},
		{ID: "4", BookID: "zz"},
	}, books)

	want := [][]string{
		{"Emma", "2025-01-02", "2025-01-16", "borrowed"},
		{"Dune", "2025-01-02", "2025-01-10", "returned"},
		{"N/A", "N/A", "N/A", "N/A"},
		{"N/A", "N/A", "N/A", "N/A"},
	}
	var cells [][]string
	for _, r := range got.Rows {
		cells = append(cells, r.Cells)
	}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("MyBorrowTable() cells mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRows(t *testing.T) {
	table := BorrowTable(library.BorrowPartitions{
		Requested: []library.BorrowRecord{
			{ID: "1", Status: library.StatusPending, Username: "Ann"},
			{ID: "2", Status: library.StatusPending, Username: "bob"},
		},
		Borrowed: []library.BorrowRecord{{ID: "3", Status: library.StatusBorrowed, Username: "anna"}},
	})

	got := FilterRows(table, "user", "ANN")
	require.Len(t, got.Rows, 2)
	assert.Equal(t, library.ID("1"), got.Rows[0].ID)
	assert.Equal(t, library.ID("3"), got.Rows[1].ID)
	assert.Len(t, table.Rows, 3, "source table must be untouched")

	assert.Len(t, FilterRows(table, "user", "  ").Rows, 3)
	assert.Len(t, FilterRows(table, "nope", "ann").Rows, 3)
	assert.Empty(t, FilterRows(table, "status", "returned").Rows)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(BookTable([]library.Book{{ID: "b1", Title: "Dune", AvailableCopies: intp(2)}}), PlainStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "BOOKS", lines[0])
	assert.Contains(t, lines[1], "Title")
	assert.True(t, strings.HasPrefix(lines[2], "---"))
	assert.Contains(t, lines[3], "Dune")

	empty := RenderTable(BookTable(nil), PlainStyles())
	assert.Contains(t, empty, "No books found")
}
