package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-console/library"
)

func TestTerminalScreenShowRow(t *testing.T) {
	var out bytes.Buffer
	s := NewTerminalScreen(&out, PlainStyles())

	s.ShowRow(TableCatalogue, Row{ID: "b1"})
	assert.Zero(t, out.Len(), "rows of a table never shown are dropped")

	books := []library.Book{{ID: "b1", Title: "Dune", AvailableCopies: intp(2)}, {ID: "b2", Title: "Emma"}}
	s.Show(CatalogueTable(books, func(library.ID) int { return 0 }))
	out.Reset()

	s.ShowRow(TableCatalogue, CatalogueRow(books[0], 3))
	assert.Contains(t, out.String(), "Dune")
	assert.NotContains(t, out.String(), "Emma")

	table, found := s.table(TableCatalogue)
	require.True(t, found)
	assert.Equal(t, "3", table.Rows[0].Cells[5])
	assert.Equal(t, "0", table.Rows[1].Cells[5])
}

func TestTerminalScreenPrintStatus(t *testing.T) {
	var out bytes.Buffer
	s := NewTerminalScreen(&out, PlainStyles())

	s.PrintStatus(Status{})
	assert.Zero(t, out.Len())

	s.PrintStatus(success("Books loaded."))
	assert.Equal(t, "Books loaded.\n", out.String())
}
