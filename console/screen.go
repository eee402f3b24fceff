package console

import (
	"fmt"
	"io"
	"sync"

	"library-console/library"
)

// Screen is where consoles put their output. Show replaces the table of the
// same name; ShowRow replaces a single row of a table already shown.
type Screen interface {
	Show(t Table)
	ShowRow(table string, row Row)
}

// Status is the result line of an operation.
type Status struct {
	Text    string
	Success bool
	// Next is the page to navigate to, if any.
	Next library.Page
}

func success(text string) Status { return Status{Text: text, Success: true} }
func failure(text string) Status { return Status{Text: text} }

// TerminalScreen prints tables to a writer and remembers the last table shown
// under each name so single rows can be redrawn.
type TerminalScreen struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
	tables map[string]Table
}

// NewTerminalScreen creates a screen that writes to out.
func NewTerminalScreen(out io.Writer, styles Styles) *TerminalScreen {
	return &TerminalScreen{out: out, styles: styles, tables: make(map[string]Table)}
}

func (s *TerminalScreen) Show(t Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Name] = t
	fmt.Fprint(s.out, RenderTable(t, s.styles))
}

// ShowRow swaps the row in the remembered table and prints just that row
// under the table's headers. Unknown tables and rows are ignored.
func (s *TerminalScreen) ShowRow(table string, row Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, found := s.tables[table]
	if !found {
		return
	}
	for i := range t.Rows {
		if t.Rows[i].ID == row.ID {
			t.Rows[i] = row
			s.tables[table] = t
			fmt.Fprint(s.out, RenderTable(Table{Name: t.Name, Headers: t.Headers, Rows: []Row{row}}, s.styles))
			return
		}
	}
}

// table returns the last table shown under name.
func (s *TerminalScreen) table(name string) (Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, found := s.tables[name]
	return t, found
}

// PrintStatus writes a status line, coloured by outcome. Empty statuses print
// nothing.
func (s *TerminalScreen) PrintStatus(st Status) {
	if st.Text == "" {
		return
	}
	style := s.styles.Error
	if st.Success {
		style = s.styles.Success
	}
	fmt.Fprintln(s.out, style.Render(st.Text))
}
