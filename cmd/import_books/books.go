package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"library-console/api"
)

var requiredColumns = []string{"title", "author", "isbn", "category", "available_copies"}

// bookRow is one data line of the CSV file.
type bookRow struct {
	Line int
	Book api.NewBook
}

// rowError reports a CSV line that could not become a book.
type rowError struct {
	Line int
	Err  error
}

func (e *rowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *rowError) Unwrap() error { return e.Err }

var (
	errMissingField = errors.New("all fields required")
	errCopies       = errors.New("available_copies must be a number")
)

// readBooks parses a CSV with a header naming at least the required columns,
// in any order. Bad lines are reported and skipped; a bad header fails the
// whole file.
func readBooks(r io.Reader) ([]bookRow, []error, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty file")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, found := index[col]; !found {
			return nil, nil, fmt.Errorf("header is missing column %q", col)
		}
	}

	var (
		rows []bookRow
		bad  []error
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			line := 0
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			bad = append(bad, &rowError{Line: line, Err: err})
			continue
		}
		// physical line, so quoted multi-line fields do not shift the count
		line, _ := cr.FieldPos(0)

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		b := api.NewBook{
			Title:    field("title"),
			Author:   field("author"),
			ISBN:     field("isbn"),
			Category: field("category"),
		}
		copies := field("available_copies")
		if b.Title == "" || b.Author == "" || b.ISBN == "" || b.Category == "" || copies == "" {
			bad = append(bad, &rowError{Line: line, Err: errMissingField})
			continue
		}
		if b.AvailableCopies, err = strconv.Atoi(copies); err != nil {
			bad = append(bad, &rowError{Line: line, Err: errCopies})
			continue
		}
		rows = append(rows, bookRow{Line: line, Book: b})
	}
	return rows, bad, nil
}

// truncateString shortens s to maxLen runes, ending in "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
