package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDShapes(t *testing.T) {
	tests := map[string]ID{
		`"abc"`:                     "abc",
		`{"$oid":"652f1c"}`:         "652f1c",
		`{"_id":{"$oid":"652f1c"}}`: "652f1c",
		`{"_id":"b1","title":"x"}`:  "b1",
		`42`:                        "42",
		`null`:                      "",
		`[1,2]`:                     "",
		`{"unrelated":true}`:        "",
	}
	for in, want := range tests {
		var id ID
		require.NoError(t, json.Unmarshal([]byte(in), &id), in)
		assert.Equal(t, want, id, in)
	}
}

func TestBorrowRecordDecoding(t *testing.T) {
	body := `{
		"_id": {"$oid": "r1"},
		"status": "borrowed",
		"book_id": {"_id": "b1"},
		"borrow_date": {"$date": "2025-10-01T10:00:00Z"},
		"due_date": "Wed, 15 Oct 2025 10:00:00 GMT",
		"return_date": null,
		"requested_at": {"$date": {"$numberLong": "1759312800000"}}
	}`

	var rec BorrowRecord
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	assert.Equal(t, ID("r1"), rec.ID)
	assert.Equal(t, ID("b1"), rec.BookID)
	assert.Equal(t, StatusBorrowed, rec.Status)
	assert.Equal(t, "2025-10-01", rec.BorrowDate.DateOr("-"))
	assert.Equal(t, "2025-10-15", rec.DueDate.DateOr("-"))
	assert.Equal(t, "-", rec.ReturnDate.DateOr("-"))
	assert.Equal(t, time.UnixMilli(1759312800000).UTC(), rec.RequestedAt.Time)
}

func TestTimestampNeverFails(t *testing.T) {
	for _, in := range []string{`"not a date"`, `{"$date": true}`, `true`, `""`, `{}`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.True(t, ts.IsZero(), in)
		assert.Equal(t, "N/A", ts.DateOr("N/A"))
	}
}

func TestBookCopies(t *testing.T) {
	var b Book
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","title":"Dune"}`), &b))
	assert.Nil(t, b.AvailableCopies)
	assert.Equal(t, 0, b.Copies())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","available_copies":3}`), &b))
	assert.Equal(t, 3, b.Copies())
}

func TestCountShapes(t *testing.T) {
	tests := map[string]*int{
		`3`:                     intp(3),
		`2.0`:                   intp(2),
		`"4"`:                   intp(4),
		`" 5 "`:                 intp(5),
		`{"$numberInt":"1"}`:    intp(1),
		`{"$numberDouble":"0"}`: intp(0),
		`null`:                  nil,
		`"many"`:                nil,
		`true`:                  nil,
		`[1]`:                   nil,
	}
	for in, want := range tests {
		var b Book
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","available_copies":`+in+`}`), &b), in)
		assert.Equal(t, want, b.AvailableCopies, in)
		assert.Equal(t, ID("1"), b.ID, in)
	}
}

func intp(n int) *int { return &n }

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("Admin")
	assert.False(t, ok)
}
