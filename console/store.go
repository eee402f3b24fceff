package console

import (
	"strings"
	"sync"

	"library-console/library"
)

// BookCache holds the last fetched catalogue and the number of borrow
// requests this process has sent per book. The counts only ever go up; they
// are never reconciled with the server.
type BookCache struct {
	mu       sync.RWMutex
	books    []library.Book
	requests map[library.ID]int
}

// NewBookCache returns an empty cache.
func NewBookCache() *BookCache {
	return &BookCache{requests: make(map[library.ID]int)}
}

// Replace swaps in a freshly fetched catalogue. Request counts survive.
func (c *BookCache) Replace(books []library.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = append([]library.Book(nil), books...)
}

// Books returns a copy of the cached catalogue.
func (c *BookCache) Books() []library.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]library.Book(nil), c.books...)
}

// Find looks a book up by id.
func (c *BookCache) Find(id library.ID) (library.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return library.Book{}, false
}

// Filter returns the books whose title, author or category contains query,
// ignoring case. An empty query matches everything.
func (c *BookCache) Filter(query string) []library.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []library.Book
	for _, b := range c.books {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Category), q) {
			out = append(out, b)
		}
	}
	return out
}

// RecordRequest bumps the request count for id and returns the new value.
func (c *BookCache) RecordRequest(id library.ID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[id]++
	return c.requests[id]
}

// Requests returns the request count for id.
func (c *BookCache) Requests(id library.ID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requests[id]
}
