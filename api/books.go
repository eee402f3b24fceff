package api

import (
	"context"
	"net/http"
	"net/url"

	"library-console/library"
)

// NewBook is the body of POST /api/books.
type NewBook struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	AvailableCopies int    `json:"available_copies"`
}

// BookUpdate carries the catalogue fields to change; empty fields are not sent.
type BookUpdate struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	ISBN     string `json:"isbn,omitempty"`
	Category string `json:"category,omitempty"`
	Quantity *int   `json:"quantity,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u BookUpdate) Empty() bool {
	return u.Title == "" && u.Author == "" && u.ISBN == "" && u.Category == "" && u.Quantity == nil
}

// ListBooks returns the whole catalogue.
func (c *Client) ListBooks(ctx context.Context) ([]library.Book, error) {
	p, err := c.do(ctx, http.MethodGet, "/api/books", nil, SafeParseJSON)
	if err != nil {
		return nil, err
	}
	return decodeList[library.Book](c.logger, p, "books", "data"), nil
}

// SearchBooks asks the server for titles matching q. Non-admin sessions only
// get books with copies left.
func (c *Client) SearchBooks(ctx context.Context, q string) ([]library.Book, error) {
	p, err := c.do(ctx, http.MethodGet, "/api/books/search?q="+url.QueryEscape(q), nil, SafeParseJSON)
	if err != nil {
		return nil, err
	}
	return decodeList[library.Book](c.logger, p, "books", "data"), nil
}

// CreateBook adds a catalogue entry.
func (c *Client) CreateBook(ctx context.Context, book NewBook) error {
	_, err := c.do(ctx, http.MethodPost, "/api/books", book, SafeParseJSON)
	return err
}

// UpdateBook edits a catalogue entry.
func (c *Client) UpdateBook(ctx context.Context, id library.ID, update BookUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/api/books/"+escapeID(string(id)), update, SafeParseJSON)
	return err
}

// DeleteBook removes a catalogue entry.
func (c *Client) DeleteBook(ctx context.Context, id library.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/books/"+escapeID(string(id)), nil, SafeParseJSON)
	return err
}
