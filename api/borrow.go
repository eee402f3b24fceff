package api

import (
	"context"
	"fmt"
	"net/http"

	"library-console/library"
)

// BorrowAction is an admin decision on a pending request.
type BorrowAction string

const (
	ActionApprove BorrowAction = "approve"
	ActionReject  BorrowAction = "reject"
)

// ParseBorrowAction validates an action name.
func ParseBorrowAction(s string) (BorrowAction, error) {
	switch BorrowAction(s) {
	case ActionApprove, ActionReject:
		return BorrowAction(s), nil
	}
	return "", fmt.Errorf("unknown borrow action %q: want approve or reject", s)
}

type decideRequest struct {
	Action BorrowAction `json:"action"`
}

type borrowRequest struct {
	BookID library.ID `json:"book_id"`
}

// AdminBorrows returns all borrow activity split by state.
func (c *Client) AdminBorrows(ctx context.Context) (library.BorrowPartitions, error) {
	p, err := c.do(ctx, http.MethodGet, "/api/borrow/admin/borrows", nil, SafeParseJSON)
	if err != nil {
		return library.BorrowPartitions{}, err
	}
	return library.BorrowPartitions{
		Requested: decodeList[library.BorrowRecord](c.logger, p, "requested"),
		Borrowed:  decodeList[library.BorrowRecord](c.logger, p, "borrowed"),
		Returned:  decodeList[library.BorrowRecord](c.logger, p, "returned"),
	}, nil
}

// DecideBorrow approves or rejects a pending request.
func (c *Client) DecideBorrow(ctx context.Context, id library.ID, action BorrowAction) error {
	_, err := c.do(ctx, http.MethodPut, "/api/borrow/request/"+escapeID(string(id)), decideRequest{Action: action}, SafeParseJSON)
	return err
}

// ReturnBorrow marks a loan as returned.
func (c *Client) ReturnBorrow(ctx context.Context, id library.ID) error {
	_, err := c.do(ctx, http.MethodPut, "/api/borrow/return/"+escapeID(string(id)), struct{}{}, SafeParseJSON)
	return err
}

// RequestBorrow asks for a copy of a book.
func (c *Client) RequestBorrow(ctx context.Context, bookID library.ID) error {
	_, err := c.do(ctx, http.MethodPost, "/api/borrow/request", borrowRequest{BookID: bookID}, SafeParseJSON)
	return err
}

// MyBorrows returns the loans of the logged-in user.
func (c *Client) MyBorrows(ctx context.Context) ([]library.BorrowRecord, error) {
	p, err := c.do(ctx, http.MethodGet, "/api/borrow/my-borrows", nil, SafeParseJSON)
	if err != nil {
		return nil, err
	}
	return decodeList[library.BorrowRecord](c.logger, p, "borrows", "data"), nil
}
