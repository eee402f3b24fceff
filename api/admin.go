package api

import (
	"context"
	"net/http"

	"library-console/library"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserUpdate carries the fields to change; empty fields are not sent.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]library.User, error) {
	p, err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, SafeParseJSON)
	if err != nil {
		return nil, err
	}
	return decodeList[library.User](c.logger, p, "users"), nil
}

// CreateUser adds a regular account.
func (c *Client) CreateUser(ctx context.Context, username, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/admin/users", createUserRequest{Username: username, Password: password}, SafeParseJSON)
	return err
}

// UpdateUser changes the username and/or password of an account.
func (c *Client) UpdateUser(ctx context.Context, id library.ID, update UserUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/api/admin/users/"+escapeID(string(id)), update, SafeParseJSON)
	return err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id library.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+escapeID(string(id)), nil, SafeParseJSON)
	return err
}
