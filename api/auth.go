package api

import (
	"context"
	"net/http"
)

// SignupRequest is the body of POST /api/users/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (Payload, error) {
	return c.do(ctx, http.MethodPost, "/api/users/signup", req, SafeParseResponse)
}

// LoginResponse is a successful login. Token may still be empty if the server
// answered 2xx without one; Payload then carries whatever it did say.
type LoginResponse struct {
	Token   string
	Role    string
	Payload Payload
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	p, err := c.do(ctx, http.MethodPost, "/api/users/login", loginRequest{Username: username, Password: password}, SafeParseResponse)
	if err != nil {
		return LoginResponse{Payload: p}, err
	}
	return LoginResponse{
		Token:   p.String("token"),
		Role:    p.String("role"),
		Payload: p,
	}, nil
}
