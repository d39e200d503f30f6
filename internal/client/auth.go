// ABOUTME: Login and signup calls against /auth
// ABOUTME: Returns issued tokens; storing them is the caller's decision

package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Login calls POST /auth/login and returns the bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp AuthResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   Credentials{Email: email, Password: password},
	}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "login response did not include a token"}
	}
	return resp.Token, nil
}

// Signup calls POST /auth/signup. The backend may answer with plain text or
// with a token; the token is returned when present, "" otherwise.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var raw []byte
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   Credentials{Email: email, Password: password},
	}, &raw); err != nil {
		return "", err
	}
	return tokenFrom(raw), nil
}

func tokenFrom(raw []byte) string {
	var resp AuthResponse
	if len(raw) == 0 || json.Unmarshal(raw, &resp) != nil {
		return ""
	}
	return resp.Token
}
