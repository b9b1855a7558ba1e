package client

import (
	"context"
	"net/http"
)

// RegisterData is the payload for creating an account.
type RegisterData struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// Register creates a new account. The server issues an access token
// right away, a separate login is not needed.
func (c *Client) Register(ctx context.Context, data RegisterData) (TokenResponse, error) {
	var token TokenResponse
	err := c.Do(ctx, http.MethodPost, "/api/register", data, &token)
	return token, err
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var token TokenResponse
	err := c.Do(ctx, http.MethodPost, "/api/login", body, &token)
	return token, err
}

// Me returns the profile of the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.Do(ctx, http.MethodGet, "/api/me", nil, &user)
	return user, err
}

// RequestPasswordReset asks the server to send a password reset link.
// The response does not reveal whether the address is registered.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (Message, error) {
	var msg Message
	err := c.Do(ctx, http.MethodPost, "/api/password_reset", map[string]string{"email": email}, &msg)
	return msg, err
}

// ConfirmPasswordReset sets a new password using a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (Message, error) {
	body := map[string]string{"token": token, "new_password": newPassword}

	var msg Message
	err := c.Do(ctx, http.MethodPost, "/api/password_reset/confirm", body, &msg)
	return msg, err
}
