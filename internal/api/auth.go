package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Password2   string `json:"password2"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// Login posts credentials and returns the raw reply; its shape varies
// between backend versions.
func (c *Client) Login(ctx context.Context, cred Credentials) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/login/", body: cred, noRetry: true}, &raw)
	return raw, err
}

// Register creates an account and returns the raw reply.
func (c *Client) Register(ctx context.Context, reg Registration) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/register/", body: reg, noRetry: true}, &raw)
	return raw, err
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (quote.User, error) {
	var u quote.User
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/auth/profile/"}, &u)
	return u, err
}

// Logout asks the backend to blacklist refresh.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	return c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/api/auth/logout/",
		body:    map[string]string{"refresh": refresh},
		noRetry: true,
	}, nil)
}
