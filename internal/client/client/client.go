// Package client implements a typed HTTP client for the account API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable indicates the server could not be reached at all, as
// opposed to the server answering with an error.
var ErrUnavailable = errors.New("server unavailable")

const requestTimeout = 10 * time.Second

// User mirrors the public account representation returned by the API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// APIError is an error response decoded from the server.
type APIError struct {
	Status int
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return e.Detail
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// doJSON sends a JSON request and decodes a JSON response into out.
// Non-2xx responses are returned as *APIError; transport failures are
// wrapped in ErrUnavailable.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Detail == "" {
			apiErr.Detail = resp.Status
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, username, email string, password []byte) (*User, error) {
	req := map[string]string{
		"username": username,
		"email":    email,
		"password": string(password),
	}
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the returned token for later calls.
func (c *Client) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	req := map[string]string{
		"email":    email,
		"password": string(password),
	}
	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &session); err != nil {
		return nil, err
	}
	c.token = session.AccessToken
	return &session, nil
}

func (c *Client) Verify(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/verify", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sends only the fields that are non-nil.
func (c *Client) UpdateProfile(ctx context.Context, username, email *string) (*User, error) {
	req := map[string]*string{}
	if username != nil {
		req["username"] = username
	}
	if email != nil {
		req["email"] = email
	}
	var user User
	if err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdatePassword(ctx context.Context, current, new []byte) error {
	req := map[string]string{
		"current_password": string(current),
		"new_password":     string(new),
	}
	return c.doJSON(ctx, http.MethodPut, "/api/auth/password", req, nil)
}

func (c *Client) UpdateAvatar(ctx context.Context, avatar string) error {
	req := map[string]string{"avatar": avatar}
	return c.doJSON(ctx, http.MethodPut, "/api/auth/avatar", req, nil)
}
