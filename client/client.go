// Package client is the Go gateway to the ConnextAlumni API: it holds the
// session, attaches the bearer token to every call, translates failures into
// a small error taxonomy, and forces re-authentication the moment the server
// rejects the session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Client is the authenticated request gateway. It holds at most one active
// session at a time; a rejected token is discarded immediately and never
// retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	// OnUnauthorized is invoked after the session has been discarded in
	// reaction to a 401. It is the routing seam back to the login entry
	// point. May be nil.
	OnUnauthorized func()

	mu    sync.RWMutex
	token string
	user  *User
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the gateway's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a gateway for the given API origin, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the held session token, empty when anonymous.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User returns the identity bound to the held session, nil when anonymous.
func (c *Client) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) adoptSession(token string, user *User) {
	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
}

// envelope matches the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// do executes one API call: JSON content type, merged caller headers, bearer
// injection when a token is held, and exactly one layer of error
// interpretation. A 401 discards the session and routes to re-authentication
// before any other classification.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, extraHeaders http.Header) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reqBody)
	if err != nil {
		return &TransportError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	for key, values := range extraHeaders {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
		return ErrAuthenticationRequired
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("failed to read response body")
		return &TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("malformed response body")
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		return apiErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Err: err}
		}
	}
	return nil
}

// handleUnauthorized discards the session and routes back to login. The old
// token must never be retried.
func (c *Client) handleUnauthorized() {
	c.clearSession()
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// Login authenticates and adopts the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result, nil)
	if err != nil {
		return nil, err
	}

	if result.Token != "" {
		c.adoptSession(result.Token, result.User)
	}
	return &result, nil
}

// Register creates an account and adopts the returned session.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", params, &result, nil); err != nil {
		return nil, err
	}

	if result.Token != "" {
		c.adoptSession(result.Token, result.User)
	}
	return &result, nil
}

// Logout revokes the session server-side and discards it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.clearSession()
	return err
}

// CurrentUser fetches the identity bound to the held session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies profile changes.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", update, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetConversations lists the caller's conversations, most recent first.
func (c *Client) GetConversations(ctx context.Context) ([]ConversationSummary, error) {
	var summaries []ConversationSummary
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", nil, &summaries, nil); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateConversation starts a conversation with another user.
func (c *Client) CreateConversation(ctx context.Context, participantID string) (*Conversation, error) {
	var conv Conversation
	err := c.do(ctx, http.MethodPost, "/messages/conversations", map[string]string{
		"participant_id": participantID,
	}, &conv, nil)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetMessages returns a conversation's history in creation order.
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var msgs []Message
	path := fmt.Sprintf("/messages/conversations/%s", conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs, nil); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage durably appends a message to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID, message string) (*Message, error) {
	var msg Message
	path := fmt.Sprintf("/messages/conversations/%s", conversationID)
	err := c.do(ctx, http.MethodPost, path, map[string]string{
		"message": message,
	}, &msg, nil)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
