// Package api is the HTTP client of the Simulador de Lucratividade REST API.
//
// Authenticated calls carry the session's access token as a Bearer header.
// When the server answers 401 the client refreshes the access token once
// through GET /refresh-token and retries the call; if the refresh is rejected
// the session is logged out. Every request carries an X-Request-ID header
// that is also attached to the client's log lines.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"simulador/internal/auth"
	"simulador/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

const (
	// RefreshCookieName carries the refresh token on GET /refresh-token.
	RefreshCookieName = "refreshToken"

	// RequestIDHeader identifies a request in client and server logs.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout     = 15 * time.Second
	defaultRefreshSkew = 30 * time.Second
	maxErrorBodyBytes  = 64 << 10
)

// Client calls the REST API on behalf of an auth.Session.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     *auth.Session
	refreshSkew time.Duration
	log         zerolog.Logger

	refreshMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRefreshSkew sets how long before expiry the access token is refreshed
// proactively.
func WithRefreshSkew(d time.Duration) Option {
	return func(c *Client) { c.refreshSkew = d }
}

// NewClient creates a client for baseURL. session may be nil for public calls only.
func NewClient(baseURL string, session *auth.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		session:     session,
		refreshSkew: defaultRefreshSkew,
		log:         logger.WithComponent("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client acts for.
func (c *Client) Session() *auth.Session {
	return c.session
}

type call struct {
	op     string
	method string
	path   string
	in     any
	out    any
	public bool
}

type errorBody struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body []byte
	if cl.in != nil {
		var err error
		if body, err = json.Marshal(cl.in); err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
	}

	authenticated := !cl.public && c.session != nil
	if authenticated && !c.session.LoggedIn() {
		return fmt.Errorf("%s: %w", cl.op, auth.ErrNotLoggedIn)
	}
	if authenticated && c.session.NeedsRefresh(c.refreshSkew) {
		if err := c.refresh(ctx, c.session.AccessToken()); err != nil {
			c.log.Warn().Err(err).Msg("Proactive token refresh failed")
		}
	}

	token := ""
	if authenticated {
		token = c.session.AccessToken()
	}

	resp, err := c.send(ctx, cl, body, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated && c.session.RefreshToken() != "" {
		drain(resp)
		if err := c.refresh(ctx, token); err != nil {
			c.log.Warn().Err(err).Str("op", cl.op).Msg("Token refresh failed, logging out")
			if logoutErr := c.session.Logout(ctx); logoutErr != nil {
				c.log.Error().Err(logoutErr).Msg("Failed to clear session")
			}
			return &APIError{
				Op:         cl.op,
				Method:     cl.method,
				Path:       cl.path,
				StatusCode: http.StatusUnauthorized,
				Message:    "Sessão expirada. Faça login novamente.",
				Err:        fmt.Errorf("%w: %w", ErrUnauthorized, err),
			}
		}

		if resp, err = c.send(ctx, cl, body, c.session.AccessToken()); err != nil {
			return err
		}
	}
	defer drain(resp)

	return c.decode(cl, resp)
}

func (c *Client) send(ctx context.Context, cl call, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", cl.op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With().Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().
			Err(err).
			Str("method", cl.method).
			Str("path", cl.path).
			Msg("Request failed")
		return nil, fmt.Errorf("%s: %s %s: %w", cl.op, cl.method, cl.path, err)
	}

	log.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	return resp, nil
}

func (c *Client) decode(cl call, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		var eb errorBody
		message := ""
		if err := json.Unmarshal(data, &eb); err == nil {
			message = messageText(eb.Message)
			if message == "" {
				message = eb.Error
			}
		}
		return &APIError{
			Op:         cl.op,
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        statusError(resp.StatusCode),
		}
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", cl.op, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s: empty body: %w", cl.op, ErrUnexpectedResponse)
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

// refresh exchanges the refresh token for a new access token. used is the
// access token that was rejected; if another call already replaced it the
// refresh is skipped.
func (c *Client) refresh(ctx context.Context, used string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.session.AccessToken(); current != "" && current != used {
		return nil
	}

	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return ErrRefreshFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/refresh-token", nil)
	if err != nil {
		return fmt.Errorf("refresh: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refreshToken})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("refresh: status %d: %w", resp.StatusCode, ErrRefreshFailed)
	}

	var out struct {
		Payload struct {
			AccessToken string `json:"accessToken"`
		} `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("refresh: decode response: %w", err)
	}
	if out.Payload.AccessToken == "" {
		return fmt.Errorf("refresh: empty access token: %w", ErrRefreshFailed)
	}

	if err := c.session.UpdateAccessToken(ctx, out.Payload.AccessToken); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	c.log.Debug().Msg("Access token refreshed")
	return nil
}

// messageText flattens the message field, which validation errors send as a list.
func messageText(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	_ = resp.Body.Close()
}
