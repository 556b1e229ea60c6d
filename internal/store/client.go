// Package store implements the client half of the admin panel: cached
// resource collections that fetch, mutate, and reconcile against the REST
// API. Each collection is held by a Store; the Session holds the bearer
// token the stores attach to their requests.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Credentials supplies the bearer token attached to API calls. An empty
// token means the call goes out unauthenticated.
type Credentials interface {
	Token() string
}

// CredentialsFunc adapts a function to the Credentials interface.
type CredentialsFunc func() string

func (f CredentialsFunc) Token() string { return f() }

// APIError is a non-2xx response with the message the server sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
}

// errorBody matches the API's error envelope. Either field may carry the
// human-readable message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client issues JSON requests against the API and decodes their responses.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
	logger  *slog.Logger

	// onUnauthorized fires after any 401 response. The Session hooks in
	// here to tear itself down when the server stops honoring its token.
	onUnauthorized func()
}

// NewClient builds a Client for the API at baseURL. creds may be nil for
// unauthenticated use; httpClient defaults to http.DefaultClient.
func NewClient(baseURL string, creds Credentials, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		creds:   creds,
		logger:  logger,
	}
}

// do sends one JSON request and decodes a 2xx body into out (when out is
// non-nil). Non-2xx responses come back as *APIError with the message
// field the server sent, or a generic fallback when the body has none.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		if apiErr.Status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Message: "HTTP error"}
	var envelope errorBody
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
	}
	return apiErr
}
