// Package api implements the HTTP client for the Yana search endpoint.
// One call, one response: POST {host}/api/v1/search with the BRD text,
// decode the workflow bundle. No retries; a failed submission is reported
// and the user resubmits.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"yana/internal/logging"
	"yana/internal/workflow"
)

// ErrEmptyQuery is returned before any network I/O when the submitted
// prompt is blank or whitespace-only.
var ErrEmptyQuery = errors.New("query is empty")

// StatusError is a non-2xx reply from the backend, carrying the optional
// {"error": "..."} message from the body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("search failed with status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("search failed with status %d", e.Code)
}

// Config is the explicit client configuration. Credentials are optional;
// when either half is missing no Authorization header is sent. Passing
// this in (instead of reading process-wide state inside the client) keeps
// the auth header out of module globals.
type Config struct {
	Host     string
	Username string
	Password string
	Timeout  time.Duration
}

// Client talks to the Yana backend. Safe for concurrent use.
type Client struct {
	host       string
	authHeader string
	httpClient *http.Client
}

// NewClient builds a client from an explicit config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		// The multi-agent pipeline routinely takes minutes per query.
		timeout = 10 * time.Minute
	}

	auth := ""
	if cfg.Username != "" && cfg.Password != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		auth = "Basic " + creds
	}

	return &Client{
		host:       strings.TrimRight(cfg.Host, "/"),
		authHeader: auth,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// Submit sends the BRD text to the backend and returns the decoded
// workflow bundle. Blank input never reaches the network.
func (c *Client) Submit(ctx context.Context, query string) (*workflow.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	logging.API("submit req=%s len=%d host=%s", requestID, len(query), c.host)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("submit req=%s transport error: %v", requestID, err)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Code: resp.StatusCode}
		// The error envelope is optional; any other body shape is ignored.
		if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
			var env errorEnvelope
			if json.Unmarshal(raw, &env) == nil {
				serr.Message = env.Error
			}
		}
		logging.APIError("submit req=%s status=%d msg=%q", requestID, serr.Code, serr.Message)
		return nil, serr
	}

	result, err := workflow.Decode(resp.Body)
	if err != nil {
		logging.APIError("submit req=%s decode failed: %v", requestID, err)
		return nil, err
	}

	logging.API("submit req=%s ok flows=%d screens=%d took=%v",
		requestID, len(result.ScreenFlows), len(result.Screens), time.Since(start))
	return result, nil
}
