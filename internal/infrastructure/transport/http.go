package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the portal API client.
type ClientConfig struct {
	// BaseURL is the portal API base URL
	BaseURL string

	// Timeout fails every call uniformly once exceeded
	Timeout time.Duration

	// UserAgent is sent with every request when set
	UserAgent string

	// HTTPClient overrides the underlying client (tests)
	HTTPClient *http.Client

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables request tracing
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:   baseURL,
		Timeout:   30 * time.Second,
		UserAgent: "unayoe-portal-client",
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the HTTP implementation of Requester.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger

	hooksMu        sync.RWMutex
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
}

var _ Requester = (*Client)(nil)

// NewClient creates a new portal API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     config.Logger,
	}
}

// SetTokenSource installs the bearer token provider.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.hooksMu.Lock()
	c.tokens = ts
	c.hooksMu.Unlock()
}

// OnUnauthorized installs the handler run after a 401 answer.
func (c *Client) OnUnauthorized(h UnauthorizedHandler) {
	c.hooksMu.Lock()
	c.onUnauthorized = h
	c.hooksMu.Unlock()
}

// Get implements Requester.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// Post implements Requester.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// Put implements Requester.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, out)
}

// Delete implements Requester.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// apiErrorDTO is the error body of the portal API. detail is either a
// string or a list of field errors.
type apiErrorDTO struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type fieldErrorDTO struct {
	Msg string `json:"msg"`
}

func (d apiErrorDTO) text() string {
	if len(d.Detail) > 0 {
		var s string
		if err := json.Unmarshal(d.Detail, &s); err == nil {
			return s
		}
		var fields []fieldErrorDTO
		if err := json.Unmarshal(d.Detail, &fields); err == nil {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				if f.Msg != "" {
					msgs = append(msgs, f.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return d.Message
}

// doRequest performs a single HTTP request. No retries are attempted.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	fullURL := c.config.BaseURL + path
	requestID := uuid.NewString()
	log := c.logger.With(logger.RequestID(requestID))

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.hooksMu.RLock()
	tokens := c.tokens
	c.hooksMu.RUnlock()
	if tokens != nil {
		if token := tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.config.Debug {
		log.Debug("portal api request", "method", method, "path", path)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("portal api unreachable", "method", method, "path", path, logger.Err(err))
		return &Error{Status: 0, Message: MsgConnection, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: 0, Message: MsgConnection, Err: fmt.Errorf("read response: %w", err)}
	}

	if c.config.Debug {
		log.Debug("portal api response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			logger.Latency(time.Since(start)),
		)
	}

	// Handle error responses
	if resp.StatusCode >= 400 {
		var apiErr apiErrorDTO
		_ = json.Unmarshal(respBody, &apiErr)
		rejection := &Error{Status: resp.StatusCode, Message: apiErr.text()}

		if resp.StatusCode == http.StatusUnauthorized {
			c.hooksMu.RLock()
			hook := c.onUnauthorized
			c.hooksMu.RUnlock()
			if hook != nil {
				hook(ctx)
			}
		}

		log.Debug("portal api rejected", "method", method, "path", path, "status", resp.StatusCode)
		return rejection
	}

	// Unmarshal response
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
