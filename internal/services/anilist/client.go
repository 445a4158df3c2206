package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amaumene/rakuroku/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxAggregatePages bounds page-following loops
const maxAggregatePages = 100

// Client handles communication with the AniList GraphQL API
type Client struct {
	apiURL     string
	userName   string
	session    *Session
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
	now        func() time.Time
}

// NewClient creates a new AniList API client
func NewClient(cfg *config.Config, session *Session, logger *logrus.Logger) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("AniList API URL is required")
	}
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", cfg.RateLimit)
	}

	burst := cfg.RateLimit
	if burst > 10 {
		burst = 10
	}

	return &Client{
		apiURL:     cfg.APIURL,
		userName:   cfg.UserName,
		session:    session,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), burst),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

// doRequest performs a single GraphQL request and decodes data into result.
// Failures come back as *Error; nothing is retried.
func (c *Client) doRequest(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindTransport, Operation: operation, Err: err}
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"operation": operation,
		"variables": variables,
	}).Debug("Making AniList API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Operation: operation, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"operation":   operation,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("AniList API response")

	var envelope graphQLResponse
	decodeErr := json.Unmarshal(respBody, &envelope)

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.WithField("operation", operation).Warn("AniList rate limit hit")
		return &Error{Kind: KindRateLimited, Operation: operation, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Kind: KindService, Operation: operation, StatusCode: resp.StatusCode}
		if decodeErr == nil && len(envelope.Errors) > 0 {
			apiErr.Message = envelope.Errors[0].Message
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if len(envelope.Errors) > 0 {
		return &Error{
			Kind:       KindQuery,
			Operation:  operation,
			StatusCode: envelope.Errors[0].Status,
			Message:    envelope.Errors[0].Message,
		}
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", operation, err)
		}
	}

	return nil
}

// requireUserName guards reads scoped to the configured user
func (c *Client) requireUserName() error {
	if c.userName == "" {
		return ErrNoUserName
	}
	return nil
}

// requireAuth guards mutations
func (c *Client) requireAuth() error {
	if !c.session.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}
