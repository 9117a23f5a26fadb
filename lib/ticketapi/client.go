// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/netutil"
	"github.com/ticketdesk/ticketdesk/lib/version"
)

// DefaultBaseURL is the API root used when none is configured: the
// development server.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultTimeout bounds each request when the caller supplies no
// HTTPClient.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for a Client.
type Config struct {
	// BaseURL is the API root, without the /api prefix. Defaults to
	// DefaultBaseURL. Must be http or https.
	BaseURL string

	// Token is sent as a bearer token. Empty sends no Authorization
	// header; the server then answers 401 on protected endpoints.
	Token string

	// UserAgent overrides the default "ticketdesk/<version>".
	UserAgent string

	// HTTPClient is used for all requests. Its transport is wrapped
	// for response decompression. Defaults to a client with
	// DefaultTimeout.
	HTTPClient *http.Client

	// Clock times requests for logging. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives one debug record per request. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is a typed client for the ticketing REST API. Safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a client from config. Returns an error if the base
// URL is malformed or not http(s).
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ticketapi: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("ticketapi: base URL must be http or https (got %q)", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("ticketapi: base URL %q has no host", baseURL)
	}

	var httpClient http.Client
	if config.HTTPClient != nil {
		httpClient = *config.HTTPClient
	} else {
		httpClient.Timeout = DefaultTimeout
	}
	parent := httpClient.Transport
	if parent == nil {
		parent = http.DefaultTransport
	}
	httpClient.Transport = gzhttp.Transport(parent)

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "ticketdesk/" + version.Short()
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		userAgent:  userAgent,
		httpClient: &httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (client *Client) BaseURL() string { return client.baseURL }

// requestOptions adjusts a single request.
type requestOptions struct {
	query   url.Values
	noCache bool
}

// do executes an API request. requestBody is JSON-encoded when
// non-nil. On 2xx, a non-empty response body is decoded into result
// when result is non-nil. Non-2xx responses return *APIError.
func (client *Client) do(ctx context.Context, method, path string, options requestOptions, requestBody, result any) error {
	target := client.baseURL + path
	if len(options.query) > 0 {
		target += "?" + options.query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("ticketapi: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("ticketapi: creating request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", client.userAgent)
	request.Header.Set("X-Request-ID", requestID)
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if options.noCache {
		request.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		request.Header.Set("Pragma", "no-cache")
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("ticketapi: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	client.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", client.clock.Now().Sub(started),
	)
	if err != nil {
		return fmt.Errorf("ticketapi: %s %s: reading response: %w", method, path, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiError := parseAPIError(response.StatusCode, body)
		apiError.RequestID = requestID
		return apiError
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("ticketapi: %s %s: decoding response: %w", method, path, err)
	}
	return nil
}

// parseAPIError builds an APIError from a status code and body. A body
// that is not a JSON object with a message is kept verbatim.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.Errors = wireError.Errors
	} else {
		apiError.Message = strings.TrimSpace(string(body))
	}
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}
	return apiError
}

// envelope is the {"data": ...} wrapper around single resources.
type envelope[T any] struct {
	Data T `json:"data"`
}

// getData performs a GET and unwraps the data envelope.
func getData[T any](ctx context.Context, client *Client, path string, options requestOptions) (*T, error) {
	var wrapped envelope[T]
	if err := client.do(ctx, http.MethodGet, path, options, nil, &wrapped); err != nil {
		return nil, err
	}
	return &wrapped.Data, nil
}

func ticketPath(id int64, suffix string) (string, error) {
	if id <= 0 {
		return "", ErrInvalidID
	}
	return fmt.Sprintf("/api/tickets/%d%s", id, suffix), nil
}
