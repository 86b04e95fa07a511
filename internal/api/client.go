// Package api is the HTTP client for the inventory backend.
//
// The backend owns persistence and search semantics; this package only
// speaks its JSON contract and turns every failure into one of three error
// kinds (StatusError, TransportError, DecodeError) that carry a message fit
// for display.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/binfinder/binfinder/internal/validation"
)

const (
	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
	// maxErrorBodyBytes bounds how much of an error body is kept as a message.
	maxErrorBodyBytes = 512
)

// RequestObserver receives one call per completed backend request.
// Status is 0 when no response was obtained.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// BreakerConfig configures the circuit breaker wrapped around every request.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the backend API root, e.g. http://localhost:8080/api.
	BaseURL string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout    time.Duration
	Breaker    BreakerConfig
	HTTPClient *http.Client
	Logger     *slog.Logger
	Observer   RequestObserver
	Validator  *validation.Validator
}

// Client talks to the inventory backend.
type Client struct {
	base     *url.URL
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
	observer RequestObserver
	validate *validation.Validator
}

// New creates a client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	validate := cfg.Validator
	if validate == nil {
		validate = validation.Default()
	}

	c := &Client{
		base:     base,
		http:     httpClient,
		logger:   logger,
		observer: cfg.Observer,
		validate: validate,
	}

	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, logger)
	}

	return c, nil
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func newBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Client errors and cancelled requests say nothing about backend health.
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			if errors.Is(err, context.Canceled) {
				return true
			}
			return err == nil
		},
	})
}

// request describes one backend call.
type request struct {
	method string
	// route is the templated path used for logs and metrics, e.g. /items/{id}.
	route string
	// path segments appended to the base URL.
	path []string
	// rawQuery is appended verbatim; callers are responsible for encoding.
	rawQuery string
	body     any
	out      any
	// allowEmpty accepts an empty 2xx body without decoding.
	allowEmpty bool
}

func (c *Client) do(ctx context.Context, req request) error {
	if c.breaker == nil {
		return c.roundTrip(ctx, req)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransportError{
			Method: req.method,
			Route:  req.route,
			Err:    fmt.Errorf("%w: %v", ErrBackendUnavailable, err),
		}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request) error {
	u := c.base.JoinPath(req.path...)
	u.RawQuery = req.rawQuery

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(req, 0, elapsed)
		c.logger.Debug("backend request failed", "method", req.method, "route", req.route, "error", err)
		return &TransportError{Method: req.method, Route: req.route, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(req, resp.StatusCode, elapsed)
	c.logger.Debug("backend request", "method", req.method, "route", req.route, "status", resp.StatusCode, "duration", elapsed)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: req.method, Route: req.route, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     req.method,
			Route:      req.route,
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
			Message:    serverMessage(data),
		}
	}

	if req.out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if req.allowEmpty {
			return nil
		}
		return &DecodeError{Method: req.method, Route: req.route, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(data, req.out); err != nil {
		return &DecodeError{Method: req.method, Route: req.route, Err: err}
	}
	return nil
}

// fetchList decodes a JSON array response into a non-nil slice and validates
// every element. A null body is a shape failure, not an empty list.
func fetchList[T any](ctx context.Context, c *Client, req request) ([]T, error) {
	var out []T
	req.out = &out
	if err := c.do(ctx, req); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &DecodeError{Method: req.method, Route: req.route, Err: errors.New("expected a JSON array, got null")}
	}
	if err := validation.Slice(c.validate, out); err != nil {
		return nil, &DecodeError{Method: req.method, Route: req.route, Err: err}
	}
	return out, nil
}

func (c *Client) observe(req request, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(req.method, req.route, status, elapsed)
	}
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}

// serverMessage pulls a message out of an error body: a JSON "message" or
// "error" field if present, otherwise short plain text.
func serverMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}

	if body[0] == '<' {
		// HTML error pages are noise in a message line.
		return ""
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return string(body)
}

// encodeQueryValue percent-encodes a query value the way browsers'
// encodeURIComponent does (spaces become %20, not +).
func encodeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

func idSegment(id int64) string {
	return strconv.FormatInt(id, 10)
}
