// Package analysis sends the collected answers to the remote analysis
// service and turns its reply into a validated AnalysisResult.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single analysis request.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// Config holds the collaborator location and credential.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client posts answers to the collaborator. It makes exactly one request
// per Analyze call and never retries.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze submits fields and returns the validated result. Every failure
// is an *Error.
func (c *Client) Analyze(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error) {
	requestID := uuid.NewString()
	start := time.Now()

	result, status, err := c.analyze(ctx, requestID, fields)

	event := CallEvent{
		RequestID: requestID,
		Endpoint:  c.cfg.Endpoint,
		LatencyMs: time.Since(start).Milliseconds(),
		Status:    status,
		Success:   err == nil,
	}
	if ae, ok := AsError(err); ok {
		ae.Status = status
		event.ErrorCode = ae.Kind
	}
	c.observer.OnCallComplete(event)

	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

func (c *Client) analyze(ctx context.Context, requestID string, fields domain.FieldMap) (domain.AnalysisResult, int, error) {
	if strings.TrimSpace(c.cfg.Endpoint) == "" {
		return domain.AnalysisResult{}, 0, newError(KindNotConfigured, requestID, "set analysis.endpoint or PRESCREEN_ANALYSIS_ENDPOINT", nil)
	}

	body, err := json.Marshal(Request{FormData: fields})
	if err != nil {
		return domain.AnalysisResult{}, 0, newError(KindInvalidRequest, requestID, "encoding answers", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AnalysisResult{}, 0, newError(KindNotConfigured, requestID, "invalid endpoint", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("apikey", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return domain.AnalysisResult{}, 0, newError(KindTimeout, requestID, fmt.Sprintf("no response within %s", c.cfg.Timeout), err)
		}
		return domain.AnalysisResult{}, 0, newError(KindUnavailable, requestID, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return domain.AnalysisResult{}, resp.StatusCode, newError(KindTimeout, requestID, "reading response", err)
		}
		return domain.AnalysisResult{}, resp.StatusCode, newError(KindUnavailable, requestID, "reading response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.AnalysisResult{}, resp.StatusCode, newError(KindStatus, requestID, statusMessage(resp.StatusCode, data), nil)
	}

	result, err := Normalize(data)
	if err != nil {
		return domain.AnalysisResult{}, resp.StatusCode, newError(KindInvalidResponse, requestID, err.Error(), err)
	}
	return result, resp.StatusCode, nil
}

// statusMessage prefers the collaborator's own error text.
func statusMessage(status int, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return http.StatusText(status)
}
