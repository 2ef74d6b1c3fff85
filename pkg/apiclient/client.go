// Package apiclient talks JSON over HTTP to the booking backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

const (
	HeaderSessionID = "X-Session-Id"
	HeaderRequestID = "X-Request-Id"
)

// ErrTransport marks failures where no usable backend answer was received.
var ErrTransport = errors.New("transport failure")

// Error is a non-2xx backend answer.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, log)
}

func NewWithHTTPClient(baseURL string, hc *http.Client, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    hc,
		log:     log.With(zap.String("client", "backend")),
	}
}

// Get issues GET baseURL+path?query and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues POST baseURL+path with body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	requestID, ok := utils.GetRequestIDFromContext(ctx)
	if !ok || requestID == "" {
		requestID = utils.GenerateRequestID()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if cred, ok := utils.GetCredentialFromContext(ctx); ok {
		req.Header.Set(HeaderSessionID, cred)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	c.log.Debug("Backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		apiErr := &Error{Status: resp.StatusCode, Message: msg}
		// Some endpoints answer {success:false,...} with a 4xx; let callers read it.
		if out != nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, out)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response of %s %s: %v", ErrTransport, method, path, err)
	}
	return nil
}
