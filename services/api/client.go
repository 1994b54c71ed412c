// Package api is the REST client of the orchestra backend (base path /api).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

const requestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer credential of authenticated calls.
type TokenSource interface {
	Token() string
}

// Error is a request rejected by the server (4xx/5xx).
type Error struct {
	Status  int
	Message string
	Fields  map[string]string // per-field validation errors, if any
}

func (e *Error) Error() string { return e.Message }

// StatusCode returns the HTTP status of a server rejected request, 0 otherwise.
func StatusCode(err error) int {
	if apiErr, ok := errors.Cause(err).(*Error); ok {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         core.Logger
}

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.API.Timeout},
		logger:  logger,
	}
}

// Authorize sets where credentials come from, and what to do when the server rejects them.
func (c *Client) Authorize(tokens TokenSource, onUnauthorized func()) {
	c.tokens = tokens
	c.onUnauthorized = onUnauthorized
}

// Do sends an authenticated request. in (if not nil) is sent as JSON; the response is decoded into out (if not nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	var token string
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	err := c.do(ctx, method, path, token, in, out)
	if StatusCode(err) == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WithStack(ctx.Err())
		}
		c.logger.Warn("api: request failed", err, map[string]interface{}{"method": method, "path": path, "requestID": reqID})
		return errors.WithStack(core.ErrConnection)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WithStack(ctx.Err())
		}
		c.logger.Warn("api: reading response failed", err, map[string]interface{}{"path": path, "requestID": reqID})
		return errors.WithStack(core.ErrConnection)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseError(resp.StatusCode, data)
		c.logger.Debug("api: request rejected", map[string]interface{}{
			"method": method, "path": path, "status": resp.StatusCode, "message": apiErr.Message, "requestID": reqID,
		})
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(unwrapData(data), out), "decoding response")
}

// unwrapData returns the "data" member of {"success": .., "data": ..} envelopes, or data itself.
func unwrapData(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil || len(envelope.Data) == 0 {
		return data
	}
	return envelope.Data
}

var messageKeys = []string{"message", "error", "mensaje"}

func parseError(status int, data []byte) *Error {
	apiErr := &Error{Status: status}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, key := range messageKeys {
			if msg, ok := body[key].(string); ok && msg != "" {
				apiErr.Message = msg
				break
			}
		}
		// validation errors: {"field": "message", ...}
		if apiErr.Message == "" && status == http.StatusBadRequest {
			fields := make(map[string]string, len(body))
			for k, v := range body {
				if msg, ok := v.(string); ok {
					fields[k] = msg
				}
			}
			if len(fields) > 0 {
				apiErr.Fields = fields
				apiErr.Message = core.NewValidationError(nil, fieldErrors(fields)...).Error()
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func fieldErrors(fields map[string]string) []core.FieldError {
	flds := make([]core.FieldError, 0, len(fields))
	for f, msg := range fields {
		flds = append(flds, core.FieldError{Field: f, Error: msg})
	}
	core.SortFieldErrors(flds)
	return flds
}

// FieldErrors returns the per-field validation errors of a 400 response.
func (e *Error) FieldErrors() map[string]string { return e.Fields }
