// Package client talks to the platform REST API that stores triggers and
// pipelines. Failures are returned to the caller as they are; nothing is
// retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/caesium-cloud/triggerkit/pkg/log"
	"github.com/google/uuid"
)

const (
	headerAPIKey    = "X-Api-Key"
	headerRequestID = "X-Request-ID"

	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)

// APIError is returned for failed requests.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: request failed: %s", e.Method, e.URL, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// NotFound reports whether the API answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client wraps HTTP interaction with the platform REST API.
type Client struct {
	cfg        *Config
	httpClient *http.Client
}

// New constructs a client from the provided configuration.
func New(cfg *Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Triggers exposes trigger operations.
func (c *Client) Triggers() *TriggersService {
	return &TriggersService{client: c}
}

// Pipelines exposes pipeline operations.
func (c *Client) Pipelines() *PipelinesService {
	return &PipelinesService{client: c}
}

// Connectors exposes connector lookups.
func (c *Client) Connectors() *ConnectorsService {
	return &ConnectorsService{client: c}
}

// Events exposes the webhook event taxonomy.
func (c *Client) Events() *EventsService {
	return &EventsService{client: c}
}

// scope returns the account/org/project query parameters merged with extra.
func (c *Client) scope(extra url.Values) url.Values {
	params := url.Values{}
	if c.cfg.Account != "" {
		params.Set("accountIdentifier", c.cfg.Account)
	}
	if c.cfg.Org != "" {
		params.Set("orgIdentifier", c.cfg.Org)
	}
	if c.cfg.Project != "" {
		params.Set("projectIdentifier", c.cfg.Project)
	}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	return params
}

func (c *Client) resolve(path string, params url.Values) string {
	raw := strings.TrimSuffix(c.cfg.BaseURL.String(), "/") + path
	if q := params.Encode(); q != "" {
		return raw + "?" + q
	}
	return raw
}

type request struct {
	method      string
	path        string
	params      url.Values
	body        []byte
	contentType string
}

func (c *Client) do(ctx context.Context, r request, v any) error {
	endpoint := c.resolve(r.path, c.scope(r.params))

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", contentTypeJSON)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set(headerAPIKey, c.cfg.APIKey)
	}

	log.Debug("api request", "method", r.method, "url", endpoint, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			Method:     r.method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(resp.Body),
			RequestID:  requestID,
		}
		if err := resp.Body.Close(); err != nil {
			return errors.Join(apiErr, err)
		}
		return apiErr
	}

	if v == nil || resp.StatusCode == http.StatusNoContent {
		return resp.Body.Close()
	}

	return decodeBody(resp.Body, v)
}

type errorResponse struct {
	Message string `json:"message"`
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func decodeBody(body io.ReadCloser, target any) error {
	decodeErr := json.NewDecoder(body).Decode(target)
	closeErr := body.Close()
	if decodeErr != nil {
		if closeErr != nil {
			return errors.Join(decodeErr, closeErr)
		}
		return decodeErr
	}
	return closeErr
}
