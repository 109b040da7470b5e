package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/trigger"
)

// Trigger is a stored trigger as returned by the API.
type Trigger struct {
	Identifier         string    `json:"identifier"`
	Name               string    `json:"name"`
	OrgIdentifier      string    `json:"orgIdentifier"`
	ProjectIdentifier  string    `json:"projectIdentifier"`
	PipelineIdentifier string    `json:"pipelineIdentifier"`
	Type               string    `json:"type"`
	Enabled            bool      `json:"enabled"`
	YAML               string    `json:"yaml"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Config decodes the stored YAML.
func (t *Trigger) Config() (*trigger.Config, error) {
	return trigger.Parse([]byte(t.YAML))
}

// TriggersService exposes trigger operations.
type TriggersService struct {
	client *Client
}

// List fetches the triggers of a pipeline with optional filters.
func (s *TriggersService) List(ctx context.Context, pipeline string, params url.Values) ([]Trigger, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = slices.Clone(vs)
	}
	query.Set("targetIdentifier", pipeline)

	var payload []Trigger
	if err := s.client.do(ctx, request{method: http.MethodGet, path: "/v1/triggers", params: query}, &payload); err != nil {
		return nil, fmt.Errorf("list triggers: %w", err)
	}
	return payload, nil
}

// Get fetches a single trigger.
func (s *TriggersService) Get(ctx context.Context, pipeline, identifier string) (*Trigger, error) {
	var payload Trigger
	req := request{
		method: http.MethodGet,
		path:   "/v1/triggers/" + url.PathEscape(identifier),
		params: url.Values{"targetIdentifier": {pipeline}},
	}
	if err := s.client.do(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("get trigger %s: %w", identifier, err)
	}
	return &payload, nil
}

// Create stores a new trigger.
func (s *TriggersService) Create(ctx context.Context, cfg *trigger.Config) (*Trigger, error) {
	body, err := trigger.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var payload Trigger
	req := request{
		method:      http.MethodPost,
		path:        "/v1/triggers",
		params:      url.Values{"targetIdentifier": {cfg.PipelineIdentifier}},
		body:        body,
		contentType: contentTypeYAML,
	}
	if err := s.client.do(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("create trigger %s: %w", cfg.Identifier, err)
	}
	return &payload, nil
}

// Update replaces an existing trigger.
func (s *TriggersService) Update(ctx context.Context, cfg *trigger.Config) (*Trigger, error) {
	body, err := trigger.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var payload Trigger
	req := request{
		method:      http.MethodPut,
		path:        "/v1/triggers/" + url.PathEscape(cfg.Identifier),
		params:      url.Values{"targetIdentifier": {cfg.PipelineIdentifier}},
		body:        body,
		contentType: contentTypeYAML,
	}
	if err := s.client.do(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("update trigger %s: %w", cfg.Identifier, err)
	}
	return &payload, nil
}

// SetEnabled toggles a trigger without touching the rest of its definition.
func (s *TriggersService) SetEnabled(ctx context.Context, pipeline, identifier string, enabled bool) error {
	req := request{
		method: http.MethodPut,
		path:   "/v1/triggers/" + url.PathEscape(identifier) + "/status",
		params: url.Values{
			"targetIdentifier": {pipeline},
			"status":           {strconv.FormatBool(enabled)},
		},
	}
	if err := s.client.do(ctx, req, nil); err != nil {
		return fmt.Errorf("set trigger %s status: %w", identifier, err)
	}
	return nil
}

// Delete removes a trigger.
func (s *TriggersService) Delete(ctx context.Context, pipeline, identifier string) error {
	req := request{
		method: http.MethodDelete,
		path:   "/v1/triggers/" + url.PathEscape(identifier),
		params: url.Values{"targetIdentifier": {pipeline}},
	}
	if err := s.client.do(ctx, req, nil); err != nil {
		return fmt.Errorf("delete trigger %s: %w", identifier, err)
	}
	return nil
}
