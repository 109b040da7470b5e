package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/caesium-cloud/triggerkit/pkg/pipeline"
)

type templateResponse struct {
	TemplateYAML string `json:"inputSetTemplateYaml"`
}

// PipelinesService exposes pipeline operations.
type PipelinesService struct {
	client *Client
}

// Template fetches the runtime input template of a pipeline. A pipeline
// without runtime inputs yields a nil template.
func (s *PipelinesService) Template(ctx context.Context, identifier string) (*pipeline.Pipeline, error) {
	var payload templateResponse
	req := request{
		method: http.MethodGet,
		path:   "/v1/pipelines/" + url.PathEscape(identifier) + "/template",
	}
	if err := s.client.do(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("get pipeline %s template: %w", identifier, err)
	}
	if payload.TemplateYAML == "" {
		return nil, nil
	}
	return pipeline.Parse([]byte(payload.TemplateYAML))
}
