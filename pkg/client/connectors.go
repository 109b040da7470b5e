package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/caesium-cloud/triggerkit/pkg/trigger/form"
)

// Connector is a git connector as returned by the API.
type Connector struct {
	Identifier string        `json:"identifier"`
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Spec       ConnectorSpec `json:"spec"`
}

// ConnectorSpec holds the connector fields relevant to triggers.
type ConnectorSpec struct {
	URL            string `json:"url"`
	ConnectionType string `json:"connectionType"`
	Type           string `json:"type"`
}

// URLType returns the scope of the connector URL.
func (c *Connector) URLType() form.URLType {
	t := c.Spec.ConnectionType
	if t == "" {
		t = c.Spec.Type
	}
	switch strings.ToLower(t) {
	case "account":
		return form.URLTypeAccount
	case "region":
		return form.URLTypeRegion
	case "repo":
		return form.URLTypeRepo
	default:
		return ""
	}
}

// ConnectorsService exposes connector lookups.
type ConnectorsService struct {
	client *Client
}

// Get fetches a connector by reference.
func (s *ConnectorsService) Get(ctx context.Context, ref string) (*Connector, error) {
	var payload Connector
	req := request{method: http.MethodGet, path: "/v1/connectors/" + url.PathEscape(ref)}
	if err := s.client.do(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("get connector %s: %w", ref, err)
	}
	return &payload, nil
}
