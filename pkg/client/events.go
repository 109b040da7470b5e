package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/caesium-cloud/triggerkit/pkg/trigger"
)

// EventsService exposes the webhook event taxonomy.
type EventsService struct {
	client *Client
}

// Catalog fetches the events and actions of the given providers.
func (s *EventsService) Catalog(ctx context.Context, providers ...string) (trigger.Catalog, error) {
	catalog := trigger.Catalog{}
	for _, p := range providers {
		var events map[string][]string
		req := request{
			method: http.MethodGet,
			path:   "/v1/webhooks/events",
			params: url.Values{"provider": {p}},
		}
		if err := s.client.do(ctx, req, &events); err != nil {
			return nil, fmt.Errorf("get %s events: %w", p, err)
		}
		for e, actions := range events {
			if actions == nil {
				events[e] = []string{}
			}
		}
		catalog[p] = events
	}
	return catalog, nil
}
