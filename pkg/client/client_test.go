package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/env"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/form"
	"github.com/google/uuid"
)

const webhookYAML = `trigger:
  name: pr
  identifier: pr
  enabled: true
  pipelineIdentifier: build
  source:
    type: Webhook
    spec:
      type: Github
      spec:
        type: PullRequest
        spec:
          connectorRef: gh
          actions: []
`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return New(&Config{
		BaseURL:     mustParse(t, ts.URL),
		HTTPTimeout: time.Second,
		APIKey:      "secret",
		Account:     "acct",
		Org:         "default",
		Project:     "proj",
	})
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(env.Environment{BaseURL: "platform.local:9000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL.String() != "http://platform.local:9000" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}

	cfg, err = NewConfig(env.Environment{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL.String() != "http://127.0.0.1:8080" {
		t.Fatalf("unexpected default base url %q", cfg.BaseURL)
	}
}

func TestRequestHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerAPIKey) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if _, err := uuid.Parse(r.Header.Get(headerRequestID)); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		q := r.URL.Query()
		if q.Get("accountIdentifier") != "acct" || q.Get("orgIdentifier") != "default" || q.Get("projectIdentifier") != "proj" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	if _, err := client.Triggers().List(context.Background(), "build", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTriggersList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/triggers" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("targetIdentifier") != "build" || r.URL.Query().Get("type") != "Webhook" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"identifier":"pr","name":"pr","pipelineIdentifier":"build","type":"Webhook","enabled":true,"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T01:00:00Z"}
		]`))
	})

	params := url.Values{"type": {"Webhook"}}
	triggers, err := client.Triggers().List(context.Background(), "build", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := params["targetIdentifier"]; ok {
		t.Fatalf("caller params modified: %v", params)
	}
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggers))
	}
	if triggers[0].Identifier != "pr" || !triggers[0].Enabled {
		t.Fatalf("unexpected trigger %+v", triggers[0])
	}
}

func TestTriggersGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/triggers/pr" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"identifier":"pr","yaml":` + quote(webhookYAML) + `}`))
	})

	tr, err := client.Triggers().Get(context.Background(), "build", "pr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := tr.Config()
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	wh := cfg.Source.Webhook()
	if wh == nil || wh.ConnectorRef != "gh" || wh.Event != "PullRequest" {
		t.Fatalf("unexpected source %+v", cfg.Source)
	}
}

func TestTriggersCreateSendsYAML(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") != contentTypeYAML {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		body, _ := io.ReadAll(r.Body)
		cfg, err := trigger.Parse(body)
		if err != nil || cfg.Identifier != "nightly" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"identifier":"nightly","type":"Scheduled"}`))
	})

	cfg := &trigger.Config{
		Name:               "nightly",
		Identifier:         "nightly",
		PipelineIdentifier: "build",
		Source: trigger.Source{
			Type: trigger.SourceScheduled,
			Spec: &trigger.ScheduledSpec{Expression: "0 2 * * *"},
		},
	}

	tr, err := client.Triggers().Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Identifier != "nightly" {
		t.Fatalf("unexpected identifier %q", tr.Identifier)
	}
}

func TestTriggersSetEnabledAndDelete(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+" "+r.URL.Query().Get("status"))
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Triggers().SetEnabled(context.Background(), "build", "pr", false); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
	if err := client.Triggers().Delete(context.Background(), "build", "pr"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"PUT /v1/triggers/pr/status false", "DELETE /v1/triggers/pr "}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
}

func TestAPIError(t *testing.T) {
	var attempts int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"trigger already exists"}`))
	})

	_, err := client.Triggers().Get(context.Background(), "build", "pr")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "trigger already exists" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if apiErr.NotFound() {
		t.Fatal("conflict reported as not found")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestPipelinesTemplate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/pipelines/build/template":
			w.Write([]byte(`{"inputSetTemplateYaml":"pipeline:\n  identifier: build\n  variables:\n    - name: env\n      value: <+input>\n"}`))
		case "/v1/pipelines/static/template":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	p, err := client.Pipelines().Template(context.Background(), "build")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inputs := p.RuntimeInputs()
	if len(inputs) != 1 || inputs[0] != "pipeline.variables[0].value" {
		t.Fatalf("unexpected runtime inputs %v", inputs)
	}

	p, err = client.Pipelines().Template(context.Background(), "static")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil template, got %+v", p)
	}
}

func TestConnectorsGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"identifier":"gh","type":"Github","spec":{"url":"https://github.com/acme","type":"Account"}}`))
	})

	c, err := client.Connectors().Get(context.Background(), "gh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.URLType() != form.URLTypeAccount {
		t.Fatalf("unexpected url type %q", c.URLType())
	}
}

func TestEventsCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("provider") != trigger.ProviderGithub {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"PullRequest":["Open","Close"],"Push":null}`))
	})

	catalog, err := client.Events().Catalog(context.Background(), trigger.ProviderGithub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.HasActions(trigger.ProviderGithub, "Push") {
		t.Fatal("push should have no actions")
	}
	if actions, ok := catalog.Actions(trigger.ProviderGithub, "PullRequest"); !ok || len(actions) != 2 {
		t.Fatalf("unexpected actions %v", actions)
	}
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
