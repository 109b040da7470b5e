package trigger

import (
	"fmt"
	"maps"
	"slices"

	"github.com/caesium-cloud/triggerkit/pkg/condition"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Source is the discriminated union of trigger sources. Spec holds one of
// *WebhookSpec, *ScheduledSpec or *ArtifactSpec according to Type.
type Source struct {
	Type SourceType
	Spec SourceSpec
}

// SourceSpec is implemented by every source variant.
type SourceSpec interface {
	sourceSpec()
}

// WebhookSpec is a git provider (or custom) webhook source.
type WebhookSpec struct {
	Provider                    string
	Event                       string
	ConnectorRef                string
	RepoName                    string
	AutoAbortPreviousExecutions bool
	// Actions is nil when unset; an empty slice selects every action.
	Actions           []string
	PayloadConditions condition.List
	HeaderConditions  condition.List
	JexlCondition     string
}

// ScheduledSpec is a cron source.
type ScheduledSpec struct {
	Expression string
}

// ArtifactSpec is a new-artifact or new-manifest source scoped to one stage.
type ArtifactSpec struct {
	StageIdentifier string
	Ref             string
	Type            string
	Spec            map[string]any
	EventConditions condition.List
}

func (*WebhookSpec) sourceSpec()   {}
func (*ScheduledSpec) sourceSpec() {}
func (*ArtifactSpec) sourceSpec()  {}

// Webhook returns the webhook spec, or nil for other sources.
func (s Source) Webhook() *WebhookSpec {
	w, _ := s.Spec.(*WebhookSpec)
	return w
}

// Scheduled returns the cron spec, or nil for other sources.
func (s Source) Scheduled() *ScheduledSpec {
	c, _ := s.Spec.(*ScheduledSpec)
	return c
}

// Artifact returns the artifact/manifest spec, or nil for other sources.
func (s Source) Artifact() *ArtifactSpec {
	a, _ := s.Spec.(*ArtifactSpec)
	return a
}

type rawSource struct {
	Type SourceType     `yaml:"type"`
	Spec map[string]any `yaml:"spec"`
}

type typedSpec struct {
	Type string         `mapstructure:"type"`
	Spec map[string]any `mapstructure:"spec"`
}

type webhookEvent struct {
	ConnectorRef                string         `mapstructure:"connectorRef"`
	RepoName                    string         `mapstructure:"repoName"`
	AutoAbortPreviousExecutions bool           `mapstructure:"autoAbortPreviousExecutions"`
	Actions                     []string       `mapstructure:"actions"`
	PayloadConditions           condition.List `mapstructure:"payloadConditions"`
	HeaderConditions            condition.List `mapstructure:"headerConditions"`
	JexlCondition               string         `mapstructure:"jexlCondition"`
}

type artifactWire struct {
	StageIdentifier string         `mapstructure:"stageIdentifier"`
	ArtifactRef     string         `mapstructure:"artifactRef"`
	ManifestRef     string         `mapstructure:"manifestRef"`
	Type            string         `mapstructure:"type"`
	Spec            map[string]any `mapstructure:"spec"`
}

func decode(input, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return d.Decode(input)
}

// UnmarshalYAML decodes the untyped source spec into its typed variant.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	var raw rawSource
	if err := value.Decode(&raw); err != nil {
		return err
	}

	spec, err := decodeSpec(raw.Type, raw.Spec)
	if err != nil {
		return fmt.Errorf("source %s: %w", raw.Type, err)
	}

	*s = Source{Type: raw.Type, Spec: spec}
	return nil
}

func decodeSpec(t SourceType, raw map[string]any) (SourceSpec, error) {
	switch t {
	case SourceWebhook:
		var provider typedSpec
		if err := decode(raw, &provider); err != nil {
			return nil, err
		}

		w := &WebhookSpec{Provider: provider.Type}
		eventSpec := provider.Spec
		if provider.Type != ProviderCustom {
			var event typedSpec
			if err := decode(provider.Spec, &event); err != nil {
				return nil, err
			}
			w.Event = event.Type
			eventSpec = event.Spec
		}

		var ev webhookEvent
		if err := decode(eventSpec, &ev); err != nil {
			return nil, err
		}
		w.ConnectorRef = ev.ConnectorRef
		w.RepoName = ev.RepoName
		w.AutoAbortPreviousExecutions = ev.AutoAbortPreviousExecutions
		w.Actions = ev.Actions
		w.PayloadConditions = ev.PayloadConditions
		w.HeaderConditions = ev.HeaderConditions
		w.JexlCondition = ev.JexlCondition
		return w, nil
	case SourceScheduled:
		var sched typedSpec
		if err := decode(raw, &sched); err != nil {
			return nil, err
		}
		if sched.Type != "" && sched.Type != CronType {
			return nil, fmt.Errorf("unsupported schedule type %q", sched.Type)
		}
		var cron struct {
			Expression string `mapstructure:"expression"`
		}
		if err := decode(sched.Spec, &cron); err != nil {
			return nil, err
		}
		return &ScheduledSpec{Expression: cron.Expression}, nil
	case SourceArtifact, SourceManifest:
		var a artifactWire
		if err := decode(raw, &a); err != nil {
			return nil, err
		}
		ref := a.ArtifactRef
		if t == SourceManifest {
			ref = a.ManifestRef
		}
		spec := maps.Clone(a.Spec)
		var events condition.List
		if rawEvents, ok := spec["eventConditions"]; ok {
			if err := decode(rawEvents, &events); err != nil {
				return nil, err
			}
			delete(spec, "eventConditions")
		}
		return &ArtifactSpec{
			StageIdentifier: a.StageIdentifier,
			Ref:             ref,
			Type:            a.Type,
			Spec:            spec,
			EventConditions: events,
		}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", t)
	}
}

// MarshalYAML renders the wire shape of the source.
func (s Source) MarshalYAML() (interface{}, error) {
	out := map[string]any{"type": string(s.Type)}

	switch spec := s.Spec.(type) {
	case *WebhookSpec:
		event := map[string]any{}
		if spec.ConnectorRef != "" {
			event["connectorRef"] = spec.ConnectorRef
		}
		if spec.RepoName != "" {
			event["repoName"] = spec.RepoName
		}
		if spec.Provider != ProviderCustom {
			event["autoAbortPreviousExecutions"] = spec.AutoAbortPreviousExecutions
		}
		if spec.Actions != nil {
			event["actions"] = spec.Actions
		}
		event["payloadConditions"] = nonNil(spec.PayloadConditions)
		event["headerConditions"] = nonNil(spec.HeaderConditions)
		if spec.JexlCondition != "" {
			event["jexlCondition"] = spec.JexlCondition
		}

		if spec.Provider == ProviderCustom {
			out["spec"] = map[string]any{"type": spec.Provider, "spec": event}
		} else {
			out["spec"] = map[string]any{
				"type": spec.Provider,
				"spec": map[string]any{"type": spec.Event, "spec": event},
			}
		}
	case *ScheduledSpec:
		out["spec"] = map[string]any{
			"type": CronType,
			"spec": map[string]any{"expression": spec.Expression},
		}
	case *ArtifactSpec:
		inner := maps.Clone(spec.Spec)
		if inner == nil {
			inner = map[string]any{}
		}
		inner["eventConditions"] = nonNil(spec.EventConditions)
		refKey := "artifactRef"
		if s.Type == SourceManifest {
			refKey = "manifestRef"
		}
		out["spec"] = map[string]any{
			"stageIdentifier": spec.StageIdentifier,
			refKey:            spec.Ref,
			"type":            spec.Type,
			"spec":            inner,
		}
	}

	return out, nil
}

func nonNil(l condition.List) condition.List {
	if l == nil {
		return condition.List{}
	}
	return l
}

func (s Source) clone() Source {
	switch spec := s.Spec.(type) {
	case *WebhookSpec:
		c := *spec
		c.Actions = slices.Clone(spec.Actions)
		c.PayloadConditions = slices.Clone(spec.PayloadConditions)
		c.HeaderConditions = slices.Clone(spec.HeaderConditions)
		return Source{Type: s.Type, Spec: &c}
	case *ScheduledSpec:
		c := *spec
		return Source{Type: s.Type, Spec: &c}
	case *ArtifactSpec:
		c := *spec
		c.Spec = maps.Clone(spec.Spec)
		c.EventConditions = slices.Clone(spec.EventConditions)
		return Source{Type: s.Type, Spec: &c}
	}
	return s
}
