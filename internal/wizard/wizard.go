// Package wizard drives a trigger through the editor: it loads persisted
// triggers into form values, keeps the schedule and artifact editors in sync
// with them, validates, and submits the result to the platform.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/caesium-cloud/triggerkit/pkg/client"
	"github.com/caesium-cloud/triggerkit/pkg/log"
	"github.com/caesium-cloud/triggerkit/pkg/pipeline"
	"github.com/caesium-cloud/triggerkit/pkg/schedule"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/form"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/validate"
)

// TriggerStore persists triggers.
type TriggerStore interface {
	Get(ctx context.Context, pipeline, identifier string) (*client.Trigger, error)
	Create(ctx context.Context, cfg *trigger.Config) (*client.Trigger, error)
	Update(ctx context.Context, cfg *trigger.Config) (*client.Trigger, error)
	SetEnabled(ctx context.Context, pipeline, identifier string, enabled bool) error
	Delete(ctx context.Context, pipeline, identifier string) error
}

// PipelineStore serves pipeline runtime input templates.
type PipelineStore interface {
	Template(ctx context.Context, identifier string) (*pipeline.Pipeline, error)
}

// ConnectorStore resolves git connectors.
type ConnectorStore interface {
	Get(ctx context.Context, ref string) (*client.Connector, error)
}

// EventStore serves the webhook event taxonomy.
type EventStore interface {
	Catalog(ctx context.Context, providers ...string) (trigger.Catalog, error)
}

// Wizard coordinates trigger editing against the platform collaborators.
type Wizard struct {
	triggers   TriggerStore
	pipelines  PipelineStore
	connectors ConnectorStore
	events     EventStore
}

// New returns a wizard backed by the platform API client.
func New(c *client.Client) *Wizard {
	return &Wizard{
		triggers:   c.Triggers(),
		pipelines:  c.Pipelines(),
		connectors: c.Connectors(),
		events:     c.Events(),
	}
}

// NewWithStores returns a wizard backed by the given collaborators.
func NewWithStores(t TriggerStore, p PipelineStore, c ConnectorStore, e EventStore) *Wizard {
	return &Wizard{triggers: t, pipelines: p, connectors: c, events: e}
}

// Session is a single trigger being edited.
type Session struct {
	Values form.Values
	// Warning is set when the persisted trigger could not be decoded and the
	// session fell back to default values.
	Warning error

	original *trigger.Config
	catalog  trigger.Catalog
	schedule *schedule.State
}

// Create starts a session for a new trigger of the given type.
func (w *Wizard) Create(org, project, pipelineID string, t trigger.SourceType) *Session {
	v := form.Values{Enabled: true}
	v = form.Apply(v, form.SetPipeline{Org: org, Project: project, Pipeline: pipelineID})
	v = form.Apply(v, form.SelectType{Type: t})
	return &Session{Values: v}
}

// Open starts a session for a persisted trigger. A trigger whose YAML cannot
// be decoded opens with default values and the parse error as Warning.
func (w *Wizard) Open(ctx context.Context, pipelineID, identifier string) (*Session, error) {
	stored, err := w.triggers.Get(ctx, pipelineID, identifier)
	if err != nil {
		return nil, report("open trigger", err)
	}

	cfg, err := stored.Config()
	if err != nil {
		s := w.Create(stored.OrgIdentifier, stored.ProjectIdentifier, pipelineID, trigger.SourceType(stored.Type))
		s.Values.Existing = true
		s.Values.Identifier = identifier
		s.Values.Name = stored.Name
		s.Warning = report("decode trigger", err)
		return s, nil
	}

	return &Session{Values: form.FromConfig(cfg), original: cfg}, nil
}

// OpenConfig starts a session from a trigger definition that is already in
// memory, such as one read from disk. stored is the persisted version of the
// trigger, nil when it does not exist yet.
func (w *Wizard) OpenConfig(cfg, stored *trigger.Config) *Session {
	s := &Session{Values: form.FromConfig(cfg)}
	s.Values.Existing = stored != nil
	if stored != nil {
		s.original = stored.Clone()
	}
	return s
}

// Apply applies a single form edit. Edits that replace the cron expression
// reopen the schedule editor on the next Schedule call.
func (s *Session) Apply(u form.Update) {
	switch u := u.(type) {
	case form.SelectEvent:
		if u.Catalog == nil {
			u.Catalog = s.catalog
		}
		s.Values = form.Apply(s.Values, u)
		return
	case form.SetCronExpression, form.SelectType:
		s.schedule = nil
	}
	s.Values = form.Apply(s.Values, u)
}

// Schedule returns the schedule editor state, opening it on the session's
// cron expression the first time.
func (s *Session) Schedule() schedule.State {
	if s.schedule == nil {
		state := schedule.New()
		if s.Values.CronExpression != "" {
			state = schedule.Load(s.Values.CronExpression)
		}
		s.schedule = &state
	}
	return *s.schedule
}

// Reschedule runs a schedule editor action and stores the resulting
// expression. Expressions that do not parse are stored as typed so the
// validator can report them.
func (s *Session) Reschedule(a schedule.Action) schedule.State {
	next := schedule.Reduce(s.Schedule(), a)
	s.Values = form.Apply(s.Values, form.SetCronExpression{Expression: next.Expression})
	s.schedule = &next
	return next
}

// Catalog returns the event taxonomy, falling back to the built-in catalog
// when the platform cannot be reached.
func (w *Wizard) Catalog(ctx context.Context, s *Session) trigger.Catalog {
	if s.catalog != nil {
		return s.catalog
	}
	catalog, err := w.events.Catalog(ctx, trigger.Providers...)
	if err != nil {
		report("load event catalog", err)
		return trigger.DefaultCatalog
	}
	s.catalog = catalog
	return catalog
}

// SelectConnector sets the connector and resolves its URL type, which decides
// whether a repository name is required.
func (w *Wizard) SelectConnector(ctx context.Context, s *Session, ref string) error {
	conn, err := w.connectors.Get(ctx, ref)
	if err != nil {
		s.Apply(form.SetConnector{Ref: ref})
		return report("resolve connector", err)
	}
	s.Apply(form.SetConnector{Ref: ref, URLType: conn.URLType()})
	return nil
}

// resolveConnector looks up the URL type of a connector that was loaded
// rather than selected, so scope-dependent rules can run.
func (w *Wizard) resolveConnector(ctx context.Context, s *Session) error {
	v := s.Values
	if v.TriggerType != trigger.SourceWebhook || v.SourceRepo == trigger.ProviderCustom {
		return nil
	}
	if v.ConnectorRef == "" || v.ConnectorURLType != "" {
		return nil
	}

	conn, err := w.connectors.Get(ctx, v.ConnectorRef)
	if err != nil {
		return report("resolve connector", err)
	}
	s.Values.ConnectorURLType = conn.URLType()
	return nil
}

// SelectArtifact records the chosen artifact or manifest and fills the
// matching runtime inputs of a freshly fetched pipeline template, replacing
// any inputs stored before. Pipelines without a template only record the
// selection.
func (w *Wizard) SelectArtifact(ctx context.Context, s *Session, stageID string, a pipeline.Artifact) error {
	s.Apply(form.SelectArtifact{
		StageID: stageID,
		Ref:     a.Identifier,
		Type:    a.Type,
		Spec:    a.Spec,
	})

	tmpl, err := w.pipelines.Template(ctx, s.Values.PipelineIdentifier)
	if err != nil {
		return report("load pipeline template", err)
	}
	if tmpl == nil {
		return nil
	}

	merged, err := pipeline.MergeArtifact(tmpl, stageID, a)
	if err != nil {
		return report("merge artifact", err)
	}

	data, err := merged.Marshal()
	if err != nil {
		return err
	}
	s.Apply(form.SetPipelineYAML{YAML: string(data)})
	return nil
}

// Validate runs the trigger validation rules against the session.
func (w *Wizard) Validate(ctx context.Context, s *Session) validate.Errors {
	opts := validate.Options{}
	if s.Values.TriggerType == trigger.SourceWebhook {
		opts.Catalog = w.Catalog(ctx, s)
	}
	return validate.Validate(s.Values, opts)
}

// Submit validates the session and creates or updates the trigger.
// Validation failures are returned as validate.Errors and nothing is sent.
func (w *Wizard) Submit(ctx context.Context, s *Session) (*client.Trigger, error) {
	if err := w.resolveConnector(ctx, s); err != nil {
		return nil, err
	}
	if errs := w.Validate(ctx, s); len(errs) > 0 {
		return nil, report("submit trigger", errs)
	}

	cfg := form.ToConfig(s.Values)
	if !s.Values.Existing {
		created, err := w.triggers.Create(ctx, cfg)
		if err != nil {
			return nil, report("create trigger", err)
		}
		log.Info("trigger created", "identifier", cfg.Identifier, "pipeline", cfg.PipelineIdentifier)
		s.Values.Existing = true
		s.original = cfg
		return created, nil
	}

	if s.original != nil {
		if err := trigger.CheckUpdate(s.original, cfg); err != nil {
			return nil, report("update trigger", err)
		}
	}

	updated, err := w.triggers.Update(ctx, cfg)
	if err != nil {
		return nil, report("update trigger", err)
	}
	log.Info("trigger updated", "identifier", cfg.Identifier, "pipeline", cfg.PipelineIdentifier)
	s.original = cfg
	return updated, nil
}

// SetEnabled toggles a persisted trigger.
func (w *Wizard) SetEnabled(ctx context.Context, pipelineID, identifier string, enabled bool) error {
	if err := w.triggers.SetEnabled(ctx, pipelineID, identifier, enabled); err != nil {
		return report("toggle trigger", err)
	}
	log.Info("trigger status changed", "identifier", identifier, "enabled", enabled)
	return nil
}

// Delete removes a persisted trigger.
func (w *Wizard) Delete(ctx context.Context, pipelineID, identifier string) error {
	if err := w.triggers.Delete(ctx, pipelineID, identifier); err != nil {
		return report("delete trigger", err)
	}
	log.Info("trigger deleted", "identifier", identifier)
	return nil
}

// Kind classifies the failures surfaced by the wizard.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindParse
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Classify reports which kind of failure err is.
func Classify(err error) Kind {
	var (
		verrs    validate.Errors
		parseErr *trigger.ParseError
		apiErr   *client.APIError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &verrs):
		return KindValidation
	case errors.As(err, &parseErr), errors.Is(err, pipeline.ErrMalformed):
		return KindParse
	case errors.As(err, &apiErr):
		return KindAPI
	default:
		return KindUnknown
	}
}

// report logs err according to its kind and returns it wrapped with op.
func report(op string, err error) error {
	kind := Classify(err)
	switch kind {
	case KindValidation:
		log.Info(op+" rejected", "kind", kind.String(), "error", err)
	case KindAPI:
		var apiErr *client.APIError
		errors.As(err, &apiErr)
		log.Error(op+" failed", "kind", kind.String(), "status", apiErr.StatusCode, "request_id", apiErr.RequestID, "error", err)
	default:
		log.Warn(op+" failed", "kind", kind.String(), "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Render encodes the session as a trigger YAML document.
func (s *Session) Render() ([]byte, error) {
	return trigger.Marshal(form.ToConfig(s.Values))
}
