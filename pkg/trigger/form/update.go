package form

import (
	"maps"
	"slices"

	"github.com/caesium-cloud/triggerkit/pkg/condition"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
)

// Update is a single edit applied by Apply.
type Update interface {
	update()
}

type (
	SetIdentity struct {
		Name        string
		Identifier  string
		Description string
	}
	SetTags        struct{ Tags map[string]string }
	SetEnabled     struct{ Enabled bool }
	SetPipeline    struct{ Org, Project, Pipeline string }
	SelectType     struct{ Type trigger.SourceType }
	SelectProvider struct{ Provider string }
	SetConnector   struct {
		Ref     string
		URLType URLType
	}
	SetRepoName struct{ RepoName string }
	SelectEvent struct {
		Event   string
		Catalog trigger.Catalog
	}
	// SetActions selects explicit actions; Any selects every action.
	SetActions struct {
		Actions []string
		Any     bool
	}
	SetAutoAbort struct{ Enabled bool }
	SetPair      struct {
		Key  string
		Pair Pair
	}
	SetPayloadConditions struct{ List condition.List }
	SetHeaderConditions  struct{ List condition.List }
	SetJexlCondition     struct{ Expression string }
	SetCronExpression    struct{ Expression string }
	SelectArtifact       struct {
		StageID string
		Ref     string
		Type    string
		Spec    map[string]any
	}
	SetEventConditions struct{ List condition.List }
	SetPipelineYAML    struct{ YAML string }
)

func (SetIdentity) update()          {}
func (SetTags) update()              {}
func (SetEnabled) update()           {}
func (SetPipeline) update()          {}
func (SelectType) update()           {}
func (SelectProvider) update()       {}
func (SetConnector) update()         {}
func (SetRepoName) update()          {}
func (SelectEvent) update()          {}
func (SetActions) update()           {}
func (SetAutoAbort) update()         {}
func (SetPair) update()              {}
func (SetPayloadConditions) update() {}
func (SetHeaderConditions) update()  {}
func (SetJexlCondition) update()     {}
func (SetCronExpression) update()    {}
func (SelectArtifact) update()       {}
func (SetEventConditions) update()   {}
func (SetPipelineYAML) update()      {}

// Apply returns the values with the update applied. The input is not
// modified.
func Apply(v Values, u Update) Values {
	v = v.clone()

	switch u := u.(type) {
	case SetIdentity:
		v.Name = u.Name
		v.Description = u.Description
		if !v.Existing {
			v.Identifier = u.Identifier
		}
	case SetTags:
		v.Tags = maps.Clone(u.Tags)
	case SetEnabled:
		v.Enabled = u.Enabled
	case SetPipeline:
		v.OrgIdentifier, v.ProjectIdentifier, v.PipelineIdentifier = u.Org, u.Project, u.Pipeline
	case SelectType:
		if v.TriggerType != u.Type {
			v = resetSource(v)
			v.TriggerType = u.Type
		}
	case SelectProvider:
		if v.SourceRepo != u.Provider {
			v.SourceRepo = u.Provider
			v.ConnectorRef = ""
			v.ConnectorURLType = ""
			v.RepoName = ""
			v.Event = ""
			v.Actions = nil
		}
	case SetConnector:
		v.ConnectorRef = u.Ref
		v.ConnectorURLType = u.URLType
		if u.URLType == URLTypeRepo {
			v.RepoName = ""
		}
	case SetRepoName:
		v.RepoName = u.RepoName
	case SelectEvent:
		v.Event = u.Event
		v.Actions = nil
		catalog := u.Catalog
		if catalog == nil {
			catalog = trigger.DefaultCatalog
		}
		if _, known := catalog.Actions(v.SourceRepo, u.Event); known && !catalog.HasActions(v.SourceRepo, u.Event) {
			v.Actions = []string{}
		}
	case SetActions:
		if u.Any {
			v.Actions = []string{}
		} else {
			v.Actions = slices.Clone(u.Actions)
		}
	case SetAutoAbort:
		v.AutoAbortPreviousExecutions = u.Enabled
	case SetPair:
		if !slices.Contains(PairKeys, u.Key) {
			return v
		}
		if v.Pairs == nil {
			v.Pairs = map[string]Pair{}
		}
		v.Pairs[u.Key] = u.Pair
	case SetPayloadConditions:
		v.PayloadConditions = slices.Clone(u.List)
	case SetHeaderConditions:
		v.HeaderConditions = slices.Clone(u.List)
	case SetJexlCondition:
		v.JexlCondition = u.Expression
	case SetCronExpression:
		v.CronExpression = u.Expression
	case SelectArtifact:
		v.StageID = u.StageID
		v.ArtifactRef = u.Ref
		v.ArtifactType = u.Type
		v.SelectedArtifact = maps.Clone(u.Spec)
	case SetEventConditions:
		v.EventConditions = slices.Clone(u.List)
	case SetPipelineYAML:
		v.PipelineYAML = u.YAML
	}

	return v
}

func resetSource(v Values) Values {
	return Values{
		Existing:           v.Existing,
		Name:               v.Name,
		Identifier:         v.Identifier,
		Description:        v.Description,
		Tags:               v.Tags,
		Enabled:            v.Enabled,
		OrgIdentifier:      v.OrgIdentifier,
		ProjectIdentifier:  v.ProjectIdentifier,
		PipelineIdentifier: v.PipelineIdentifier,
		PipelineYAML:       v.PipelineYAML,
	}
}

func (v Values) clone() Values {
	v.Tags = maps.Clone(v.Tags)
	v.Actions = slices.Clone(v.Actions)
	v.Pairs = maps.Clone(v.Pairs)
	v.PayloadConditions = slices.Clone(v.PayloadConditions)
	v.HeaderConditions = slices.Clone(v.HeaderConditions)
	v.EventConditions = slices.Clone(v.EventConditions)
	v.SelectedArtifact = maps.Clone(v.SelectedArtifact)
	return v
}
