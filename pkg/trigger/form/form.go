// Package form converts trigger definitions to and from the flattened values
// edited by the trigger wizard.
package form

import (
	"maps"
	"slices"

	"github.com/caesium-cloud/triggerkit/pkg/condition"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
)

// URLType is the scope of a git connector's URL.
type URLType string

const (
	URLTypeAccount URLType = "Account"
	URLTypeRegion  URLType = "Region"
	URLTypeRepo    URLType = "Repo"
)

// Pair is an operator/value filter rendered as two sibling inputs.
type Pair struct {
	Operator string
	Value    string
}

// Set reports whether both halves are filled.
func (p Pair) Set() bool {
	return p.Operator != "" && p.Value != ""
}

// Branch filter payload keys. They are persisted as ordinary payload
// conditions and lifted into dedicated inputs by FromConfig.
const (
	KeySourceBranch = "sourceBranch"
	KeyTargetBranch = "targetBranch"
	KeyChangedFiles = "changedFiles"
	KeyTag          = "tag"
)

// PairKeys lists the payload keys edited through dedicated inputs.
var PairKeys = []string{KeySourceBranch, KeyTargetBranch, KeyChangedFiles, KeyTag}

// Values is the flattened, form editable view of a trigger.
type Values struct {
	// Existing is set when editing a persisted trigger; its identifier is
	// then frozen.
	Existing bool

	Name               string
	Identifier         string
	Description        string
	Tags               map[string]string
	Enabled            bool
	OrgIdentifier      string
	ProjectIdentifier  string
	PipelineIdentifier string
	TriggerType        trigger.SourceType

	SourceRepo                  string
	ConnectorRef                string
	ConnectorURLType            URLType
	RepoName                    string
	Event                       string
	Actions                     []string
	AutoAbortPreviousExecutions bool
	Pairs                       map[string]Pair
	PayloadConditions           condition.List
	HeaderConditions            condition.List
	JexlCondition               string

	CronExpression string

	StageID          string
	ArtifactRef      string
	ArtifactType     string
	SelectedArtifact map[string]any
	EventConditions  condition.List

	PipelineYAML string
}

// Pair returns the operator/value filter for a payload key.
func (v Values) Pair(key string) Pair {
	return v.Pairs[key]
}

// FromConfig flattens a persisted trigger.
func FromConfig(c *trigger.Config) Values {
	v := Values{
		Existing:           true,
		Name:               c.Name,
		Identifier:         c.Identifier,
		Description:        c.Description,
		Tags:               maps.Clone(c.Tags),
		Enabled:            c.Enabled,
		OrgIdentifier:      c.OrgIdentifier,
		ProjectIdentifier:  c.ProjectIdentifier,
		PipelineIdentifier: c.PipelineIdentifier,
		TriggerType:        c.Source.Type,
		PipelineYAML:       c.InputYAML,
	}

	switch spec := c.Source.Spec.(type) {
	case *trigger.WebhookSpec:
		v.SourceRepo = spec.Provider
		v.ConnectorRef = spec.ConnectorRef
		v.RepoName = spec.RepoName
		v.Event = spec.Event
		v.Actions = slices.Clone(spec.Actions)
		v.AutoAbortPreviousExecutions = spec.AutoAbortPreviousExecutions
		v.HeaderConditions = slices.Clone(spec.HeaderConditions)
		v.JexlCondition = spec.JexlCondition
		v.Pairs, v.PayloadConditions = liftPairs(spec.PayloadConditions)
	case *trigger.ScheduledSpec:
		v.CronExpression = spec.Expression
	case *trigger.ArtifactSpec:
		v.StageID = spec.StageIdentifier
		v.ArtifactRef = spec.Ref
		v.ArtifactType = spec.Type
		v.SelectedArtifact = maps.Clone(spec.Spec)
		v.EventConditions = slices.Clone(spec.EventConditions)
	}

	return v
}

func liftPairs(rows condition.List) (map[string]Pair, condition.List) {
	pairs := map[string]Pair{}
	rest := condition.List{}
	for _, row := range rows {
		if slices.Contains(PairKeys, row.Key) {
			if _, seen := pairs[row.Key]; !seen {
				pairs[row.Key] = Pair{Operator: string(row.Operator), Value: row.Value}
				continue
			}
		}
		rest = append(rest, row)
	}
	return pairs, rest
}

// ToConfig rebuilds the wire trigger from form values. Empty condition rows
// are dropped.
func ToConfig(v Values) *trigger.Config {
	c := &trigger.Config{
		Name:               v.Name,
		Identifier:         v.Identifier,
		Enabled:            v.Enabled,
		Description:        v.Description,
		Tags:               maps.Clone(v.Tags),
		OrgIdentifier:      v.OrgIdentifier,
		ProjectIdentifier:  v.ProjectIdentifier,
		PipelineIdentifier: v.PipelineIdentifier,
		InputYAML:          v.PipelineYAML,
		Source:             trigger.Source{Type: v.TriggerType},
	}

	switch v.TriggerType {
	case trigger.SourceWebhook:
		payload := condition.List{}
		for _, key := range PairKeys {
			if p := v.Pair(key); p.Set() {
				payload = append(payload, condition.Condition{
					Key:      key,
					Operator: condition.Operator(p.Operator),
					Value:    p.Value,
				})
			}
		}
		payload = append(payload, v.PayloadConditions.Compact()...)

		w := &trigger.WebhookSpec{
			Provider:          v.SourceRepo,
			PayloadConditions: payload,
			HeaderConditions:  v.HeaderConditions.Compact(),
			JexlCondition:     v.JexlCondition,
		}
		if v.SourceRepo != trigger.ProviderCustom {
			w.Event = v.Event
			w.ConnectorRef = v.ConnectorRef
			w.Actions = slices.Clone(v.Actions)
			w.AutoAbortPreviousExecutions = v.AutoAbortPreviousExecutions
			if v.ConnectorURLType != URLTypeRepo {
				w.RepoName = v.RepoName
			}
		}
		c.Source.Spec = w
	case trigger.SourceScheduled:
		c.Source.Spec = &trigger.ScheduledSpec{Expression: v.CronExpression}
	case trigger.SourceArtifact, trigger.SourceManifest:
		c.Source.Spec = &trigger.ArtifactSpec{
			StageIdentifier: v.StageID,
			Ref:             v.ArtifactRef,
			Type:            v.ArtifactType,
			Spec:            maps.Clone(v.SelectedArtifact),
			EventConditions: v.EventConditions.Compact(),
		}
	}

	return c
}
