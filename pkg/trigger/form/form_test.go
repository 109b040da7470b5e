package form

import (
	"testing"

	"github.com/caesium-cloud/triggerkit/pkg/condition"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookConfig() *trigger.Config {
	return &trigger.Config{
		Name:       "pr",
		Identifier: "pr",
		Enabled:    true,
		Tags:       map[string]string{"team": "ci"},
		Source: trigger.Source{Type: trigger.SourceWebhook, Spec: &trigger.WebhookSpec{
			Provider:     trigger.ProviderGithub,
			Event:        "PullRequest",
			ConnectorRef: "gh",
			RepoName:     "api",
			Actions:      []string{"Open"},
			PayloadConditions: condition.List{
				{Key: KeyTargetBranch, Operator: condition.Equals, Value: "main"},
				{Key: "<+trigger.payload.sender.login>", Operator: condition.NotEquals, Value: "bot"},
				{Key: KeyChangedFiles, Operator: condition.Regex, Value: `.*\.go`},
			},
			HeaderConditions: condition.List{{Key: "X-Custom", Operator: condition.Equals, Value: "1"}},
		}},
		InputYAML: "pipeline: {}\n",
	}
}

func TestFromConfigLiftsPairs(t *testing.T) {
	v := FromConfig(webhookConfig())

	assert.True(t, v.Existing)
	assert.Equal(t, trigger.SourceWebhook, v.TriggerType)
	assert.Equal(t, trigger.ProviderGithub, v.SourceRepo)
	assert.Equal(t, Pair{Operator: "Equals", Value: "main"}, v.Pair(KeyTargetBranch))
	assert.Equal(t, Pair{Operator: "Regex", Value: `.*\.go`}, v.Pair(KeyChangedFiles))
	assert.False(t, v.Pair(KeySourceBranch).Set())
	require.Len(t, v.PayloadConditions, 1)
	assert.Equal(t, "<+trigger.payload.sender.login>", v.PayloadConditions[0].Key)
	assert.Equal(t, "pipeline: {}\n", v.PipelineYAML)
}

func TestToConfigRoundTrip(t *testing.T) {
	cfg := webhookConfig()
	back := ToConfig(FromConfig(cfg))

	w := back.Source.Webhook()
	require.NotNil(t, w)
	assert.Equal(t, condition.List{
		{Key: KeyTargetBranch, Operator: condition.Equals, Value: "main"},
		{Key: KeyChangedFiles, Operator: condition.Regex, Value: `.*\.go`},
		{Key: "<+trigger.payload.sender.login>", Operator: condition.NotEquals, Value: "bot"},
	}, w.PayloadConditions)
	assert.Equal(t, cfg.Source.Webhook().HeaderConditions, w.HeaderConditions)
	assert.Equal(t, []string{"Open"}, w.Actions)
	assert.Equal(t, "api", w.RepoName)
	assert.Equal(t, cfg.Tags, back.Tags)
}

func TestToConfigCustomWebhookDropsProviderFields(t *testing.T) {
	v := Values{
		TriggerType:       trigger.SourceWebhook,
		SourceRepo:        trigger.ProviderCustom,
		ConnectorRef:      "stale",
		Event:             "Push",
		PayloadConditions: condition.List{{}, {Key: "a", Operator: condition.In, Value: "b"}},
	}

	w := ToConfig(v).Source.Webhook()
	require.NotNil(t, w)
	assert.Empty(t, w.ConnectorRef)
	assert.Empty(t, w.Event)
	assert.Nil(t, w.Actions)
	assert.Len(t, w.PayloadConditions, 1)
}

func TestToConfigRepoScopedConnectorDropsRepoName(t *testing.T) {
	v := Values{
		TriggerType:      trigger.SourceWebhook,
		SourceRepo:       trigger.ProviderGitlab,
		ConnectorURLType: URLTypeRepo,
		RepoName:         "ignored",
	}
	assert.Empty(t, ToConfig(v).Source.Webhook().RepoName)
}

func TestScheduledAndArtifact(t *testing.T) {
	v := FromConfig(&trigger.Config{
		Identifier: "nightly",
		Source:     trigger.Source{Type: trigger.SourceScheduled, Spec: &trigger.ScheduledSpec{Expression: "0 2 * * *"}},
	})
	assert.Equal(t, "0 2 * * *", v.CronExpression)
	assert.Equal(t, "0 2 * * *", ToConfig(v).Source.Scheduled().Expression)

	v = FromConfig(&trigger.Config{
		Identifier: "img",
		Source: trigger.Source{Type: trigger.SourceArtifact, Spec: &trigger.ArtifactSpec{
			StageIdentifier: "deploy",
			Ref:             "primary",
			Type:            "DockerRegistry",
			Spec:            map[string]any{"imagePath": "library/nginx"},
		}},
	})
	assert.Equal(t, "deploy", v.StageID)
	assert.Equal(t, "primary", v.ArtifactRef)

	a := ToConfig(v).Source.Artifact()
	require.NotNil(t, a)
	assert.Equal(t, "library/nginx", a.Spec["imagePath"])
}

func TestApplySelectEvent(t *testing.T) {
	v := Apply(Values{TriggerType: trigger.SourceWebhook}, SelectProvider{Provider: trigger.ProviderGithub})

	push := Apply(v, SelectEvent{Event: "Push"})
	require.NotNil(t, push.Actions)
	assert.Empty(t, push.Actions)

	pr := Apply(v, SelectEvent{Event: "PullRequest"})
	assert.Nil(t, pr.Actions)

	all := Apply(pr, SetActions{Any: true})
	require.NotNil(t, all.Actions)
	assert.Empty(t, all.Actions)

	some := Apply(pr, SetActions{Actions: []string{"Open"}})
	assert.Equal(t, []string{"Open"}, some.Actions)
	assert.Nil(t, pr.Actions)
}

func TestApplySelectProviderClearsDependents(t *testing.T) {
	v := Values{
		TriggerType:      trigger.SourceWebhook,
		SourceRepo:       trigger.ProviderGithub,
		ConnectorRef:     "gh",
		ConnectorURLType: URLTypeAccount,
		RepoName:         "api",
		Event:            "PullRequest",
		Actions:          []string{"Open"},
	}

	same := Apply(v, SelectProvider{Provider: trigger.ProviderGithub})
	assert.Equal(t, v, same)

	next := Apply(v, SelectProvider{Provider: trigger.ProviderGitlab})
	assert.Empty(t, next.ConnectorRef)
	assert.Empty(t, next.RepoName)
	assert.Empty(t, next.Event)
	assert.Nil(t, next.Actions)
}

func TestApplySelectTypeResetsSource(t *testing.T) {
	v := Values{
		Name:           "x",
		Identifier:     "x",
		TriggerType:    trigger.SourceScheduled,
		CronExpression: "0 0 * * *",
	}
	next := Apply(v, SelectType{Type: trigger.SourceWebhook})
	assert.Equal(t, "x", next.Identifier)
	assert.Empty(t, next.CronExpression)
	assert.Equal(t, trigger.SourceWebhook, next.TriggerType)
}

func TestApplyIdentifierFrozenWhenExisting(t *testing.T) {
	v := FromConfig(&trigger.Config{Name: "a", Identifier: "a"})
	v = Apply(v, SetIdentity{Name: "renamed", Identifier: "b"})
	assert.Equal(t, "renamed", v.Name)
	assert.Equal(t, "a", v.Identifier)

	fresh := Apply(Values{}, SetIdentity{Name: "n", Identifier: "n"})
	assert.Equal(t, "n", fresh.Identifier)
}

func TestApplyConnectorAndPairs(t *testing.T) {
	v := Values{RepoName: "api"}
	v = Apply(v, SetConnector{Ref: "gh", URLType: URLTypeRepo})
	assert.Empty(t, v.RepoName)

	v = Apply(v, SetPair{Key: KeySourceBranch, Pair: Pair{Operator: "Equals", Value: "dev"}})
	assert.True(t, v.Pair(KeySourceBranch).Set())

	unchanged := Apply(v, SetPair{Key: "bogus", Pair: Pair{Operator: "Equals"}})
	assert.NotContains(t, unchanged.Pairs, "bogus")
}

func TestApplyDoesNotMutate(t *testing.T) {
	v := Values{Tags: map[string]string{"a": "1"}, Pairs: map[string]Pair{}}
	_ = Apply(v, SetPair{Key: KeyTag, Pair: Pair{Operator: "Equals", Value: "v1"}})
	assert.Empty(t, v.Pairs)
}
