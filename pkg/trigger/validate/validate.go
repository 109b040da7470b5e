// Package validate checks trigger form values. Rules depend on sibling
// fields (source type, provider, connector scope), so they run against the
// whole form and report every failure keyed by field path.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/caesium-cloud/triggerkit/pkg/condition"
	"github.com/caesium-cloud/triggerkit/pkg/cron"
	"github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/form"
)

// Errors maps a field path to its message.
type Errors map[string]string

func (e Errors) Error() string {
	paths := make([]string, 0, len(e))
	for p := range e {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, p+": "+e[p])
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no failures.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) add(path, msg string) {
	if _, exists := e[path]; !exists {
		e[path] = msg
	}
}

// Options carries context that is not part of the form itself.
type Options struct {
	// Catalog is the provider event taxonomy; DefaultCatalog when nil.
	Catalog trigger.Catalog
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][0-9a-zA-Z_$]{0,127}$`)

// ReservedWords cannot be used as identifiers.
var ReservedWords = []string{
	"or", "and", "eq", "ne", "lt", "gt", "le", "ge", "div", "mod", "not",
	"null", "true", "false", "new", "var", "return", "step", "parallel",
	"stepGroup", "org", "account", "status", "message", "stage", "pipeline",
	"secrets", "variables", "artifact", "manifest", "trigger", "input",
}

// pairFields maps payload keys to the field prefix used by the form.
var pairFields = map[string]string{
	form.KeySourceBranch: "sourceBranch",
	form.KeyTargetBranch: "targetBranch",
	form.KeyChangedFiles: "changedFiles",
	form.KeyTag:          "tagCondition",
}

// Validate runs every rule and returns the failures, empty when the form can
// be submitted.
func Validate(v form.Values, opts Options) Errors {
	errs := Errors{}
	if opts.Catalog == nil {
		opts.Catalog = trigger.DefaultCatalog
	}

	Identifier(errs, v.Identifier)
	if strings.TrimSpace(v.Name) == "" {
		errs.add("name", "name is required")
	}

	switch v.TriggerType {
	case trigger.SourceWebhook:
		webhook(errs, v, opts)
	case trigger.SourceScheduled:
		scheduled(errs, v)
	case trigger.SourceArtifact, trigger.SourceManifest:
		artifact(errs, v)
	default:
		errs.add("triggerType", fmt.Sprintf("unsupported trigger type %q", v.TriggerType))
	}

	return errs
}

// Identifier checks the identifier pattern and reserved words.
func Identifier(errs Errors, id string) {
	switch {
	case strings.TrimSpace(id) == "":
		errs.add("identifier", "identifier is required")
	case !identifierPattern.MatchString(id):
		errs.add("identifier", "identifier must start with a letter or _ and contain only letters, digits, _ or $")
	case slices.ContainsFunc(ReservedWords, func(w string) bool { return strings.EqualFold(w, id) }):
		errs.add("identifier", fmt.Sprintf("identifier %q is a reserved word", id))
	}
}

func webhook(errs Errors, v form.Values, opts Options) {
	if v.SourceRepo == "" {
		errs.add("sourceRepo", "source repository is required")
	} else if !slices.Contains(trigger.Providers, v.SourceRepo) {
		errs.add("sourceRepo", fmt.Sprintf("unsupported source repository %q", v.SourceRepo))
	}

	if v.SourceRepo != trigger.ProviderCustom {
		if v.ConnectorRef == "" {
			errs.add("connectorRef", "connector is required")
		}
		if v.Event == "" {
			errs.add("event", "event is required")
		} else if events, ok := opts.Catalog[v.SourceRepo]; ok {
			if _, known := events[v.Event]; !known {
				errs.add("event", fmt.Sprintf("event %q is not supported by %s", v.Event, v.SourceRepo))
			}
		}
		if v.Actions == nil {
			errs.add("actions", "actions are required")
		} else if allowed, ok := opts.Catalog.Actions(v.SourceRepo, v.Event); ok {
			for _, a := range v.Actions {
				if !slices.Contains(allowed, a) {
					errs.add("actions", fmt.Sprintf("action %q is not supported by %s", a, v.Event))
				}
			}
		}
		switch v.ConnectorURLType {
		case form.URLTypeAccount, form.URLTypeRegion:
			if strings.TrimSpace(v.RepoName) == "" {
				errs.add("repoName", "repository name is required")
			}
		}
	}

	for _, key := range form.PairKeys {
		Pair(errs, pairFields[key], v.Pair(key))
	}

	Conditions(errs, "payloadConditions", v.PayloadConditions)
	Conditions(errs, "headerConditions", v.HeaderConditions)
}

// Pair enforces that an operator/value pair is either fully set or empty.
// The error is attached to the missing half.
func Pair(errs Errors, field string, p form.Pair) {
	switch {
	case p.Operator != "" && p.Value == "":
		errs.add(field+"Value", "value is required when an operator is selected")
	case p.Operator == "" && p.Value != "":
		errs.add(field+"Operator", "operator is required when a value is set")
	case p.Operator != "":
		if _, err := condition.ParseOperator(p.Operator); err != nil {
			errs.add(field+"Operator", err.Error())
		}
	}
}

// Conditions fails the list path when any row is partially filled or a
// complete row carries an unknown operator.
func Conditions(errs Errors, path string, l condition.List) {
	if err := l.Validate(); err != nil {
		errs.add(path, err.Error())
		return
	}
	for i, c := range l {
		if c.State() != condition.Complete {
			continue
		}
		if _, err := condition.ParseOperator(string(c.Operator)); err != nil {
			errs.add(path, fmt.Sprintf("row %d: %v", i, err))
			return
		}
	}
}

func scheduled(errs Errors, v form.Values) {
	if strings.TrimSpace(v.CronExpression) == "" {
		errs.add("cronExpression", "cron expression is required")
		return
	}
	if err := cron.Validate(v.CronExpression); err != nil {
		errs.add("cronExpression", err.Error())
	}
}

func artifact(errs Errors, v form.Values) {
	if v.StageID == "" {
		errs.add("stageId", "stage is required")
	}
	if v.ArtifactRef == "" || v.SelectedArtifact == nil {
		errs.add("selectedArtifact", fmt.Sprintf("%s selection is required", strings.ToLower(string(v.TriggerType))))
	}
	Conditions(errs, "eventConditions", v.EventConditions)
}
