package trigger

import "slices"

// Catalog lists, per webhook provider, the events it emits and the actions
// each event can carry. Events without actions map to an empty slice.
type Catalog map[string]map[string][]string

// DefaultCatalog is used when the event taxonomy has not been fetched.
var DefaultCatalog = Catalog{
	ProviderGithub: {
		"PullRequest":  {"Close", "Edit", "Open", "Reopen", "Label", "Unlabel", "Synchronize", "Ready For Review"},
		"Push":         {},
		"IssueComment": {"Create", "Edit", "Delete"},
		"Release":      {"Create", "Edit", "Delete", "Prerelease", "Publish", "Release", "Unpublish"},
	},
	ProviderGitlab: {
		"MergeRequest": {"Open", "Close", "Reopen", "Merge", "Update", "Sync"},
		"Push":         {},
		"MRComment":    {"Create"},
	},
	ProviderBitbucket: {
		"PullRequest": {"Create", "Update", "Merge", "Decline"},
		"Push":        {},
		"PRComment":   {"Create", "Edit", "Delete"},
	},
	ProviderAzureRepo: {
		"PullRequest":  {"Create", "Update", "Merge"},
		"Push":         {},
		"IssueComment": {"Create", "Edit", "Delete"},
	},
	ProviderAwsCodeCommit: {
		"Push": {},
	},
}

// Events returns the sorted event names of a provider.
func (c Catalog) Events(provider string) []string {
	events := make([]string, 0, len(c[provider]))
	for e := range c[provider] {
		events = append(events, e)
	}
	slices.Sort(events)
	return events
}

// Actions returns the actions of an event and whether the event is known.
func (c Catalog) Actions(provider, event string) ([]string, bool) {
	actions, ok := c[provider][event]
	return actions, ok
}

// HasActions reports whether an event carries actions.
func (c Catalog) HasActions(provider, event string) bool {
	actions, _ := c.Actions(provider, event)
	return len(actions) > 0
}
