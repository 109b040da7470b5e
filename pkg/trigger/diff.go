package trigger

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Diff captures the comparison between desired and existing triggers.
type Diff struct {
	Creates []*Config
	Updates []Update
	Deletes []*Config
}

// Update captures the differences for an existing trigger.
type Update struct {
	Identifier string
	Diff       string
}

// Empty reports whether the diff contains no changes.
func (d Diff) Empty() bool {
	return len(d.Creates) == 0 && len(d.Updates) == 0 && len(d.Deletes) == 0
}

var cmpOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
}

// Changes returns a human readable diff between two triggers, empty when
// they are equivalent.
func Changes(actual, desired *Config) string {
	return cmp.Diff(actual, desired, cmpOptions...)
}

// Compare generates a diff between desired and actual triggers keyed by
// identifier.
func Compare(desired, actual []*Config) Diff {
	result := Diff{}

	remaining := make(map[string]*Config, len(actual))
	for _, c := range actual {
		remaining[c.Identifier] = c
	}

	for _, c := range desired {
		existing, ok := remaining[c.Identifier]
		if !ok {
			result.Creates = append(result.Creates, c)
			continue
		}

		if diff := Changes(existing, c); diff != "" {
			result.Updates = append(result.Updates, Update{Identifier: c.Identifier, Diff: diff})
		}
		delete(remaining, c.Identifier)
	}

	for _, c := range actual {
		if _, ok := remaining[c.Identifier]; ok {
			result.Deletes = append(result.Deletes, c)
		}
	}

	return result
}
