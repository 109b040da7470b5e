package pipeline

import (
	"fmt"
	"slices"
)

// Kind distinguishes artifact sources from manifest sources.
type Kind string

const (
	KindArtifact Kind = "Artifact"
	KindManifest Kind = "Manifest"
)

// PrimaryArtifact is the identifier used for a stage's primary artifact.
const PrimaryArtifact = "primary"

// Artifact is the concrete artifact or manifest selected for a trigger.
type Artifact struct {
	Kind       Kind
	Identifier string
	Type       string
	Spec       map[string]any
}

var versionFields = map[Kind][]string{
	KindManifest: {"chartVersion"},
	KindArtifact: {"tag", "version"},
}

func (a Artifact) sentinel() string {
	if a.Kind == KindManifest {
		return ManifestVersion
	}
	return ArtifactBuild
}

var serviceDefinitions = [][]any{
	{"spec", "serviceConfig", "serviceDefinition", "spec"},
	{"spec", "service", "serviceInputs", "serviceDefinition", "spec"},
}

// MergeArtifact fills the runtime inputs of the artifact or manifest
// identified by a within the given stage using a's values. Other stages and
// fields are left as they are and p itself is not modified.
func MergeArtifact(p *Pipeline, stageID string, a Artifact) (*Pipeline, error) {
	stage, err := findStage(p.Root, stageID)
	if err != nil {
		return nil, err
	}

	entry, err := findArtifact(p.Root, stage, a)
	if err != nil {
		return nil, err
	}

	path := append(slices.Clone(entry), "spec")
	root, err := update(p.Root, path, func(node any) (any, error) {
		return fill(node, a.Spec, a), nil
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{Root: root.(map[string]any)}, nil
}

func findStage(root map[string]any, stageID string) ([]any, error) {
	stages, _ := get(root, []any{"pipeline", "stages"})
	list, _ := stages.([]any)

	for i, item := range list {
		candidates := [][]any{{"pipeline", "stages", i, "stage"}}
		if group, ok := get(item, []any{"parallel"}); ok {
			if members, ok := group.([]any); ok {
				for j := range members {
					candidates = append(candidates, []any{"pipeline", "stages", i, "parallel", j, "stage"})
				}
			}
		}

		for _, path := range candidates {
			if id, ok := get(root, append(slices.Clone(path), "identifier")); ok && id == stageID {
				return path, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrStageNotFound, stageID)
}

func findArtifact(root map[string]any, stage []any, a Artifact) ([]any, error) {
	for _, def := range serviceDefinitions {
		base := append(slices.Clone(stage), def...)

		var candidates [][]any
		switch a.Kind {
		case KindManifest:
			candidates = listEntries(root, base, "manifests", "manifest")
		default:
			candidates = append(candidates, append(slices.Clone(base), "artifacts", "primary"))
			candidates = append(candidates, listEntries(root, append(slices.Clone(base), "artifacts"), "sidecars", "sidecar")...)
		}

		for i, path := range candidates {
			node, ok := get(root, path)
			if !ok {
				continue
			}
			id, _ := get(node, []any{"identifier"})
			primary := a.Kind != KindManifest && i == 0 && a.Identifier == PrimaryArtifact
			if primary || id == a.Identifier {
				return path, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s %s", ErrArtifactNotFound, a.Kind, a.Identifier)
}

func listEntries(root map[string]any, base []any, listKey, itemKey string) [][]any {
	node, _ := get(root, append(slices.Clone(base), listKey))
	list, _ := node.([]any)

	paths := make([][]any, 0, len(list))
	for i := range list {
		paths = append(paths, append(slices.Clone(base), listKey, i, itemKey))
	}
	return paths
}

// fill returns a copy of tmpl with placeholders replaced from values.
func fill(tmpl, values any, a Artifact) any {
	switch t := tmpl.(type) {
	case map[string]any:
		src, _ := values.(map[string]any)
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = v
			if src == nil {
				continue
			}
			concrete, ok := src[k]
			if !ok {
				continue
			}
			if IsRuntimeInput(v) {
				out[k] = resolve(k, concrete, v, a)
				continue
			}
			out[k] = fill(v, concrete, a)
		}
		return out
	case []any:
		src, _ := values.([]any)
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
			if i < len(src) {
				if IsRuntimeInput(v) {
					out[i] = resolve("", src[i], v, a)
				} else {
					out[i] = fill(v, src[i], a)
				}
			}
		}
		return out
	default:
		return tmpl
	}
}

func resolve(key string, concrete, placeholder any, a Artifact) any {
	if !IsRuntimeInput(concrete) {
		return concrete
	}
	if slices.Contains(versionFields[a.Kind], key) {
		return a.sentinel()
	}
	return placeholder
}
