// Package pipeline manipulates pipeline templates whose fields may hold
// runtime input placeholders.
package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuntimeInput marks a field that is supplied when the pipeline runs. It may
// be followed by modifiers such as .allowedValues(...).
const RuntimeInput = "<+input>"

// Expressions substituted for versions that are only known when the trigger
// fires.
const (
	ManifestVersion = "<+trigger.manifest.version>"
	ArtifactBuild   = "<+trigger.artifact.build>"
)

var (
	ErrStageNotFound    = errors.New("stage not found")
	ErrArtifactNotFound = errors.New("artifact not found in stage")
	ErrMalformed        = errors.New("malformed pipeline yaml")
)

// Pipeline is a decoded pipeline document, rooted at the "pipeline" key.
type Pipeline struct {
	Root map[string]any
}

// Parse decodes a pipeline YAML document.
func Parse(data []byte) (*Pipeline, error) {
	root := map[string]any{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, ok := root["pipeline"].(map[string]any); !ok {
		return nil, fmt.Errorf("%w: missing pipeline root", ErrMalformed)
	}
	return &Pipeline{Root: root}, nil
}

// Marshal encodes the pipeline as YAML.
func (p *Pipeline) Marshal() ([]byte, error) {
	return yaml.Marshal(p.Root)
}

// IsRuntimeInput reports whether v is a runtime input placeholder.
func IsRuntimeInput(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(strings.TrimSpace(s), RuntimeInput)
}

// RuntimeInputs returns the sorted paths of every placeholder in the pipeline.
func (p *Pipeline) RuntimeInputs() []string {
	var paths []string
	walk(p.Root, "", func(path string, v any) {
		if IsRuntimeInput(v) {
			paths = append(paths, path)
		}
	})
	sort.Strings(paths)
	return paths
}

func walk(node any, path string, fn func(string, any)) {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			child := k
			if path != "" {
				child = path + "." + k
			}
			walk(v, child, fn)
		}
	case []any:
		for i, v := range n {
			walk(v, fmt.Sprintf("%s[%d]", path, i), fn)
		}
	default:
		fn(path, node)
	}
}

// get follows a path of map keys (string) and slice indices (int).
func get(node any, path []any) (any, bool) {
	for _, step := range path {
		switch s := step.(type) {
		case string:
			m, ok := node.(map[string]any)
			if !ok {
				return nil, false
			}
			if node, ok = m[s]; !ok {
				return nil, false
			}
		case int:
			l, ok := node.([]any)
			if !ok || s < 0 || s >= len(l) {
				return nil, false
			}
			node = l[s]
		}
	}
	return node, true
}

// update replaces the node at path with fn's result, copying every map and
// slice along the path so the input is left untouched.
func update(node any, path []any, fn func(any) (any, error)) (any, error) {
	if len(path) == 0 {
		return fn(node)
	}

	switch s := path[0].(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected map at %q", s)
		}
		child, err := update(m[s], path[1:], fn)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		out[s] = child
		return out, nil
	case int:
		l, ok := node.([]any)
		if !ok || s < 0 || s >= len(l) {
			return nil, fmt.Errorf("index %d out of range", s)
		}
		child, err := update(l[s], path[1:], fn)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(l))
		copy(out, l)
		out[s] = child
		return out, nil
	default:
		return nil, fmt.Errorf("invalid path step %v", s)
	}
}
