package trigger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultInclude matches the YAML files picked up when walking directories.
var DefaultInclude = []string{"**/*.yaml", "**/*.yml"}

// Load collects trigger definitions from files and directories. Files are
// taken as given; directories are walked and filtered with the include
// globs, matched against the path relative to the directory.
func Load(paths, include []string) ([]*Config, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	var configs []*Config
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := appendConfigs(p, &configs); err != nil {
				return nil, err
			}
			continue
		}

		if err := filepath.WalkDir(p, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			if !matches(include, filepath.ToSlash(rel)) {
				return nil
			}
			return appendConfigs(path, &configs)
		}); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

func matches(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func appendConfigs(path string, configs *[]*Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return &ParseError{Source: path, Err: err}
		}
		if doc.Trigger.isBlank() {
			continue
		}
		cfg := doc.Trigger
		*configs = append(*configs, &cfg)
	}
	return nil
}
