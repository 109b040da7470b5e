// Package trigger models persisted trigger definitions and their YAML wire
// format.
package trigger

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceType discriminates the trigger source union.
type SourceType string

const (
	SourceWebhook   SourceType = "Webhook"
	SourceScheduled SourceType = "Scheduled"
	SourceArtifact  SourceType = "Artifact"
	SourceManifest  SourceType = "Manifest"
)

// Git providers accepted as webhook sources. ProviderCustom is a generic
// webhook that is not tied to a connector.
const (
	ProviderGithub        = "Github"
	ProviderGitlab        = "Gitlab"
	ProviderBitbucket     = "Bitbucket"
	ProviderAzureRepo     = "AzureRepo"
	ProviderAwsCodeCommit = "AwsCodeCommit"
	ProviderCustom        = "Custom"
)

// Providers lists the webhook providers in display order.
var Providers = []string{
	ProviderGithub,
	ProviderGitlab,
	ProviderBitbucket,
	ProviderAzureRepo,
	ProviderAwsCodeCommit,
	ProviderCustom,
}

// CronType is the only scheduled source type.
const CronType = "Cron"

var ErrIdentifierChanged = errors.New("trigger identifier cannot be changed")

// Document is the root of a trigger YAML document.
type Document struct {
	Trigger Config `yaml:"trigger"`
}

// Config is a trigger definition.
type Config struct {
	Name               string            `yaml:"name"`
	Identifier         string            `yaml:"identifier"`
	Enabled            bool              `yaml:"enabled"`
	Description        string            `yaml:"description,omitempty"`
	Tags               map[string]string `yaml:"tags,omitempty"`
	OrgIdentifier      string            `yaml:"orgIdentifier,omitempty"`
	ProjectIdentifier  string            `yaml:"projectIdentifier,omitempty"`
	PipelineIdentifier string            `yaml:"pipelineIdentifier,omitempty"`
	Source             Source            `yaml:"source"`
	InputYAML          string            `yaml:"inputYaml,omitempty"`
}

// ParseError reports a trigger document that could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed trigger yaml: %v", e.Err)
	}
	return fmt.Sprintf("%s: malformed trigger yaml: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes a single trigger document.
func Parse(data []byte) (*Config, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Trigger.isBlank() {
		return nil, &ParseError{Err: errors.New("missing trigger root")}
	}
	return &doc.Trigger, nil
}

// Marshal encodes a trigger as a YAML document.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(Document{Trigger: *c})
}

func (c *Config) isBlank() bool {
	return strings.TrimSpace(c.Identifier) == "" &&
		strings.TrimSpace(c.Name) == "" &&
		c.Source.Type == ""
}

// CheckUpdate rejects edits that change the identifier of an existing trigger.
func CheckUpdate(prev, next *Config) error {
	if prev.Identifier != next.Identifier {
		return fmt.Errorf("%w: %q -> %q", ErrIdentifierChanged, prev.Identifier, next.Identifier)
	}
	return nil
}

// Clone returns a deep copy of the trigger.
func (c *Config) Clone() *Config {
	out := *c
	if c.Tags != nil {
		out.Tags = make(map[string]string, len(c.Tags))
		for k, v := range c.Tags {
			out.Tags[k] = v
		}
	}
	out.Source = c.Source.clone()
	return &out
}
