package client

import (
	"net/url"
	"strings"
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/env"
)

// Config captures what the client needs to reach the platform API.
type Config struct {
	BaseURL     *url.URL
	HTTPTimeout time.Duration
	APIKey      string
	Account     string
	Org         string
	Project     string
}

// NewConfig builds a client configuration from the processed environment,
// applying sane defaults for missing values.
func NewConfig(vars env.Environment) (*Config, error) {
	baseURL := strings.TrimSpace(vars.BaseURL)
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	} else if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	timeout := vars.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Config{
		BaseURL:     u,
		HTTPTimeout: timeout,
		APIKey:      vars.APIKey,
		Account:     vars.Account,
		Org:         vars.Org,
		Project:     vars.Project,
	}, nil
}

// FromEnvironment builds a client from the processed environment.
func FromEnvironment() (*Client, error) {
	cfg, err := NewConfig(env.Variables())
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}
