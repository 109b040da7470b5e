package env

import (
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for triggerkit.
func Process() error {
	if err := envconfig.Process("triggerkit", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	if _, err := time.LoadLocation(variables.Timezone); err != nil {
		return errors.Wrap(err, "failed to load timezone")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by triggerkit.
type Environment struct {
	LogLevel     string            `default:"info"`
	BaseURL      string            `default:"http://127.0.0.1:8080"`
	HTTPTimeout  time.Duration     `default:"10s"`
	APIKey       string            `default:""`
	Account      string            `default:""`
	Org          string            `default:"default"`
	Project      string            `default:""`
	Timezone     string            `default:"UTC"`
	PreviewCount int               `default:"5"`
	DefaultTags  map[string]string `default:""`
}
