package trigger

import (
	"context"
	"fmt"
	"slices"

	"github.com/caesium-cloud/triggerkit/pkg/client"
	schema "github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/spf13/cobra"
)

var (
	diffPaths   []string
	diffInclude []string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show changes between trigger definitions and the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		desired, err := schema.Load(diffPaths, diffInclude)
		if err != nil {
			return err
		}

		c, err := client.FromEnvironment()
		if err != nil {
			return err
		}

		actual, err := loadRemote(commandContext(cmd), c, desired)
		if err != nil {
			return err
		}

		printDiff(cmd, schema.Compare(desired, actual))
		return nil
	},
}

func init() {
	diffCmd.Flags().StringSliceVarP(&diffPaths, "path", "p", nil, "Paths to trigger definition files or directories")
	diffCmd.Flags().StringSliceVar(&diffInclude, "include", schema.DefaultInclude, "Glob patterns selecting files inside directories")
}

// loadRemote fetches the persisted triggers of every pipeline referenced by
// the desired definitions.
func loadRemote(ctx context.Context, c *client.Client, desired []*schema.Config) ([]*schema.Config, error) {
	var pipelines []string
	for _, d := range desired {
		if d.PipelineIdentifier == "" {
			return nil, fmt.Errorf("trigger %s: pipelineIdentifier is required", d.Identifier)
		}
		if !slices.Contains(pipelines, d.PipelineIdentifier) {
			pipelines = append(pipelines, d.PipelineIdentifier)
		}
	}

	var actual []*schema.Config
	for _, p := range pipelines {
		stored, err := c.Triggers().List(ctx, p, nil)
		if err != nil {
			return nil, err
		}
		for i := range stored {
			if stored[i].YAML == "" {
				full, err := c.Triggers().Get(ctx, p, stored[i].Identifier)
				if err != nil {
					return nil, err
				}
				stored[i] = *full
			}
			cfg, err := stored[i].Config()
			if err != nil {
				return nil, fmt.Errorf("trigger %s: %w", stored[i].Identifier, err)
			}
			actual = append(actual, cfg)
		}
	}
	return actual, nil
}
