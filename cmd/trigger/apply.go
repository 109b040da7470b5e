package trigger

import (
	"errors"
	"fmt"
	"maps"

	"github.com/caesium-cloud/triggerkit/internal/wizard"
	"github.com/caesium-cloud/triggerkit/pkg/env"
	schema "github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/spf13/cobra"
)

var (
	applyPaths   []string
	applyInclude []string
	applyPrune   bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update triggers from definition files",
	RunE: func(cmd *cobra.Command, args []string) error {
		desired, err := schema.Load(applyPaths, applyInclude)
		if err != nil {
			return err
		}
		if len(desired) == 0 {
			writeLine(cmd, cmd.OutOrStdout(), "No trigger definitions found.\n")
			return nil
		}
		for _, d := range desired {
			withDefaultTags(d, env.Variables().DefaultTags)
		}

		w, c, err := newWizard()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		actual, err := loadRemote(ctx, c, desired)
		if err != nil {
			return err
		}

		stored := make(map[string]*schema.Config, len(actual))
		for _, a := range actual {
			stored[a.Identifier] = a
		}

		var errs []error
		applied := 0
		for _, d := range desired {
			if prev, ok := stored[d.Identifier]; ok && schema.Changes(prev, d) == "" {
				continue
			}
			if _, err := w.Submit(ctx, w.OpenConfig(d, stored[d.Identifier])); err != nil {
				errs = append(errs, fmt.Errorf("trigger %s (%s error): %w", d.Identifier, wizard.Classify(err), err))
				continue
			}
			applied++
		}

		if applyPrune {
			for _, del := range schema.Compare(desired, actual).Deletes {
				if err := w.Delete(ctx, del.PipelineIdentifier, del.Identifier); err != nil {
					errs = append(errs, err)
					continue
				}
				applied++
			}
		}

		if err := errors.Join(errs...); err != nil {
			return err
		}

		writeLine(cmd, cmd.OutOrStdout(), "Applied %d trigger change(s)\n", applied)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringSliceVarP(&applyPaths, "path", "p", nil, "Paths to trigger definition files or directories (default: current directory)")
	applyCmd.Flags().StringSliceVar(&applyInclude, "include", schema.DefaultInclude, "Glob patterns selecting files inside directories")
	applyCmd.Flags().BoolVar(&applyPrune, "prune", false, "Delete persisted triggers missing from the definitions")
}

// withDefaultTags adds the configured default tags a trigger does not set.
func withDefaultTags(c *schema.Config, defaults map[string]string) {
	if len(defaults) == 0 {
		return
	}
	tags := maps.Clone(defaults)
	maps.Copy(tags, c.Tags)
	c.Tags = tags
}
