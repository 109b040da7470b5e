package trigger

import (
	"fmt"
	"strings"

	"github.com/caesium-cloud/triggerkit/pkg/log"
	schema "github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/form"
	"github.com/caesium-cloud/triggerkit/pkg/trigger/validate"
	"github.com/spf13/cobra"
)

var (
	lintPaths   []string
	lintInclude []string
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate trigger definition files",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := schema.Load(lintPaths, lintInclude)
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			writeLine(cmd, cmd.OutOrStdout(), "No trigger definitions found.\n")
			return nil
		}

		var failures []string
		for _, c := range configs {
			errs := validate.Validate(form.FromConfig(c), validate.Options{})
			if len(errs) == 0 {
				continue
			}
			log.Debug("trigger rejected", "identifier", c.Identifier, "errors", len(errs))
			failures = append(failures, fmt.Sprintf("trigger %s: %v", c.Identifier, errs))
		}
		if len(failures) > 0 {
			return fmt.Errorf("validation failed:\n%s", strings.Join(failures, "\n"))
		}

		writeLine(cmd, cmd.OutOrStdout(), "Validated %d trigger definition(s)\n", len(configs))
		return nil
	},
}

func init() {
	lintCmd.Flags().StringSliceVarP(&lintPaths, "path", "p", nil, "Paths to trigger definition files or directories (default: current directory)")
	lintCmd.Flags().StringSliceVar(&lintInclude, "include", schema.DefaultInclude, "Glob patterns selecting files inside directories")
}
