package trigger

import (
	"github.com/spf13/cobra"
)

var statusPipeline string

var enableCmd = &cobra.Command{
	Use:   "enable <identifier>",
	Short: "Enable a trigger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <identifier>",
	Short: "Disable a trigger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], false)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <identifier>",
	Short: "Delete a trigger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWizard()
		if err != nil {
			return err
		}
		if err := w.Delete(commandContext(cmd), statusPipeline, args[0]); err != nil {
			return err
		}
		writeLine(cmd, cmd.OutOrStdout(), "Deleted trigger %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{enableCmd, disableCmd, deleteCmd} {
		c.Flags().StringVarP(&statusPipeline, "pipeline", "P", "", "Pipeline identifier the trigger belongs to")
		_ = c.MarkFlagRequired("pipeline")
	}
}

func setEnabled(cmd *cobra.Command, identifier string, enabled bool) error {
	w, _, err := newWizard()
	if err != nil {
		return err
	}
	if err := w.SetEnabled(commandContext(cmd), statusPipeline, identifier, enabled); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	writeLine(cmd, cmd.OutOrStdout(), "Trigger %s %s\n", identifier, state)
	return nil
}
