package trigger

import (
	"github.com/spf13/cobra"
)

var (
	getPipeline string
)

var getCmd = &cobra.Command{
	Use:   "get <identifier>",
	Short: "Print a persisted trigger as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := newWizard()
		if err != nil {
			return err
		}

		s, err := w.Open(commandContext(cmd), getPipeline, args[0])
		if err != nil {
			return err
		}
		if s.Warning != nil {
			cmd.PrintErrf("warning: %v\n", s.Warning)
		}

		data, err := s.Render()
		if err != nil {
			return err
		}
		writeLine(cmd, cmd.OutOrStdout(), "%s", data)
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getPipeline, "pipeline", "P", "", "Pipeline identifier the trigger belongs to")
	_ = getCmd.MarkFlagRequired("pipeline")
}
