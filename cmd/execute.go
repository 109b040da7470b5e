package cmd

import (
	"github.com/caesium-cloud/triggerkit/cmd/cron"
	"github.com/caesium-cloud/triggerkit/cmd/pipeline"
	"github.com/caesium-cloud/triggerkit/cmd/trigger"
	"github.com/spf13/cobra"
)

var cmds = []*cobra.Command{
	cron.Cmd,
	trigger.Cmd,
	pipeline.Cmd,
}

// Execute builds the command tree and executes commands.
func Execute() error {
	command := &cobra.Command{
		Use:          "triggerkit",
		Short:        "Author, validate and manage pipeline triggers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}

	for _, c := range cmds {
		command.AddCommand(c)
	}

	return command.Execute()
}
