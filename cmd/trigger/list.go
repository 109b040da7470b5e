package trigger

import (
	"net/url"
	"text/tabwriter"

	"github.com/caesium-cloud/triggerkit/pkg/client"
	"github.com/spf13/cobra"
)

var (
	listPipeline string
	listType     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the triggers of a pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.FromEnvironment()
		if err != nil {
			return err
		}

		params := url.Values{}
		if listType != "" {
			params.Set("type", listType)
		}

		triggers, err := c.Triggers().List(commandContext(cmd), listPipeline, params)
		if err != nil {
			return err
		}
		if len(triggers) == 0 {
			writeLine(cmd, cmd.OutOrStdout(), "No triggers found.\n")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		writeLine(cmd, tw, "IDENTIFIER\tNAME\tTYPE\tENABLED\n")
		for _, t := range triggers {
			writeLine(cmd, tw, "%s\t%s\t%s\t%t\n", t.Identifier, t.Name, t.Type, t.Enabled)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listPipeline, "pipeline", "P", "", "Pipeline identifier")
	listCmd.Flags().StringVar(&listType, "type", "", "Only list triggers of this source type")
	_ = listCmd.MarkFlagRequired("pipeline")
}
