package cron

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/cron"
	"github.com/caesium-cloud/triggerkit/pkg/env"
	"github.com/caesium-cloud/triggerkit/pkg/schedule"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for cron expression tooling.
var Cmd = &cobra.Command{
	Use:   "cron",
	Short: "Inspect and build cron expressions",
}

var (
	previewCount    int
	previewTimezone string
)

func init() {
	Cmd.PersistentFlags().IntVarP(&previewCount, "count", "n", 0, "Number of upcoming runs to preview (default from TRIGGERKIT_PREVIEWCOUNT)")
	Cmd.PersistentFlags().StringVar(&previewTimezone, "timezone", "", "Timezone used for previews (default from TRIGGERKIT_TIMEZONE)")
	Cmd.AddCommand(describeCmd, buildCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe <expression>",
	Short: "Break an expression into its fields and preview upcoming runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := schedule.Load(args[0])
		if state.Err != nil {
			return state.Err
		}
		return render(cmd, state)
	},
}

func render(cmd *cobra.Command, state schedule.State) error {
	out := cmd.OutOrStdout()

	writeLine(cmd, out, "Expression: %s\n", state.Expression)
	writeLine(cmd, out, "Tab:        %s\n\n", state.Tab)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, f := range cron.Describe(state.Fields) {
		writeLine(cmd, tw, "%s\t%s\t%s\n", f.Name, f.Value, f.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	loc, err := location()
	if err != nil {
		return err
	}

	count := previewCount
	if count <= 0 {
		count = env.Variables().PreviewCount
	}

	runs, err := cron.Next(state.Expression, time.Now(), count, loc)
	if err != nil {
		return err
	}

	writeLine(cmd, out, "\nNext runs (%s):\n", loc)
	for _, r := range runs {
		writeLine(cmd, out, "  %s\n", r.Format(time.RFC1123))
	}
	return nil
}

func location() (*time.Location, error) {
	name := previewTimezone
	if name == "" {
		name = env.Variables().Timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func writeLine(cmd *cobra.Command, w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
	}
}
