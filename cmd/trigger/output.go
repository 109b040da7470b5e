package trigger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	schema "github.com/caesium-cloud/triggerkit/pkg/trigger"
	"github.com/spf13/cobra"
)

func printDiff(cmd *cobra.Command, diff schema.Diff) {
	out := cmd.OutOrStdout()

	if diff.Empty() {
		writeLine(cmd, out, "No changes detected.\n")
		return
	}

	if len(diff.Creates) > 0 {
		writeLine(cmd, out, "Creates:\n")
		sort.Slice(diff.Creates, func(i, j int) bool { return diff.Creates[i].Identifier < diff.Creates[j].Identifier })
		for _, c := range diff.Creates {
			writeLine(cmd, out, "  - %s\n", c.Identifier)
		}
		writeLine(cmd, out, "\n")
	}

	if len(diff.Updates) > 0 {
		writeLine(cmd, out, "Updates:\n")
		sort.Slice(diff.Updates, func(i, j int) bool { return diff.Updates[i].Identifier < diff.Updates[j].Identifier })
		for _, upd := range diff.Updates {
			writeLine(cmd, out, "  - %s\n", upd.Identifier)
			writeLine(cmd, out, "%s\n", indent(upd.Diff, "    "))
		}
		writeLine(cmd, out, "\n")
	}

	if len(diff.Deletes) > 0 {
		writeLine(cmd, out, "Deletes:\n")
		sort.Slice(diff.Deletes, func(i, j int) bool { return diff.Deletes[i].Identifier < diff.Deletes[j].Identifier })
		for _, c := range diff.Deletes {
			writeLine(cmd, out, "  - %s\n", c.Identifier)
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func writeLine(cmd *cobra.Command, w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
	}
}
