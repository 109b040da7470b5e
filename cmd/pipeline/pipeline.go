package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/caesium-cloud/triggerkit/pkg/client"
	schema "github.com/caesium-cloud/triggerkit/pkg/pipeline"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for pipeline template operations.
var Cmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Inspect pipeline runtime inputs",
}

var (
	templateFile string
	templateID   string
)

func init() {
	Cmd.PersistentFlags().StringVarP(&templateFile, "template", "f", "", "Pipeline template file (- for stdin)")
	Cmd.PersistentFlags().StringVarP(&templateID, "pipeline", "P", "", "Fetch the template of this pipeline from the platform")
	Cmd.AddCommand(inputsCmd, mergeCmd)
}

var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List the runtime inputs of a pipeline template",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadTemplate(cmd)
		if err != nil {
			return err
		}
		if p == nil {
			writeLine(cmd, cmd.OutOrStdout(), "Pipeline has no runtime inputs.\n")
			return nil
		}
		for _, path := range p.RuntimeInputs() {
			writeLine(cmd, cmd.OutOrStdout(), "%s\n", path)
		}
		return nil
	},
}

func loadTemplate(cmd *cobra.Command) (*schema.Pipeline, error) {
	switch {
	case templateFile != "" && templateID != "":
		return nil, fmt.Errorf("--template and --pipeline are mutually exclusive")
	case templateFile != "":
		data, err := readFile(cmd, templateFile)
		if err != nil {
			return nil, err
		}
		return schema.Parse(data)
	case templateID != "":
		c, err := client.FromEnvironment()
		if err != nil {
			return nil, err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return c.Pipelines().Template(ctx, templateID)
	default:
		return nil, fmt.Errorf("one of --template or --pipeline is required")
	}
}

func readFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func writeLine(cmd *cobra.Command, w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		cmd.PrintErrf("write output: %v\n", err)
	}
}
