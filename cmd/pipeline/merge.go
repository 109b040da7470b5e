package pipeline

import (
	"fmt"

	schema "github.com/caesium-cloud/triggerkit/pkg/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	mergeStage    string
	mergeKind     string
	mergeID       string
	mergeType     string
	mergeSpecFile string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fill the runtime inputs of an artifact or manifest in a pipeline template",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := schema.Kind(mergeKind)
		if kind != schema.KindArtifact && kind != schema.KindManifest {
			return fmt.Errorf("--kind must be %s or %s, got %q", schema.KindArtifact, schema.KindManifest, mergeKind)
		}

		p, err := loadTemplate(cmd)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("pipeline has no runtime inputs")
		}

		spec := map[string]any{}
		if mergeSpecFile != "" {
			data, err := readFile(cmd, mergeSpecFile)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(data, &spec); err != nil {
				return fmt.Errorf("%s: %w", mergeSpecFile, err)
			}
		}

		merged, err := schema.MergeArtifact(p, mergeStage, schema.Artifact{
			Kind:       kind,
			Identifier: mergeID,
			Type:       mergeType,
			Spec:       spec,
		})
		if err != nil {
			return err
		}

		data, err := merged.Marshal()
		if err != nil {
			return err
		}
		writeLine(cmd, cmd.OutOrStdout(), "%s", data)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeStage, "stage", "", "Stage identifier")
	mergeCmd.Flags().StringVar(&mergeKind, "kind", string(schema.KindArtifact), "Artifact or Manifest")
	mergeCmd.Flags().StringVar(&mergeID, "id", schema.PrimaryArtifact, "Artifact or manifest identifier")
	mergeCmd.Flags().StringVar(&mergeType, "type", "", "Artifact or manifest type")
	mergeCmd.Flags().StringVar(&mergeSpecFile, "spec", "", "YAML file with the selected artifact spec")
	_ = mergeCmd.MarkFlagRequired("stage")
}
