package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	schema "github.com/caesium-cloud/triggerkit/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `pipeline:
  identifier: deploy_api
  stages:
    - stage:
        identifier: deploy
        spec:
          serviceConfig:
            serviceDefinition:
              spec:
                artifacts:
                  primary:
                    type: DockerRegistry
                    spec:
                      imagePath: <+input>
                      tag: <+input>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return out.String(), err
}

func TestInputs(t *testing.T) {
	path := writeFile(t, "pipeline.yaml", template)

	out, err := run(t, "inputs", "--template", path)
	require.NoError(t, err)
	assert.Equal(t,
		"pipeline.stages[0].stage.spec.serviceConfig.serviceDefinition.spec.artifacts.primary.spec.imagePath\n"+
			"pipeline.stages[0].stage.spec.serviceConfig.serviceDefinition.spec.artifacts.primary.spec.tag\n",
		out)
}

func TestMerge(t *testing.T) {
	tmpl := writeFile(t, "pipeline.yaml", template)
	spec := writeFile(t, "artifact.yaml", "imagePath: library/nginx\ntag: <+input>\n")

	out, err := run(t, "merge", "--template", tmpl, "--stage", "deploy", "--spec", spec)
	require.NoError(t, err)

	p, err := schema.Parse([]byte(out))
	require.NoError(t, err)
	assert.Empty(t, p.RuntimeInputs())
	assert.Contains(t, out, "imagePath: library/nginx")
	assert.Contains(t, out, schema.ArtifactBuild)
}
