package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `
pipeline:
  identifier: deploy_api
  stages:
    - stage:
        identifier: build
        type: CI
        spec:
          cloneCodebase: <+input>
    - parallel:
        - stage:
            identifier: deploy
            type: Deployment
            spec:
              serviceConfig:
                serviceDefinition:
                  type: Kubernetes
                  spec:
                    manifests:
                      - manifest:
                          identifier: values
                          type: Values
                          spec:
                            store:
                              type: Git
                              spec:
                                branch: <+input>
                      - manifest:
                          identifier: helm
                          type: HelmChart
                          spec:
                            chartName: <+input>
                            chartVersion: <+input>
                            store:
                              type: Http
                              spec:
                                connectorRef: <+input>
                    artifacts:
                      primary:
                        type: DockerRegistry
                        spec:
                          imagePath: <+input>
                          tag: <+input>.allowedValues(1.0,2.0)
                      sidecars:
                        - sidecar:
                            identifier: proxy
                            type: DockerRegistry
                            spec:
                              tag: <+input>
        - stage:
            identifier: verify
            type: Custom
            spec:
              serviceConfig:
                serviceDefinition:
                  spec:
                    manifests:
                      - manifest:
                          identifier: helm
                          spec:
                            chartVersion: <+input>
`

func parseTemplate(t *testing.T) *Pipeline {
	t.Helper()
	p, err := Parse([]byte(template))
	require.NoError(t, err)
	return p
}

func value(t *testing.T, p *Pipeline, path ...any) any {
	t.Helper()
	v, ok := get(p.Root, path)
	require.True(t, ok, "%v", path)
	return v
}

var helmSpec = []any{"pipeline", "stages", 1, "parallel", 0, "stage", "spec", "serviceConfig", "serviceDefinition", "spec", "manifests", 1, "manifest", "spec"}

func TestMergeManifestDefersPlaceholderVersion(t *testing.T) {
	p := parseTemplate(t)

	merged, err := MergeArtifact(p, "deploy", Artifact{
		Kind:       KindManifest,
		Identifier: "helm",
		Type:       "HelmChart",
		Spec: map[string]any{
			"chartName":    "api",
			"chartVersion": RuntimeInput,
			"store": map[string]any{
				"type": "Http",
				"spec": map[string]any{"connectorRef": "account.charts"},
			},
		},
	})
	require.NoError(t, err)

	spec := value(t, merged, helmSpec...)
	assert.Equal(t, "api", value(t, merged, append(helmSpec, "chartName")...))
	assert.Equal(t, ManifestVersion, value(t, merged, append(helmSpec, "chartVersion")...))
	assert.Equal(t, "account.charts", value(t, merged, append(helmSpec, "store", "spec", "connectorRef")...))
	assert.NotNil(t, spec)

	// other manifests and stages keep their placeholders
	assert.Equal(t, RuntimeInput, value(t, merged, "pipeline", "stages", 1, "parallel", 1, "stage", "spec", "serviceConfig", "serviceDefinition", "spec", "manifests", 0, "manifest", "spec", "chartVersion"))
	assert.Equal(t, RuntimeInput, value(t, merged, "pipeline", "stages", 0, "stage", "spec", "cloneCodebase"))
}

func TestMergeDoesNotMutateTemplate(t *testing.T) {
	p := parseTemplate(t)
	before, err := p.Marshal()
	require.NoError(t, err)
	pristine := parseTemplate(t)

	_, err = MergeArtifact(p, "deploy", Artifact{
		Kind:       KindManifest,
		Identifier: "helm",
		Spec:       map[string]any{"chartName": "api", "chartVersion": "1.2.3"},
	})
	require.NoError(t, err)

	after, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Empty(t, cmp.Diff(pristine.Root, p.Root))
}

func TestMergeConcreteVersion(t *testing.T) {
	merged, err := MergeArtifact(parseTemplate(t), "deploy", Artifact{
		Kind:       KindManifest,
		Identifier: "helm",
		Spec:       map[string]any{"chartVersion": "1.2.3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", value(t, merged, append(helmSpec, "chartVersion")...))
	assert.Equal(t, RuntimeInput, value(t, merged, append(helmSpec, "chartName")...))
}

func TestMergePrimaryArtifact(t *testing.T) {
	primary := []any{"pipeline", "stages", 1, "parallel", 0, "stage", "spec", "serviceConfig", "serviceDefinition", "spec", "artifacts", "primary", "spec"}

	merged, err := MergeArtifact(parseTemplate(t), "deploy", Artifact{
		Kind:       KindArtifact,
		Identifier: PrimaryArtifact,
		Type:       "DockerRegistry",
		Spec:       map[string]any{"imagePath": "library/nginx", "tag": RuntimeInput},
	})
	require.NoError(t, err)
	assert.Equal(t, "library/nginx", value(t, merged, append(primary, "imagePath")...))
	assert.Equal(t, ArtifactBuild, value(t, merged, append(primary, "tag")...))
}

func TestMergeSidecar(t *testing.T) {
	sidecar := []any{"pipeline", "stages", 1, "parallel", 0, "stage", "spec", "serviceConfig", "serviceDefinition", "spec", "artifacts", "sidecars", 0, "sidecar", "spec", "tag"}

	merged, err := MergeArtifact(parseTemplate(t), "deploy", Artifact{
		Kind:       KindArtifact,
		Identifier: "proxy",
		Spec:       map[string]any{"tag": "v2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", value(t, merged, sidecar...))
}

func TestMergeNotFound(t *testing.T) {
	_, err := MergeArtifact(parseTemplate(t), "missing", Artifact{Kind: KindManifest, Identifier: "helm"})
	assert.ErrorIs(t, err, ErrStageNotFound)

	_, err = MergeArtifact(parseTemplate(t), "deploy", Artifact{Kind: KindManifest, Identifier: "nope"})
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = MergeArtifact(parseTemplate(t), "build", Artifact{Kind: KindArtifact, Identifier: PrimaryArtifact})
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestRuntimeInputs(t *testing.T) {
	paths := parseTemplate(t).RuntimeInputs()
	assert.Contains(t, paths, "pipeline.stages[0].stage.spec.cloneCodebase")
	assert.Contains(t, paths, "pipeline.stages[1].parallel[0].stage.spec.serviceConfig.serviceDefinition.spec.artifacts.primary.spec.tag")
	assert.Len(t, paths, 9)
}

func TestIsRuntimeInput(t *testing.T) {
	assert.True(t, IsRuntimeInput("<+input>"))
	assert.True(t, IsRuntimeInput("<+input>.allowedValues(a,b)"))
	assert.False(t, IsRuntimeInput("<+trigger.manifest.version>"))
	assert.False(t, IsRuntimeInput(3))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("pipeline: ["))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse([]byte("stages: []"))
	assert.ErrorIs(t, err, ErrMalformed)
}
