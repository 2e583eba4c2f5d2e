package integrationtests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/buildflow"
	"github.com/vk/projgen/internal/testutil"
)

func TestImmutableBuildEmitsAntitamperPair(t *testing.T) {
	result := testutil.RunGeneration(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
  mutable_build          = false
}
`,
	})
	require.NoError(t, result.Err)

	build := result.Artifact(t, ".github/workflows/build.yml")
	require.Equal(t, 2, strings.Count(build, buildflow.AntitamperCommand))
	require.NotContains(t, build, "Self mutation")
}

func TestContainerImagePropagates(t *testing.T) {
	result := testutil.RunGeneration(t, map[string]string{
		"project.hcl": `
project {
  name                     = "demo"
  default_release_branch   = "main"
  workflow_container_image = "node:18-bullseye"
}
`,
	})
	require.NoError(t, result.Err)

	build := result.Artifact(t, ".github/workflows/build.yml")
	require.Contains(t, build, "node:18-bullseye")
}

func TestBootstrapStepsAndTriggers(t *testing.T) {
	result := testutil.RunGeneration(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"

  bootstrap_step {
    name = "setup node"
    uses = "actions/setup-node@v3"
    with = {
      node-version = "18"
    }
  }

  build_trigger "pull_request" {
    branches = ["main"]
  }
}
`,
	})
	require.NoError(t, result.Err)

	build := result.Artifact(t, ".github/workflows/build.yml")
	require.Contains(t, build, "actions/setup-node@v3")
	require.Contains(t, build, "pull_request")

	// Bootstrap steps run before the checkout.
	require.Less(t,
		strings.Index(build, "actions/setup-node@v3"),
		strings.Index(build, "actions/checkout@v3"))
}

func TestCodeCovStepRequiresTestFramework(t *testing.T) {
	result := testutil.RunGeneration(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
  codecov                = true
}
`,
	})
	require.NoError(t, result.Err)
	require.Contains(t, result.Artifact(t, ".github/workflows/build.yml"), "codecov/codecov-action@v3")

	result = testutil.RunGeneration(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
  codecov                = true
  jest                   = false
}
`,
	})
	require.NoError(t, result.Err)
	require.NotContains(t, result.Artifact(t, ".github/workflows/build.yml"), "codecov/codecov-action@v3")
}
