package integrationtests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/app"
	"github.com/vk/projgen/internal/testutil"
)

func TestDryRunWritesNoArtifacts(t *testing.T) {
	result := testutil.RunGenerationWithConfig(context.Background(), t,
		map[string]string{"project.hcl": minimalDefinition},
		func(cfg *app.Config) { cfg.DryRun = true })
	require.NoError(t, result.Err)

	require.False(t, result.HasArtifact("package.json"))
	require.False(t, result.HasArtifact(".github/workflows/build.yml"))
	require.Contains(t, result.LogOutput, "would write artifact")
	require.Contains(t, result.LogOutput, "package.json")
}

func TestRepeatedRunsAreIdentical(t *testing.T) {
	first := testutil.RunGeneration(t, map[string]string{"project.hcl": minimalDefinition})
	require.NoError(t, first.Err)
	second := testutil.RunGeneration(t, map[string]string{"project.hcl": minimalDefinition})
	require.NoError(t, second.Err)

	for _, path := range []string{
		"package.json",
		".github/workflows/build.yml",
		".projgen/tasks.json",
		".projgen.json",
	} {
		require.Equal(t, first.Artifact(t, path), second.Artifact(t, path), "artifact %s differs between runs", path)
	}
}
