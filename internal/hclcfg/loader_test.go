package hclcfg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeDefinition lays out a temp directory with the given file contents
// and returns its path.
func writeDefinition(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadSingleFile(t *testing.T) {
	dir := writeDefinition(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
  package_manager        = "npm"
  deps                   = ["express@4.18.0"]
  jest                   = false
}
`,
	})

	opts, err := NewLoader().Load(context.Background(), filepath.Join(dir, "project.hcl"))
	require.NoError(t, err)
	require.Equal(t, "demo", opts.Name)
	require.Equal(t, "main", opts.DefaultReleaseBranch)
	require.Equal(t, "npm", string(opts.PackageManager))
	require.Equal(t, []string{"express@4.18.0"}, opts.Deps)
	require.NotNil(t, opts.Jest)
	require.False(t, *opts.Jest)
}

func TestLoadDirectorySpansFiles(t *testing.T) {
	dir := writeDefinition(t, map[string]string{
		"main.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
}
`,
		"vars.hcl": "\n",
	})

	opts, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "demo", opts.Name)
}

func TestLoadNoProjectBlock(t *testing.T) {
	dir := writeDefinition(t, map[string]string{"empty.hcl": "\n"})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no project block")
}

func TestLoadMultipleProjectBlocks(t *testing.T) {
	dir := writeDefinition(t, map[string]string{
		"a.hcl": "project {\n  name = \"a\"\n}\n",
		"b.hcl": "project {\n  name = \"b\"\n}\n",
	})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple project blocks")
}

func TestLoadMalformedHCL(t *testing.T) {
	dir := writeDefinition(t, map[string]string{
		"broken.hcl": "project {\n  name = \n",
	})

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestLoadNoDefinitionFiles(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no .hcl definition files")
}

func TestLoadInterpolatesEnvironment(t *testing.T) {
	t.Setenv("PROJGEN_TEST_OWNER", "ACME Corp")
	dir := writeDefinition(t, map[string]string{
		"project.hcl": `
project {
  name                   = "demo"
  default_release_branch = "main"
  copyright_owner        = env.PROJGEN_TEST_OWNER
}
`,
	})

	opts, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "ACME Corp", opts.CopyrightOwner)
}

func TestLoadTranslatesBlocks(t *testing.T) {
	dir := writeDefinition(t, map[string]string{
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

	opts, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, opts.WorkflowBootstrapSteps, 1)
	step := opts.WorkflowBootstrapSteps[0]
	require.Equal(t, "setup node", step.Name)
	require.Equal(t, "actions/setup-node@v3", step.Uses)
	require.Equal(t, "18", step.With["node-version"])

	require.Contains(t, opts.BuildTriggers, "pull_request")
	filter := opts.BuildTriggers["pull_request"].(map[string]any)
	require.Equal(t, []string{"main"}, filter["branches"])
}
