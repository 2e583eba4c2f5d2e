package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/buildflow"
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/projerr"
)

func newBuilder() *buildflow.Builder {
	return &buildflow.Builder{
		InstallCommand: "yarn install --check-files --frozen-lockfile",
		BuildCommand:   "yarn build",
		GitUserName:    "github-actions",
		GitUserEmail:   "github-actions@github.com",
	}
}

func TestConfigureRequiresGithub(t *testing.T) {
	_, err := Configure(nil, newBuilder(), Options{Branch: "main"})
	require.Error(t, err)

	var preErr *projerr.PreconditionError
	require.True(t, errors.As(err, &preErr))
}

func TestConfigureRequiresBranch(t *testing.T) {
	_, err := Configure(github.New(), newBuilder(), Options{})
	require.Error(t, err)

	var cfgErr *projerr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "default_release_branch", cfgErr.Option)
}

func TestReleaseJobReusesBuildCommand(t *testing.T) {
	gh := github.New()
	rel, err := Configure(gh, newBuilder(), Options{Branch: "main", EveryCommit: true})
	require.NoError(t, err)

	job := rel.Workflow().Job("release")
	require.NotNil(t, job)

	var commands []string
	for _, step := range job.Steps {
		if step.Run != "" {
			commands = append(commands, step.Run)
		}
	}
	require.Contains(t, commands, "yarn build")
	require.Equal(t, "true", job.Env["RELEASE"])

	last := job.Steps[len(job.Steps)-1]
	require.Equal(t, "actions/upload-artifact@v3", last.Uses)
}

func TestEveryCommitAddsPushTrigger(t *testing.T) {
	rel, err := Configure(github.New(), newBuilder(), Options{
		Branch:      "main",
		Branches:    []string{"1.x"},
		EveryCommit: true,
	})
	require.NoError(t, err)

	triggers := rel.Workflow().Triggers()
	require.Contains(t, triggers, "push")
	require.Contains(t, triggers, "workflow_dispatch")

	filter := triggers["push"].(map[string]any)
	require.Equal(t, []string{"main", "1.x"}, filter["branches"])
}

func TestScheduledRelease(t *testing.T) {
	rel, err := Configure(github.New(), newBuilder(), Options{
		Branch:   "main",
		Schedule: []string{"0 4 * * 1"},
	})
	require.NoError(t, err)

	triggers := rel.Workflow().Triggers()
	require.NotContains(t, triggers, "push")
	require.Contains(t, triggers, "schedule")
}

func TestNpmPublishJob(t *testing.T) {
	rel, err := Configure(github.New(), newBuilder(), Options{
		Branch:      "main",
		EveryCommit: true,
		NpmPublish:  true,
	})
	require.NoError(t, err)

	job := rel.Workflow().Job("release_npm")
	require.NotNil(t, job)
	require.Equal(t, []string{"release"}, job.Needs)
	require.Equal(t, "actions/download-artifact@v3", job.Steps[0].Uses)
	require.Contains(t, job.Steps[1].Env["NPM_TOKEN"], "secrets.NPM_TOKEN")
}
