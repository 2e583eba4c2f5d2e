package project

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/buildflow"
	"github.com/vk/projgen/internal/projerr"
)

func boolPtr(v bool) *bool { return &v }

func minimalOptions() Options {
	return Options{
		Name:                 "demo",
		DefaultReleaseBranch: "main",
	}
}

func TestNew_RequiresDefaultReleaseBranch(t *testing.T) {
	_, err := New(context.Background(), Options{Name: "demo"})
	require.Error(t, err)
	var cfgErr *projerr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "default_release_branch", cfgErr.Option)
}

func TestNew_DefaultScenario(t *testing.T) {
	p, err := New(context.Background(), minimalOptions())
	require.NoError(t, err)

	w := p.BuildWorkflow()
	require.NotNil(t, w)

	// The manual-dispatch trigger is present alongside no other trigger.
	triggers := w.Triggers()
	require.Contains(t, triggers, "workflow_dispatch")
	require.Len(t, triggers, 1)

	job := w.Job("build")
	require.NotNil(t, job)

	var haveCheckout, haveInstall, haveBuild bool
	antitamper := 0
	for _, s := range job.Steps {
		switch s.Name {
		case "Checkout":
			haveCheckout = true
		case "Install dependencies":
			haveInstall = true
		case "Build":
			haveBuild = true
		}
		if s.Run == buildflow.AntitamperCommand {
			antitamper++
		}
	}
	require.True(t, haveCheckout)
	require.True(t, haveInstall)
	require.True(t, haveBuild)

	// Anti-tamper defaults on, but mutable build also defaults on and
	// disables it: the net effect is zero anti-tamper steps.
	require.Equal(t, 0, antitamper)
}

func TestNew_ImmutableBuildEmitsSymmetricAntitamper(t *testing.T) {
	opts := minimalOptions()
	opts.MutableBuild = boolPtr(false)
	p, err := New(context.Background(), opts)
	require.NoError(t, err)

	job := p.BuildWorkflow().Job("build")
	require.NotNil(t, job)
	antitamper := 0
	for _, s := range job.Steps {
		if s.Run == buildflow.AntitamperCommand {
			antitamper++
		}
	}
	require.Equal(t, 2, antitamper)
}

func TestNew_ReleaseOptionsWithoutReleaseWorkflow(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		option string
	}{
		{"release_to_npm", func(o *Options) { o.ReleaseToNpm = true }, "release_to_npm"},
		{"release_branches", func(o *Options) { o.ReleaseBranches = []string{"v1"} }, "release_branches"},
		{"release_every_commit", func(o *Options) { o.ReleaseEveryCommit = boolPtr(true) }, "release_every_commit"},
		{"release_schedule", func(o *Options) { o.ReleaseSchedule = []string{"0 4 * * *"} }, "release_schedule"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := minimalOptions()
			opts.BuildWorkflow = boolPtr(true)
			opts.Release = boolPtr(false)
			tc.mutate(&opts)

			_, err := New(context.Background(), opts)
			require.Error(t, err)
			var cfgErr *projerr.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			require.Equal(t, tc.option, cfgErr.Option)
			require.Contains(t, err.Error(), tc.option)
		})
	}
}

func TestNew_CodeCovWithoutTestFrameworkAddsNoCoverageStep(t *testing.T) {
	opts := minimalOptions()
	opts.BuildWorkflow = boolPtr(true)
	opts.CodeCov = true
	opts.Jest = boolPtr(false)

	// Determinism: repeated assembly with identical inputs behaves the
	// same way.
	for i := 0; i < 2; i++ {
		p, err := New(context.Background(), opts)
		require.NoError(t, err)
		job := p.BuildWorkflow().Job("build")
		require.NotNil(t, job)
		for _, s := range job.Steps {
			require.NotEqual(t, "Upload coverage to Codecov", s.Name)
		}
	}
}

func TestNew_ConflictingUpgradeMechanisms(t *testing.T) {
	opts := minimalOptions()
	opts.Dependabot = boolPtr(true)
	opts.DepsUpgrade = boolPtr(true)

	_, err := New(context.Background(), opts)
	require.Error(t, err)
	var cfgErr *projerr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestNew_DefaultUpgradeMechanismIsCustomWorkflow(t *testing.T) {
	p, err := New(context.Background(), minimalOptions())
	require.NoError(t, err)
	require.NotNil(t, p.GitHub().Workflow("upgrade-dependencies"))
}

func TestNew_GeneratorUpgradePipeline(t *testing.T) {
	p, err := New(context.Background(), minimalOptions())
	require.NoError(t, err)

	// The default mechanism ignores the generator and the project takes
	// it as a dev dependency, so the narrow self-upgrade pipeline exists.
	w := p.GitHub().Workflow("upgrade-generator")
	require.NotNil(t, w)
	triggers := w.Triggers()
	require.Contains(t, triggers, "schedule")
	crons, ok := triggers["schedule"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, crons, 1)
	require.Equal(t, "0 6 * * *", crons[0]["cron"])
}

func TestNew_GeneratorProjectSkipsSelfUpgrade(t *testing.T) {
	opts := minimalOptions()
	opts.IsGeneratorProject = true
	p, err := New(context.Background(), opts)
	require.NoError(t, err)
	require.Nil(t, p.GitHub().Workflow("upgrade-generator"))
}

func TestNew_NpmignorePatternsRequireEnabledFile(t *testing.T) {
	opts := minimalOptions()
	opts.Npmignore = []string{"docs/"}
	opts.NpmignoreEnabled = boolPtr(false)

	_, err := New(context.Background(), opts)
	require.Error(t, err)
	var cfgErr *projerr.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "npmignore", cfgErr.Option)
}

func TestNew_BuildWorkflowRequiresGithub(t *testing.T) {
	opts := minimalOptions()
	opts.GithubEnabled = boolPtr(false)
	opts.BuildWorkflow = boolPtr(true)

	_, err := New(context.Background(), opts)
	require.Error(t, err)
	var preErr *projerr.PreconditionError
	require.True(t, errors.As(err, &preErr))
}

func TestNew_UpgradeMechanismRequiresGithub(t *testing.T) {
	// An explicitly requested mechanism must fail loudly without GitHub
	// support, not silently collapse to the disabled variant.
	for _, enable := range []func(*Options){
		func(o *Options) { o.Dependabot = boolPtr(true) },
		func(o *Options) { o.DepsUpgrade = boolPtr(true) },
	} {
		opts := minimalOptions()
		opts.GithubEnabled = boolPtr(false)
		enable(&opts)

		_, err := New(context.Background(), opts)
		require.Error(t, err)
		var preErr *projerr.PreconditionError
		require.True(t, errors.As(err, &preErr))
		require.Equal(t, "github", preErr.Missing)
	}
}

func TestNew_ReleaseReusesBuildCommand(t *testing.T) {
	p, err := New(context.Background(), minimalOptions())
	require.NoError(t, err)
	require.NotNil(t, p.Release())

	releaseJob := p.Release().Workflow().Job("release")
	require.NotNil(t, releaseJob)
	buildJob := p.BuildWorkflow().Job("build")

	var releaseBuild, buildBuild string
	for _, s := range releaseJob.Steps {
		if s.Name == "Build" {
			releaseBuild = s.Run
		}
	}
	for _, s := range buildJob.Steps {
		if s.Name == "Build" {
			buildBuild = s.Run
		}
	}
	require.NotEmpty(t, releaseBuild)
	require.Equal(t, buildBuild, releaseBuild)
}

func TestNew_ReleaseToNpmAddsPublishJob(t *testing.T) {
	opts := minimalOptions()
	opts.ReleaseToNpm = true
	p, err := New(context.Background(), opts)
	require.NoError(t, err)

	w := p.Release().Workflow()
	require.NotNil(t, w.Job("release_npm"))
	require.Equal(t, []string{"release"}, w.Job("release_npm").Needs)
}

func TestSynthesize_DefaultArtifactSet(t *testing.T) {
	p, err := New(context.Background(), minimalOptions())
	require.NoError(t, err)
	set, err := p.Synthesize(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, set.Len())
	for _, a := range set.All() {
		paths = append(paths, a.Path)
	}
	require.Contains(t, paths, "package.json")
	require.Contains(t, paths, ".gitignore")
	require.Contains(t, paths, ".npmignore")
	require.Contains(t, paths, "LICENSE")
	require.Contains(t, paths, "jest.config.json")
	require.Contains(t, paths, ".projgen/tasks.json")
	require.Contains(t, paths, ".projgen.json")
	require.Contains(t, paths, ".github/workflows/build.yml")
	require.Contains(t, paths, ".github/workflows/release.yml")
	require.Contains(t, paths, ".github/workflows/upgrade-dependencies.yml")
	require.Contains(t, paths, ".github/workflows/upgrade-generator.yml")
	require.Contains(t, paths, ".mergify.yml")
	require.Contains(t, paths, ".github/pull_request_template.md")
}

func TestSynthesize_IsDeterministic(t *testing.T) {
	render := func() map[string][]byte {
		p, err := New(context.Background(), minimalOptions())
		require.NoError(t, err)
		set, err := p.Synthesize(context.Background())
		require.NoError(t, err)
		out := make(map[string][]byte)
		for _, a := range set.All() {
			out[a.Path] = a.Content
		}
		return out
	}

	first := render()
	second := render()
	require.Equal(t, len(first), len(second))
	for path, content := range first {
		require.Equal(t, string(content), string(second[path]), "artifact %s differs between runs", path)
	}
}
