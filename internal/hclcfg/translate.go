package hclcfg

import (
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/jest"
	"github.com/vk/projgen/internal/nodepkg"
	"github.com/vk/projgen/internal/project"
	"github.com/vk/projgen/internal/schema"
	"github.com/vk/projgen/internal/upgrades"
)

// translate converts the decoded HCL block into the options model. All
// defaulting and cross-validation stays with the project package; this is
// a pure shape conversion.
func translate(b *schema.Project) project.Options {
	opts := project.Options{
		Name:                 b.Name,
		DefaultReleaseBranch: b.DefaultReleaseBranch,

		PackageManager: nodepkg.PackageManager(b.PackageManager),
		TaskInvocation: nodepkg.TaskInvocation(b.TaskInvocation),
		MinNodeVersion: b.MinNodeVersion,

		Deps:     b.Deps,
		DevDeps:  b.DevDeps,
		PeerDeps: b.PeerDeps,
		Scripts:  b.Scripts,

		Licensed:        b.Licensed,
		License:         b.License,
		CopyrightOwner:  b.CopyrightOwner,
		CopyrightPeriod: b.CopyrightPeriod,

		Jest: b.Jest,
		JestOptions: jest.Options{
			CoverageDirectory: b.JestCoverageDirectory,
			Jsx:               b.JestJsx,
		},

		GithubEnabled: b.Github,

		BuildWorkflow:          b.BuildWorkflow,
		MutableBuild:           b.MutableBuild,
		Antitamper:             b.Antitamper,
		CodeCov:                b.CodeCov,
		CodeCovTokenSecret:     b.CodeCovTokenSecret,
		WorkflowContainerImage: b.WorkflowContainerImage,
		GitIdentityName:        b.GitIdentityName,
		GitIdentityEmail:       b.GitIdentityEmail,

		Release:            b.Release,
		ReleaseToNpm:       b.ReleaseToNpm,
		ReleaseBranches:    b.ReleaseBranches,
		ReleaseEveryCommit: b.ReleaseEveryCommit,
		ReleaseSchedule:    b.ReleaseSchedule,

		Dependabot: b.Dependabot,
		DependabotOptions: upgrades.DependabotOptions{
			ScheduleInterval: b.DependabotInterval,
		},
		DepsUpgrade: b.DepsUpgrade,
		DepsUpgradeOptions: upgrades.WorkflowOptions{
			Schedule: b.UpgradeSchedule,
			Secret:   b.UpgradeSecret,
		},
		GeneratorUpgradeSchedule: b.GeneratorUpgradeSchedule,
		GeneratorUpgradeSecret:   b.GeneratorUpgradeSecret,
		AutoApproveUpgrades:      b.AutoApproveUpgrades,

		AutoMerge:                   b.AutoMerge,
		PullRequestTemplate:         b.PullRequestTemplate,
		PullRequestTemplateContents: b.PullRequestTemplateContents,

		Gitignore:        b.Gitignore,
		Npmignore:        b.Npmignore,
		NpmignoreEnabled: b.NpmignoreEnabled,

		GeneratorConfig:        b.GeneratorConfig,
		GeneratorDevDependency: b.GeneratorDevDependency,
		GeneratorVersion:       b.GeneratorVersion,
		IsGeneratorProject:     b.IsGeneratorProject,
	}

	for _, s := range b.BootstrapSteps {
		opts.WorkflowBootstrapSteps = append(opts.WorkflowBootstrapSteps, translateStep(s))
	}
	if len(b.BuildTriggers) > 0 {
		opts.BuildTriggers = make(map[string]any, len(b.BuildTriggers))
		for _, t := range b.BuildTriggers {
			filter := map[string]any{}
			if len(t.Branches) > 0 {
				filter["branches"] = t.Branches
			}
			opts.BuildTriggers[t.Event] = filter
		}
	}
	return opts
}

func translateStep(s *schema.StepBlock) github.Step {
	step := github.Step{
		Name: s.Name,
		Run:  s.Run,
		Uses: s.Uses,
		Env:  s.Env,
	}
	if len(s.With) > 0 {
		step.With = make(map[string]any, len(s.With))
		for k, v := range s.With {
			step.With[k] = v
		}
	}
	return step
}
