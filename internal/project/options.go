package project

import (
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/jest"
	"github.com/vk/projgen/internal/nodepkg"
	"github.com/vk/projgen/internal/upgrades"
)

// GeneratorPackageName is the distribution name of the generator itself,
// used when the generated project takes it as a dev dependency and by the
// upgrade mechanisms that exclude it from their scope.
const GeneratorPackageName = "projgen"

// Options is the full declarative surface of one project. Optional flags
// use pointers so assembly can distinguish "left to its default" from
// "explicitly set"; cross-validation depends on that distinction.
type Options struct {
	// Name is the package name. Required.
	Name string

	// DefaultReleaseBranch is required. It historically defaulted to a
	// fixed branch name; the default is being phased out in favor of a
	// caller-supplied value, so absence is now a hard error.
	DefaultReleaseBranch string

	PackageManager nodepkg.PackageManager
	TaskInvocation nodepkg.TaskInvocation
	MinNodeVersion string

	// Deps, DevDeps and PeerDeps use "name" or "name@version" notation.
	Deps     []string
	DevDeps  []string
	PeerDeps []string
	Scripts  map[string]string

	Licensed        *bool  // default true
	License         string // default "Apache-2.0"
	CopyrightOwner  string
	CopyrightPeriod string

	Jest        *bool // default true
	JestOptions jest.Options

	// GithubEnabled gates the CI-integration collaborator. Default true.
	GithubEnabled *bool

	BuildWorkflow          *bool // default: follows GithubEnabled
	MutableBuild           *bool // default true
	Antitamper             *bool // default true
	CodeCov                bool
	CodeCovTokenSecret     string
	WorkflowContainerImage string
	WorkflowBootstrapSteps []github.Step
	BuildTriggers          map[string]any
	GitIdentityName        string
	GitIdentityEmail       string

	Release            *bool // default: follows GithubEnabled
	ReleaseToNpm       bool
	ReleaseBranches    []string
	ReleaseEveryCommit *bool // default true when release is enabled
	ReleaseSchedule    []string

	// Dependabot and DepsUpgrade select the upgrade mechanism. Explicitly
	// enabling both is a configuration error; neither selects the custom
	// upgrade workflow.
	Dependabot         *bool
	DependabotOptions  upgrades.DependabotOptions
	DepsUpgrade        *bool
	DepsUpgradeOptions upgrades.WorkflowOptions

	GeneratorUpgradeSchedule []string
	GeneratorUpgradeSecret   string
	AutoApproveUpgrades      bool

	AutoMerge                   *bool // default: follows GithubEnabled
	PullRequestTemplate         *bool // default: follows GithubEnabled
	PullRequestTemplateContents []string

	// Gitignore and Npmignore add patterns on top of the generated
	// defaults. NpmignoreEnabled defaults true; adding patterns with the
	// file disabled is a configuration error.
	Gitignore        []string
	Npmignore        []string
	NpmignoreEnabled *bool

	// GeneratorConfig gates emission of the .projgen.json snapshot.
	GeneratorConfig *bool // default true
	// GeneratorDevDependency adds the generator to devDependencies.
	GeneratorDevDependency *bool // default true
	GeneratorVersion       string
	IsGeneratorProject     bool
}

// boolOr resolves a tri-state flag against its default.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// settings is the fully-defaulted, validated form of Options. Every field
// is concrete; assembly reads only from here.
type settings struct {
	name                 string
	defaultReleaseBranch string

	packageManager nodepkg.PackageManager
	taskInvocation nodepkg.TaskInvocation
	minNodeVersion string

	deps     []string
	devDeps  []string
	peerDeps []string
	scripts  map[string]string

	licensed        bool
	license         string
	copyrightOwner  string
	copyrightPeriod string

	jestEnabled bool
	jestOptions jest.Options

	githubEnabled bool

	buildWorkflow          bool
	mutableBuild           bool
	antitamper             bool
	codeCov                bool
	codeCovTokenSecret     string
	workflowContainerImage string
	workflowBootstrapSteps []github.Step
	buildTriggers          map[string]any
	gitIdentityName        string
	gitIdentityEmail       string

	release            bool
	releaseToNpm       bool
	releaseBranches    []string
	releaseEveryCommit bool
	releaseSchedule    []string

	upgradeMechanism *upgrades.Mechanism

	generatorUpgradeSchedule []string
	generatorUpgradeSecret   string
	autoApproveUpgrades      bool

	autoMerge           bool
	pullRequestTemplate bool
	prTemplateContents  []string

	gitignore        []string
	npmignore        []string
	npmignoreEnabled bool

	generatorConfig        bool
	generatorDevDependency bool
	generatorVersion       string
	isGeneratorProject     bool
}

// resolve applies every default. It assumes opts already validated.
func resolve(opts Options) *settings {
	githubEnabled := boolOr(opts.GithubEnabled, true)

	pm := opts.PackageManager
	if pm == "" {
		pm = nodepkg.PackageManagerYarn
	}
	invocation := opts.TaskInvocation
	if invocation == "" {
		invocation = nodepkg.InvokeScripts
	}
	spdx := opts.License
	if spdx == "" {
		spdx = "Apache-2.0"
	}
	version := opts.GeneratorVersion
	if version == "" {
		version = "*"
	}

	s := &settings{
		name:                 opts.Name,
		defaultReleaseBranch: opts.DefaultReleaseBranch,

		packageManager: pm,
		taskInvocation: invocation,
		minNodeVersion: opts.MinNodeVersion,

		deps:     opts.Deps,
		devDeps:  opts.DevDeps,
		peerDeps: opts.PeerDeps,
		scripts:  opts.Scripts,

		licensed:        boolOr(opts.Licensed, true),
		license:         spdx,
		copyrightOwner:  opts.CopyrightOwner,
		copyrightPeriod: opts.CopyrightPeriod,

		jestEnabled: boolOr(opts.Jest, true),
		jestOptions: opts.JestOptions,

		githubEnabled: githubEnabled,

		buildWorkflow:          boolOr(opts.BuildWorkflow, githubEnabled),
		mutableBuild:           boolOr(opts.MutableBuild, true),
		antitamper:             boolOr(opts.Antitamper, true),
		codeCov:                opts.CodeCov,
		codeCovTokenSecret:     opts.CodeCovTokenSecret,
		workflowContainerImage: opts.WorkflowContainerImage,
		workflowBootstrapSteps: opts.WorkflowBootstrapSteps,
		buildTriggers:          opts.BuildTriggers,
		gitIdentityName:        opts.GitIdentityName,
		gitIdentityEmail:       opts.GitIdentityEmail,

		release:            boolOr(opts.Release, githubEnabled),
		releaseToNpm:       opts.ReleaseToNpm,
		releaseBranches:    opts.ReleaseBranches,
		releaseEveryCommit: boolOr(opts.ReleaseEveryCommit, true),
		releaseSchedule:    opts.ReleaseSchedule,

		generatorUpgradeSchedule: opts.GeneratorUpgradeSchedule,
		generatorUpgradeSecret:   opts.GeneratorUpgradeSecret,
		autoApproveUpgrades:      opts.AutoApproveUpgrades,

		autoMerge:           boolOr(opts.AutoMerge, githubEnabled),
		pullRequestTemplate: boolOr(opts.PullRequestTemplate, githubEnabled),
		prTemplateContents:  opts.PullRequestTemplateContents,

		gitignore:        opts.Gitignore,
		npmignore:        opts.Npmignore,
		npmignoreEnabled: boolOr(opts.NpmignoreEnabled, true),

		generatorConfig:        boolOr(opts.GeneratorConfig, true),
		generatorDevDependency: boolOr(opts.GeneratorDevDependency, true),
		generatorVersion:       version,
		isGeneratorProject:     opts.IsGeneratorProject,
	}

	s.upgradeMechanism = chooseUpgradeMechanism(opts, s)
	return s
}

// chooseUpgradeMechanism maps the two upgrade flags onto the tagged union.
// Neither flag set selects the custom workflow; both explicitly off
// selects the disabled variant. Both explicitly on, or either explicitly
// on without GitHub support, is rejected earlier by validation, so the
// no-GitHub branch here only covers defaulted flags.
func chooseUpgradeMechanism(opts Options, s *settings) *upgrades.Mechanism {
	dependabot := opts.Dependabot != nil && *opts.Dependabot
	depsUpgrade := opts.DepsUpgrade != nil && *opts.DepsUpgrade
	explicitlyOff := opts.Dependabot != nil && !*opts.Dependabot &&
		opts.DepsUpgrade != nil && !*opts.DepsUpgrade

	switch {
	case explicitlyOff, !s.githubEnabled:
		return upgrades.Disabled()
	case dependabot:
		do := opts.DependabotOptions
		if s.autoApproveUpgrades && len(do.Labels) == 0 {
			do.Labels = []string{"auto-approve"}
		}
		return upgrades.Dependabot(do)
	case depsUpgrade:
		wo := opts.DepsUpgradeOptions
		wo.AutoApprove = wo.AutoApprove || s.autoApproveUpgrades
		return upgrades.UpgradeWorkflow(wo)
	default:
		return upgrades.UpgradeWorkflow(upgrades.WorkflowOptions{
			AutoApprove: s.autoApproveUpgrades,
		})
	}
}
