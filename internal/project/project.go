// Package project is the assembly orchestrator. It turns one validated
// Options value into a wired set of collaborators (package manifest, task
// registry, ignore files, license, test framework, workflows, upgrade
// mechanism) in a single synchronous pass, then renders them into an
// artifact set.
//
// Ordering constraints honored during assembly:
//
//  1. The package manifest handler exists before any script registration.
//  2. The test framework is configured before the build workflow is
//     assembled, because the job builder inspects its coverage directory.
//  3. The release workflow reuses the already-created build task as its
//     build step instead of duplicating build logic.
//  4. The auto-merge policy is only created when the CI-integration
//     collaborator is present.
package project

import (
	"context"
	"strings"

	"github.com/vk/projgen/internal/automerge"
	"github.com/vk/projgen/internal/buildflow"
	"github.com/vk/projgen/internal/ctxlog"
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/ignorefile"
	"github.com/vk/projgen/internal/jest"
	"github.com/vk/projgen/internal/nodepkg"
	"github.com/vk/projgen/internal/release"
	"github.com/vk/projgen/internal/tasks"
	"github.com/vk/projgen/internal/upgrades"
)

// Project is one fully assembled project model, ready to synthesize.
type Project struct {
	settings *settings

	taskReg   *tasks.Registry
	pkg       *nodepkg.Package
	gh        *github.GitHub
	testFwk   *jest.Jest
	gitignore *ignorefile.File
	npmignore *ignorefile.File
	builder   *buildflow.Builder
	release   *release.Release
	buildTask *tasks.Task
}

// New validates opts as a whole, applies every default, and assembles all
// collaborators. Any error leaves no observable side effect: the returned
// project is nil and nothing has been written anywhere.
func New(ctx context.Context, opts Options) (*Project, error) {
	logger := ctxlog.FromContext(ctx)

	if err := validate(opts); err != nil {
		return nil, err
	}
	s := resolve(opts)
	logger.Debug("project options validated and resolved.", "name", s.name)

	pkg, err := nodepkg.New(s.name, s.packageManager, s.taskInvocation)
	if err != nil {
		return nil, err
	}
	pkg.MinNodeVersion = s.minNodeVersion
	if s.licensed {
		pkg.License = s.license
	}

	p := &Project{
		settings: s,
		taskReg:  tasks.NewRegistry(),
		pkg:      pkg,
	}

	if err := p.configurePackage(); err != nil {
		return nil, err
	}
	if err := p.configureIgnoreFiles(); err != nil {
		return nil, err
	}
	if s.githubEnabled {
		p.gh = github.New()
	}
	if err := p.configureTestFramework(); err != nil {
		return nil, err
	}
	if err := p.configureBuild(); err != nil {
		return nil, err
	}
	if err := p.configureRelease(); err != nil {
		return nil, err
	}
	if err := s.upgradeMechanism.Bind(p); err != nil {
		return nil, err
	}
	if err := p.configureAutoMerge(); err != nil {
		return nil, err
	}
	p.configurePullRequestTemplate()

	logger.Info("project assembled.",
		"name", s.name,
		"package_manager", string(s.packageManager),
		"build_workflow", s.buildWorkflow,
		"release", s.release,
	)
	return p, nil
}

// configurePackage registers dependencies and user scripts on the
// manifest. This runs before anything else touches the script table.
func (p *Project) configurePackage() error {
	for _, spec := range p.settings.deps {
		name, version := splitDependency(spec)
		p.pkg.AddDependency(name, version, nodepkg.DependencyRuntime)
	}
	for _, spec := range p.settings.devDeps {
		name, version := splitDependency(spec)
		p.pkg.AddDependency(name, version, nodepkg.DependencyDev)
	}
	for _, spec := range p.settings.peerDeps {
		name, version := splitDependency(spec)
		p.pkg.AddDependency(name, version, nodepkg.DependencyPeer)
	}
	if p.settings.generatorDevDependency && !p.settings.isGeneratorProject {
		p.pkg.AddDependency(GeneratorPackageName, p.settings.generatorVersion, nodepkg.DependencyDev)
	}
	for name, command := range p.settings.scripts {
		p.pkg.SetScript(name, command)
	}
	return nil
}

func (p *Project) configureIgnoreFiles() error {
	p.gitignore = ignorefile.New(".gitignore")
	if err := p.gitignore.Exclude("node_modules/", "dist/", "*.log"); err != nil {
		return err
	}
	if err := p.gitignore.Exclude(p.settings.gitignore...); err != nil {
		return err
	}

	if !p.settings.npmignoreEnabled {
		return nil
	}
	p.npmignore = ignorefile.New(".npmignore")
	if err := p.npmignore.Exclude("src/", ".github/", ".projgen/", "*.test.js"); err != nil {
		return err
	}
	return p.npmignore.Exclude(p.settings.npmignore...)
}

// configureTestFramework runs before the build workflow assembly; the job
// builder reads the coverage directory from here.
func (p *Project) configureTestFramework() error {
	if !p.settings.jestEnabled {
		return nil
	}
	p.testFwk = jest.New(p.settings.jestOptions)
	p.pkg.AddDependency("jest", "", nodepkg.DependencyDev)
	p.pkg.SetScript("test", p.testFwk.TestCommand())

	task, err := p.taskReg.Add("test", "Run tests")
	if err != nil {
		return err
	}
	task.Exec(p.testFwk.TestCommand())
	if err := p.gitignore.Exclude(p.testFwk.CoverageDirectory() + "/"); err != nil {
		return err
	}
	return nil
}

// configureBuild creates the build task and, when enabled, the build
// workflow document.
func (p *Project) configureBuild() error {
	s := p.settings

	buildTask, err := p.taskReg.Add("build", "Full build: re-synthesize and test")
	if err != nil {
		return err
	}
	buildTask.Exec("npx projgen synth")
	if testTask := p.taskReg.Find("test"); testTask != nil {
		buildTask.Spawn(testTask)
	}
	p.buildTask = buildTask
	p.pkg.SetScript("build", "npx projgen build")

	p.builder = &buildflow.Builder{
		InstallCommand: p.pkg.InstallCommand(true),
		BuildCommand:   p.pkg.RunCommand("build"),
		Antitamper:     s.antitamper && !s.mutableBuild,
		CodeCov:        s.codeCov,
		CodeCovSecret:  s.codeCovTokenSecret,
		CoverageActive: p.testFwk.Active(),
		GitUserName:    s.gitIdentityName,
		GitUserEmail:   s.gitIdentityEmail,
	}
	if p.testFwk.Active() {
		p.builder.CoverageDirectory = p.testFwk.CoverageDirectory()
	}

	if !s.buildWorkflow {
		return nil
	}

	permissions := map[string]string{"contents": "read"}
	buildOpts := buildflow.Options{
		JobID:            "build",
		Triggers:         s.buildTriggers,
		ContainerImage:   s.workflowContainerImage,
		PreCheckoutSteps: s.workflowBootstrapSteps,
		Env:              map[string]string{"CI": "true"},
		Permissions:      permissions,
	}
	if s.mutableBuild {
		// Mutable build pushes synthesized changes back instead of
		// failing on drift, which needs write access and a self-mutation
		// step after the build.
		permissions["contents"] = "write"
		buildOpts.PostSteps = append(buildOpts.PostSteps, github.Step{
			Name: "Self mutation",
			Run: "git add . && git diff --staged --quiet || " +
				`(git commit -m "chore: self mutation" && git push)`,
		})
	}

	w, err := p.gh.AddWorkflow("build")
	if err != nil {
		return err
	}
	triggers, err := p.builder.Triggers(buildOpts)
	if err != nil {
		return err
	}
	if err := w.On(triggers); err != nil {
		return err
	}
	job, err := p.builder.Job(buildOpts)
	if err != nil {
		return err
	}
	return w.AddJob("build", job)
}

func (p *Project) configureRelease() error {
	s := p.settings
	if !s.release {
		return nil
	}
	rel, err := release.Configure(p.gh, p.builder, release.Options{
		Branch:      s.defaultReleaseBranch,
		Branches:    s.releaseBranches,
		EveryCommit: s.releaseEveryCommit,
		Schedule:    s.releaseSchedule,
		NpmPublish:  s.releaseToNpm,
	})
	if err != nil {
		return err
	}
	p.release = rel
	return nil
}

func (p *Project) configureAutoMerge() error {
	if !p.settings.autoMerge || p.gh == nil {
		return nil
	}
	buildJob := ""
	if p.settings.buildWorkflow {
		buildJob = "build"
	}
	return automerge.Configure(p.gh, automerge.Options{BuildJobName: buildJob})
}

func (p *Project) configurePullRequestTemplate() {
	if !p.settings.pullRequestTemplate || p.gh == nil {
		return
	}
	contents := p.settings.prTemplateContents
	if len(contents) == 0 {
		contents = []string{"Fixes #"}
	}
	p.gh.SetPullRequestTemplate(contents)
}

// GitHub implements upgrades.Host. Nil when GitHub support is disabled.
func (p *Project) GitHub() *github.GitHub { return p.gh }

// Package implements upgrades.Host.
func (p *Project) Package() *nodepkg.Package { return p.pkg }

// Tasks implements upgrades.Host.
func (p *Project) Tasks() *tasks.Registry { return p.taskReg }

// GeneratorPackageName implements upgrades.Host.
func (p *Project) GeneratorPackageName() string { return GeneratorPackageName }

// IsGeneratorProject implements upgrades.Host.
func (p *Project) IsGeneratorProject() bool { return p.settings.isGeneratorProject }

// GeneratorUpgrade implements upgrades.Host.
func (p *Project) GeneratorUpgrade() upgrades.GeneratorUpgradeOptions {
	return upgrades.GeneratorUpgradeOptions{
		Schedule:    p.settings.generatorUpgradeSchedule,
		Secret:      p.settings.generatorUpgradeSecret,
		AutoApprove: p.settings.autoApproveUpgrades,
	}
}

// TestFramework exposes the jest collaborator, primarily for tests.
func (p *Project) TestFramework() *jest.Jest { return p.testFwk }

// BuildWorkflow returns the build workflow document, or nil.
func (p *Project) BuildWorkflow() *github.Workflow {
	if p.gh == nil {
		return nil
	}
	return p.gh.Workflow("build")
}

// Release returns the assembled release pipeline, or nil.
func (p *Project) Release() *release.Release { return p.release }

// splitDependency splits "name@version" notation, tolerating scoped
// packages ("@scope/name@1.2.3").
func splitDependency(spec string) (name, version string) {
	if i := strings.LastIndex(spec, "@"); i > 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}
