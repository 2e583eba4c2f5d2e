// Package upgrades encapsulates the dependency-upgrade strategy as a
// tagged union with a single Bind dispatch. Exactly one variant exists per
// project, chosen at configuration time, and binding consumes the
// mechanism so a second bind is an error rather than undefined behavior.
package upgrades

import (
	"fmt"

	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/nodepkg"
	"github.com/vk/projgen/internal/projerr"
	"github.com/vk/projgen/internal/tasks"
)

// DefaultGeneratorUpgradeSchedule runs the self-upgrade pipeline once
// daily at 06:00.
const DefaultGeneratorUpgradeSchedule = "0 6 * * *"

// Host is the narrow project surface a mechanism registers itself on.
type Host interface {
	GitHub() *github.GitHub
	Package() *nodepkg.Package
	Tasks() *tasks.Registry

	// GeneratorPackageName is the generator's own distribution name.
	GeneratorPackageName() string
	// IsGeneratorProject reports whether this project IS the generator.
	IsGeneratorProject() bool
	// GeneratorUpgrade configures the secondary self-upgrade pipeline.
	GeneratorUpgrade() GeneratorUpgradeOptions
}

// GeneratorUpgradeOptions configure the narrowly-scoped pipeline that
// upgrades only the generator dependency.
type GeneratorUpgradeOptions struct {
	// Schedule is a set of cron expressions; empty selects the default
	// daily 06:00 run.
	Schedule []string
	// Secret names a stored credential used to open the upgrade PR with
	// elevated write permissions. Empty uses the default workflow token.
	Secret string
	// AutoApprove labels the upgrade PR for automatic merging.
	AutoApprove bool
}

// DependabotOptions configure the bot-driven variant.
type DependabotOptions struct {
	// ScheduleInterval is daily, weekly or monthly; empty selects daily.
	ScheduleInterval string
	// Labels are applied to every bot pull request.
	Labels []string
	// IncludeGenerator widens the bot's scope to the generator dependency
	// itself. Off by default: letting the bot bump the generator requires
	// elevated write permissions.
	IncludeGenerator bool
}

// WorkflowOptions configure the custom-pipeline variant.
type WorkflowOptions struct {
	// Schedule is a set of cron expressions for the upgrade runs; empty
	// selects a daily run.
	Schedule []string
	// Secret names the credential the pipeline uses to open its PR.
	Secret string
	// AutoApprove labels the upgrade PR for automatic merging.
	AutoApprove bool
	// IncludeGenerator widens the pipeline's scope to the generator
	// dependency itself.
	IncludeGenerator bool
}

type kind int

const (
	kindDisabled kind = iota
	kindDependabot
	kindWorkflow
)

// Mechanism is the tagged choice of exactly one upgrade strategy.
type Mechanism struct {
	kind       kind
	dependabot DependabotOptions
	workflow   WorkflowOptions

	// ignoresGenerator mirrors the chosen variant's IncludeGenerator,
	// inverted. It defaults true for every variant.
	ignoresGenerator bool

	bound bool
}

// Disabled selects no upgrade automation at all.
func Disabled() *Mechanism {
	return &Mechanism{kind: kindDisabled, ignoresGenerator: true}
}

// Dependabot selects the bot-driven strategy.
func Dependabot(opts DependabotOptions) *Mechanism {
	return &Mechanism{
		kind:             kindDependabot,
		dependabot:       opts,
		ignoresGenerator: !opts.IncludeGenerator,
	}
}

// UpgradeWorkflow selects the custom-pipeline strategy.
func UpgradeWorkflow(opts WorkflowOptions) *Mechanism {
	return &Mechanism{
		kind:             kindWorkflow,
		workflow:         opts,
		ignoresGenerator: !opts.IncludeGenerator,
	}
}

// IgnoresGenerator reports whether the generator dependency is excluded
// from this mechanism's scope.
func (m *Mechanism) IgnoresGenerator() bool {
	return m.ignoresGenerator
}

// Bind registers the chosen strategy's effect on the project. It consumes
// the mechanism: a second call fails instead of re-registering state.
func (m *Mechanism) Bind(host Host) error {
	if m.bound {
		return projerr.Config("deps_upgrade", "upgrade mechanism already bound")
	}
	m.bound = true

	switch m.kind {
	case kindDependabot:
		if err := m.bindDependabot(host); err != nil {
			return err
		}
	case kindWorkflow:
		if err := m.bindWorkflow(host); err != nil {
			return err
		}
	}

	// Cross-cutting rule: a mechanism that excludes the generator from its
	// scope leaves the generator dependency to a dedicated narrow pipeline.
	if m.ignoresGenerator && !host.IsGeneratorProject() &&
		host.Package().HasDependency(host.GeneratorPackageName()) {
		return m.bindGeneratorUpgrade(host)
	}
	return nil
}

func (m *Mechanism) bindDependabot(host Host) error {
	gh := host.GitHub()
	if gh == nil {
		return projerr.Precondition("github", "dependabot upgrades require GitHub support")
	}
	d := &github.Dependabot{
		ScheduleInterval: m.dependabot.ScheduleInterval,
		Labels:           m.dependabot.Labels,
	}
	if m.ignoresGenerator {
		d.Ignored = append(d.Ignored, host.GeneratorPackageName())
	}
	return gh.EnableDependabot(d)
}

func (m *Mechanism) bindWorkflow(host Host) error {
	gh := host.GitHub()
	if gh == nil {
		return projerr.Precondition("github", "upgrade workflows require GitHub support")
	}

	task, err := host.Tasks().Add("upgrade", "Upgrade third-party dependencies")
	if err != nil {
		return err
	}
	upgradeCmd := "npx npm-check-updates --upgrade --target=minor"
	if m.ignoresGenerator {
		upgradeCmd = fmt.Sprintf("%s --reject %s", upgradeCmd, host.GeneratorPackageName())
	}
	task.Exec(upgradeCmd)
	task.Exec(host.Package().InstallCommand(false))

	schedule := m.workflow.Schedule
	if len(schedule) == 0 {
		schedule = []string{"0 0 * * *"}
	}
	return addUpgradePipeline(gh, pipelineSpec{
		workflowName: "upgrade-dependencies",
		jobName:      "Upgrade dependencies",
		command:      host.Package().RunCommand("upgrade"),
		install:      host.Package().InstallCommand(false),
		schedule:     schedule,
		secret:       m.workflow.Secret,
		autoApprove:  m.workflow.AutoApprove,
		prTitle:      "chore(deps): upgrade dependencies",
		prBranch:     "projgen/upgrade-dependencies",
	})
}

// bindGeneratorUpgrade provisions the secondary, narrowly-scoped pipeline
// that upgrades only the generator dependency.
func (m *Mechanism) bindGeneratorUpgrade(host Host) error {
	gh := host.GitHub()
	if gh == nil {
		return nil
	}
	opts := host.GeneratorUpgrade()
	schedule := opts.Schedule
	if len(schedule) == 0 {
		schedule = []string{DefaultGeneratorUpgradeSchedule}
	}
	command := fmt.Sprintf("npx npm-check-updates --upgrade --filter %s", host.GeneratorPackageName())
	return addUpgradePipeline(gh, pipelineSpec{
		workflowName: "upgrade-generator",
		jobName:      "Upgrade " + host.GeneratorPackageName(),
		command:      command,
		install:      host.Package().InstallCommand(false),
		schedule:     schedule,
		secret:       opts.Secret,
		autoApprove:  opts.AutoApprove,
		prTitle:      fmt.Sprintf("chore(deps): upgrade %s", host.GeneratorPackageName()),
		prBranch:     "projgen/upgrade-generator",
	})
}

type pipelineSpec struct {
	workflowName string
	jobName      string
	command      string
	install      string
	schedule     []string
	secret       string
	autoApprove  bool
	prTitle      string
	prBranch     string
}

func addUpgradePipeline(gh *github.GitHub, spec pipelineSpec) error {
	w, err := gh.AddWorkflow(spec.workflowName)
	if err != nil {
		return err
	}

	crons := make([]map[string]string, 0, len(spec.schedule))
	for _, expr := range spec.schedule {
		crons = append(crons, map[string]string{"cron": expr})
	}
	if err := w.On(map[string]any{
		"workflow_dispatch": map[string]any{},
		"schedule":          crons,
	}); err != nil {
		return err
	}

	token := "${{ secrets.GITHUB_TOKEN }}"
	if spec.secret != "" {
		token = fmt.Sprintf("${{ secrets.%s }}", spec.secret)
	}
	prWith := map[string]any{
		"token":          token,
		"branch":         spec.prBranch,
		"title":          spec.prTitle,
		"commit-message": spec.prTitle,
	}
	if spec.autoApprove {
		prWith["labels"] = "auto-approve"
	}

	job := &github.Job{
		RunsOn: "ubuntu-latest",
		Permissions: map[string]string{
			"contents":      "write",
			"pull-requests": "write",
		},
		Steps: []github.Step{
			{Name: "Checkout", Uses: "actions/checkout@v3"},
			{Name: "Install dependencies", Run: spec.install},
			{Name: "Upgrade", Run: spec.command},
			{Name: "Create pull request", Uses: "peter-evans/create-pull-request@v4", With: prWith},
		},
	}
	return w.AddJob("upgrade", job)
}
