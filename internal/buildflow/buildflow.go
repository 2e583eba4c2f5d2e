// Package buildflow assembles one CI job specification from typed build
// options. It owns the fixed step-category ordering of the build job and
// the anti-tamper splice points; it performs no I/O and registers nothing
// itself — the caller attaches the result to a workflow document.
package buildflow

import (
	"fmt"
	"strings"

	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/projerr"
)

// AntitamperCommand fails the job when the working tree differs from the
// committed state, ignoring a missing end-of-line at EOF.
const AntitamperCommand = "git diff --ignore-space-at-eol --exit-code"

// CheckoutOptions parameterize the checkout step.
type CheckoutOptions struct {
	// Ref is the branch or commit to check out; empty means the event's
	// default ref.
	Ref string
	// Repository overrides the checked-out repository, e.g. for fork PRs.
	Repository string
}

// Options are the typed inputs for one build job.
type Options struct {
	// JobID names the job inside the workflow document. Required; the
	// document enforces uniqueness when the job is added.
	JobID string

	// Triggers maps event categories to their filter objects. The
	// issue_comment category is refused. A workflow_dispatch trigger is
	// always added on top of whatever the caller supplies.
	Triggers map[string]any

	// ContainerImage requests execution inside an image. Empty selects the
	// default hosted runner.
	ContainerImage string

	PreCheckoutSteps []github.Step
	PreBuildSteps    []github.Step
	PostSteps        []github.Step

	Checkout CheckoutOptions

	// AntitamperDisabled suppresses both anti-tamper splice points for
	// this job even when the project-wide check is on.
	AntitamperDisabled bool

	Env         map[string]string
	Permissions map[string]string
}

// Builder carries the project-level settings the job assembly consumes.
// The orchestrator configures it once, after the test framework exists and
// before any workflow is assembled.
type Builder struct {
	// InstallCommand installs dependencies with a pinned lockfile.
	InstallCommand string
	// BuildCommand runs the project's build task.
	BuildCommand string

	// Antitamper is the net project-wide state: the option must be on and
	// mutable build off, otherwise every job assembles without the check.
	Antitamper bool

	// CodeCov and CodeCovSecret request a coverage upload step. The step
	// is only emitted when the test framework reports an active
	// configuration.
	CodeCov        bool
	CodeCovSecret  string
	CoverageActive bool
	// CoverageDirectory is the test framework's coverage output path.
	CoverageDirectory string

	// GitUserName and GitUserEmail configure the in-job git identity used
	// by steps that commit or tag.
	GitUserName  string
	GitUserEmail string
}

// Triggers returns the job's trigger map with the always-present manual
// dispatch merged in. The disallowed issue_comment category is rejected
// here so the error surfaces before any document mutation.
func (b *Builder) Triggers(opts Options) (map[string]any, error) {
	merged := map[string]any{"workflow_dispatch": map[string]any{}}
	for event, filter := range opts.Triggers {
		if disallowedTrigger(event) {
			return nil, projerr.Config("triggers", "issue_comment workflow triggers are not allowed")
		}
		merged[event] = filter
	}
	return merged, nil
}

// disallowedTrigger covers issue_comment and every issue_comment-prefixed
// variant; comment-driven workflows run with the commenter's permissions.
func disallowedTrigger(event string) bool {
	return strings.HasPrefix(event, "issue_comment")
}

// Job assembles the job descriptor. The step sequence is fixed:
// pre-checkout, checkout, install, anti-tamper, git identity, pre-build,
// build, coverage upload, post, anti-tamper. Anti-tamper appears at both
// splice points or at neither; there is no partial state.
func (b *Builder) Job(opts Options) (*github.Job, error) {
	if opts.JobID == "" {
		return nil, projerr.Config("job_id", "build job id must not be empty")
	}
	for event := range opts.Triggers {
		if disallowedTrigger(event) {
			return nil, projerr.Config("triggers", "issue_comment workflow triggers are not allowed")
		}
	}

	antitamper := b.antitamperSteps(opts)

	var steps []github.Step
	steps = append(steps, opts.PreCheckoutSteps...)
	steps = append(steps, b.checkoutStep(opts.Checkout))
	steps = append(steps, github.Step{Name: "Install dependencies", Run: b.InstallCommand})
	steps = append(steps, antitamper...)
	steps = append(steps, b.gitIdentityStep())
	steps = append(steps, opts.PreBuildSteps...)
	steps = append(steps, github.Step{Name: "Build", Run: b.BuildCommand})
	if cov, ok := b.coverageStep(); ok {
		steps = append(steps, cov)
	}
	steps = append(steps, opts.PostSteps...)
	steps = append(steps, antitamper...)

	job := &github.Job{
		Permissions: opts.Permissions,
		Env:         opts.Env,
		Steps:       steps,
	}
	if opts.ContainerImage != "" {
		job.Container = &github.Container{Image: opts.ContainerImage}
	} else {
		job.RunsOn = "ubuntu-latest"
	}
	return job, nil
}

// antitamperSteps computes the splice list: empty when the job or the
// project disables the check, a single verification step otherwise.
func (b *Builder) antitamperSteps(opts Options) []github.Step {
	if opts.AntitamperDisabled || !b.Antitamper {
		return nil
	}
	return []github.Step{{Name: "Anti-tamper check", Run: AntitamperCommand}}
}

func (b *Builder) checkoutStep(opts CheckoutOptions) github.Step {
	step := github.Step{Name: "Checkout", Uses: "actions/checkout@v3"}
	with := make(map[string]any)
	if opts.Ref != "" {
		with["ref"] = opts.Ref
	}
	if opts.Repository != "" {
		with["repository"] = opts.Repository
	}
	if len(with) > 0 {
		step.With = with
	}
	return step
}

func (b *Builder) gitIdentityStep() github.Step {
	name := b.GitUserName
	if name == "" {
		name = "github-actions"
	}
	email := b.GitUserEmail
	if email == "" {
		email = "github-actions@github.com"
	}
	return github.Step{
		Name: "Set git identity",
		Run:  fmt.Sprintf("git config user.name %q && git config user.email %q", name, email),
	}
}

// coverageStep reports the optional upload step. Requested coverage
// without an active test-framework configuration yields no step at all,
// deterministically.
func (b *Builder) coverageStep() (github.Step, bool) {
	if !b.CodeCov && b.CodeCovSecret == "" {
		return github.Step{}, false
	}
	if !b.CoverageActive {
		return github.Step{}, false
	}
	with := map[string]any{"directory": b.CoverageDirectory}
	if b.CodeCovSecret != "" {
		with["token"] = fmt.Sprintf("${{ secrets.%s }}", b.CodeCovSecret)
	}
	return github.Step{
		Name: "Upload coverage to Codecov",
		Uses: "codecov/codecov-action@v3",
		With: with,
	}, true
}
