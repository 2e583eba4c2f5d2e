package upgrades

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/artifact"
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/nodepkg"
	"github.com/vk/projgen/internal/tasks"
)

// fakeHost is a minimal project stand-in for mechanism tests.
type fakeHost struct {
	gh          *github.GitHub
	pkg         *nodepkg.Package
	tasks       *tasks.Registry
	isGenerator bool
	genUpgrade  GeneratorUpgradeOptions
}

func newFakeHost(t *testing.T, withGenerator bool) *fakeHost {
	t.Helper()
	pkg, err := nodepkg.New("demo", nodepkg.PackageManagerYarn, nodepkg.InvokeScripts)
	require.NoError(t, err)
	if withGenerator {
		pkg.AddDependency("projgen", "*", nodepkg.DependencyDev)
	}
	return &fakeHost{
		gh:    github.New(),
		pkg:   pkg,
		tasks: tasks.NewRegistry(),
	}
}

func (h *fakeHost) GitHub() *github.GitHub                    { return h.gh }
func (h *fakeHost) Package() *nodepkg.Package                 { return h.pkg }
func (h *fakeHost) Tasks() *tasks.Registry                    { return h.tasks }
func (h *fakeHost) GeneratorPackageName() string              { return "projgen" }
func (h *fakeHost) IsGeneratorProject() bool                  { return h.isGenerator }
func (h *fakeHost) GeneratorUpgrade() GeneratorUpgradeOptions { return h.genUpgrade }

func TestBind_ConsumesMechanism(t *testing.T) {
	host := newFakeHost(t, false)
	m := Disabled()
	require.NoError(t, m.Bind(host))
	require.Error(t, m.Bind(host), "second bind must fail")
}

func TestBind_DisabledRegistersNothing(t *testing.T) {
	host := newFakeHost(t, false)
	require.NoError(t, Disabled().Bind(host))
	require.Nil(t, host.gh.Workflow("upgrade-dependencies"))
	require.Len(t, host.tasks.All(), 0)
}

func TestBind_WorkflowVariantProvisionsPipeline(t *testing.T) {
	host := newFakeHost(t, false)
	m := UpgradeWorkflow(WorkflowOptions{Secret: "UPGRADE_TOKEN"})
	require.NoError(t, m.Bind(host))

	w := host.gh.Workflow("upgrade-dependencies")
	require.NotNil(t, w)
	job := w.Job("upgrade")
	require.NotNil(t, job)

	var pr github.Step
	for _, s := range job.Steps {
		if s.Uses == "peter-evans/create-pull-request@v4" {
			pr = s
		}
	}
	require.Equal(t, "${{ secrets.UPGRADE_TOKEN }}", pr.With["token"])

	// The generator is excluded from scope by default.
	task := host.tasks.Find("upgrade")
	require.NotNil(t, task)
	require.Contains(t, task.Steps()[0].Exec, "--reject projgen")
}

func TestBind_WorkflowVariantCanIncludeGenerator(t *testing.T) {
	host := newFakeHost(t, false)
	m := UpgradeWorkflow(WorkflowOptions{IncludeGenerator: true})
	require.False(t, m.IgnoresGenerator())
	require.NoError(t, m.Bind(host))

	task := host.tasks.Find("upgrade")
	require.NotNil(t, task)
	require.NotContains(t, task.Steps()[0].Exec, "--reject")
}

func TestBind_DependabotVariant(t *testing.T) {
	host := newFakeHost(t, false)
	m := Dependabot(DependabotOptions{ScheduleInterval: "weekly", Labels: []string{"deps"}})
	require.NoError(t, m.Bind(host))

	set := synthesize(t, host.gh)
	content, ok := set[".github/dependabot.yml"]
	require.True(t, ok)
	require.Contains(t, content, "interval: weekly")
	require.Contains(t, content, "dependency-name: projgen")
	require.Contains(t, content, "- deps")
}

func TestBind_SecondaryGeneratorPipeline(t *testing.T) {
	host := newFakeHost(t, true)
	host.genUpgrade = GeneratorUpgradeOptions{Secret: "PROJGEN_TOKEN", AutoApprove: true}

	require.NoError(t, UpgradeWorkflow(WorkflowOptions{}).Bind(host))

	w := host.gh.Workflow("upgrade-generator")
	require.NotNil(t, w)
	triggers := w.Triggers()
	require.Contains(t, triggers, "workflow_dispatch")
	crons := triggers["schedule"].([]map[string]string)
	require.Equal(t, DefaultGeneratorUpgradeSchedule, crons[0]["cron"])

	job := w.Job("upgrade")
	require.NotNil(t, job)
	var pr github.Step
	for _, s := range job.Steps {
		if s.Uses == "peter-evans/create-pull-request@v4" {
			pr = s
		}
	}
	require.Equal(t, "${{ secrets.PROJGEN_TOKEN }}", pr.With["token"])
	require.Equal(t, "auto-approve", pr.With["labels"])
}

func TestBind_NoSecondaryPipelineForGeneratorItself(t *testing.T) {
	host := newFakeHost(t, true)
	host.isGenerator = true
	require.NoError(t, UpgradeWorkflow(WorkflowOptions{}).Bind(host))
	require.Nil(t, host.gh.Workflow("upgrade-generator"))
}

func TestBind_NoSecondaryPipelineWithoutGeneratorDependency(t *testing.T) {
	host := newFakeHost(t, false)
	require.NoError(t, UpgradeWorkflow(WorkflowOptions{}).Bind(host))
	require.Nil(t, host.gh.Workflow("upgrade-generator"))
}

func synthesize(t *testing.T, gh *github.GitHub) map[string]string {
	t.Helper()
	set := artifact.NewSet()
	require.NoError(t, gh.Synthesize(set))
	out := make(map[string]string)
	for _, a := range set.All() {
		out[a.Path] = string(a.Content)
	}
	return out
}
