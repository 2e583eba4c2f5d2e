package github

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/projgen/internal/artifact"
)

func TestWorkflow_RejectsDuplicateJobID(t *testing.T) {
	w := NewWorkflow("build")
	job := &Job{RunsOn: "ubuntu-latest", Steps: []Step{{Name: "noop", Run: "true"}}}
	require.NoError(t, w.AddJob("build", job))
	require.Error(t, w.AddJob("build", job))
}

func TestWorkflow_RejectsMalformedSteps(t *testing.T) {
	w := NewWorkflow("build")

	err := w.AddJob("both", &Job{Steps: []Step{{Name: "bad", Run: "true", Uses: "actions/checkout@v3"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "both run and uses")

	err = w.AddJob("neither", &Job{Steps: []Step{{Name: "bad"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "neither run nor uses")
}

func TestWorkflow_RefusesIssueCommentTrigger(t *testing.T) {
	w := NewWorkflow("build")
	err := w.On(map[string]any{"issue_comment": map[string]any{"types": []string{"created"}}})
	require.Error(t, err)

	err = w.On(map[string]any{"issue_comment_created": map[string]any{}})
	require.Error(t, err)
}

func TestWorkflow_RenderShape(t *testing.T) {
	w := NewWorkflow("build")
	require.NoError(t, w.On(map[string]any{"workflow_dispatch": map[string]any{}}))
	require.NoError(t, w.AddJob("build", &Job{
		RunsOn:      "ubuntu-latest",
		Permissions: map[string]string{"contents": "read"},
		Env:         map[string]string{"CI": "true"},
		Steps: []Step{
			{Name: "Checkout", Uses: "actions/checkout@v3"},
			{Name: "Build", Run: "yarn build"},
		},
	}))

	out, err := w.Render()
	require.NoError(t, err)
	doc := string(out)
	require.Contains(t, doc, "name: build")
	require.Contains(t, doc, "workflow_dispatch:")
	require.Contains(t, doc, "runs-on: ubuntu-latest")
	require.Contains(t, doc, "uses: actions/checkout@v3")
	require.Contains(t, doc, "run: yarn build")
	require.Contains(t, doc, "contents: read")
	// A run step never carries action parameters and vice versa.
	require.False(t, strings.Contains(doc, "with: {}"))
}

func TestGitHub_SynthesizeWritesWorkflowsSorted(t *testing.T) {
	gh := New()
	for _, name := range []string{"release", "build"} {
		w, err := gh.AddWorkflow(name)
		require.NoError(t, err)
		require.NoError(t, w.On(map[string]any{"workflow_dispatch": map[string]any{}}))
		require.NoError(t, w.AddJob("job", &Job{Steps: []Step{{Name: "noop", Run: "true"}}}))
	}

	set := artifact.NewSet()
	require.NoError(t, gh.Synthesize(set))
	var paths []string
	for _, a := range set.All() {
		paths = append(paths, a.Path)
	}
	require.Equal(t, []string{
		".github/workflows/build.yml",
		".github/workflows/release.yml",
	}, paths)
}

func TestGitHub_DuplicateWorkflowRejected(t *testing.T) {
	gh := New()
	_, err := gh.AddWorkflow("build")
	require.NoError(t, err)
	_, err = gh.AddWorkflow("build")
	require.Error(t, err)
}

func TestGitHub_PullRequestTemplate(t *testing.T) {
	gh := New()
	gh.SetPullRequestTemplate([]string{"Fixes #", "", "## Notes"})
	set := artifact.NewSet()
	require.NoError(t, gh.Synthesize(set))
	require.Equal(t, 1, set.Len())
	require.Equal(t, "Fixes #\n\n## Notes\n", string(set.All()[0].Content))
}
