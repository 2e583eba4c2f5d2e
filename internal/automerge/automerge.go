// Package automerge provisions the mergify-based auto-merge policy.
// It may only be created when the GitHub collaborator exists, since the
// policy gates on the build workflow's success status.
package automerge

import (
	"fmt"

	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/projerr"
)

// Options configure the auto-merge policy.
type Options struct {
	// ApproveLabel is the label that marks a PR for automatic merging.
	ApprovedLabel string
	// BuildJobName is the required status check, usually the build job id.
	BuildJobName string
}

// Configure installs the policy on the GitHub collaborator.
func Configure(gh *github.GitHub, opts Options) error {
	if gh == nil {
		return projerr.Precondition("github", "auto-merge requires GitHub support")
	}
	label := opts.ApprovedLabel
	if label == "" {
		label = "auto-approve"
	}

	conditions := []string{
		fmt.Sprintf("label=%s", label),
		"-label~=(do-not-merge)",
	}
	if opts.BuildJobName != "" {
		conditions = append(conditions, fmt.Sprintf("status-success=%s", opts.BuildJobName))
	}

	m := &github.Mergify{}
	m.AddRule(github.MergifyRule{
		Name:       "Automatically merge approved pull requests",
		Conditions: conditions,
		Actions: map[string]any{
			"merge":              map[string]any{"method": "squash", "strict": "smart+fasttrack"},
			"delete_head_branch": map[string]any{},
		},
	})
	return gh.EnableMergify(m)
}
