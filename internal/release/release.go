// Package release assembles the release workflow. The release job reuses
// the project's build task through the shared job builder instead of
// duplicating build logic, then hands the produced artifact to publisher
// jobs.
package release

import (
	"github.com/vk/projgen/internal/buildflow"
	"github.com/vk/projgen/internal/github"
	"github.com/vk/projgen/internal/projerr"
)

// Options configure the release pipeline.
type Options struct {
	// Branch is the default release branch. Required.
	Branch string
	// Branches are additional branches that release independently.
	Branches []string
	// EveryCommit releases on every push to a release branch.
	EveryCommit bool
	// Schedule releases on a cron schedule instead of (or on top of)
	// per-commit releases.
	Schedule []string
	// NpmPublish adds a publish job targeting the npm registry.
	NpmPublish bool
}

// Release is the assembled release pipeline.
type Release struct {
	workflow *github.Workflow
}

// Workflow exposes the underlying document, primarily for tests.
func (r *Release) Workflow() *github.Workflow {
	return r.workflow
}

// Configure assembles the release workflow on the GitHub collaborator.
// The builder must already carry the project's build task command.
func Configure(gh *github.GitHub, builder *buildflow.Builder, opts Options) (*Release, error) {
	if gh == nil {
		return nil, projerr.Precondition("github", "a release workflow requires GitHub support")
	}
	if opts.Branch == "" {
		return nil, projerr.Config("default_release_branch", "release requires a default release branch")
	}

	w, err := gh.AddWorkflow("release")
	if err != nil {
		return nil, err
	}

	branches := append([]string{opts.Branch}, opts.Branches...)
	buildOpts := buildflow.Options{
		JobID:    "release",
		Checkout: buildflow.CheckoutOptions{Ref: opts.Branch},
		Env:      map[string]string{"RELEASE": "true"},
		Permissions: map[string]string{
			"contents": "write",
		},
		PostSteps: []github.Step{
			{
				Name: "Upload build artifact",
				Uses: "actions/upload-artifact@v3",
				With: map[string]any{"name": "build-artifact", "path": "dist"},
			},
		},
	}
	if opts.EveryCommit {
		buildOpts.Triggers = map[string]any{
			"push": map[string]any{"branches": branches},
		}
	}
	if len(opts.Schedule) > 0 {
		crons := make([]map[string]string, 0, len(opts.Schedule))
		for _, expr := range opts.Schedule {
			crons = append(crons, map[string]string{"cron": expr})
		}
		if buildOpts.Triggers == nil {
			buildOpts.Triggers = map[string]any{}
		}
		buildOpts.Triggers["schedule"] = crons
	}

	triggers, err := builder.Triggers(buildOpts)
	if err != nil {
		return nil, err
	}
	if err := w.On(triggers); err != nil {
		return nil, err
	}
	job, err := builder.Job(buildOpts)
	if err != nil {
		return nil, err
	}
	if err := w.AddJob("release", job); err != nil {
		return nil, err
	}

	if opts.NpmPublish {
		if err := w.AddJob("release_npm", npmPublishJob()); err != nil {
			return nil, err
		}
	}
	return &Release{workflow: w}, nil
}

// npmPublishJob publishes the uploaded build artifact to the npm registry.
func npmPublishJob() *github.Job {
	return &github.Job{
		RunsOn: "ubuntu-latest",
		Needs:  []string{"release"},
		Permissions: map[string]string{
			"contents": "read",
		},
		Steps: []github.Step{
			{
				Name: "Download build artifact",
				Uses: "actions/download-artifact@v3",
				With: map[string]any{"name": "build-artifact", "path": "dist"},
			},
			{
				Name: "Publish to npm",
				Run:  "npm publish dist",
				Env:  map[string]string{"NPM_TOKEN": "${{ secrets.NPM_TOKEN }}"},
			},
		},
	}
}
