package project

import (
	"github.com/vk/projgen/internal/license"
	"github.com/vk/projgen/internal/projerr"
)

// validate checks the whole options struct before any collaborator is
// constructed or mutated. Every configuration error surfaces here, which
// preserves the fail-fast, no-partial-artifact guarantee.
func validate(opts Options) error {
	if opts.Name == "" {
		return projerr.Config("name", "a project name is required")
	}
	if opts.DefaultReleaseBranch == "" {
		return projerr.Config("default_release_branch",
			"a default release branch is required (the historical fixed default has been removed)")
	}

	githubEnabled := boolOr(opts.GithubEnabled, true)
	if boolOr(opts.BuildWorkflow, false) && !githubEnabled {
		return projerr.Precondition("github", "a build workflow requires GitHub support")
	}
	if boolOr(opts.Release, false) && !githubEnabled {
		return projerr.Precondition("github", "a release workflow requires GitHub support")
	}
	if boolOr(opts.AutoMerge, false) && !githubEnabled {
		return projerr.Precondition("github", "auto-merge requires GitHub support")
	}
	if boolOr(opts.Dependabot, false) && !githubEnabled {
		return projerr.Precondition("github", "dependabot requires GitHub support")
	}
	if boolOr(opts.DepsUpgrade, false) && !githubEnabled {
		return projerr.Precondition("github", "the upgrade workflow requires GitHub support")
	}

	// Release-specific options are only meaningful with the release
	// workflow enabled; silently ignoring them would hide configuration
	// mistakes.
	releaseEnabled := boolOr(opts.Release, githubEnabled)
	if !releaseEnabled {
		if opts.ReleaseToNpm {
			return projerr.Config("release_to_npm", "requires the release workflow")
		}
		if len(opts.ReleaseBranches) > 0 {
			return projerr.Config("release_branches", "requires the release workflow")
		}
		if opts.ReleaseEveryCommit != nil && *opts.ReleaseEveryCommit {
			return projerr.Config("release_every_commit", "requires the release workflow")
		}
		if len(opts.ReleaseSchedule) > 0 {
			return projerr.Config("release_schedule", "requires the release workflow")
		}
	}

	if opts.Dependabot != nil && *opts.Dependabot &&
		opts.DepsUpgrade != nil && *opts.DepsUpgrade {
		return projerr.Config("dependabot",
			"dependabot and the custom upgrade workflow are mutually exclusive")
	}

	if len(opts.Npmignore) > 0 && opts.NpmignoreEnabled != nil && !*opts.NpmignoreEnabled {
		return projerr.Config("npmignore", "patterns were supplied but the npmignore file is disabled")
	}

	if boolOr(opts.Licensed, true) {
		spdx := opts.License
		if spdx == "" {
			spdx = "Apache-2.0"
		}
		if !license.Supported(spdx) {
			return projerr.Config("license", "no bundled text for SPDX id %q (supported: %s)",
				spdx, license.SupportedIDs())
		}
	}
	return nil
}
