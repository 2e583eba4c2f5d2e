// Package schema declares the HCL shapes of a project definition file.
// It is purely declarative; translation into the options model lives in
// the hclcfg loader.
package schema

import "github.com/hashicorp/hcl/v2"

// StepBlock is a workflow step supplied from the definition file. Exactly
// one of run/uses is expected; the workflow document enforces it.
type StepBlock struct {
	Name string            `hcl:"name,optional"`
	Run  string            `hcl:"run,optional"`
	Uses string            `hcl:"uses,optional"`
	With map[string]string `hcl:"with,optional"`
	Env  map[string]string `hcl:"env,optional"`
}

// TriggerBlock is one additional workflow trigger for the build job.
type TriggerBlock struct {
	Event    string   `hcl:"event,label"`
	Branches []string `hcl:"branches,optional"`
}

// Project is the `project` block: the complete declarative option surface.
// Pointer fields distinguish "absent" from an explicit false, which the
// assembly's cross-validation relies on.
type Project struct {
	Name                 string `hcl:"name"`
	DefaultReleaseBranch string `hcl:"default_release_branch,optional"`

	PackageManager string `hcl:"package_manager,optional"`
	TaskInvocation string `hcl:"task_invocation,optional"`
	MinNodeVersion string `hcl:"min_node_version,optional"`

	Deps     []string          `hcl:"deps,optional"`
	DevDeps  []string          `hcl:"dev_deps,optional"`
	PeerDeps []string          `hcl:"peer_deps,optional"`
	Scripts  map[string]string `hcl:"scripts,optional"`

	Licensed        *bool  `hcl:"licensed,optional"`
	License         string `hcl:"license,optional"`
	CopyrightOwner  string `hcl:"copyright_owner,optional"`
	CopyrightPeriod string `hcl:"copyright_period,optional"`

	Jest                  *bool  `hcl:"jest,optional"`
	JestCoverageDirectory string `hcl:"jest_coverage_directory,optional"`
	JestJsx               bool   `hcl:"jest_jsx,optional"`

	Github *bool `hcl:"github,optional"`

	BuildWorkflow          *bool           `hcl:"build_workflow,optional"`
	MutableBuild           *bool           `hcl:"mutable_build,optional"`
	Antitamper             *bool           `hcl:"antitamper,optional"`
	CodeCov                bool            `hcl:"codecov,optional"`
	CodeCovTokenSecret     string          `hcl:"codecov_token_secret,optional"`
	WorkflowContainerImage string          `hcl:"workflow_container_image,optional"`
	BootstrapSteps         []*StepBlock    `hcl:"bootstrap_step,block"`
	BuildTriggers          []*TriggerBlock `hcl:"build_trigger,block"`
	GitIdentityName        string          `hcl:"git_identity_name,optional"`
	GitIdentityEmail       string          `hcl:"git_identity_email,optional"`

	Release            *bool    `hcl:"release,optional"`
	ReleaseToNpm       bool     `hcl:"release_to_npm,optional"`
	ReleaseBranches    []string `hcl:"release_branches,optional"`
	ReleaseEveryCommit *bool    `hcl:"release_every_commit,optional"`
	ReleaseSchedule    []string `hcl:"release_schedule,optional"`

	Dependabot               *bool    `hcl:"dependabot,optional"`
	DependabotInterval       string   `hcl:"dependabot_interval,optional"`
	DepsUpgrade              *bool    `hcl:"deps_upgrade,optional"`
	UpgradeSchedule          []string `hcl:"upgrade_schedule,optional"`
	UpgradeSecret            string   `hcl:"upgrade_secret,optional"`
	GeneratorUpgradeSchedule []string `hcl:"generator_upgrade_schedule,optional"`
	GeneratorUpgradeSecret   string   `hcl:"generator_upgrade_secret,optional"`
	AutoApproveUpgrades      bool     `hcl:"auto_approve_upgrades,optional"`

	AutoMerge                   *bool    `hcl:"auto_merge,optional"`
	PullRequestTemplate         *bool    `hcl:"pull_request_template,optional"`
	PullRequestTemplateContents []string `hcl:"pull_request_template_contents,optional"`

	Gitignore        []string `hcl:"gitignore,optional"`
	Npmignore        []string `hcl:"npmignore,optional"`
	NpmignoreEnabled *bool    `hcl:"npmignore_enabled,optional"`

	GeneratorConfig        *bool  `hcl:"generator_config,optional"`
	GeneratorDevDependency *bool  `hcl:"generator_dev_dependency,optional"`
	GeneratorVersion       string `hcl:"generator_version,optional"`
	IsGeneratorProject     bool   `hcl:"is_generator_project,optional"`
}

// File is the top-level structure of one project definition file.
type File struct {
	Project *Project `hcl:"project,block"`
	Body    hcl.Body `hcl:",remain"`
}
