// Package github is the CI-integration collaborator. It owns every
// artifact that lands under .github/ (workflow documents, the dependabot
// configuration, the pull request template) plus the mergify policy file,
// and renders them through yaml.v3.
package github

import (
	"sort"

	"github.com/vk/projgen/internal/artifact"
	"github.com/vk/projgen/internal/projerr"
)

// GitHub aggregates the project's GitHub-facing configuration.
type GitHub struct {
	workflows  map[string]*Workflow
	dependabot *Dependabot
	mergify    *Mergify
	prTemplate []string
}

// New returns an empty GitHub collaborator.
func New() *GitHub {
	return &GitHub{workflows: make(map[string]*Workflow)}
}

// AddWorkflow creates a workflow document. Names are unique per project.
func (g *GitHub) AddWorkflow(name string) (*Workflow, error) {
	if _, ok := g.workflows[name]; ok {
		return nil, projerr.Config("workflow", "workflow %q already exists", name)
	}
	w := NewWorkflow(name)
	g.workflows[name] = w
	return w, nil
}

// Workflow returns the document registered under name, or nil.
func (g *GitHub) Workflow(name string) *Workflow {
	return g.workflows[name]
}

// EnableDependabot installs the dependabot configuration. At most one per
// project.
func (g *GitHub) EnableDependabot(d *Dependabot) error {
	if g.dependabot != nil {
		return projerr.Config("dependabot", "dependabot already configured")
	}
	g.dependabot = d
	return nil
}

// EnableMergify installs the auto-merge policy file.
func (g *GitHub) EnableMergify(m *Mergify) error {
	if g.mergify != nil {
		return projerr.Config("mergify", "mergify already configured")
	}
	g.mergify = m
	return nil
}

// SetPullRequestTemplate sets the PR template lines.
func (g *GitHub) SetPullRequestTemplate(lines []string) {
	g.prTemplate = lines
}

// Synthesize renders every owned artifact into the set.
func (g *GitHub) Synthesize(set *artifact.Set) error {
	names := make([]string, 0, len(g.workflows))
	for name := range g.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		content, err := g.workflows[name].Render()
		if err != nil {
			return err
		}
		if err := set.Add(".github/workflows/"+name+".yml", content); err != nil {
			return err
		}
	}
	if g.dependabot != nil {
		content, err := g.dependabot.Render()
		if err != nil {
			return err
		}
		if err := set.Add(".github/dependabot.yml", content); err != nil {
			return err
		}
	}
	if g.mergify != nil {
		content, err := g.mergify.Render()
		if err != nil {
			return err
		}
		if err := set.Add(".mergify.yml", content); err != nil {
			return err
		}
	}
	if len(g.prTemplate) > 0 {
		var body []byte
		for _, line := range g.prTemplate {
			body = append(body, line...)
			body = append(body, '\n')
		}
		if err := set.Add(".github/pull_request_template.md", body); err != nil {
			return err
		}
	}
	return nil
}
