package project

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/projgen/internal/artifact"
	"github.com/vk/projgen/internal/ctxlog"
	"github.com/vk/projgen/internal/license"
)

// Synthesize renders every collaborator into an artifact set. No file is
// written here; the caller commits the set only after full success.
func (p *Project) Synthesize(ctx context.Context) (*artifact.Set, error) {
	logger := ctxlog.FromContext(ctx)
	set := artifact.NewSet()

	manifest, err := p.pkg.Render()
	if err != nil {
		return nil, err
	}
	if err := set.Add("package.json", manifest); err != nil {
		return nil, err
	}

	if err := set.Add(".gitignore", p.gitignore.Render()); err != nil {
		return nil, err
	}
	if p.npmignore != nil {
		if err := set.Add(".npmignore", p.npmignore.Render()); err != nil {
			return nil, err
		}
	}

	if p.settings.licensed {
		text, err := license.Render(license.Options{
			SPDX:            p.settings.license,
			CopyrightOwner:  p.settings.copyrightOwner,
			CopyrightPeriod: p.settings.copyrightPeriod,
		})
		if err != nil {
			return nil, err
		}
		if err := set.Add("LICENSE", text); err != nil {
			return nil, err
		}
	}

	if p.testFwk.Active() {
		cfg, err := p.testFwk.RenderConfig()
		if err != nil {
			return nil, err
		}
		if err := set.Add("jest.config.json", append([]byte(cfg), '\n')); err != nil {
			return nil, err
		}
	}

	tasksDoc, err := p.renderTasks()
	if err != nil {
		return nil, err
	}
	if err := set.Add(".projgen/tasks.json", tasksDoc); err != nil {
		return nil, err
	}

	if p.gh != nil {
		if err := p.gh.Synthesize(set); err != nil {
			return nil, err
		}
	}

	if p.settings.generatorConfig {
		snapshot, err := p.renderGeneratorConfig()
		if err != nil {
			return nil, err
		}
		if err := set.Add(".projgen.json", snapshot); err != nil {
			return nil, err
		}
	}

	logger.Info("project synthesized.", "artifacts", set.Len())
	return set, nil
}

// taskDoc mirrors the .projgen/tasks.json schema consumed by the task
// runner in generated projects.
type taskDoc struct {
	Description string            `json:"description,omitempty"`
	Steps       []taskStepDoc     `json:"steps"`
	Env         map[string]string `json:"env,omitempty"`
}

type taskStepDoc struct {
	Exec  string `json:"exec,omitempty"`
	Spawn string `json:"spawn,omitempty"`
}

func (p *Project) renderTasks() ([]byte, error) {
	docs := make(map[string]taskDoc)
	for _, t := range p.taskReg.All() {
		doc := taskDoc{Description: t.Description}
		if len(t.Env) > 0 {
			doc.Env = t.Env
		}
		for _, s := range t.Steps() {
			doc.Steps = append(doc.Steps, taskStepDoc{Exec: s.Exec, Spawn: s.Spawn})
		}
		docs[t.Name] = doc
	}
	out, err := json.MarshalIndent(map[string]any{"tasks": docs}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render tasks: %w", err)
	}
	return append(out, '\n'), nil
}

// generatorConfigDoc is the .projgen.json snapshot of the resolved
// configuration, emitted so generated projects can re-synthesize without
// the original definition file.
type generatorConfigDoc struct {
	Name                 string `json:"name"`
	DefaultReleaseBranch string `json:"defaultReleaseBranch"`
	PackageManager       string `json:"packageManager"`
	License              string `json:"license,omitempty"`
	Jest                 bool   `json:"jest"`
	BuildWorkflow        bool   `json:"buildWorkflow"`
	MutableBuild         bool   `json:"mutableBuild"`
	Antitamper           bool   `json:"antitamper"`
	Release              bool   `json:"release"`
	ReleaseToNpm         bool   `json:"releaseToNpm,omitempty"`
	CodeCov              bool   `json:"codeCov,omitempty"`
}

func (p *Project) renderGeneratorConfig() ([]byte, error) {
	s := p.settings
	doc := generatorConfigDoc{
		Name:                 s.name,
		DefaultReleaseBranch: s.defaultReleaseBranch,
		PackageManager:       string(s.packageManager),
		Jest:                 s.jestEnabled,
		BuildWorkflow:        s.buildWorkflow,
		MutableBuild:         s.mutableBuild,
		Antitamper:           s.antitamper,
		Release:              s.release,
		ReleaseToNpm:         s.releaseToNpm,
		CodeCov:              s.codeCov,
	}
	if s.licensed {
		doc.License = s.license
	}
	out, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render generator config: %w", err)
	}
	return append(out, '\n'), nil
}
