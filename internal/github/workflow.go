package github

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/projgen/internal/projerr"
)

// Step is one entry in a job's step list. A step either executes a shell
// command (Run) or references a reusable action (Uses with With), never
// both.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	ID   string            `yaml:"id,omitempty"`
	If   string            `yaml:"if,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]any    `yaml:"with,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

func (s *Step) validate() error {
	if s.Run != "" && s.Uses != "" {
		return fmt.Errorf("step %q sets both run and uses", s.Name)
	}
	if s.Run == "" && s.Uses == "" {
		return fmt.Errorf("step %q sets neither run nor uses", s.Name)
	}
	return nil
}

// Container requests job execution inside an image instead of directly on
// the hosted runner.
type Container struct {
	Image string `yaml:"image"`
}

// Job is one named job in a workflow document.
type Job struct {
	RunsOn      string            `yaml:"runs-on,omitempty"`
	Container   *Container        `yaml:"container,omitempty"`
	If          string            `yaml:"if,omitempty"`
	Needs       []string          `yaml:"needs,omitempty"`
	Permissions map[string]string `yaml:"permissions,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Steps       []Step            `yaml:"steps"`
}

// Workflow is one CI workflow document under construction. Job ids are
// unique within the document; triggers accumulate across callers.
type Workflow struct {
	// Name is both the display name and the artifact basename.
	Name string

	triggers map[string]any
	jobs     map[string]*Job
}

// NewWorkflow creates an empty workflow document.
func NewWorkflow(name string) *Workflow {
	return &Workflow{
		Name:     name,
		triggers: make(map[string]any),
		jobs:     make(map[string]*Job),
	}
}

// On merges trigger filters into the document. The issue_comment event
// category (any issue_comment-prefixed key) is refused unconditionally:
// workflows triggered by comments run with write permissions against
// attacker-controlled input.
func (w *Workflow) On(triggers map[string]any) error {
	for event, filter := range triggers {
		if strings.HasPrefix(event, "issue_comment") {
			return projerr.Config("triggers", "issue_comment workflow triggers are not allowed")
		}
		if filter == nil {
			filter = map[string]any{}
		}
		w.triggers[event] = filter
	}
	return nil
}

// AddJob registers a job under id. Duplicate ids and malformed steps are
// rejected.
func (w *Workflow) AddJob(id string, job *Job) error {
	if id == "" {
		return projerr.Config("job_id", "job id must not be empty")
	}
	if _, ok := w.jobs[id]; ok {
		return projerr.Config("job_id", "job %q already exists in workflow %q", id, w.Name)
	}
	for i := range job.Steps {
		if err := job.Steps[i].validate(); err != nil {
			return projerr.Config("steps", "workflow %q job %q: %v", w.Name, id, err)
		}
	}
	w.jobs[id] = job
	return nil
}

// Job returns the job registered under id, or nil.
func (w *Workflow) Job(id string) *Job {
	return w.jobs[id]
}

// Triggers returns a copy of the accumulated trigger map.
func (w *Workflow) Triggers() map[string]any {
	out := make(map[string]any, len(w.triggers))
	for k, v := range w.triggers {
		out[k] = v
	}
	return out
}

// workflowDoc is the serialized document shape. yaml.v3 renders maps with
// sorted keys, so identical inputs yield byte-identical artifacts.
type workflowDoc struct {
	Name string          `yaml:"name"`
	On   map[string]any  `yaml:"on"`
	Jobs map[string]*Job `yaml:"jobs"`
}

// Render produces the workflow YAML artifact content.
func (w *Workflow) Render() ([]byte, error) {
	doc := workflowDoc{Name: w.Name, On: w.triggers, Jobs: w.jobs}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render workflow %q: %w", w.Name, err)
	}
	return out, nil
}
