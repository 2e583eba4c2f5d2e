// Package tasks implements the project task registry: named, ordered
// sequences of shell commands that collaborators register during assembly
// and that the emitted workflows invoke by name.
package tasks

import (
	"fmt"
	"sort"
)

// Step is a single entry in a task: either a shell command or the spawn
// of another registered task, never both.
type Step struct {
	Exec  string
	Spawn string
}

// Task is a named, ordered sequence of steps with an optional description
// and per-task environment.
type Task struct {
	Name        string
	Description string
	Env         map[string]string
	steps       []Step
}

// Exec appends a shell command to the task.
func (t *Task) Exec(command string) {
	t.steps = append(t.steps, Step{Exec: command})
}

// Spawn appends an invocation of another task. The spawned task is looked
// up by name at execution time, so it may be registered later during the
// same assembly pass.
func (t *Task) Spawn(other *Task) {
	t.steps = append(t.steps, Step{Spawn: other.Name})
}

// Steps returns the ordered step list.
func (t *Task) Steps() []Step {
	return t.steps
}

// Registry holds every task registered on the project. Task names are
// unique; re-registering a name is a caller error.
type Registry struct {
	byName map[string]*Task
}

// NewRegistry returns an empty task registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Task)}
}

// Add creates and registers a new task.
func (r *Registry) Add(name, description string) (*Task, error) {
	if name == "" {
		return nil, fmt.Errorf("task name must not be empty")
	}
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("task %q already registered", name)
	}
	t := &Task{Name: name, Description: description, Env: make(map[string]string)}
	r.byName[name] = t
	return t, nil
}

// Find returns the task registered under name, or nil.
func (r *Registry) Find(name string) *Task {
	return r.byName[name]
}

// All returns every registered task sorted by name.
func (r *Registry) All() []*Task {
	out := make([]*Task, 0, len(r.byName))
	for _, t := range r.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
