// Package jest is the test-framework collaborator. The build workflow
// inspects it for an active configuration and its coverage directory.
package jest

import (
	"encoding/json"
	"fmt"
)

// Options configure the test framework.
type Options struct {
	// CoverageDirectory is where coverage reports land, relative to the
	// project root. Empty selects "coverage".
	CoverageDirectory string
	// Jsx enables the jsdom environment for component tests.
	Jsx bool
}

// Jest holds the assembled test-framework configuration. A nil *Jest means
// no test framework is configured, and downstream collaborators must treat
// coverage reporting as unavailable.
type Jest struct {
	coverageDirectory string
	environment       string
}

// New assembles a test framework from options.
func New(opts Options) *Jest {
	dir := opts.CoverageDirectory
	if dir == "" {
		dir = "coverage"
	}
	env := "node"
	if opts.Jsx {
		env = "jsdom"
	}
	return &Jest{coverageDirectory: dir, environment: env}
}

// Active reports whether a usable configuration exists.
func (j *Jest) Active() bool {
	return j != nil
}

// CoverageDirectory returns the configured coverage output directory.
func (j *Jest) CoverageDirectory() string {
	return j.coverageDirectory
}

// TestCommand is the shell command the test task runs.
func (j *Jest) TestCommand() string {
	return "jest --passWithNoTests --all --coverageDirectory " + j.coverageDirectory
}

// RenderConfig produces the jest.config.json artifact content.
func (j *Jest) RenderConfig() (json.RawMessage, error) {
	cfg := map[string]any{
		"coverageDirectory": j.coverageDirectory,
		"testEnvironment":   j.environment,
		"clearMocks":        true,
		"collectCoverage":   true,
	}
	out, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render jest config: %w", err)
	}
	return out, nil
}
