package github

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MergifyRule is one pull-request automation rule.
type MergifyRule struct {
	Name       string         `yaml:"name"`
	Conditions []string       `yaml:"conditions"`
	Actions    map[string]any `yaml:"actions"`
}

// Mergify models the .mergify.yml policy file.
type Mergify struct {
	Rules []MergifyRule
}

type mergifyDoc struct {
	PullRequestRules []MergifyRule `yaml:"pull_request_rules"`
}

// AddRule appends a rule; rules apply in order.
func (m *Mergify) AddRule(rule MergifyRule) {
	m.Rules = append(m.Rules, rule)
}

// Render produces the .mergify.yml artifact content.
func (m *Mergify) Render() ([]byte, error) {
	out, err := yaml.Marshal(&mergifyDoc{PullRequestRules: m.Rules})
	if err != nil {
		return nil, fmt.Errorf("failed to render mergify config: %w", err)
	}
	return out, nil
}
