package github

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dependabot models .github/dependabot.yml (version 2 schema).
type Dependabot struct {
	// ScheduleInterval is daily, weekly or monthly.
	ScheduleInterval string
	// Ignored lists dependency names excluded from bot upgrades.
	Ignored []string
	// Labels are applied to every upgrade pull request the bot opens.
	Labels []string
}

type dependabotIgnore struct {
	DependencyName string `yaml:"dependency-name"`
}

type dependabotUpdate struct {
	PackageEcosystem string             `yaml:"package-ecosystem"`
	Directory        string             `yaml:"directory"`
	Schedule         map[string]string  `yaml:"schedule"`
	Ignore           []dependabotIgnore `yaml:"ignore,omitempty"`
	Labels           []string           `yaml:"labels,omitempty"`
}

type dependabotDoc struct {
	Version int                `yaml:"version"`
	Updates []dependabotUpdate `yaml:"updates"`
}

// Render produces the dependabot.yml artifact content.
func (d *Dependabot) Render() ([]byte, error) {
	interval := d.ScheduleInterval
	if interval == "" {
		interval = "daily"
	}
	update := dependabotUpdate{
		PackageEcosystem: "npm",
		Directory:        "/",
		Schedule:         map[string]string{"interval": interval},
		Labels:           d.Labels,
	}
	for _, name := range d.Ignored {
		update.Ignore = append(update.Ignore, dependabotIgnore{DependencyName: name})
	}
	out, err := yaml.Marshal(&dependabotDoc{Version: 2, Updates: []dependabotUpdate{update}})
	if err != nil {
		return nil, fmt.Errorf("failed to render dependabot config: %w", err)
	}
	return out, nil
}
