package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// ProjectPath is a .hcl file or a directory containing the project
	// definition.
	ProjectPath string
	// OutDir is where artifacts are written. Defaults to the directory
	// containing the definition.
	OutDir string
	// DryRun lists the artifacts that would be written without touching
	// the file system.
	DryRun bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config value and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
