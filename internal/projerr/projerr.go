// Package projerr defines the error taxonomy shared by the assembly
// pipeline. All errors here are construction-time: assembly either fully
// succeeds or aborts with one of these, and no artifact is committed on
// failure.
package projerr

import "fmt"

// ConfigurationError reports invalid or contradictory project options.
// It is always detected synchronously, before any collaborator is mutated.
type ConfigurationError struct {
	// Option is the offending option name as it appears in the project
	// definition, e.g. "release_to_npm".
	Option string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Reason)
}

// Config builds a ConfigurationError for the named option.
func Config(option, format string, args ...any) error {
	return &ConfigurationError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a required collaborator missing from the
// project, e.g. requesting a build workflow with GitHub support disabled.
type PreconditionError struct {
	Missing string
	Reason  string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s: %s", e.Missing, e.Reason)
}

// Precondition builds a PreconditionError for the named collaborator.
func Precondition(missing, format string, args ...any) error {
	return &PreconditionError{Missing: missing, Reason: fmt.Sprintf(format, args...)}
}
