package plugin

import "fmt"

// ValidationError reports a malformed plugin shape or a registration
// conflict. Fatal during startup.
type ValidationError struct {
	Plugin   string
	Reason   string
	Guidance string
}

func (e *ValidationError) Error() string {
	msg := "glue: invalid plugin"
	if e.Plugin != "" {
		msg = fmt.Sprintf("glue: invalid plugin '%s'", e.Plugin)
	}

	msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	if e.Guidance != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Guidance)
	}

	return msg
}

// LoadError reports a failed plugin resolution, preserving the cause.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("glue: failed to load plugin '%s': %v (is it installed and registered with the resolver?)", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ConflictError reports a command or extension name collision between two
// plugins (or a plugin and the host program).
type ConflictError struct {
	Plugin string
	Other  string
	Kind   string // "command" or "extension"
	Name   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("glue: plugin '%s' %s '%s' conflicts with '%s'", e.Plugin, e.Kind, e.Name, e.Other)
}

// DependencyError reports a missing or incompatible peer plugin.
type DependencyError struct {
	Plugin     string
	Peer       string
	Constraint string

	// Version is the registered peer version; empty when the peer is
	// missing entirely.
	Version string
}

func (e *DependencyError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("glue: plugin '%s' requires peer '%s' (%s): not registered", e.Plugin, e.Peer, e.Constraint)
	}

	return fmt.Sprintf("glue: plugin '%s' requires peer '%s' (%s): registered version %s does not satisfy", e.Plugin, e.Peer, e.Constraint, e.Version)
}
