package command

import (
	"io"

	"github.com/mwantia/glue/capability"
	"github.com/mwantia/glue/log"
)

// Toolbox is the per-invocation context handed to middleware and handlers.
// It carries the typed parse result, command metadata and the capability
// registry. Created fresh per invocation and discarded after use.
type Toolbox struct {
	// ID uniquely identifies this invocation
	ID string

	// Brand and Version identify the host program
	Brand   string
	Version string

	// Command is the matched command, FullName its space-joined path
	Command  *Command
	FullName string

	// Result is the typed parse outcome for this invocation
	Result *ParseResult

	// Argv is the processed token list, Raw the original one
	Argv []string
	Raw  []string

	// Caps resolves capability modules by name
	Caps *capability.Registry

	Log *log.Logger
	Out io.Writer
}

// Arg returns the typed value of a positional argument, or nil.
func (tb *Toolbox) Arg(name string) any {
	if tb.Result == nil {
		return nil
	}

	return tb.Result.Args[name]
}

// ArgString returns a positional argument as a string.
func (tb *Toolbox) ArgString(name string) string {
	value, _ := tb.Arg(name).(string)
	return value
}

// Flag returns the typed value of a flag, or nil.
func (tb *Toolbox) Flag(name string) any {
	if tb.Result == nil {
		return nil
	}

	return tb.Result.Flags[name]
}

// FlagBool returns a boolean flag value, false when unset.
func (tb *Toolbox) FlagBool(name string) bool {
	value, _ := tb.Flag(name).(bool)
	return value
}

// FlagString returns a string flag value, "" when unset.
func (tb *Toolbox) FlagString(name string) string {
	value, _ := tb.Flag(name).(string)
	return value
}

// FlagNumber returns a number flag value, 0 when unset.
func (tb *Toolbox) FlagNumber(name string) float64 {
	value, _ := tb.Flag(name).(float64)
	return value
}

// Capability resolves a capability module by name.
func (tb *Toolbox) Capability(name string) (any, error) {
	return tb.Caps.Resolve(name)
}
