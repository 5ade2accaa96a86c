package command

import (
	"context"
	"fmt"
	"strings"
)

// ValueType describes the wire type of an argument or flag value.
type ValueType string

const (
	TypeString      ValueType = "string"
	TypeNumber      ValueType = "number"
	TypeBoolean     ValueType = "boolean"
	TypeStringSlice ValueType = "string[]"
	TypeNumberSlice ValueType = "number[]"
)

// ArgDef declares a positional argument. Order within Command.Args is the
// positional order. Positional arguments support string and number types.
type ArgDef struct {
	Name        string    `json:"name"`
	Type        ValueType `json:"type"`
	Required    bool      `json:"required"`
	Choices     []string  `json:"choices,omitempty"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description"`

	// Validate rejects a coerced value with a reason. Nil means no custom
	// validation.
	Validate func(value any) error `json:"-"`
}

// FlagDef declares a named flag. Alias is an optional single-letter
// shorthand (e.g. "v" for --verbose).
type FlagDef struct {
	Name        string    `json:"name"`
	Alias       string    `json:"alias,omitempty"`
	Type        ValueType `json:"type"`
	Required    bool      `json:"required"`
	Choices     []string  `json:"choices,omitempty"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description"`

	Validate func(value any) error `json:"-"`
}

// Handler executes a matched command with its assembled toolbox.
type Handler func(ctx context.Context, tb *Toolbox) error

// Middleware wraps command execution. It must call next() for execution to
// proceed; returning without calling next short-circuits the chain.
type Middleware func(ctx context.Context, tb *Toolbox, next func() error) error

// Command is a declarative, immutable command description. Args and Flags
// are slices so declaration order is deterministic; ranked suggestions, help
// output and parsing all rely on that order.
type Command struct {
	Name        string
	Description string
	Aliases     []string
	Hidden      bool
	Args        []ArgDef
	Flags       []FlagDef
	Subcommands []*Command
	Middleware  []Middleware
	Run         Handler
}

// Matches reports whether token equals the command name or one of its
// aliases. Matching is exact and case-sensitive.
func (c *Command) Matches(token string) bool {
	if c.Name == token {
		return true
	}

	for _, alias := range c.Aliases {
		if alias == token {
			return true
		}
	}

	return false
}

// Flag returns the declared flag with the given name, or nil.
func (c *Command) Flag(name string) *FlagDef {
	for i := range c.Flags {
		if c.Flags[i].Name == name {
			return &c.Flags[i]
		}
	}

	return nil
}

// FlagByAlias returns the declared flag with the given single-letter alias,
// or nil.
func (c *Command) FlagByAlias(alias string) *FlagDef {
	for i := range c.Flags {
		if c.Flags[i].Alias == alias {
			return &c.Flags[i]
		}
	}

	return nil
}

// Usage renders a one-line usage hint, e.g. "deploy <env> [tag] [flags]".
func (c *Command) Usage() string {
	parts := []string{c.Name}

	for _, arg := range c.Args {
		if arg.Required {
			parts = append(parts, fmt.Sprintf("<%s>", arg.Name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s]", arg.Name))
		}
	}

	if len(c.Flags) > 0 {
		parts = append(parts, "[flags]")
	}

	if len(c.Subcommands) > 0 {
		parts = append(parts, "[command]")
	}

	return strings.Join(parts, " ")
}

// FlatCommand pairs a command with its full space-joined name.
type FlatCommand struct {
	FullName string
	Command  *Command
}

// Flatten walks the command tree depth-first and returns every command and
// nested subcommand with its full name. Help and completion generation
// consume this.
func Flatten(commands []*Command) []FlatCommand {
	var flat []FlatCommand

	var walk func(prefix string, cmds []*Command)
	walk = func(prefix string, cmds []*Command) {
		for _, cmd := range cmds {
			name := cmd.Name
			if prefix != "" {
				name = prefix + " " + cmd.Name
			}

			flat = append(flat, FlatCommand{FullName: name, Command: cmd})
			walk(name, cmd.Subcommands)
		}
	}
	walk("", commands)

	return flat
}
