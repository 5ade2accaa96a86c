package glue

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/tidwall/btree"

	"github.com/mwantia/glue/command"
)

const helpWrapWidth = 72

// printGlobalHelp renders the brand banner and an alphabetical command
// listing. Hidden commands only appear when requested with --all.
func (r *Runtime) printGlobalHelp(showHidden bool) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Fprintf(r.out, "%s v%s\n", r.brand, r.version)
	if r.description != "" {
		fmt.Fprintln(r.out, r.description)
	}
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "usage: %s <command> [arguments] [flags]\n\n", r.brand)
	fmt.Fprintln(r.out, "commands:")

	// The btree keeps the listing alphabetical regardless of
	// registration order.
	var index btree.Map[string, *command.Command]
	for _, cmd := range r.registry.Commands() {
		if cmd.Hidden && !showHidden {
			continue
		}
		index.Set(cmd.Name, cmd)
	}

	width := 0
	index.Scan(func(name string, _ *command.Command) bool {
		if len(name) > width {
			width = len(name)
		}
		return true
	})

	index.Scan(func(name string, cmd *command.Command) bool {
		line := fmt.Sprintf("  %-*s", width+2, name)

		if !r.hideAliases && len(cmd.Aliases) > 0 {
			line += dim.Sprintf("(%s) ", strings.Join(cmd.Aliases, ", "))
		}

		fmt.Fprintf(r.out, "%s%s\n", line, firstLine(cmd.Description))
		return true
	})

	fmt.Fprintf(r.out, "\nrun '%s <command> --help' for command details\n", r.brand)
}

// printCommandHelp renders one command's usage, arguments, flags, aliases
// and subcommands.
func (r *Runtime) printCommandHelp(fullName string, cmd *command.Command) {
	bold := color.New(color.Bold)

	if cmd.Description != "" {
		fmt.Fprintln(r.out, wordwrap.WrapString(cmd.Description, helpWrapWidth))
		fmt.Fprintln(r.out)
	}

	prefix := strings.TrimSuffix(fullName, cmd.Name)
	bold.Fprintf(r.out, "usage: %s %s%s\n", r.brand, prefix, cmd.Usage())

	if !r.hideAliases && len(cmd.Aliases) > 0 {
		fmt.Fprintf(r.out, "aliases: %s\n", strings.Join(cmd.Aliases, ", "))
	}

	if len(cmd.Args) > 0 {
		fmt.Fprintln(r.out, "\narguments:")
		for _, arg := range cmd.Args {
			fmt.Fprintf(r.out, "  %-14s %s%s\n", arg.Name, firstLine(arg.Description), argDetails(arg))
		}
	}

	if len(cmd.Flags) > 0 {
		fmt.Fprintln(r.out, "\nflags:")
		for _, flag := range cmd.Flags {
			name := "--" + flag.Name
			if flag.Alias != "" {
				name = fmt.Sprintf("-%s, %s", flag.Alias, name)
			}

			fmt.Fprintf(r.out, "  %-18s %s%s\n", name, firstLine(flag.Description), flagDetails(flag))
		}
	}

	if len(cmd.Subcommands) > 0 {
		fmt.Fprintln(r.out, "\nsubcommands:")
		for _, sub := range cmd.Subcommands {
			if sub.Hidden {
				continue
			}
			fmt.Fprintf(r.out, "  %-14s %s\n", sub.Name, firstLine(sub.Description))
		}
	}
}

// completionsCommand synthesizes a hidden command that prints the flattened
// command tree, one full name per line, for shell completion scripts to
// consume.
func (r *Runtime) completionsCommand() *command.Command {
	return &command.Command{
		Name:        "completions",
		Description: "print every command path for shell completion",
		Hidden:      true,
		Run: func(ctx context.Context, tb *command.Toolbox) error {
			for _, flat := range command.Flatten(r.registry.Commands()) {
				if flat.Command.Hidden {
					continue
				}
				fmt.Fprintln(tb.Out, flat.FullName)
			}
			return nil
		},
	}
}

func argDetails(arg command.ArgDef) string {
	var details []string

	if arg.Required {
		details = append(details, "required")
	}
	if len(arg.Choices) > 0 {
		details = append(details, "one of: "+strings.Join(arg.Choices, ", "))
	}
	if arg.Default != nil {
		details = append(details, fmt.Sprintf("default: %v", arg.Default))
	}

	if len(details) == 0 {
		return ""
	}

	return " (" + strings.Join(details, "; ") + ")"
}

func flagDetails(flag command.FlagDef) string {
	var details []string

	if flag.Required {
		details = append(details, "required")
	}
	if len(flag.Choices) > 0 {
		details = append(details, "one of: "+strings.Join(flag.Choices, ", "))
	}
	if flag.Default != nil {
		details = append(details, fmt.Sprintf("default: %v", flag.Default))
	}

	if len(details) == 0 {
		return ""
	}

	return " (" + strings.Join(details, "; ") + ")"
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}

	return text
}
