package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mwantia/glue"
	"github.com/mwantia/glue/capability"
	"github.com/mwantia/glue/capability/system"
	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/log"
	"github.com/mwantia/glue/plugin"
)

// deployCommand shows positional args, typed flags and capability use.
func deployCommand() *command.Command {
	return &command.Command{
		Name:        "deploy",
		Description: "deploy the project to an environment",
		Aliases:     []string{"d"},
		Args: []command.ArgDef{
			{
				Name:        "environment",
				Type:        command.TypeString,
				Required:    true,
				Choices:     []string{"staging", "production"},
				Description: "target environment",
			},
		},
		Flags: []command.FlagDef{
			{
				Name:        "replicas",
				Alias:       "r",
				Type:        command.TypeNumber,
				Default:     float64(1),
				Description: "number of instances",
			},
			{
				Name:        "dry-run",
				Type:        command.TypeBoolean,
				Description: "print what would happen without doing it",
			},
		},
		Run: func(ctx context.Context, tb *command.Toolbox) error {
			env := tb.ArgString("environment")
			replicas := tb.FlagNumber("replicas")

			if tb.FlagBool("dry-run") {
				fmt.Fprintf(tb.Out, "would deploy %.0f replica(s) to %s\n", replicas, env)
				return nil
			}

			fmt.Fprintf(tb.Out, "deploying %.0f replica(s) to %s\n", replicas, env)
			return nil
		},
	}
}

// doctorPlugin bundles a command and an extension, the way a distributable
// plugin would.
func doctorPlugin() *plugin.Config {
	return &plugin.Config{
		Name:    "doctor",
		Version: "1.0.0",
		Commands: []*command.Command{
			{
				Name:        "doctor",
				Description: "report the local tool environment",
				Run: func(ctx context.Context, tb *command.Toolbox) error {
					runner, err := capability.Get[*system.Runner](tb.Caps, "system")
					if err != nil {
						return err
					}

					manager := runner.DetectPackageManager()
					if manager == "" {
						manager = "none found"
					}

					fmt.Fprintf(tb.Out, "package manager: %s\n", manager)
					return nil
				},
			},
		},
		Extensions: []*extension.Config{
			{
				Name: "doctor-env",
				Setup: func(ctx context.Context, tb *command.Toolbox) error {
					tb.Log.Debug("doctor-env ready")
					return nil
				},
			},
		},
	}
}

func timingMiddleware() command.Middleware {
	return func(ctx context.Context, tb *command.Toolbox, next func() error) error {
		tb.Log.Debug("running '%s' (%s)", tb.FullName, tb.ID)
		return next()
	}
}

func main() {
	runtime, err := glue.New("forge",
		glue.WithVersion("0.3.0"),
		glue.WithDescription("an example CLI built on the glue runtime"),
		glue.WithCommand(deployCommand()),
		glue.WithPlugin(doctorPlugin()),
		glue.WithMiddleware(timingMiddleware()),
		glue.WithCompletions(),
		glue.WithLogLevel(log.Warn),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forge: %v\n", err)
		os.Exit(1)
	}

	os.Exit(runtime.Run(context.Background(), os.Args[1:]))
}
