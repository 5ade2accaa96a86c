package glue

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/mwantia/glue/capability"
	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/log"
	"github.com/mwantia/glue/plugin"
)

type Option func(*Runtime) error

// WithVersion sets the version reported by --version.
func WithVersion(version string) Option {
	return func(r *Runtime) error {
		r.version = version
		return nil
	}
}

// WithDescription sets the description shown in global help.
func WithDescription(description string) Option {
	return func(r *Runtime) error {
		r.description = description
		return nil
	}
}

// WithCommand declares host commands.
func WithCommand(commands ...*command.Command) Option {
	return func(r *Runtime) error {
		r.commands = append(r.commands, commands...)
		return nil
	}
}

// WithExtension declares host extensions.
func WithExtension(extensions ...*extension.Config) Option {
	return func(r *Runtime) error {
		r.extensions = append(r.extensions, extensions...)
		return nil
	}
}

// WithPlugin declares plugin sources: either *plugin.Config bundles or
// string names resolved through the configured resolver.
func WithPlugin(sources ...plugin.Source) Option {
	return func(r *Runtime) error {
		r.sources = append(r.sources, sources...)
		return nil
	}
}

// WithPluginDirs adds directories scanned for installed plugins matching
// the plugin pattern.
func WithPluginDirs(dirs ...string) Option {
	return func(r *Runtime) error {
		r.pluginDirs = append(r.pluginDirs, dirs...)
		return nil
	}
}

// WithPluginPattern overrides the directory-name pattern used during plugin
// scanning; the default is "<brand>-plugin-*".
func WithPluginPattern(pattern string) Option {
	return func(r *Runtime) error {
		r.pluginPattern = pattern
		return nil
	}
}

// WithResolver injects the "resolve by name" capability used for string
// plugin sources.
func WithResolver(resolver plugin.Resolver) Option {
	return func(r *Runtime) error {
		r.resolver = resolver
		return nil
	}
}

// WithDefaultCommand names the command run when the first token matches
// nothing.
func WithDefaultCommand(name string) Option {
	return func(r *Runtime) error {
		r.defaultCommand = name
		return nil
	}
}

// WithMiddleware appends global middleware, run before any per-command
// middleware.
func WithMiddleware(middleware ...command.Middleware) Option {
	return func(r *Runtime) error {
		r.middleware = append(r.middleware, middleware...)
		return nil
	}
}

// WithReadyHook runs once per invocation after context assembly.
func WithReadyHook(hook ReadyHook) Option {
	return func(r *Runtime) error {
		r.ready = hook
		return nil
	}
}

// WithErrorHook receives every non-parse invocation error instead of the
// default print-and-exit-1 handling.
func WithErrorHook(hook ErrorHook) Option {
	return func(r *Runtime) error {
		r.onError = hook
		return nil
	}
}

// WithSetupTimeout bounds each extension setup; the default is 10s.
func WithSetupTimeout(timeout time.Duration) Option {
	return func(r *Runtime) error {
		if timeout <= 0 {
			return fmt.Errorf("glue: setup timeout must be positive, got %s", timeout)
		}

		r.setupTimeout = timeout
		return nil
	}
}

// WithCapability substitutes a capability module before first use.
func WithCapability(name string, factory capability.Factory) Option {
	return func(r *Runtime) error {
		return r.caps.Register(name, factory)
	}
}

// WithCompletions synthesizes a hidden "completions" command that prints the
// flattened command tree for shell completion scripts.
func WithCompletions() Option {
	return func(r *Runtime) error {
		r.completions = true
		return nil
	}
}

// WithoutAliases hides alias columns in help output.
func WithoutAliases() Option {
	return func(r *Runtime) error {
		r.hideAliases = true
		return nil
	}
}

// WithoutSignalHandler disables the SIGINT handler; tests use this.
func WithoutSignalHandler() Option {
	return func(r *Runtime) error {
		r.handleSignal = false
		return nil
	}
}

// WithLogLevel sets the runtime log level.
func WithLogLevel(level log.LogLevel) Option {
	return func(r *Runtime) error {
		r.logger.Level = level
		return nil
	}
}

// WithLogFile mirrors runtime logs into a rotated file.
func WithLogFile(file string) Option {
	return func(r *Runtime) error {
		r.logger = log.NewLogger(r.brand, r.logger.Level, file, false)
		return nil
	}
}

// WithLogger replaces the runtime logger entirely.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runtime) error {
		r.logger = logger
		return nil
	}
}

// WithOutput redirects normal output; tests capture it here.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) error {
		r.out = w
		return nil
	}
}

// WithErrorOutput redirects error output.
func WithErrorOutput(w io.Writer) Option {
	return func(r *Runtime) error {
		r.errOut = w
		return nil
	}
}

// WithFs substitutes the filesystem used for plugin directory scanning.
func WithFs(fsys afero.Fs) Option {
	return func(r *Runtime) error {
		r.fsys = fsys
		return nil
	}
}
