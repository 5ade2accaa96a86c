// Package glue is a CLI application framework: host programs declare
// commands, flags, extensions and plugins, and the runtime dispatches a
// single process invocation through that graph — routing, parsing, timed
// extension setup, a middleware chain, the handler, and reverse teardown.
package glue

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/mwantia/glue/capability"
	"github.com/mwantia/glue/capability/config"
	"github.com/mwantia/glue/capability/filesystem"
	"github.com/mwantia/glue/capability/network"
	"github.com/mwantia/glue/capability/patching"
	"github.com/mwantia/glue/capability/semver"
	"github.com/mwantia/glue/capability/strutil"
	"github.com/mwantia/glue/capability/system"
	"github.com/mwantia/glue/capability/template"
	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/log"
	"github.com/mwantia/glue/plugin"
)

// State tracks the per-invocation lifecycle. Errored is reachable from any
// state.
type State int

const (
	StateIdle State = iota
	StatePluginsInitialized
	StateRouted
	StateContextAssembled
	StateExtensionsSettingUp
	StateExecuting
	StateExtensionsTearingDown
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePluginsInitialized:
		return "PluginsInitialized"
	case StateRouted:
		return "Routed"
	case StateContextAssembled:
		return "ContextAssembled"
	case StateExtensionsSettingUp:
		return "ExtensionsSettingUp"
	case StateExecuting:
		return "Executing"
	case StateExtensionsTearingDown:
		return "ExtensionsTearingDown"
	case StateDone:
		return "Done"
	case StateErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// DefaultSetupTimeout bounds each extension's setup.
const DefaultSetupTimeout = 10 * time.Second

// ReadyHook runs after the invocation context is assembled, before any
// extension setup.
type ReadyHook func(tb *command.Toolbox) error

// ErrorHook receives every non-parse error with a best-effort toolbox, which
// may be nil when the failure happened before context assembly.
type ErrorHook func(err error, tb *command.Toolbox)

// Runtime is the per-process orchestrator. Configure it once with options,
// then call Run once per invocation.
type Runtime struct {
	brand       string
	version     string
	description string

	commands   []*command.Command
	extensions []*extension.Config
	sources    []plugin.Source

	pluginDirs    []string
	pluginPattern string

	defaultCommand string
	middleware     []command.Middleware

	ready   ReadyHook
	onError ErrorHook

	resolver plugin.Resolver
	caps     *capability.Registry
	fsys     afero.Fs

	logger *log.Logger
	out    io.Writer
	errOut io.Writer

	setupTimeout time.Duration
	completions  bool
	hideAliases  bool
	handleSignal bool

	initOnce sync.Once
	initErr  error
	registry *plugin.Registry

	state State
}

// New creates a runtime for the given brand. The brand names the binary in
// help and version output and is the default plugin directory prefix.
func New(brand string, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		brand:         brand,
		version:       "0.0.0",
		pluginPattern: brand + "-plugin-*",
		caps:          capability.NewRegistry(),
		fsys:          afero.NewOsFs(),
		logger:        log.NewLogger(brand, log.Warn, "", false),
		out:           os.Stdout,
		errOut:        os.Stderr,
		setupTimeout:  DefaultSetupTimeout,
		handleSignal:  true,
		state:         StateIdle,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.registerDefaultCapabilities()

	return r, nil
}

// State returns the lifecycle state of the most recent invocation.
func (r *Runtime) State() State {
	return r.state
}

// Capabilities exposes the capability registry so callers can substitute
// modules before first use.
func (r *Runtime) Capabilities() *capability.Registry {
	return r.caps
}

// Registry returns the plugin registry. Nil before the first Run (or Init).
func (r *Runtime) Registry() *plugin.Registry {
	return r.registry
}

// Init performs the process-lifetime initialization exactly once: seed host
// commands and extensions, scan plugin directories, load, validate and
// register every plugin source, then cross-check peer dependencies. Run
// calls it lazily; calling it directly is only useful for early validation.
func (r *Runtime) Init() error {
	r.initOnce.Do(func() {
		r.initErr = r.initialize()
	})

	return r.initErr
}

func (r *Runtime) initialize() error {
	registry := plugin.NewRegistry(r.version, r.logger.Named("plugin"))

	hostCommands := r.commands
	if r.completions {
		hostCommands = append(hostCommands, r.completionsCommand())
	}

	if err := registry.SeedHost(hostCommands, r.extensions); err != nil {
		return err
	}

	loader := plugin.NewLoader(r.resolver, r.logger.Named("plugin"))

	configs, err := loader.LoadAll(r.sources...)
	if err != nil {
		return err
	}

	if len(r.pluginDirs) > 0 {
		scanned, err := loader.Scan(r.fsys, r.pluginDirs, r.pluginPattern)
		if err != nil {
			return err
		}
		configs = append(configs, scanned...)
	}

	for _, cfg := range configs {
		if err := registry.Register(cfg); err != nil {
			return err
		}
	}

	if err := registry.ValidateAll(); err != nil {
		return err
	}

	r.registry = registry
	return nil
}

func (r *Runtime) registerDefaultCapabilities() {
	defaults := map[string]capability.Factory{
		"filesystem": func() (any, error) { return filesystem.New(), nil },
		"network":    func() (any, error) { return network.New(), nil },
		"config":     func() (any, error) { return config.New(), nil },
		"template":   func() (any, error) { return template.New(), nil },
		"strings":    func() (any, error) { return strutil.New(), nil },
		"system":     func() (any, error) { return system.New(), nil },
		"patching":   func() (any, error) { return patching.New(), nil },
		"semver":     func() (any, error) { return semver.New(), nil },
	}

	registered := make(map[string]bool)
	for _, name := range r.caps.Names() {
		registered[name] = true
	}

	for name, factory := range defaults {
		// Options may have substituted a module already; defaults never
		// override those.
		if !registered[name] {
			_ = r.caps.Register(name, factory)
		}
	}
}

func (r *Runtime) fail(err error) {
	r.state = StateErrored
	fmt.Fprintf(r.errOut, "%v\n", err)
}
