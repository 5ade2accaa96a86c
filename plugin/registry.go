package plugin

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"

	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/log"
)

// hostName is the reserved aggregate name for commands and extensions the
// host program declares directly.
const hostName = "host"

// Registry aggregates the host program's commands and extensions with every
// registered plugin's. It is mutated only during the single-threaded init
// phase and read-only afterwards.
type Registry struct {
	mu  sync.RWMutex
	log *log.Logger

	// runtimeVersion is checked against plugin MinRuntimeVersion
	// constraints; empty disables the check.
	runtimeVersion string

	plugins map[string]*Config
	order   []string

	hostCommands   []*command.Command
	hostExtensions []*extension.Config
}

func NewRegistry(runtimeVersion string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Discard()
	}

	return &Registry{
		log:            logger,
		runtimeVersion: runtimeVersion,
		plugins:        make(map[string]*Config),
	}
}

// SeedHost installs the host program's own commands and extensions as the
// base aggregate. Plugin registrations are conflict-checked against these in
// both directions.
func (r *Registry) SeedHost(commands []*command.Command, extensions []*extension.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkConflicts(hostName, commands, extensions); err != nil {
		return err
	}

	r.hostCommands = append(r.hostCommands, commands...)
	r.hostExtensions = append(r.hostExtensions, extensions...)

	return nil
}

// Register validates and stores a plugin. Registering the same name twice is
// a silent no-op, with a warning when the versions differ. Any command
// name or alias overlap with the aggregated set fails with a ConflictError
// naming both owners; extension names are checked the same way.
func (r *Registry) Register(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.plugins[cfg.Name]; ok {
		if existing.Version != cfg.Version {
			r.log.Warn("plugin '%s' already registered with version %s, ignoring %s",
				cfg.Name, existing.Version, cfg.Version)
		}
		return nil
	}

	if r.runtimeVersion != "" && cfg.MinRuntimeVersion != "" {
		constraint, err := semver.NewConstraint(cfg.MinRuntimeVersion)
		if err == nil {
			version, verr := semver.NewVersion(r.runtimeVersion)
			if verr == nil && !constraint.Check(version) {
				return &DependencyError{
					Plugin:     cfg.Name,
					Peer:       "runtime",
					Constraint: cfg.MinRuntimeVersion,
					Version:    r.runtimeVersion,
				}
			}
		}
	}

	if err := r.checkConflicts(cfg.Name, cfg.Commands, cfg.Extensions); err != nil {
		return err
	}

	r.plugins[cfg.Name] = cfg
	r.order = append(r.order, cfg.Name)

	r.log.Debug("registered plugin '%s' v%s (%d commands, %d extensions)",
		cfg.Name, cfg.Version, len(cfg.Commands), len(cfg.Extensions))

	return nil
}

// checkConflicts verifies the incoming commands and extensions against the
// aggregated set. Commands collide on any overlap between {name, aliases} of
// either side. Callers hold r.mu.
func (r *Registry) checkConflicts(owner string, commands []*command.Command, extensions []*extension.Config) error {
	commandOwners := make(map[string]string)
	extensionOwners := make(map[string]string)

	collect := func(from string, cmds []*command.Command, exts []*extension.Config) {
		for _, cmd := range cmds {
			commandOwners[cmd.Name] = from
			for _, alias := range cmd.Aliases {
				commandOwners[alias] = from
			}
		}
		for _, ext := range exts {
			extensionOwners[ext.Name] = from
		}
	}

	collect(hostName, r.hostCommands, r.hostExtensions)
	for _, name := range r.order {
		existing := r.plugins[name]
		collect(name, existing.Commands, existing.Extensions)
	}

	for _, cmd := range commands {
		names := append([]string{cmd.Name}, cmd.Aliases...)
		for _, name := range names {
			if other, ok := commandOwners[name]; ok {
				return &ConflictError{
					Plugin: owner,
					Other:  other,
					Kind:   "command",
					Name:   name,
				}
			}
			// Also guard against duplicates within the incoming bundle
			commandOwners[name] = owner
		}
	}

	for _, ext := range extensions {
		if other, ok := extensionOwners[ext.Name]; ok {
			return &ConflictError{
				Plugin: owner,
				Other:  other,
				Kind:   "extension",
				Name:   ext.Name,
			}
		}
		extensionOwners[ext.Name] = owner
	}

	return nil
}

// Plugins returns every registered plugin in registration order.
func (r *Registry) Plugins() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]*Config, 0, len(r.order))
	for _, name := range r.order {
		plugins = append(plugins, r.plugins[name])
	}

	return plugins
}

// Get returns a registered plugin by name.
func (r *Registry) Get(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("glue: plugin not registered: %s", name)
	}

	return cfg, nil
}

// Commands returns the aggregated command set: host commands first, then
// every plugin's in registration order.
func (r *Registry) Commands() []*command.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := append([]*command.Command(nil), r.hostCommands...)
	for _, name := range r.order {
		commands = append(commands, r.plugins[name].Commands...)
	}

	return commands
}

// Extensions returns the aggregated extension set: host extensions first,
// then every plugin's in registration order.
func (r *Registry) Extensions() []*extension.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := append([]*extension.Config(nil), r.hostExtensions...)
	for _, name := range r.order {
		extensions = append(extensions, r.plugins[name].Extensions...)
	}

	return extensions
}

// ValidateAll confirms every registered plugin's declared peers: each peer
// must be registered and its version must satisfy the declared range. All
// violations are collected; a single one propagates directly, several merge
// into one composite error.
func (r *Registry) ValidateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failures []error

	for _, name := range r.order {
		cfg := r.plugins[name]

		for peer, rang := range cfg.PeerPlugins {
			registered, ok := r.plugins[peer]
			if !ok {
				failures = append(failures, &DependencyError{
					Plugin:     name,
					Peer:       peer,
					Constraint: rang,
				})
				continue
			}

			constraint, err := semver.NewConstraint(rang)
			if err != nil {
				failures = append(failures, &ValidationError{
					Plugin:   name,
					Reason:   fmt.Sprintf("invalid peer constraint '%s' for '%s'", rang, peer),
					Guidance: "peer constraints must be valid semver ranges",
				})
				continue
			}

			version, err := semver.NewVersion(registered.Version)
			if err != nil || !constraint.Check(version) {
				failures = append(failures, &DependencyError{
					Plugin:     name,
					Peer:       peer,
					Constraint: rang,
					Version:    registered.Version,
				})
			}
		}
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	default:
		var merged error
		for _, err := range failures {
			merged = multierror.Append(merged, err)
		}
		return merged
	}
}
