package plugin

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mwantia/glue/log"
)

// Resolver turns a plugin name into its config. This is the framework's only
// module-loading dependency: production code and tests both inject one, so
// no global mutable state is involved.
type Resolver interface {
	Resolve(name string) (*Config, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (*Config, error)

func (f ResolverFunc) Resolve(name string) (*Config, error) {
	return f(name)
}

// StaticResolver resolves plugins from an explicit registration table. It is
// the production resolver for linked-in bundles and doubles as the test
// resolver.
type StaticResolver struct {
	mu      sync.RWMutex
	plugins map[string]*Config
}

func NewStaticResolver(configs ...*Config) *StaticResolver {
	r := &StaticResolver{
		plugins: make(map[string]*Config),
	}

	for _, cfg := range configs {
		r.Register(cfg)
	}

	return r
}

// Register makes a bundle resolvable by its name. Later registrations under
// the same name win.
func (r *StaticResolver) Register(cfg *Config) {
	if cfg == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins[cfg.Name] = cfg
}

func (r *StaticResolver) Resolve(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("no plugin registered under '%s'", name)
	}

	return cfg, nil
}

// Source is either a *Config (used as-is) or a string resolved by name.
type Source any

// Loader resolves plugin sources into configs.
type Loader struct {
	Resolver Resolver
	Log      *log.Logger
}

func NewLoader(resolver Resolver, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Discard()
	}

	return &Loader{
		Resolver: resolver,
		Log:      logger,
	}
}

// Load resolves a single source. Object sources pass through unchanged;
// string sources go through the resolver, with failures wrapped in a
// LoadError that preserves the cause.
func (l *Loader) Load(source Source) (*Config, error) {
	switch typed := source.(type) {
	case *Config:
		return typed, nil

	case string:
		if l.Resolver == nil {
			return nil, &LoadError{
				Source: typed,
				Err:    fmt.Errorf("no resolver configured"),
			}
		}

		cfg, err := l.Resolver.Resolve(typed)
		if err != nil {
			return nil, &LoadError{Source: typed, Err: err}
		}

		return cfg, nil

	default:
		return nil, &LoadError{
			Source: fmt.Sprintf("%v", source),
			Err:    fmt.Errorf("unsupported source type %T", source),
		}
	}
}

// LoadAll resolves every source, collecting every failure instead of
// stopping at the first. A single failure propagates directly; several merge
// into one composite error.
func (l *Loader) LoadAll(sources ...Source) ([]*Config, error) {
	var configs []*Config
	var failures []error

	for _, source := range sources {
		cfg, err := l.Load(source)
		if err != nil {
			failures = append(failures, err)
			continue
		}

		configs = append(configs, cfg)
	}

	switch len(failures) {
	case 0:
		return configs, nil
	case 1:
		return configs, failures[0]
	default:
		var merged error
		for _, err := range failures {
			merged = multierror.Append(merged, err)
		}
		return configs, merged
	}
}

// Manifest is the on-disk description of an installed plugin, read from a
// plugin.yaml in its directory. The code bundle itself must be linked in and
// registered with the resolver under the manifest name.
type Manifest struct {
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	PeerPlugins map[string]string `yaml:"peerPlugins,omitempty"`
}

// Scan walks the given directories for entries matching the glob pattern
// (e.g. "mybrand-plugin-*"), reads each entry's plugin.yaml and resolves the
// named bundle. Failures aggregate like LoadAll.
func (l *Loader) Scan(fsys afero.Fs, dirs []string, pattern string) ([]*Config, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("glue: invalid plugin pattern '%s': %w", pattern, err)
	}

	var configs []*Config
	var failures []error

	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			// Missing plugin directories are not an error; nothing is
			// installed there yet.
			l.Log.Debug("skipping plugin directory '%s': %v", dir, err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() || !matcher.Match(entry.Name()) {
				continue
			}

			cfg, err := l.loadManifest(fsys, filepath.Join(dir, entry.Name()))
			if err != nil {
				failures = append(failures, err)
				continue
			}

			configs = append(configs, cfg)
		}
	}

	switch len(failures) {
	case 0:
		return configs, nil
	case 1:
		return configs, failures[0]
	default:
		var merged error
		for _, err := range failures {
			merged = multierror.Append(merged, err)
		}
		return configs, merged
	}
}

func (l *Loader) loadManifest(fsys afero.Fs, dir string) (*Config, error) {
	path := filepath.Join(dir, "plugin.yaml")

	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Source: dir, Err: err}
	}

	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, &LoadError{Source: dir, Err: err}
	}

	if manifest.Name == "" {
		return nil, &LoadError{
			Source: dir,
			Err:    fmt.Errorf("manifest %s has no name", path),
		}
	}

	cfg, err := l.Load(manifest.Name)
	if err != nil {
		return nil, err
	}

	if manifest.Version != "" && manifest.Version != cfg.Version {
		l.Log.Warn("plugin '%s' manifest declares version %s but bundle is %s",
			manifest.Name, manifest.Version, cfg.Version)
	}

	return cfg, nil
}
