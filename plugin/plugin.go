// Package plugin implements distributable bundles of commands and
// extensions: validation, resolution by name, registration and
// peer-dependency checking.
package plugin

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
)

// namePattern restricts plugin names to lowercase slugs.
var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config declares one plugin bundle. Created once at declaration or load
// time and read-only for the remainder of the process.
type Config struct {
	// Name identifies the plugin; must match ^[a-z0-9][a-z0-9-]*$
	Name string `yaml:"name"`

	// Version is the plugin's semantic version
	Version string `yaml:"version"`

	// MinRuntimeVersion optionally constrains the framework version,
	// e.g. ">= 1.2.0"
	MinRuntimeVersion string `yaml:"minRuntimeVersion,omitempty"`

	// PeerPlugins maps required plugin names to semver ranges
	PeerPlugins map[string]string `yaml:"peerPlugins,omitempty"`

	Commands   []*command.Command  `yaml:"-"`
	Extensions []*extension.Config `yaml:"-"`
}

// Validate checks the plugin shape: slug name, parseable semver version,
// non-nil command and extension entries. Violations carry guidance on the
// expected shape.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{
			Reason:   "plugin is nil",
			Guidance: "pass a plugin config with at least a name and version",
		}
	}

	if cfg.Name == "" || !namePattern.MatchString(cfg.Name) {
		return &ValidationError{
			Plugin:   cfg.Name,
			Reason:   fmt.Sprintf("invalid plugin name '%s'", cfg.Name),
			Guidance: "names must match ^[a-z0-9][a-z0-9-]*$ (lowercase letters, digits, dashes)",
		}
	}

	if _, err := semver.NewVersion(cfg.Version); err != nil {
		return &ValidationError{
			Plugin:   cfg.Name,
			Reason:   fmt.Sprintf("invalid plugin version '%s'", cfg.Version),
			Guidance: "versions must be valid semver, e.g. 1.2.3",
		}
	}

	if cfg.MinRuntimeVersion != "" {
		if _, err := semver.NewConstraint(cfg.MinRuntimeVersion); err != nil {
			return &ValidationError{
				Plugin:   cfg.Name,
				Reason:   fmt.Sprintf("invalid runtime constraint '%s'", cfg.MinRuntimeVersion),
				Guidance: "constraints must be valid semver ranges, e.g. >= 1.0.0",
			}
		}
	}

	for i, cmd := range cfg.Commands {
		if cmd == nil || cmd.Name == "" {
			return &ValidationError{
				Plugin:   cfg.Name,
				Reason:   fmt.Sprintf("command at index %d has no name", i),
				Guidance: "every plugin command needs a non-empty name",
			}
		}
	}

	for i, ext := range cfg.Extensions {
		if ext == nil || ext.Name == "" {
			return &ValidationError{
				Plugin:   cfg.Name,
				Reason:   fmt.Sprintf("extension at index %d has no name", i),
				Guidance: "every plugin extension needs a non-empty name",
			}
		}
	}

	for peer, constraint := range cfg.PeerPlugins {
		if _, err := semver.NewConstraint(constraint); err != nil {
			return &ValidationError{
				Plugin:   cfg.Name,
				Reason:   fmt.Sprintf("invalid peer constraint '%s' for '%s'", constraint, peer),
				Guidance: "peer constraints must be valid semver ranges, e.g. ^2.0.0",
			}
		}
	}

	return nil
}
