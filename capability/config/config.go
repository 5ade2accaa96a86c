// Package config is the default "config" capability module: YAML config
// loading with defaults merging, backed by afero for testability.
package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	fs afero.Fs
}

func New() *Loader {
	return &Loader{fs: afero.NewOsFs()}
}

func NewWithFs(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load unmarshals the YAML file at path into out.
func (l *Loader) Load(path string, out any) error {
	raw, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return fmt.Errorf("glue: failed to read config '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("glue: failed to parse config '%s': %w", path, err)
	}

	return nil
}

// LoadWithDefaults reads the YAML file at path as a map and overlays it onto
// the given defaults. A missing file returns the defaults unchanged.
func (l *Loader) LoadWithDefaults(path string, defaults map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(defaults))
	for key, value := range defaults {
		merged[key] = value
	}

	exists, err := afero.Exists(l.fs, path)
	if err != nil || !exists {
		return merged, nil
	}

	var loaded map[string]any
	if err := l.Load(path, &loaded); err != nil {
		return nil, err
	}

	for key, value := range loaded {
		merged[key] = value
	}

	return merged, nil
}
