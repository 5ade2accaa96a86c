// Package filesystem is the default "filesystem" capability module, backed
// by afero so tests can swap in an in-memory filesystem.
package filesystem

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

type Filesystem struct {
	fs afero.Fs
}

func New() *Filesystem {
	return &Filesystem{fs: afero.NewOsFs()}
}

// NewWithFs wraps an explicit afero filesystem, usually afero.NewMemMapFs()
// in tests.
func NewWithFs(fs afero.Fs) *Filesystem {
	return &Filesystem{fs: fs}
}

func (f *Filesystem) Read(path string) (string, error) {
	raw, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func (f *Filesystem) Write(path string, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return afero.WriteFile(f.fs, path, []byte(content), 0o644)
}

func (f *Filesystem) Exists(path string) bool {
	exists, err := afero.Exists(f.fs, path)
	return err == nil && exists
}

func (f *Filesystem) IsDir(path string) bool {
	isDir, err := afero.IsDir(f.fs, path)
	return err == nil && isDir
}

func (f *Filesystem) List(path string) ([]string, error) {
	entries, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

func (f *Filesystem) Remove(path string) error {
	return f.fs.RemoveAll(path)
}

func (f *Filesystem) MkdirAll(path string) error {
	return f.fs.MkdirAll(path, 0o755)
}

// Homedir returns the current user's home directory, "" when unknown.
func (f *Filesystem) Homedir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return home
}
