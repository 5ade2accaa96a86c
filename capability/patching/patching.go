// Package patching is the default "patching" capability module: in-place
// text edits on files, afero-backed for testability.
package patching

import (
	"strings"

	"github.com/spf13/afero"
)

type Patcher struct {
	fs afero.Fs
}

func New() *Patcher {
	return &Patcher{fs: afero.NewOsFs()}
}

func NewWithFs(fs afero.Fs) *Patcher {
	return &Patcher{fs: fs}
}

// Contains reports whether the file at path contains the given text.
func (p *Patcher) Contains(path string, text string) (bool, error) {
	raw, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return false, err
	}

	return strings.Contains(string(raw), text), nil
}

// Replace substitutes every occurrence of find with replace.
func (p *Patcher) Replace(path string, find string, replace string) error {
	return p.rewrite(path, func(content string) string {
		return strings.ReplaceAll(content, find, replace)
	})
}

// Prepend inserts text at the start of the file.
func (p *Patcher) Prepend(path string, text string) error {
	return p.rewrite(path, func(content string) string {
		return text + content
	})
}

// Append adds text at the end of the file.
func (p *Patcher) Append(path string, text string) error {
	return p.rewrite(path, func(content string) string {
		return content + text
	})
}

func (p *Patcher) rewrite(path string, transform func(string) string) error {
	info, err := p.fs.Stat(path)
	if err != nil {
		return err
	}

	raw, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return err
	}

	return afero.WriteFile(p.fs, path, []byte(transform(string(raw))), info.Mode())
}
