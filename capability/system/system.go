// Package system is the default "system" capability module: subprocess
// execution and package-manager detection.
package system

import (
	"context"
	"os/exec"
	"strings"
)

type Runner struct{}

func New() *Runner {
	return &Runner{}
}

// Run executes a program and returns its combined output, trimmed.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Which returns the absolute path of an executable, "" when not found.
func (r *Runner) Which(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}

	return path
}

// DetectPackageManager reports the first package manager found on PATH, in
// preference order. Returns "" when none is installed.
func (r *Runner) DetectPackageManager() string {
	for _, candidate := range []string{"pnpm", "yarn", "bun", "npm"} {
		if r.Which(candidate) != "" {
			return candidate
		}
	}

	return ""
}
