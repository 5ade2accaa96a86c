// Package semver is the default "semver" capability module, exposing
// semantic version comparisons to command handlers.
package semver

import "github.com/Masterminds/semver/v3"

type Semver struct{}

func New() *Semver {
	return &Semver{}
}

// Valid reports whether version parses as semver.
func (s *Semver) Valid(version string) bool {
	_, err := semver.NewVersion(version)
	return err == nil
}

// Compare returns -1, 0 or 1 ordering a against b.
func (s *Semver) Compare(a string, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, err
	}

	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, err
	}

	return va.Compare(vb), nil
}

// Satisfies reports whether version is inside the given range, e.g.
// Satisfies("1.2.3", ">= 1.0.0, < 2.0.0").
func (s *Semver) Satisfies(version string, rang string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, err
	}

	constraint, err := semver.NewConstraint(rang)
	if err != nil {
		return false, err
	}

	return constraint.Check(v), nil
}
