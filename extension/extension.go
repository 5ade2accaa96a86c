// Package extension defines named setup/teardown units that run around
// every command invocation, ordered by their declared dependencies.
package extension

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/glue/command"
)

// SetupFunc prepares an extension before the middleware chain runs. It may
// attach capabilities or state to the toolbox.
type SetupFunc func(ctx context.Context, tb *command.Toolbox) error

// TeardownFunc releases whatever Setup acquired. Teardown runs in reverse
// setup order and its errors are swallowed, so cleanup is best-effort.
type TeardownFunc func(ctx context.Context, tb *command.Toolbox) error

// Config declares one extension. Immutable once declared; Name must be
// unique within an invocation's aggregated extension set.
type Config struct {
	Name string

	// Dependencies names extensions whose setup must complete first.
	// Names absent from the current set are assumed externally satisfied
	// and dropped.
	Dependencies []string

	Setup    SetupFunc
	Teardown TeardownFunc
}

// CycleError reports a dependency cycle between extensions.
type CycleError struct {
	Names []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("glue: extension dependency cycle between [%s]", strings.Join(e.Names, ", "))
}

// SetupError reports an extension setup that did not finish within the
// configured timeout.
type SetupError struct {
	Name    string
	Timeout time.Duration
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("glue: extension '%s' setup timed out after %s", e.Name, e.Timeout)
}
