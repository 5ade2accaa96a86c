package glue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/log"
)

// exitInterrupted is the conventional status for SIGINT (128 + 2).
const exitInterrupted = 130

// Run dispatches one process invocation and returns the exit status.
// Initialization (plugin loading, validation, registration) happens lazily
// on the first call and is fatal when it fails.
func Run(r *Runtime, argv []string) int {
	return r.Run(context.Background(), argv)
}

func (r *Runtime) Run(ctx context.Context, argv []string) int {
	if r.handleSignal {
		stop := r.watchInterrupts()
		defer stop()
	}

	if err := r.Init(); err != nil {
		r.fail(err)
		return 1
	}
	r.state = StatePluginsInitialized

	tokens := r.stripReserved(argv)

	if len(tokens) > 0 && (tokens[0] == "--version" || tokens[0] == "-v") {
		fmt.Fprintf(r.out, "%s v%s\n", r.brand, r.version)
		r.state = StateDone
		return 0
	}

	if len(tokens) == 0 && r.defaultCommand == "" {
		r.printGlobalHelp(false)
		r.state = StateDone
		return 0
	}

	if len(tokens) > 0 && (tokens[0] == "--help" || tokens[0] == "-h") {
		r.printGlobalHelp(containsToken(tokens, "--all"))
		r.state = StateDone
		return 0
	}

	commands := r.registry.Commands()

	route := command.Route(tokens, commands)
	if route.Command == nil && r.defaultCommand != "" {
		fallback := command.Route([]string{r.defaultCommand}, commands)
		if fallback.Command != nil {
			fallback.Remaining = tokens
			route = fallback
		}
	}

	if route.Command == nil {
		r.printUnresolved(tokens, route)
		r.state = StateErrored
		return 1
	}
	r.state = StateRouted

	r.logger.Debug("routed '%s' with %d remaining tokens", route.FullName, len(route.Remaining))

	if containsToken(route.Remaining, "--help") || containsToken(route.Remaining, "-h") {
		r.printCommandHelp(route.FullName, route.Command)
		r.state = StateDone
		return 0
	}

	if route.Command.Run == nil {
		// A pure command group; show its help instead of executing
		r.printCommandHelp(route.FullName, route.Command)
		r.state = StateDone
		return 0
	}

	parser := command.NewParser(r.logger.Named("parse"))

	result, err := parser.Parse(route.Remaining, route.Command)
	if err != nil {
		return r.handleError(err, nil)
	}
	result.Command = route.FullName

	tb := &command.Toolbox{
		ID:       uuid.NewString(),
		Brand:    r.brand,
		Version:  r.version,
		Command:  route.Command,
		FullName: route.FullName,
		Result:   result,
		Argv:     tokens,
		Raw:      argv,
		Caps:     r.caps,
		Log:      r.logger.Named(route.Command.Name),
		Out:      r.out,
	}
	r.state = StateContextAssembled

	if r.ready != nil {
		if err := r.ready(tb); err != nil {
			return r.handleError(err, tb)
		}
	}

	ordered, err := extension.Sort(r.registry.Extensions())
	if err != nil {
		return r.handleError(err, tb)
	}

	r.state = StateExtensionsSettingUp

	completed, setupErr := r.runExtensions(ctx, tb, ordered)
	if setupErr != nil {
		r.teardownExtensions(ctx, tb, completed)
		return r.handleError(setupErr, tb)
	}

	r.state = StateExecuting

	middleware := append(append([]command.Middleware(nil), r.middleware...), route.Command.Middleware...)
	chain := command.Chain(middleware, route.Command.Run)

	runErr := runRecovered(ctx, tb, chain)

	r.state = StateExtensionsTearingDown
	r.teardownExtensions(ctx, tb, completed)

	if runErr != nil {
		return r.handleError(runErr, tb)
	}

	r.state = StateDone
	return 0
}

// runExtensions executes every setup in topological order, each raced
// against the configured timeout. A setup that loses the race is abandoned,
// not cancelled: its side effects may still eventually land. Returns the
// extensions whose setup completed, so teardown covers exactly those.
func (r *Runtime) runExtensions(ctx context.Context, tb *command.Toolbox, ordered []*extension.Config) ([]*extension.Config, error) {
	var completed []*extension.Config

	for _, ext := range ordered {
		if ext.Setup == nil {
			completed = append(completed, ext)
			continue
		}

		started := time.Now()

		errCh := make(chan error, 1)
		go func(ext *extension.Config) {
			errCh <- runExtensionSetup(ctx, tb, ext)
		}(ext)

		timer := time.NewTimer(r.setupTimeout)

		select {
		case err := <-errCh:
			timer.Stop()
			if err != nil {
				return completed, err
			}

		case <-timer.C:
			return completed, &extension.SetupError{Name: ext.Name, Timeout: r.setupTimeout}

		case <-ctx.Done():
			timer.Stop()
			return completed, ctx.Err()
		}

		r.logger.Debug("extension '%s' setup finished in %s", ext.Name, time.Since(started))
		completed = append(completed, ext)
	}

	return completed, nil
}

func runExtensionSetup(ctx context.Context, tb *command.Toolbox, ext *extension.Config) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("glue: panic in extension '%s' setup: %v", ext.Name, rec)
		}
	}()

	return ext.Setup(ctx, tb)
}

// teardownExtensions runs teardown for every completed setup in strict
// reverse order. Errors and panics are swallowed after logging, so every
// completed extension gets its teardown attempt.
func (r *Runtime) teardownExtensions(ctx context.Context, tb *command.Toolbox, completed []*extension.Config) {
	for i := len(completed) - 1; i >= 0; i-- {
		ext := completed[i]
		if ext.Teardown == nil {
			continue
		}

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Warn("panic in extension '%s' teardown: %v", ext.Name, rec)
				}
			}()

			if err := ext.Teardown(ctx, tb); err != nil {
				r.logger.Warn("extension '%s' teardown failed: %v", ext.Name, err)
			}
		}()
	}
}

func runRecovered(ctx context.Context, tb *command.Toolbox, handler command.Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("glue: panic in command '%s': %v", tb.FullName, rec)
		}
	}()

	return handler(ctx, tb)
}

// handleError funnels every per-invocation failure: parse errors print a
// concise message, everything else goes through the error hook when one is
// configured. Always returns exit status 1.
func (r *Runtime) handleError(err error, tb *command.Toolbox) int {
	r.state = StateErrored

	var parseErr *command.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintln(r.errOut, parseErr.Error())
		return 1
	}

	if r.onError != nil {
		r.onError(err, tb)
		return 1
	}

	fmt.Fprintf(r.errOut, "%v\n", err)
	return 1
}

// stripReserved removes reserved global tokens, honoring the -- boundary.
// --debug and --verbose raise the log level instead of reaching the parser.
func (r *Runtime) stripReserved(argv []string) []string {
	processed := make([]string, 0, len(argv))

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if token == "--" {
			processed = append(processed, argv[i:]...)
			break
		}

		switch token {
		case "--debug":
			r.logger.Level = log.Debug
		case "--verbose":
			if r.logger.Level > log.Info {
				r.logger.Level = log.Info
			}
		default:
			processed = append(processed, token)
		}
	}

	return processed
}

func (r *Runtime) printUnresolved(tokens []string, route *command.RouteResult) {
	name := ""
	if len(tokens) > 0 {
		name = tokens[0]
	}

	if len(route.Suggestions) == 0 {
		fmt.Fprintf(r.errOut, "%s: unknown command '%s'\n", r.brand, name)
		return
	}

	fmt.Fprintf(r.errOut, "%s: unknown command '%s'. Did you mean:\n", r.brand, name)
	for _, suggestion := range route.Suggestions {
		if suggestion.Description != "" {
			fmt.Fprintf(r.errOut, "  %s - %s\n", suggestion.Name, suggestion.Description)
		} else {
			fmt.Fprintf(r.errOut, "  %s\n", suggestion.Name)
		}
	}
}

// watchInterrupts restores the terminal cursor and exits with the
// conventional interrupted status on SIGINT. No graceful unwind of in-flight
// work is attempted.
func (r *Runtime) watchInterrupts() func() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	done := make(chan struct{})

	go func() {
		select {
		case <-sig:
			fmt.Fprint(r.errOut, "\033[?25h\n")
			os.Exit(exitInterrupted)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}

func containsToken(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == "--" {
			return false
		}
		if token == want {
			return true
		}
	}

	return false
}
