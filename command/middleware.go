package command

import "context"

// Chain nests middleware around a handler, outermost first. Each middleware
// receives a next() continuation; not calling it short-circuits everything
// further in, including the handler.
func Chain(middleware []Middleware, handler Handler) Handler {
	wrapped := handler

	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := wrapped

		wrapped = func(ctx context.Context, tb *Toolbox) error {
			return mw(ctx, tb, func() error {
				return next(ctx, tb)
			})
		}
	}

	return wrapped
}
