package dispatch

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// InjectLogger returns a middleware that seeds the context with lg so that
// everything below the dispatcher can use zctx.From.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			return next(zctx.Base(ctx, lg))
		}
	}
}

// LogActions returns a middleware that logs each action with its outcome and
// duration.
func LogActions() Middleware {
	return func(next Action) Action {
		return func(ctx context.Context) error {
			start := time.Now()
			err := next(ctx)

			lg := zctx.From(ctx).With(
				zap.String("action", NameFromContext(ctx)),
				zap.String("action_id", ActionIDFromContext(ctx)),
				zap.Duration("duration", time.Since(start)),
			)
			if err != nil {
				lg.Error("Action failed", zap.Error(err))
			} else {
				lg.Info("Action completed")
			}
			return err
		}
	}
}
