// Package log carries a logr.Logger through context. Callers that don't
// install one get a discard logger, so logging never becomes a required
// dependency of the validation pass.
package log

import (
	"context"

	"github.com/go-logr/logr"
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}
