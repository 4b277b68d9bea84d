package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type runContextKey struct{}

// NewRunID returns a fresh identifier for a sync run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID attaches a sync run id to ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runContextKey{}, runID)
}

// RunIDFromContext returns the sync run id carried by ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	runID, ok := ctx.Value(runContextKey{}).(string)
	return runID, ok && runID != ""
}
