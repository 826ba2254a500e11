package services

import "context"

type contextKey string

const (
	ctxKeyItemID    contextKey = "item_id"
	ctxKeyStage     contextKey = "stage"
	ctxKeyRequestID contextKey = "request_id"
)

// WithItemID annotates a context with the queue item being processed.
func WithItemID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKeyItemID, id)
}

// ItemIDFromContext extracts the queue item identifier, when present.
func ItemIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyItemID).(int64)
	return id, ok
}

// WithStage annotates a context with the active workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage, stage)
}

// StageFromContext extracts the active stage name, when present.
func StageFromContext(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(ctxKeyStage).(string)
	return stage, ok
}

// WithRequestID annotates a context with a correlation identifier for one
// stage execution.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFromContext extracts the correlation identifier, when present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyRequestID).(string)
	return id, ok
}
