package services

import "context"

type contextKey string

const (
	movieIDKey   contextKey = "movie_id"
	commandKey   contextKey = "command"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithMovieID annotates context with the source media identifier.
func WithMovieID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, movieIDKey, id)
}

// MovieIDFromContext extracts the source media identifier if present.
func MovieIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, movieIDKey)
}

// WithCommand annotates context with the command name being served.
func WithCommand(ctx context.Context, command string) context.Context {
	if command == "" {
		return ctx
	}
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext returns the command name if present.
func CommandFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, commandKey)
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, stageKey)
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, requestIDKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
