package logging

import "context"

type contextKey string

const (
	attemptIDKey contextKey = "attempt_id"
	documentKey  contextKey = "document"
)

// WithAttemptID adds a grading attempt ID to the context.
func WithAttemptID(ctx context.Context, attemptID string) context.Context {
	return context.WithValue(ctx, attemptIDKey, attemptID)
}

// WithDocument adds the source document path to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// GetAttemptID retrieves the attempt ID from the context.
// Returns empty string if not present.
func GetAttemptID(ctx context.Context) string {
	if id, ok := ctx.Value(attemptIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDocument retrieves the document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if p, ok := ctx.Value(documentKey).(string); ok {
		return p
	}
	return ""
}
