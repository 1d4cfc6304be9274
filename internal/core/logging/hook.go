package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts attempt_id and document from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if attemptID := GetAttemptID(ctx); attemptID != "" {
		e.Str("attempt_id", attemptID)
	}

	if doc := GetDocument(ctx); doc != "" {
		e.Str("document", doc)
	}
}
