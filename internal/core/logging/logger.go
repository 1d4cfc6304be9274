package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger from the global logger with a component
// identifier under the "cmp" key.
func Component(name string) zerolog.Logger {
	return Tag(log.Logger, name)
}

// Tag adds a component identifier to an existing logger.
func Tag(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("cmp", name).Logger()
}
