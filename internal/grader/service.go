// Package grader runs a grading attempt: text extraction, mistake production
// and annotation.
package grader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/logging"
	"github.com/colonyops/redpen/internal/core/mistake"
)

// ErrNoInput is returned when a request carries neither a path nor text.
var ErrNoInput = errors.New("no document to grade")

// TextSource extracts document text from a file.
type TextSource interface {
	Text(ctx context.Context, path string) (string, error)
}

// Request describes one grading attempt. Text takes precedence over Path.
type Request struct {
	Path string
	Text string
}

// Result is the outcome of a successful attempt.
type Result struct {
	AttemptID string
	Path      string
	Text      string
	Analysis  *mistake.Analysis
	Segments  []annotate.Segment
	Stats     annotate.Stats
	Duration  time.Duration
}

// Service wires a text source and a producer together.
type Service struct {
	source   TextSource
	producer Producer
	timeout  time.Duration
	log      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each attempt. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New creates a grading service.
func New(source TextSource, producer Producer, opts ...Option) *Service {
	s := &Service{
		source:   source,
		producer: producer,
		log:      logging.Component("grader"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grade runs one attempt. A failure at any step ends the attempt; no partial
// result is returned.
func (s *Service) Grade(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	attemptID := uuid.NewString()

	ctx = logging.WithAttemptID(ctx, attemptID)
	if req.Path != "" {
		ctx = logging.WithDocument(ctx, req.Path)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text := req.Text
	switch {
	case text != "":
	case req.Path != "":
		var err error
		text, err = s.source.Text(ctx, req.Path)
		if err != nil {
			s.log.Error().Ctx(ctx).Err(err).Msg("text extraction failed")
			return nil, err
		}
	default:
		return nil, ErrNoInput
	}

	s.log.Debug().Ctx(ctx).Int("chars", len(text)).Msg("text ready")

	analysis, err := s.producer.Analyze(ctx, text)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("mistake production failed")
		return nil, fmt.Errorf("analyze: %w", err)
	}

	segments, stats := annotate.AnnotateWithStats(text, analysis.Mistakes)

	res := &Result{
		AttemptID: attemptID,
		Path:      req.Path,
		Text:      text,
		Analysis:  analysis,
		Segments:  segments,
		Stats:     stats,
		Duration:  time.Since(start),
	}

	s.log.Info().Ctx(ctx).
		Int("score", analysis.Score).
		Str("grade", analysis.Grade).
		Int("matched", stats.Matched).
		Int("dropped", stats.Dropped).
		Int("malformed", stats.Malformed).
		Dur("duration", res.Duration).
		Msg("attempt graded")

	return res, nil
}
