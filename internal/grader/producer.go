package grader

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/redpen/internal/core/mistake"
)

// Producer supplies the mistake list for a document. Records come back in
// priority order.
type Producer interface {
	Analyze(ctx context.Context, text string) (*mistake.Analysis, error)
}

// FileProducer reads a previously produced analysis from disk. The file may
// hold a full analysis object or a bare array of records.
type FileProducer struct {
	Path string
}

func (p *FileProducer) Analyze(_ context.Context, _ string) (*mistake.Analysis, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read mistakes file: %w", err)
	}
	a, err := mistake.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return a, nil
}
