// Package extract turns resume files into plain UTF-8 text.
//
// An extractor is chosen by matching the lower-cased file name against a
// list of glob patterns. The first match wins. Extractors return text with
// leading and trailing whitespace removed; empty results are an error.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/redpen/pkg/executil"
)

var (
	// ErrUnsupportedType is returned when no extractor matches the file name.
	ErrUnsupportedType = errors.New("unsupported file type, use PDF, DOCX, DOC, TXT or MD")
	// ErrEmptyContent is returned when a file yields no text.
	ErrEmptyContent = errors.New("no text could be extracted")
	// ErrLegacyDoc is returned for binary .doc files.
	ErrLegacyDoc = errors.New("DOC format is not fully supported, convert to DOCX or PDF")
)

// ExtractError wraps a failure with the format that produced it.
type ExtractError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %v", strings.ToUpper(e.Format), filepath.Base(e.Path), e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Extractor reads a file and returns its text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

type entry struct {
	pattern   string
	format    string
	extractor Extractor
}

// Registry maps file name patterns to extractors.
type Registry struct {
	entries []entry
}

// NewRegistry returns a registry with the built-in extractors. PDF text is
// produced by pdftotext run through exec.
func NewRegistry(exec executil.Executor) *Registry {
	r := &Registry{}
	r.Register("*.{txt,md,markdown}", "text", ExtractorFunc(plainText))
	r.Register("*.docx", "docx", ExtractorFunc(docxText))
	r.Register("*.pdf", "pdf", &PDF{Exec: exec})
	r.Register("*.doc", "doc", ExtractorFunc(legacyDocText))
	return r
}

// Register adds an extractor for files whose base name matches pattern.
// Patterns use doublestar syntax and are matched case-insensitively.
func (r *Registry) Register(pattern, format string, ex Extractor) {
	r.entries = append(r.entries, entry{
		pattern:   strings.ToLower(pattern),
		format:    format,
		extractor: ex,
	})
}

// Supports reports whether some extractor handles path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Patterns returns the registered patterns in priority order.
func (r *Registry) Patterns() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.pattern
	}
	return out
}

func (r *Registry) lookup(path string) (entry, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, e := range r.entries {
		if ok, _ := doublestar.Match(e.pattern, name); ok {
			return e, true
		}
	}
	return entry{}, false
}

// Text extracts trimmed text from path.
func (r *Registry) Text(ctx context.Context, path string) (string, error) {
	e, ok := r.lookup(path)
	if !ok {
		return "", &ExtractError{Format: strings.TrimPrefix(filepath.Ext(path), "."), Path: path, Err: ErrUnsupportedType}
	}

	text, err := e.extractor.Extract(ctx, path)
	if err != nil {
		return "", &ExtractError{Format: e.format, Path: path, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ExtractError{Format: e.format, Path: path, Err: ErrEmptyContent}
	}
	return text, nil
}

// Text extracts trimmed text from path using the built-in extractors.
func Text(ctx context.Context, path string) (string, error) {
	return NewRegistry(&executil.RealExecutor{}).Text(ctx, path)
}
