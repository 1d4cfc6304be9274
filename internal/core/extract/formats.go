package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"

	"github.com/colonyops/redpen/pkg/executil"
)

const docxBody = "word/document.xml"

func plainText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// docxText reads word/document.xml and emits one line per paragraph.
func docxText(_ context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer func() { _ = rc.Close() }()
		return docxParagraphs(rc)
	}

	return "", fmt.Errorf("missing %s", docxBody)
}

func docxParagraphs(r io.Reader) (string, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing XML: %w", err)
	}

	paras, err := xmlquery.QueryAll(root, "//*[local-name()='p']")
	if err != nil {
		return "", fmt.Errorf("xpath query failed: %w", err)
	}

	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		var b strings.Builder
		writeRuns(&b, p)
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}

// writeRuns walks a paragraph in document order collecting text runs, tabs
// and breaks. Nested paragraphs (text boxes) are skipped; they are visited
// on their own.
func writeRuns(b *strings.Builder, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "t":
			b.WriteString(c.InnerText())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		case "p":
		default:
			writeRuns(b, c)
		}
	}
}

// PDF extracts text with poppler's pdftotext.
type PDF struct {
	Exec executil.Executor
}

const pdfTool = "pdftotext"

func (p *PDF) Extract(ctx context.Context, path string) (string, error) {
	if err := p.Exec.LookPath(pdfTool); err != nil {
		return "", fmt.Errorf("%w (install poppler-utils)", err)
	}

	out, err := p.Exec.Output(ctx, pdfTool, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, executil.ErrNotFound) {
			return "", fmt.Errorf("%w (install poppler-utils)", err)
		}
		return "", err
	}

	if strings.TrimSpace(string(out)) == "" {
		return "", fmt.Errorf("%w: the file may be image-based or protected", ErrEmptyContent)
	}
	return string(out), nil
}

// legacyDocText accepts a .doc only when it is really readable text.
// Word 97 binaries and misnamed DOCX archives are rejected.
func legacyDocText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if bytes.HasPrefix(data, []byte("PK")) || !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", ErrLegacyDoc
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrLegacyDoc
	}
	return string(data), nil
}
