package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redpen/internal/core/config"
	"github.com/colonyops/redpen/internal/core/doctor"
	"github.com/colonyops/redpen/internal/core/extract"
	"github.com/colonyops/redpen/internal/grader"
	"github.com/colonyops/redpen/pkg/tuitest"
)

const mistakesJSON = `{
  "score": 72,
  "grade": "C",
  "summary": "Solid experience, careless spelling.",
  "strengths": ["Clear structure"],
  "mistakes": [
    {"original": "teh", "correction": "the", "explanation": "Typo.", "type": "spelling"},
    {"original": "missing", "correction": "x", "explanation": "Not in text.", "type": "grammar"}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T) (*Flags, *bytes.Buffer, func(args ...string) error) {
	t.Helper()
	cfg := config.DefaultConfig()
	flags := &Flags{Config: &cfg}
	out := &bytes.Buffer{}

	run := func(args ...string) error {
		app := NewApp(flags, "test")
		app.Writer = out
		app.ErrWriter = &bytes.Buffer{}
		return app.Run(context.Background(), append([]string{"redpen"}, args...))
	}
	return flags, out, run
}

func TestNewApp_RegistersCommands(t *testing.T) {
	app := NewApp(&Flags{}, "test")

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"grade", "report", "annotate", "extract", "config", "doctor"}, names)

	var flagNames []string
	for _, f := range app.Flags {
		flagNames = append(flagNames, f.Names()[0])
	}
	assert.Contains(t, flagNames, "mistakes")
	assert.Contains(t, flagNames, "watch")
	assert.Contains(t, flagNames, "profiler-port")
}

func TestAnnotateCmd(t *testing.T) {
	_, out, run := newTestApp(t)
	mistakes := writeTemp(t, "mistakes.json", mistakesJSON)

	require.NoError(t, run("annotate", "-f", mistakes, "--text", "I saw teh cat"))

	var got annotateOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	require.Len(t, got.Segments, 3)
	assert.Equal(t, "I saw ", got.Segments[0].Text)
	assert.Equal(t, -1, got.Segments[0].Ordinal)
	assert.Nil(t, got.Segments[0].Mistake)

	assert.Equal(t, "teh", got.Segments[1].Text)
	assert.Equal(t, 0, got.Segments[1].Ordinal)
	assert.Equal(t, 6, got.Segments[1].Start)
	assert.Equal(t, 9, got.Segments[1].End)
	require.NotNil(t, got.Segments[1].Mistake)
	assert.Equal(t, "the", got.Segments[1].Mistake.Correction)

	assert.Equal(t, statsOutput{Matched: 1, Dropped: 1}, got.Stats)
}

func TestAnnotateCmd_BareArrayFromDocument(t *testing.T) {
	_, out, run := newTestApp(t)
	doc := writeTemp(t, "resume.txt", "Led teh team\n")
	mistakes := writeTemp(t, "mistakes.json", `[{"original":"teh","correction":"the","explanation":"Typo.","type":"spelling"}]`)

	require.NoError(t, run("annotate", "-f", mistakes, doc))

	var got annotateOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Stats.Matched)
	assert.Len(t, got.Segments, 3)
}

func TestAnnotateCmd_RequiresDocument(t *testing.T) {
	_, _, run := newTestApp(t)
	mistakes := writeTemp(t, "mistakes.json", mistakesJSON)

	err := run("annotate", "-f", mistakes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document path is required")
}

func TestExtractCmd(t *testing.T) {
	_, out, run := newTestApp(t)
	doc := writeTemp(t, "resume.md", "\n  # Jane Doe\nEngineer  \n\n")

	require.NoError(t, run("extract", doc))
	assert.Equal(t, "# Jane Doe\nEngineer\n", out.String())
}

func TestExtractCmd_JSON(t *testing.T) {
	_, out, run := newTestApp(t)
	doc := writeTemp(t, "resume.txt", "café")

	require.NoError(t, run("extract", "--json", doc))

	var got extractOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "café", got.Text)
	assert.Equal(t, 5, got.Bytes)
	assert.Equal(t, 4, got.Graphemes)
	assert.True(t, filepath.IsAbs(got.Path))
}

func TestExtractCmd_Unsupported(t *testing.T) {
	_, _, run := newTestApp(t)
	doc := writeTemp(t, "resume.odt", "text")

	err := run("extract", doc)
	assert.ErrorIs(t, err, extract.ErrUnsupportedType)
}

func TestReportCmd_Raw(t *testing.T) {
	_, out, run := newTestApp(t)
	doc := writeTemp(t, "resume.txt", "I fixed teh build.")
	mistakes := writeTemp(t, "mistakes.json", mistakesJSON)

	require.NoError(t, run("report", "--raw", "-m", mistakes, doc))

	md := out.String()
	assert.Contains(t, md, "# Grade: C (72/100)")
	assert.Contains(t, md, "> Solid experience, careless spelling.")
	assert.Contains(t, md, "**the**")
	assert.Contains(t, md, "1 suggestion(s) could not be located")
}

func TestReportCmd_Output(t *testing.T) {
	_, out, run := newTestApp(t)
	doc := writeTemp(t, "resume.txt", "I fixed teh build.")
	mistakes := writeTemp(t, "mistakes.json", mistakesJSON)
	dest := filepath.Join(t.TempDir(), "report.md")

	require.NoError(t, run("report", "-m", mistakes, "-o", dest, doc))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Corrections (1)")
}

func TestRenderMarkdown(t *testing.T) {
	got, err := renderMarkdown("# Grade: A\n\nGood work.\n", 40)
	require.NoError(t, err)
	plain := tuitest.StripANSI(got)
	assert.Contains(t, plain, "Grade: A")
	assert.Contains(t, plain, "Good work.")
}

func TestConfigValidateCmd_Valid(t *testing.T) {
	_, out, run := newTestApp(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, run("--config", path, "config", "validate", "--format", "json"))

	var got validateOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.Valid)
	assert.Equal(t, path, got.Path)
	assert.Empty(t, got.Errors)
}

func TestValidateConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme = "nope"
	cfg.Overlay.PanelFraction = 2
	cfg.Overlay.Margin = 0

	out := validateConfig(&cfg, "")
	assert.False(t, out.Valid)

	var fields []string
	for _, e := range out.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "theme")
	assert.Contains(t, fields, "overlay.panel_fraction")
	require.NotEmpty(t, out.Warnings)

	var buf bytes.Buffer
	writeValidateText(&buf, out)
	text := tuitest.StripANSI(buf.String())
	assert.Contains(t, text, "theme: unknown theme")
	assert.Contains(t, text, "Item: overlay.margin")
	assert.Contains(t, text, "error(s) found")
}

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	out := validateConfig(&cfg, "")
	assert.True(t, out.Valid)

	var buf bytes.Buffer
	writeValidateText(&buf, out)
	assert.Contains(t, tuitest.StripANSI(buf.String()), "Configuration is valid")
}

func TestProducerOpts(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Run("mistakes file", func(t *testing.T) {
		o := &producerOpts{mistakes: "m.json"}
		p, err := o.producer(context.Background(), &cfg)
		require.NoError(t, err)
		assert.Equal(t, &grader.FileProducer{Path: "m.json"}, p)
	})

	t.Run("missing api key", func(t *testing.T) {
		o := &producerOpts{}
		_, err := o.producer(context.Background(), &cfg)
		assert.ErrorIs(t, err, grader.ErrMissingAPIKey)
	})

	t.Run("unknown language flag", func(t *testing.T) {
		o := &producerOpts{apiKey: "key", language: "日本語"}
		_, err := o.producer(context.Background(), &cfg)
		assert.ErrorContains(t, err, `unsupported language "日本語"`)
	})
}

func TestCheckDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeTemp(t, "resume.pdf", "%PDF")

	assert.NoError(t, checkDocument(doc))
	assert.Error(t, checkDocument(""))
	assert.Error(t, checkDocument(filepath.Join(dir, "missing.txt")))
	assert.ErrorContains(t, checkDocument(dir), "is a directory")
	assert.ErrorIs(t, checkDocument(writeTemp(t, "photo.png", "x")), extract.ErrUnsupportedType)
}

func TestDocumentCandidates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"resume.pdf", "resume.png", "notes.md", ".hidden.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0o755))

	prefix := dir + string(filepath.Separator)
	got := documentCandidates(prefix)
	assert.ElementsMatch(t, []string{
		prefix + "resume.pdf",
		prefix + "notes.md",
		prefix + "drafts" + string(filepath.Separator),
	}, got)

	assert.Equal(t, []string{prefix + "resume.pdf"}, documentCandidates(prefix+"res"))
}

func TestWriteDoctorText(t *testing.T) {
	results := []doctor.Result{
		{Name: "Tools", Items: []doctor.CheckItem{
			{Label: "pdftotext", Status: doctor.StatusWarn, Detail: "not found"},
		}},
		{Name: "Gemini", Items: []doctor.CheckItem{
			{Label: "api key", Status: doctor.StatusPass},
		}},
	}

	var buf bytes.Buffer
	writeDoctorText(&buf, results)
	text := tuitest.StripANSI(buf.String())

	assert.Contains(t, text, "Redpen Doctor")
	assert.Contains(t, text, "● pdftotext not found")
	assert.Contains(t, text, "✔ api key")
	assert.Contains(t, text, "1 passed  1 warnings  0 failed")
}
