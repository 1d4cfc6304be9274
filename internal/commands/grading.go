package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/core/config"
	"github.com/colonyops/redpen/internal/core/extract"
	"github.com/colonyops/redpen/internal/grader"
	"github.com/colonyops/redpen/pkg/executil"
)

// producerOpts are the flags that pick and configure the mistake producer.
// They are shared by every command that grades a document.
type producerOpts struct {
	mistakes string
	apiKey   string
	model    string
	language string
}

func (o *producerOpts) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mistakes",
			Aliases:     []string{"m"},
			Usage:       "read mistakes from a JSON file instead of calling Gemini",
			Destination: &o.mistakes,
		},
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY", "REDPEN_GEMINI_API_KEY"),
			Destination: &o.apiKey,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Gemini model (defaults to gemini.model from config)",
			Sources:     cli.EnvVars("REDPEN_MODEL"),
			Destination: &o.model,
		},
		&cli.StringFlag{
			Name:        "language",
			Usage:       "feedback language (" + strings.Join(config.Languages, ", ") + ")",
			Sources:     cli.EnvVars("REDPEN_LANGUAGE"),
			Destination: &o.language,
		},
	}
}

// producer builds the file producer when --mistakes is set and the Gemini
// producer otherwise.
func (o *producerOpts) producer(ctx context.Context, cfg *config.Config) (grader.Producer, error) {
	if o.mistakes != "" {
		return &grader.FileProducer{Path: o.mistakes}, nil
	}

	model := cfg.Gemini.Model
	if o.model != "" {
		model = o.model
	}
	language := cfg.Gemini.Language
	if o.language != "" {
		language = strings.ToLower(strings.TrimSpace(o.language))
		if err := config.ValidateLanguage(language); err != nil {
			return nil, fmt.Errorf("--language: %w", err)
		}
	}

	p, err := grader.NewGeminiProducer(ctx, o.apiKey, model, language)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// newService wires the extractor registry and the chosen producer into a
// grading service.
func newService(ctx context.Context, cfg *config.Config, opts *producerOpts) (*grader.Service, error) {
	p, err := opts.producer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := extract.NewRegistry(&executil.RealExecutor{})
	return grader.New(registry, p, grader.WithTimeout(cfg.Gemini.Timeout)), nil
}

// documentArg returns the document path from the first argument.
func documentArg(c *cli.Command) (string, error) {
	path := c.Args().First()
	if path == "" {
		return "", errors.New("a document path is required")
	}
	if err := checkDocument(path); err != nil {
		return "", err
	}
	return path, nil
}

// promptDocument asks for a document path when none was given on the
// command line.
func promptDocument() (string, error) {
	var path string
	err := huh.NewInput().
		Title("Resume to grade").
		Description("PDF, DOCX, DOC, TXT or MD").
		Placeholder("~/Documents/resume.pdf").
		Validate(checkDocument).
		Value(&path).
		WithTheme(huh.ThemeCharm()).
		Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func checkDocument(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if !extract.NewRegistry(nil).Supports(path) {
		return extract.ErrUnsupportedType
	}
	return nil
}
