package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/redpen/internal/core/report"
	"github.com/colonyops/redpen/internal/core/styles"
	"github.com/colonyops/redpen/internal/grader"
)

const defaultWrap = 80

type ReportCmd struct {
	flags    *Flags
	producer producerOpts
	raw      bool
	output   string
}

// NewReportCmd creates a new report command
func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

// Register adds the report command to the application.
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Grade a document and print a Markdown feedback report",
		UsageText: "redpen report [options] <file>",
		Description: `Runs the same grading as the interactive view and prints the result as
Markdown. The report is rendered for the terminal unless --raw is set or
output is not a terminal.`,
		Flags: append(cmd.producer.flags(),
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print Markdown without terminal rendering",
				Destination: &cmd.raw,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the Markdown report to a file",
				Destination: &cmd.output,
			},
		),
		Action: cmd.run,
	})
	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := documentArg(c)
	if err != nil {
		return err
	}

	svc, err := newService(ctx, cmd.flags.Config, &cmd.producer)
	if err != nil {
		return err
	}

	res, err := svc.Grade(ctx, grader.Request{Path: path})
	if err != nil {
		return err
	}

	md := report.Generate(filepath.Base(path), res.Analysis, res.Segments)

	if cmd.output != "" {
		if err := os.WriteFile(cmd.output, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	w := c.Root().Writer
	if cmd.raw || !isTerminal(os.Stdout) {
		_, err := fmt.Fprint(w, md)
		return err
	}

	out, err := renderMarkdown(md, cmd.wrapWidth())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// wrapWidth prefers report.word_wrap, then the terminal width.
func (cmd *ReportCmd) wrapWidth() int {
	if w := cmd.flags.Config.Report.WordWrap; w > 0 {
		return w
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWrap
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
