package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rivo/uniseg"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/core/extract"
	"github.com/colonyops/redpen/pkg/executil"
	"github.com/colonyops/redpen/pkg/iojson"
)

type ExtractCmd struct {
	flags  *Flags
	asJSON bool
}

// NewExtractCmd creates a new extract command
func NewExtractCmd(flags *Flags) *ExtractCmd {
	return &ExtractCmd{flags: flags}
}

// Register adds the extract command to the application.
func (cmd *ExtractCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "extract",
		Usage:     "Print the text extracted from a document",
		UsageText: "redpen extract [--json] <file>",
		Description: `Prints the text redpen grades. PDF files need pdftotext (poppler) on PATH.
Supported types: PDF, DOCX, DOC (plain text only), TXT and MD.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the text with its metadata as JSON",
				Destination: &cmd.asJSON,
			},
		},
		Action: cmd.run,
	})
	return app
}

type extractOutput struct {
	Path      string `json:"path"`
	Text      string `json:"text"`
	Bytes     int    `json:"bytes"`
	Graphemes int    `json:"graphemes"`
}

func (cmd *ExtractCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := documentArg(c)
	if err != nil {
		return err
	}

	text, err := extract.NewRegistry(&executil.RealExecutor{}).Text(ctx, path)
	if err != nil {
		return err
	}

	if cmd.asJSON {
		abs, _ := filepath.Abs(path)
		return iojson.WriteWith(c.Root().Writer, os.Stderr, extractOutput{
			Path:      abs,
			Text:      text,
			Bytes:     len(text),
			Graphemes: uniseg.GraphemeClusterCount(text),
		})
	}

	_, err = fmt.Fprintln(c.Root().Writer, text)
	return err
}
