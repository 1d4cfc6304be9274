package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/extract"
	"github.com/colonyops/redpen/internal/core/mistake"
	"github.com/colonyops/redpen/pkg/executil"
	"github.com/colonyops/redpen/pkg/iojson"
)

type AnnotateCmd struct {
	flags    *Flags
	mistakes iojson.FileReader[*mistake.Analysis]
	text     string
}

// NewAnnotateCmd creates a new annotate command
func NewAnnotateCmd(flags *Flags) *AnnotateCmd {
	return &AnnotateCmd{
		flags: flags,
		mistakes: iojson.FileReader[*mistake.Analysis]{
			Usage:  "path to mistakes JSON, an analysis object or a bare array (reads from stdin if not provided)",
			Decode: mistake.Decode,
		},
	}
}

// Register adds the annotate command to the application.
func (cmd *AnnotateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "annotate",
		Usage:     "Match mistakes against a document and print the segments",
		UsageText: "redpen annotate -f mistakes.json <file>",
		Description: `Partitions the document text into plain and annotated segments. Each mistake
marks the first occurrence of its original text that is not already marked.
Mistakes that cannot be located are dropped and counted in the stats.`,
		Flags: []cli.Flag{
			cmd.mistakes.Flag(),
			&cli.StringFlag{
				Name:        "text",
				Usage:       "annotate this text instead of a file",
				Destination: &cmd.text,
			},
		},
		Action: cmd.run,
	})
	return app
}

type segmentOutput struct {
	Text    string          `json:"text"`
	Ordinal int             `json:"ordinal"`
	Start   int             `json:"start"`
	End     int             `json:"end"`
	Mistake *mistake.Record `json:"mistake,omitempty"`
}

type statsOutput struct {
	Matched   int `json:"matched"`
	Dropped   int `json:"dropped"`
	Malformed int `json:"malformed"`
}

type annotateOutput struct {
	Segments []segmentOutput `json:"segments"`
	Stats    statsOutput     `json:"stats"`
}

func (cmd *AnnotateCmd) run(ctx context.Context, c *cli.Command) error {
	text := cmd.text
	if text == "" {
		path, err := documentArg(c)
		if err != nil {
			return err
		}
		text, err = extract.NewRegistry(&executil.RealExecutor{}).Text(ctx, path)
		if err != nil {
			return err
		}
	}

	analysis, err := cmd.mistakes.Read()
	if err != nil {
		return err
	}

	segs, stats := annotate.AnnotateWithStats(text, analysis.Mistakes)
	log.Debug().
		Int("matched", stats.Matched).
		Int("dropped", stats.Dropped).
		Int("malformed", stats.Malformed).
		Msg("annotated")

	return iojson.WriteWith(c.Root().Writer, os.Stderr, annotateResult(segs, stats))
}

func annotateResult(segs []annotate.Segment, stats annotate.Stats) annotateOutput {
	out := annotateOutput{
		Segments: make([]segmentOutput, len(segs)),
		Stats: statsOutput{
			Matched:   stats.Matched,
			Dropped:   stats.Dropped,
			Malformed: stats.Malformed,
		},
	}
	for i, s := range segs {
		out.Segments[i] = segmentOutput{
			Text:    s.Text,
			Ordinal: s.Ordinal,
			Start:   s.Start,
			End:     s.End,
			Mistake: s.Mistake,
		}
	}
	return out
}
