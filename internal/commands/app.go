package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewApp builds the root command with its global flags and subcommands.
// Grading is the default action. Lifecycle hooks are left to the caller.
func NewApp(flags *Flags, version string) *cli.Command {
	app := &cli.Command{
		Name:      "redpen",
		Usage:     "Mark up a resume with corrections in the terminal",
		UsageText: "redpen [global options] [command] [command options] [file]",
		Description: `Redpen grades a resume and shows every correction in place. Each mistake is
highlighted in the document; open one to see the suggested fix and why.

Run 'redpen <file>' to grade a document interactively.
Run 'redpen report <file>' for a Markdown report instead.`,
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("REDPEN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("REDPEN_LOG_FILE"),
				Value:       DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("REDPEN_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("REDPEN_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	gradeCmd := NewGradeCmd(flags)

	app = gradeCmd.Register(app)
	app = NewReportCmd(flags).Register(app)
	app = NewAnnotateCmd(flags).Register(app)
	app = NewExtractCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)
	app = NewDoctorCmd(flags).Register(app)

	for _, c := range app.Commands {
		if c.Name != "config" && c.Name != "doctor" {
			c.ShellComplete = DocumentCompleter()
		}
	}

	// Register grade flags on root command
	app.Flags = append(app.Flags, gradeCmd.Flags()...)
	app.ShellComplete = DocumentCompleter()

	// Set grading as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 1 {
			return fmt.Errorf("expected one document, got %d arguments. Run 'redpen --help' for usage", c.Args().Len())
		}
		return gradeCmd.Run(ctx, c)
	}

	return app
}
