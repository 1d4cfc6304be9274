package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/tui"
	"github.com/colonyops/redpen/pkg/profiler"
	"github.com/colonyops/redpen/pkg/utils"
)

// noticeLimit caps the notices held back while the TUI owns the terminal.
const noticeLimit = 64 << 10

type GradeCmd struct {
	flags    *Flags
	producer producerOpts
	watch    bool
}

// NewGradeCmd creates a new grade command
func NewGradeCmd(flags *Flags) *GradeCmd {
	return &GradeCmd{flags: flags}
}

// Flags returns the grade flags for registration on the root command, where
// grading is the default action.
func (cmd *GradeCmd) Flags() []cli.Flag {
	return append(cmd.producer.flags(),
		&cli.BoolFlag{
			Name:        "watch",
			Aliases:     []string{"w"},
			Usage:       "re-grade when the document or mistakes file changes",
			Sources:     cli.EnvVars("REDPEN_WATCH"),
			Destination: &cmd.watch,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("REDPEN_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	)
}

// Register adds the grade command to the application.
func (cmd *GradeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "grade",
		Usage:     "Grade a resume interactively",
		UsageText: "redpen grade [options] [file]",
		Description: `Extracts the document text, asks Gemini (or reads --mistakes) for a list of
mistakes and opens the marked-up document.

Use tab/shift+tab to move between marks, enter to open one, esc to close it,
i for the summary and q to quit. When no file is given you are prompted for one.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})
	return app
}

// Run executes the grader TUI. Exported for use as default command.
func (cmd *GradeCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *GradeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	path := c.Args().First()
	if path == "" {
		p, err := promptDocument()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("prompt: %w", err)
		}
		path = p
	} else if err := checkDocument(path); err != nil {
		return err
	}

	svc, err := newService(ctx, cfg, &cmd.producer)
	if err != nil {
		return err
	}

	// Anything printed while the TUI is up would corrupt the screen, so
	// notices are held and printed on exit.
	notices := &utils.DeferredWriter{Limit: noticeLimit}
	defer func() {
		if err := notices.Flush(c.Root().ErrWriter); err != nil {
			log.Error().Err(err).Msg("failed to flush notices")
		}
	}()

	for _, w := range cfg.Warnings() {
		_, _ = fmt.Fprintf(notices, "config: %s: %s\n", w.Item, w.Message)
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	opts := tui.Options{
		Path:     path,
		Grader:   svc,
		Geometry: cfg.Geometry(),
	}

	if cmd.watch {
		watcher, err := tui.NewInputWatcher(cfg.Watch.Debounce, path, cmd.producer.mistakes)
		if err != nil {
			log.Warn().Err(err).Msg("input watcher unavailable")
			_, _ = fmt.Fprintf(notices, "watch disabled: %v\n", err)
		} else {
			defer func() { _ = watcher.Close() }()
			opts.Watcher = watcher
		}
	}

	p := tea.NewProgram(tui.New(ctx, opts))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if m, ok := finalModel.(tui.Model); ok && m.Err() != nil {
		_, _ = fmt.Fprintf(notices, "last attempt failed: %v\n", m.Err())
	}
	return nil
}
