package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/core/config"
	"github.com/colonyops/redpen/internal/core/styles"
	"github.com/colonyops/redpen/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "redpen config validate [options]",
				Description: "Validates the configuration file, checking the theme, language, durations and overlay geometry.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateOutput struct {
	Valid    bool                       `json:"valid"`
	Path     string                     `json:"path"`
	Errors   []fieldIssue               `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	out := validateConfig(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
			return err
		}
	} else {
		writeValidateText(c.Root().Writer, out)
	}

	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func validateConfig(cfg *config.Config, path string) validateOutput {
	out := validateOutput{
		Valid:    true,
		Path:     path,
		Warnings: cfg.Warnings(),
	}

	err := cfg.ValidateDeep(path)
	if err == nil {
		return out
	}

	out.Valid = false
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out.Errors = append(out.Errors, fieldIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
		return out
	}
	out.Errors = append(out.Errors, fieldIssue{Message: err.Error()})
	return out
}

func writeValidateText(w io.Writer, out validateOutput) {
	_, _ = fmt.Fprintln(w, styles.MutedStyle.Render(out.Path))

	for _, warn := range out.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.WarningStyle.Render("!"), warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range out.Errors {
		if e.Field != "" {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.ErrorStyle.Render("✗"), e.Field, e.Message)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.ErrorStyle.Render("✗"), e.Message)
	}

	_, _ = fmt.Fprintln(w)
	if out.Valid {
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("✓ Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(out.Errors))))
}
