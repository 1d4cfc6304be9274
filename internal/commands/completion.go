package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/redpen/internal/core/extract"
)

// DocumentCompleter returns a ShellCompleteFunc that suggests directories and
// documents redpen can extract as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func DocumentCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		prefix := ""
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if strings.HasPrefix(last, "-") {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
			prefix = last
		}

		w := cmd.Root().Writer
		for _, name := range documentCandidates(prefix) {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}

// documentCandidates lists the directories and supported documents in the
// directory named by prefix whose names start with its base.
func documentCandidates(prefix string) []string {
	dir, base := filepath.Split(prefix)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}

	registry := extract.NewRegistry(nil)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) || strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case e.IsDir():
			out = append(out, dir+name+string(filepath.Separator))
		case registry.Supports(name):
			out = append(out, dir+name)
		}
	}
	return out
}
