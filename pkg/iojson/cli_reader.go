package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads a JSON value from the file named by its flag, or from
// stdin when the flag is unset and stdin is not a terminal.
type FileReader[T any] struct {
	// Name and Aliases override the flag name ("file", "f").
	Name    string
	Aliases []string
	Usage   string

	// Decode overrides json.Unmarshal for formats that accept more than one
	// shape.
	Decode func([]byte) (T, error)

	fileFlagValue string
	stdin         io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	name, aliases, usage := "file", []string{"f"}, "path to JSON file (reads from stdin if not provided)"
	if fr.Name != "" {
		name, aliases = fr.Name, fr.Aliases
	}
	if fr.Usage != "" {
		usage = fr.Usage
	}
	return &cli.StringFlag{
		Name:        name,
		Aliases:     aliases,
		Usage:       usage,
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the flag value.
func (fr *FileReader[T]) Path() string {
	return fr.fileFlagValue
}

// SetPath sets the file path directly, bypassing the flag.
func (fr *FileReader[T]) SetPath(path string) {
	fr.fileFlagValue = path
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	switch {
	case fr.fileFlagValue != "":
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	case fr.stdin != nil:
		reader = fr.stdin
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use -%s flag or pipe JSON input", fr.Flag().Name)
		}
		reader = os.Stdin
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return input, fmt.Errorf("read input: %w", err)
	}

	if fr.Decode != nil {
		input, err = fr.Decode(data)
		if err != nil {
			return input, fmt.Errorf("decode JSON: %w", err)
		}
		return input, nil
	}

	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
