package doctor

import (
	"context"
	"os/exec"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that the external extractors are available on $PATH.
type ToolsCheck struct{}

// NewToolsCheck creates a new tools check.
func NewToolsCheck() *ToolsCheck {
	return &ToolsCheck{}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// pdftotext is only needed for PDF documents
	if path, err := lookPathFunc("pdftotext"); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "pdftotext",
			Status: StatusWarn,
			Detail: "not found on PATH (install poppler to grade PDF files)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "pdftotext",
			Status: StatusPass,
			Detail: path,
		})
	}

	return result
}
