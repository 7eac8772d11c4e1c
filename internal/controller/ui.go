// Package controller provides output adapters for displaying patch results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeApply StartMode = iota
	ModePlan
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithApplyMode sets the UI to apply mode.
func WithApplyMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeApply
	}
}

// WithPlanMode sets the UI to dry-run mode, where diffs are always shown.
func WithPlanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModePlan
	}
}

// UI displays patch progress and results.
// Implementations must be safe for concurrent use by workflow workers.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayFileResult(ctx context.Context, result m.FileResult)
	DisplaySummary(ctx context.Context, results []m.FileResult)
	// Confirm shows diff and asks whether it should be written to target.
	Confirm(ctx context.Context, target m.Path, diff string) (bool, error)
}

// NewUI returns the interactive TUI for terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
