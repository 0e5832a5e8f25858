// Package controller renders scan, fix and restore results for the CLI.
package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// Format selects how results are printed.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("unknown output format %q (want text or yaml)", value)
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	format      Format
	interactive bool
}

// WithFormat sets the output format.
func WithFormat(format Format) StartOption {
	return func(c *StartConfig) {
		c.format = format
	}
}

// WithInteractive asks for a scrollable pager when the terminal allows it.
func WithInteractive() StartOption {
	return func(c *StartConfig) {
		c.interactive = true
	}
}

// UI defines how results reach the operator.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayReport(ctx context.Context, summary m.Summary) error
	DisplayFix(ctx context.Context, result m.FixResult) error
	DisplayRestore(ctx context.Context, ref string, candidates []m.RestoreCandidate) error
	DisplayWatchEvent(ctx context.Context, changed []m.Path)
}

// NewUI returns a TUI when stdout is a terminal, a SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(f.Fd())
}
