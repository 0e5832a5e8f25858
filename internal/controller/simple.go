package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// SimpleUI implements UI by printing to the cobra command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, config: StartConfig{format: FormatText}}
}

// Start applies the options for the next displays.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{format: FormatText}
	for _, option := range options {
		option(&config)
	}

	s.config = config

	return nil
}

// Close finalizes the UI. Output is unbuffered, so there is nothing to flush.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayReport prints the scan summary.
func (s *SimpleUI) DisplayReport(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.config.format == FormatYAML {
		return s.printYAML(summary)
	}

	return s.printf("%s", renderReport(summary))
}

// DisplayFix prints the removals of a fix pass.
func (s *SimpleUI) DisplayFix(ctx context.Context, result m.FixResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.config.format == FormatYAML {
		return s.printYAML(newFixView(result))
	}

	return s.printf("%s", renderFix(result))
}

// DisplayRestore prints the restore candidates found in ref.
func (s *SimpleUI) DisplayRestore(ctx context.Context, ref string, candidates []m.RestoreCandidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.config.format == FormatYAML {
		if candidates == nil {
			candidates = []m.RestoreCandidate{}
		}

		return s.printYAML(restoreView{Ref: ref, Candidates: candidates})
	}

	return s.printf("%s", renderRestore(ref, candidates))
}

// DisplayWatchEvent announces a rescan triggered by file changes.
func (s *SimpleUI) DisplayWatchEvent(ctx context.Context, changed []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	names := make([]string, 0, len(changed))
	for _, path := range changed {
		names = append(names, string(path))
	}

	_ = s.printf("\n%s\n", faintStyle.Render(fmt.Sprintf("Change detected (%d): %s", len(changed), strings.Join(names, ", "))))
}

func (s *SimpleUI) printYAML(value any) error {
	out, err := encodeYAML(value)
	if err != nil {
		return err
	}

	return s.printf("%s", out)
}

// printf writes formatted output to the underlying cobra command's stdout.
func (s *SimpleUI) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
	return err
}
