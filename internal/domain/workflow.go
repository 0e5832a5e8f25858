package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	"gdshadow.dev/pkg/gdshadow/internal/controller"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

var (
	// ErrShadowsFound is returned by Report when FailOnMatch is set and the
	// scan found at least one match.
	ErrShadowsFound = errors.New("shadowed const preloads found")
	// ErrPartialFailure is returned when some files could not be read or written.
	ErrPartialFailure = errors.New("some files failed")
)

// ReportArgs contains the arguments of the report command.
type ReportArgs struct {
	ScanArgs
	Format      controller.Format
	FailOnMatch bool
	Interactive bool
}

// FixRunArgs contains the arguments of the fix command.
type FixRunArgs struct {
	FixArgs
	Format controller.Format
}

// RestoreRunArgs contains the arguments of the restore command.
type RestoreRunArgs struct {
	RestoreArgs
	Format controller.Format
}

// WatchArgs contains the arguments of report in watch mode.
type WatchArgs struct {
	ReportArgs
	Debounce time.Duration
}

// Workflow runs the commands end to end: scan, act and display.
type Workflow interface {
	Report(ctx context.Context, args ReportArgs) error
	Fix(ctx context.Context, args FixRunArgs) error
	Restore(ctx context.Context, args RestoreRunArgs) error
	Watch(ctx context.Context, args WatchArgs) error
}

type workflow struct {
	adapter.WatchAdapter
	controller.UI
	Scanner
	Fixer
	Restorer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	watcher adapter.WatchAdapter,
	ui controller.UI,
	scanner Scanner,
	fixer Fixer,
	restorer Restorer,
) Workflow {
	return &workflow{
		WatchAdapter: watcher,
		UI:           ui,
		Scanner:      scanner,
		Fixer:        fixer,
		Restorer:     restorer,
	}
}

// Report scans the project and displays the summary. It never writes files.
func (w *workflow) Report(ctx context.Context, args ReportArgs) error {
	if err := w.Start(ctx, reportOptions(args)...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	summary, err := w.summarize(ctx, args.ScanArgs)
	if err != nil {
		return err
	}

	if err := w.DisplayReport(ctx, summary); err != nil {
		return fmt.Errorf("display report: %w", err)
	}

	if len(summary.Failures) > 0 {
		return fmt.Errorf("%w: %d file(s) could not be read", ErrPartialFailure, len(summary.Failures))
	}

	if args.FailOnMatch && summary.TotalMatches > 0 {
		return fmt.Errorf("%w: %d match(es)", ErrShadowsFound, summary.TotalMatches)
	}

	return nil
}

// Fix removes (or previews the removal of) redundant declarations.
func (w *workflow) Fix(ctx context.Context, args FixRunArgs) error {
	if err := w.Start(ctx, controller.WithFormat(args.Format)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	result, err := w.Fixer.Fix(ctx, args.FixArgs)
	if err != nil {
		slog.Error("Fix failed", "error", err)
		return fmt.Errorf("fix: %w", err)
	}

	if err := w.DisplayFix(ctx, result); err != nil {
		return fmt.Errorf("display fix: %w", err)
	}

	if len(result.Failures) > 0 {
		return fmt.Errorf("%w: %d file(s) could not be fixed", ErrPartialFailure, len(result.Failures))
	}

	return nil
}

// Restore lists preserved-kind declarations removed by the given revision.
func (w *workflow) Restore(ctx context.Context, args RestoreRunArgs) error {
	if err := w.Start(ctx, controller.WithFormat(args.Format)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	candidates, err := w.FindIncorrectlyRemoved(ctx, args.RestoreArgs)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	ref := args.Ref
	if ref == "" {
		ref = DefaultRestoreRef
	}

	if err := w.DisplayRestore(ctx, ref, candidates); err != nil {
		return fmt.Errorf("display restore: %w", err)
	}

	return nil
}

// Watch reports once, then again after every debounced batch of changes
// under the scan dirs, until ctx is done.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	args.Interactive = false

	if err := w.Start(ctx, reportOptions(args.ReportArgs)...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	dirs, _, err := w.ResolveDirs(ctx, args.SourceArgs)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		return fmt.Errorf("watch: no scan directory exists under %s", args.Root)
	}

	w.reportOnce(ctx, args.ScanArgs)

	slog.Info("watching for changes", "dirs", len(dirs), "debounce", args.Debounce)

	err = w.WatchAdapter.Watch(ctx, dirs, args.Debounce, func(changed []m.Path) {
		w.DisplayWatchEvent(ctx, changed)
		w.reportOnce(ctx, args.ScanArgs)
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

func (w *workflow) reportOnce(ctx context.Context, args ScanArgs) {
	summary, err := w.summarize(ctx, args)
	if err != nil {
		slog.Error("rescan failed", "error", err)
		return
	}

	if err := w.DisplayReport(ctx, summary); err != nil {
		slog.Error("display failed", "error", err)
	}
}

func (w *workflow) summarize(ctx context.Context, args ScanArgs) (m.Summary, error) {
	index, err := w.BuildIndex(ctx, args)
	if err != nil {
		slog.Error("Failed to build symbol index", "error", err)
		return m.Summary{}, fmt.Errorf("build symbol index: %w", err)
	}

	scan, err := w.Scan(ctx, args, index)
	if err != nil {
		slog.Error("Failed to scan sources", "error", err)
		return m.Summary{}, fmt.Errorf("scan: %w", err)
	}

	return Summarize(index, scan), nil
}

func reportOptions(args ReportArgs) []controller.StartOption {
	options := []controller.StartOption{controller.WithFormat(args.Format)}
	if args.Interactive {
		options = append(options, controller.WithInteractive())
	}

	return options
}
