package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	"gdshadow.dev/pkg/gdshadow/internal/controller"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

type recordingUI struct {
	options    []controller.StartOption
	closed     bool
	summaries  []m.Summary
	fixes      []m.FixResult
	restoreRef string
	candidates []m.RestoreCandidate
	events     [][]m.Path
}

func (u *recordingUI) Start(_ context.Context, options ...controller.StartOption) error {
	u.options = options
	return nil
}

func (u *recordingUI) Close(_ context.Context) {
	u.closed = true
}

func (u *recordingUI) DisplayReport(_ context.Context, summary m.Summary) error {
	u.summaries = append(u.summaries, summary)
	return nil
}

func (u *recordingUI) DisplayFix(_ context.Context, result m.FixResult) error {
	u.fixes = append(u.fixes, result)
	return nil
}

func (u *recordingUI) DisplayRestore(_ context.Context, ref string, candidates []m.RestoreCandidate) error {
	u.restoreRef = ref
	u.candidates = candidates

	return nil
}

func (u *recordingUI) DisplayWatchEvent(_ context.Context, changed []m.Path) {
	u.events = append(u.events, changed)
}

// scriptedWatcher fires each batch once, then returns.
type scriptedWatcher struct {
	batches  [][]m.Path
	gotRoots []m.Path
	gotDelay time.Duration
}

func (w *scriptedWatcher) Watch(_ context.Context, roots []m.Path, debounce time.Duration, onChange func([]m.Path)) error {
	w.gotRoots = roots
	w.gotDelay = debounce

	for _, batch := range w.batches {
		onChange(batch)
	}

	return nil
}

func newTestWorkflow(ui controller.UI, git adapter.GitAdapter, watcher adapter.WatchAdapter) Workflow {
	fs := adapter.NewLocalSourceFSAdapter()
	scanner := NewScanner(fs)

	return NewWorkflow(watcher, ui, scanner, NewFixer(fs, scanner), NewRestorer(git))
}

func TestWorkflow_Report(t *testing.T) {
	root := sampleProject(t)
	ui := &recordingUI{}
	wf := newTestWorkflow(ui, &fakeGitAdapter{}, &scriptedWatcher{})

	err := wf.Report(context.Background(), ReportArgs{ScanArgs: sampleScanArgs(root), Format: controller.FormatYAML})
	require.NoError(t, err)

	assert.True(t, ui.closed)
	assert.Len(t, ui.options, 1)
	require.Len(t, ui.summaries, 1)
	assert.Equal(t, 2, ui.summaries[0].TotalMatches)
	assert.Equal(t, 1, ui.summaries[0].Removable)
	assert.Equal(t, mainScript, readProjectFile(t, root, "scripts/main.gd"))
}

func TestWorkflow_ReportFailOnMatch(t *testing.T) {
	root := sampleProject(t)
	wf := newTestWorkflow(&recordingUI{}, &fakeGitAdapter{}, &scriptedWatcher{})

	err := wf.Report(context.Background(), ReportArgs{ScanArgs: sampleScanArgs(root), FailOnMatch: true, Interactive: true})
	assert.ErrorIs(t, err, ErrShadowsFound)

	clean := writeProject(t, map[string]string{"scripts/a.gd": "class_name A\n"})
	err = wf.Report(context.Background(), ReportArgs{ScanArgs: sampleScanArgs(clean), FailOnMatch: true})
	assert.NoError(t, err)
}

func TestWorkflow_ReportInvalidRoot(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui, &fakeGitAdapter{}, &scriptedWatcher{})

	err := wf.Report(context.Background(), ReportArgs{ScanArgs: sampleScanArgs(m.Path(t.TempDir() + "/missing"))})
	assert.ErrorIs(t, err, ErrInvalidRoot)
	assert.Empty(t, ui.summaries)
	assert.True(t, ui.closed)
}

func TestWorkflow_Fix(t *testing.T) {
	root := sampleProject(t)
	ui := &recordingUI{}
	wf := newTestWorkflow(ui, &fakeGitAdapter{}, &scriptedWatcher{})

	err := wf.Fix(context.Background(), FixRunArgs{FixArgs: FixArgs{ScanArgs: sampleScanArgs(root), DryRun: true}})
	require.NoError(t, err)

	require.Len(t, ui.fixes, 1)
	assert.True(t, ui.fixes[0].DryRun)
	assert.Equal(t, 1, ui.fixes[0].TotalRemoved())
	assert.Equal(t, mainScript, readProjectFile(t, root, "scripts/main.gd"))
}

func TestWorkflow_FixPartialFailure(t *testing.T) {
	root := sampleProject(t)
	fs := newFaultyFS()
	fs.failWrite[projectPath(root, "scripts/main.gd")] = true

	ui := &recordingUI{}
	scanner := NewScanner(fs)
	wf := NewWorkflow(&scriptedWatcher{}, ui, scanner, NewFixer(fs, scanner), NewRestorer(&fakeGitAdapter{}))

	err := wf.Fix(context.Background(), FixRunArgs{FixArgs: FixArgs{ScanArgs: sampleScanArgs(root)}})
	assert.ErrorIs(t, err, ErrPartialFailure)
	require.Len(t, ui.fixes, 1)
	assert.Len(t, ui.fixes[0].Failures, 1)
}

func TestWorkflow_Restore(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui, &fakeGitAdapter{text: removalCommitDiff}, &scriptedWatcher{})

	err := wf.Restore(context.Background(), RestoreRunArgs{RestoreArgs: RestoreArgs{Root: "/project", Extension: ".gd"}})
	require.NoError(t, err)

	assert.Equal(t, DefaultRestoreRef, ui.restoreRef)
	require.Len(t, ui.candidates, 1)
	assert.Equal(t, 3, ui.candidates[0].Line)
}

func TestWorkflow_RestoreHistoryUnavailable(t *testing.T) {
	ui := &recordingUI{}
	wf := newTestWorkflow(ui, &fakeGitAdapter{err: errors.New("not a git repository")}, &scriptedWatcher{})

	err := wf.Restore(context.Background(), RestoreRunArgs{RestoreArgs: RestoreArgs{Root: "/project", Ref: "HEAD~1"}})
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
	assert.Empty(t, ui.restoreRef)
}

func TestWorkflow_Watch(t *testing.T) {
	root := sampleProject(t)
	ui := &recordingUI{}
	watcher := &scriptedWatcher{batches: [][]m.Path{{projectPath(root, "scripts/main.gd")}}}
	wf := newTestWorkflow(ui, &fakeGitAdapter{}, watcher)

	err := wf.Watch(context.Background(), WatchArgs{
		ReportArgs: ReportArgs{ScanArgs: sampleScanArgs(root), FailOnMatch: true},
		Debounce:   time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, []m.Path{projectPath(root, "scripts")}, watcher.gotRoots)
	assert.Equal(t, time.Second, watcher.gotDelay)
	assert.Len(t, ui.summaries, 2)
	assert.Len(t, ui.events, 1)
}

func TestWorkflow_WatchWithoutDirs(t *testing.T) {
	root := writeProject(t, map[string]string{"other/a.gd": ""})
	wf := newTestWorkflow(&recordingUI{}, &fakeGitAdapter{}, &scriptedWatcher{})

	err := wf.Watch(context.Background(), WatchArgs{ReportArgs: ReportArgs{ScanArgs: sampleScanArgs(root)}})
	assert.Error(t, err)
}
