package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gdshadow.dev/pkg/gdshadow/internal/domain"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

func TestFixCmd_DryRun(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newFixCmd())

	mockWorkflow.On("Fix", mock.Anything, mock.MatchedBy(func(args domain.FixRunArgs) bool {
		return args.DryRun &&
			args.WithDiff &&
			args.Root == m.Path("/game") &&
			len(args.Exclude) == 1 && args.Exclude[0] == `_test\.gd$`
	})).Return(nil)

	cmd.SetArgs(append([]string{"fix", "--root", "/game", "-n", "--diff", "-x", `_test\.gd$`}, logArgs(t)...))
	require.NoError(t, cmd.Execute())
}

func TestFixCmd_Live(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newFixCmd())

	mockWorkflow.On("Fix", mock.Anything, mock.MatchedBy(func(args domain.FixRunArgs) bool {
		return !args.DryRun && !args.WithDiff && args.Classifier.IsRemovable(m.KindResourceInstance)
	})).Return(domain.ErrPartialFailure)

	cmd.SetArgs(append([]string{"fix", "--root", "/game", "--removable", "script", "--removable", "resource-instance"}, logArgs(t)...))
	err := cmd.Execute()
	assert.ErrorIs(t, err, domain.ErrPartialFailure)
}

func TestFixCmd_EndToEnd(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "foo.gd"), []byte("class_name Foo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "main.gd"), []byte(
		"extends Node\nconst Foo := preload(\"res://scripts/foo.gd\")\nconst Foo2 := preload(\"res://foo.tres\")\n"), 0o644))

	cmd := newTestRootCmd(newFixCmd())

	cmd.SetArgs(append([]string{"fix", "--root", root, "--dir", "scripts/"}, logArgs(t)...))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(scripts, "main.gd"))
	require.NoError(t, err)
	assert.Equal(t, "extends Node\nconst Foo2 := preload(\"res://foo.tres\")\n", string(content))
}
