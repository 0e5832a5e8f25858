package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

func TestFSNotifyWatchAdapter_Watch(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	adapter := NewFSNotifyWatchAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []m.Path, 4)
	done := make(chan error, 1)

	go func() {
		done <- adapter.Watch(ctx, []m.Path{m.Path(root)}, 20*time.Millisecond, func(changed []m.Path) {
			select {
			case batches <- changed:
			default:
			}
		})
	}()

	target := filepath.Join(root, "player.gd")

	deadline := time.After(5 * time.Second)

	var got []m.Path

	for got == nil {
		writeTestFile(t, target, "extends Node\n")

		select {
		case got = <-batches:
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatalf("no change batch received")
		}
	}

	if !containsPath(pathsToStrings(got), target) {
		t.Fatalf("batch %v does not contain %s", got, target)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Watch() did not return after cancel")
	}
}

func TestFSNotifyWatchAdapter_MissingRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	adapter := NewFSNotifyWatchAdapter()
	missing := filepath.Join(t.TempDir(), "missing")

	err := adapter.Watch(context.Background(), []m.Path{m.Path(missing)}, 0, func([]m.Path) {})
	if err == nil {
		t.Fatalf("Watch() expected error for missing root")
	}
}

func TestShouldIgnoreWatchPath(t *testing.T) {
	for path, want := range map[string]bool{
		"/p/scripts/player.gd":      false,
		"/p/scripts/.player.gd.swp": true,
		"/p/scripts/player.gd~":     true,
		"/p/scripts/.#player.gd":    true,
	} {
		if got := shouldIgnoreWatchPath(path); got != want {
			t.Errorf("shouldIgnoreWatchPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func pathsToStrings(paths []m.Path) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, string(p))
	}

	return out
}
