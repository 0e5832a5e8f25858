package domain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gdshadow.dev/pkg/gdshadow/internal/adapter"
	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// copyExample copies examples/<name> into a temp dir so it can be rewritten.
func copyExample(t *testing.T, name string) m.Path {
	t.Helper()

	src := filepath.Join("..", "..", "examples", name)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(target, content, 0o644)
	})
	if err != nil {
		t.Fatalf("copy example %s: %v", name, err)
	}

	return m.Path(dst)
}

func TestShadowedExampleIntegration(t *testing.T) {
	t.Run("report then fix keeps resource instances", func(t *testing.T) {
		root := copyExample(t, "shadowed")
		fs := adapter.NewLocalSourceFSAdapter()
		scanner := NewScanner(fs)
		ctx := context.Background()
		args := sampleScanArgs(root)

		index, err := scanner.BuildIndex(ctx, args)
		if err != nil {
			t.Fatalf("BuildIndex failed: %v", err)
		}

		for _, name := range []string{"Health", "Player", "Weapon"} {
			if _, ok := index.Lookup(name); !ok {
				t.Fatalf("expected %s in the symbol index", name)
			}
		}

		scan, err := scanner.Scan(ctx, args, index)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}

		summary := Summarize(index, scan)
		if summary.TotalMatches != 3 || summary.Removable != 2 || summary.Preserved != 1 {
			t.Fatalf("unexpected summary: %+v", summary)
		}

		result, err := NewFixer(fs, scanner).Fix(ctx, FixArgs{ScanArgs: args})
		if err != nil {
			t.Fatalf("Fix failed: %v", err)
		}

		if result.TotalRemoved() != 2 {
			t.Fatalf("expected 2 removals, got %d", result.TotalRemoved())
		}

		player := readProjectFile(t, root, "scripts/player.gd")
		if strings.Contains(player, `const Health := preload`) {
			t.Errorf("script preload was not removed:\n%s", player)
		}

		if !strings.Contains(player, `const Weapon := preload("res://resources/weapon.tres")`) {
			t.Errorf("resource preload must be kept:\n%s", player)
		}

		test := readProjectFile(t, root, "tests/test_player.gd")
		if strings.Contains(test, `const Player := preload`) {
			t.Errorf("script preload was not removed:\n%s", test)
		}

		if !strings.Contains(test, "const Health = preload(\"res://scripts/health.gd\")\r\n") {
			t.Errorf("non-walrus declaration must be kept with its CRLF ending:\n%s", test)
		}

		if !strings.Contains(test, "\tconst Weapon := preload") {
			t.Errorf("indented declaration must be kept:\n%s", test)
		}
	})
}
