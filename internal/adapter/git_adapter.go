package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

// GitAdapter abstracts version-control history lookups.
type GitAdapter interface {
	// Show returns the unified diff introduced by a single commit.
	Show(ctx context.Context, root m.Path, ref string) (string, error)
}

// LocalGitAdapter shells out to the git binary.
type LocalGitAdapter struct {
	binary  string
	timeout time.Duration
}

// NewLocalGitAdapter constructs a LocalGitAdapter with a default 30s timeout.
func NewLocalGitAdapter() *LocalGitAdapter {
	return &LocalGitAdapter{
		binary:  "git",
		timeout: 30 * time.Second,
	}
}

// Show runs `git show` for ref inside root without commit headers or colors.
// Merge commits are diffed against their first parent.
func (a *LocalGitAdapter) Show(ctx context.Context, root m.Path, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty revision")
	}

	if strings.HasPrefix(ref, "-") {
		return "", fmt.Errorf("invalid revision %q", ref)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// #nosec G204 - ref is validated above and passed as a single argument
	cmd := exec.CommandContext(ctx, a.binary, "-C", string(root),
		"show", "--no-color", "--no-ext-diff", "-m", "--first-parent", "--format=", ref, "--")

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git show %s: %w", ref, err)
		}

		return "", fmt.Errorf("git show %s: %w: %s", ref, err, msg)
	}

	return stdout.String(), nil
}
