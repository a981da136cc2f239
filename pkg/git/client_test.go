package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/aretw0/memlog/pkg/core"
)

func TestParseHistory(t *testing.T) {
	out := recordSep + "abc1234" + fieldSep + "first commit" + fieldSep + "2025-01-01T00:00:00Z\n\n" +
		recordSep + "def5678" + fieldSep + "second" + fieldSep + "2025-01-02T00:00:00Z\n\na.go\ndir/b.go\n"

	commits := parseHistory(out)
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].Hash != "abc1234" || commits[0].Summary != "first commit" || len(commits[0].Files) != 0 {
		t.Errorf("unexpected first commit: %+v", commits[0])
	}
	if got := commits[1].Files; len(got) != 2 || got[0] != "a.go" || got[1] != "dir/b.go" {
		t.Errorf("unexpected files: %v", got)
	}
	if commits[1].Timestamp != "2025-01-02T00:00:00Z" {
		t.Errorf("unexpected timestamp: %q", commits[1].Timestamp)
	}

	if got := parseHistory(""); len(got) != 0 {
		t.Errorf("expected no commits, got %v", got)
	}
}

// initRepo creates a git repository with one commit, or skips.
func initRepo(t *testing.T) (*Client, string) {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	client := NewClient(dir, nil)
	ctx := context.Background()

	steps := [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	}
	for _, args := range steps {
		if _, err := client.Run(ctx, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "memory.log"), []byte("a | s | | 2025-01-01\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{{"add", "memory.log"}, {"commit", "-q", "-m", "add memory"}} {
		if _, err := client.Run(ctx, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return client, dir
}

func TestClient_Oracle(t *testing.T) {
	client, dir := initRepo(t)
	ctx := context.Background()

	if !client.IsRepo() {
		t.Fatal("expected a work tree")
	}

	history, err := client.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Summary != "add memory" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if len(history[0].Files) != 1 || history[0].Files[0] != "memory.log" {
		t.Errorf("unexpected files: %v", history[0].Files)
	}

	commit, err := client.Lookup(ctx, history[0].Hash)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if commit.Summary != "add memory" || commit.Timestamp == "" {
		t.Errorf("unexpected commit: %+v", commit)
	}

	if _, err := client.Lookup(ctx, "0000000"); !errors.Is(err, core.ErrUnknownCommit) {
		t.Errorf("expected ErrUnknownCommit, got %v", err)
	}
	if _, err := client.Lookup(ctx, "--all"); !errors.Is(err, core.ErrUnknownCommit) {
		t.Errorf("expected ErrUnknownCommit for option-like hash, got %v", err)
	}

	rel, err := client.RelPath(ctx, filepath.Join(dir, "memory.log"))
	if err != nil {
		t.Fatalf("RelPath failed: %v", err)
	}
	if rel != "memory.log" {
		t.Errorf("RelPath = %q", rel)
	}

	content, err := client.Show(ctx, "HEAD", rel)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if content != "a | s | | 2025-01-01\n" {
		t.Errorf("Show = %q", content)
	}
}

func TestClient_EmptyRepository(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if err := exec.Command("git", "-C", dir, "init", "-q").Run(); err != nil {
		t.Fatal(err)
	}

	history, err := NewClient(dir, nil).History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %v", history)
	}
}

func TestClient_NotARepo(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	if NewClient(t.TempDir(), nil).IsRepo() {
		t.Error("temp dir should not be a work tree")
	}
}
