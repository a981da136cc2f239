package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aretw0/memlog/pkg/core"
)

const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// Client runs git in a working directory and serves as the commit oracle.
// It never writes to the repository.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo() bool {
	out, err := c.Run(context.Background(), "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Run executes a raw git command in the working directory and returns its
// trimmed standard output.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.run(ctx, args...)
	return strings.TrimSpace(out), err
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Lookup returns the canonical summary and commit time of hash.
func (c *Client) Lookup(ctx context.Context, hash string) (core.Commit, error) {
	if hash == "" || strings.HasPrefix(hash, "-") {
		return core.Commit{}, fmt.Errorf("%w: %q", core.ErrUnknownCommit, hash)
	}
	if _, err := c.Run(ctx, "cat-file", "-e", hash+"^{commit}"); err != nil {
		if ctx.Err() != nil {
			return core.Commit{}, ctx.Err()
		}
		return core.Commit{}, fmt.Errorf("%w: %s", core.ErrUnknownCommit, hash)
	}
	out, err := c.Run(ctx, "log", "-1", "--pretty=format:%s"+fieldSep+"%cI", hash, "--")
	if err != nil {
		return core.Commit{}, fmt.Errorf("unable to read summary for %s: %w", hash, err)
	}
	summary, stamp, _ := strings.Cut(out, fieldSep)
	return core.Commit{Hash: hash, Summary: strings.TrimSpace(summary), Timestamp: strings.TrimSpace(stamp)}, nil
}

// History returns every commit reachable from HEAD, oldest first, with the
// files each one touched. An empty repository has no history.
func (c *Client) History(ctx context.Context) ([]core.Commit, error) {
	out, err := c.run(ctx, "log", "--reverse", "--name-only",
		"--pretty=format:"+recordSep+"%h"+fieldSep+"%s"+fieldSep+"%cI")
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "does not have any commits") || strings.Contains(msg, "bad default revision") {
			return nil, nil
		}
		return nil, err
	}
	return parseHistory(out), nil
}

func parseHistory(out string) []core.Commit {
	var commits []core.Commit
	for _, chunk := range strings.Split(out, recordSep) {
		lines := strings.Split(strings.TrimSpace(chunk), "\n")
		if len(lines) == 0 || lines[0] == "" {
			continue
		}
		fields := strings.SplitN(lines[0], fieldSep, 3)
		if len(fields) < 3 {
			continue
		}
		commit := core.Commit{
			Hash:      strings.TrimSpace(fields[0]),
			Summary:   strings.TrimSpace(fields[1]),
			Timestamp: strings.TrimSpace(fields[2]),
		}
		for _, f := range lines[1:] {
			if f = strings.TrimSpace(f); f != "" {
				commit.Files = append(commit.Files, f)
			}
		}
		commits = append(commits, commit)
	}
	return commits
}

// Show returns the content of path (relative to the repository root) at ref.
func (c *Client) Show(ctx context.Context, ref, path string) (string, error) {
	if strings.HasPrefix(ref, "-") {
		return "", fmt.Errorf("invalid ref %q", ref)
	}
	return c.run(ctx, "show", ref+":"+filepath.ToSlash(path))
}

// RelPath converts an absolute path into one relative to the top of the work
// tree, as Show expects.
func (c *Client) RelPath(ctx context.Context, path string) (string, error) {
	top, err := c.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// Resolve symlinks on both sides (macOS tmp dirs).
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	rel, err := filepath.Rel(top, abs)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", errors.New("path is outside the repository: " + path)
	}
	return filepath.ToSlash(rel), nil
}

var _ core.Oracle = (*Client)(nil)
