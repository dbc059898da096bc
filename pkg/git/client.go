// Package git wraps the git command-line client. It is the system's
// only network-facing dependency; everything remote is delegated to it.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 15 * time.Second

// lockFileName is the file-based lock guarding compound git operations.
const lockFileName = ".sedge.lock"

// Client wraps git command execution in a working directory, with a
// per-invocation timeout and a global file-based lock for process safety.
type Client struct {
	Dir     string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient creates a git client for the given working directory.
func NewClient(dir string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Dir: dir, Timeout: timeout, Logger: logger}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires a file-based lock. It blocks until the lock is acquired
// or the context is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	lockPath := filepath.Join(c.Dir, lockFileName)

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(lockPath)
			}, nil
		}

		if os.IsExist(err) {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("gave up waiting for lock: %w", ctx.Err())
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory with the
// configured timeout. It returns the combined output; on failure the
// error carries the raw output so callers can surface it.
// NOTE: It does NOT acquire the lock automatically; callers managing
// compound operations use Lock().
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.Dir)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = c.Dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))

	if runCtx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("git %s timed out after %s", args[0], c.Timeout)
	}
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return output, nil
}

// IsRepo reports whether the working directory is inside a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init initializes a new git repository. Safe to re-run.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add stages files.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// AddAll stages every change in the working tree.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.Run(ctx, "add", "-A")
	return err
}

// Rm removes files from the working tree and the index.
func (c *Client) Rm(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "-f"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes.
func (c *Client) Commit(ctx context.Context, msg string) error {
	_, err := c.Run(ctx, "commit", "-m", msg)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// HasChanges reports whether the working tree has uncommitted changes.
func (c *Client) HasChanges(ctx context.Context) (bool, error) {
	out, err := c.Status(ctx)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// HasRemote reports whether a remote named origin is configured.
func (c *Client) HasRemote(ctx context.Context) bool {
	out, err := c.Run(ctx, "remote", "-v")
	return err == nil && strings.Contains(out, "origin")
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.Run(ctx, "branch", "--show-current")
}

// Pull integrates remote changes for the given branch.
func (c *Client) Pull(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "pull", "origin", branch)
	return err
}

// Push publishes local commits to the given branch.
func (c *Client) Push(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "push", "origin", branch)
	return err
}

// Fetch updates remote tracking refs without merging.
func (c *Client) Fetch(ctx context.Context) error {
	_, err := c.Run(ctx, "fetch", "origin")
	return err
}

// Log returns the last n commit subjects.
func (c *Client) Log(ctx context.Context, n int) (string, error) {
	return c.Run(ctx, "log", fmt.Sprintf("-%d", n), "--oneline")
}

// Diff returns the working tree diff.
func (c *Client) Diff(ctx context.Context) (string, error) {
	return c.Run(ctx, "diff")
}

// Checkout switches to the given branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	_, err := c.Run(ctx, "checkout", branch)
	return err
}

// Reset discards staged changes (mixed reset to HEAD).
func (c *Client) Reset(ctx context.Context) error {
	_, err := c.Run(ctx, "reset")
	return err
}
