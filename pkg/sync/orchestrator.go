// Package sync sequences git operations around vault writes. All remote
// behavior is delegated to the version-control client; the orchestrator
// contributes ordering, fail-fast error conversion, and the single
// emergency retry path.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sedgehq/sedge/pkg/core"
)

// Runner is the narrow command interface the orchestrator depends on.
// *git.Client satisfies it; tests substitute a fake so orchestration
// logic runs without a real subprocess.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Locker is implemented by runners that serialize compound operations
// across processes. *git.Client implements it with a lock file in the
// vault; fakes without it run unlocked.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

// Result is the structured outcome of a sync operation. Orchestrator
// methods always return a Result; no error escapes this boundary.
type Result struct {
	Success bool
	Message string
	Details string
}

func failure(msg string, err error) Result {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return Result{Success: false, Message: msg, Details: details}
}

func success(msg, details string) Result {
	return Result{Success: true, Message: msg, Details: details}
}

// Orchestrator coordinates the vault store and the version-control
// client for the sync tool surface.
type Orchestrator struct {
	runner Runner
	repo   core.Repository
	path   string // vault root, for setup checks
	branch string
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator for the vault rooted at path,
// syncing the given branch.
func NewOrchestrator(runner Runner, repo core.Repository, path, branch string, logger *slog.Logger) *Orchestrator {
	if branch == "" {
		branch = "main"
	}
	return &Orchestrator{
		runner: runner,
		repo:   repo,
		path:   path,
		branch: branch,
		logger: logger,
	}
}

// CheckSetup verifies that the vault path exists, is a git repository,
// and has a remote configured.
func (o *Orchestrator) CheckSetup(ctx context.Context) Result {
	info, err := os.Stat(o.path)
	if err != nil {
		return failure(fmt.Sprintf("vault path does not exist: %s", o.path), err)
	}
	if !info.IsDir() {
		return failure(fmt.Sprintf("vault path is not a directory: %s", o.path), nil)
	}

	if out, err := o.runner.Run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil || out != "true" {
		return failure("vault is not a git repository; run 'git init' in the vault first", err)
	}

	remotes, err := o.runner.Run(ctx, "remote", "-v")
	if err != nil {
		return failure("failed to inspect remotes", err)
	}
	if !strings.Contains(remotes, "origin") {
		return failure("no 'origin' remote configured; run 'git remote add origin <url>' first", nil)
	}

	branch, err := o.runner.Run(ctx, "branch", "--show-current")
	if err != nil {
		return failure("failed to determine current branch", err)
	}

	return success("vault is ready to sync", fmt.Sprintf("branch: %s", branch))
}

// Status reports the porcelain status of the vault repository.
func (o *Orchestrator) Status(ctx context.Context) Result {
	out, err := o.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return failure("failed to read repository status", err)
	}
	if out == "" {
		return success("working tree clean", "")
	}
	return success("uncommitted changes present", out)
}

// Pull integrates remote changes.
func (o *Orchestrator) Pull(ctx context.Context) Result {
	out, err := o.runner.Run(ctx, "pull", "origin", o.branch)
	if err != nil {
		return failure("pull failed; check network and resolve any conflicts manually", err)
	}
	return success("pulled remote changes", out)
}

// lock acquires the runner's cross-process lock for a compound
// sequence. Runners without one run unlocked.
func (o *Orchestrator) lock(ctx context.Context) (func(), error) {
	if l, ok := o.runner.(Locker); ok {
		return l.Lock(ctx)
	}
	return func() {}, nil
}

// CommitAndPush stages everything, commits with the given message, and
// pushes, holding the vault lock across the sequence. A clean tree
// short-circuits to success.
func (o *Orchestrator) CommitAndPush(ctx context.Context, message string) Result {
	unlock, err := o.lock(ctx)
	if err != nil {
		return failure("could not acquire vault lock", err)
	}
	defer unlock()
	return o.commitAndPush(ctx, message)
}

func (o *Orchestrator) commitAndPush(ctx context.Context, message string) Result {
	status, err := o.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return failure("failed to read repository status", err)
	}
	if status == "" {
		return success("nothing to commit", "")
	}

	if _, err := o.runner.Run(ctx, "add", "-A"); err != nil {
		return failure("failed to stage changes", err)
	}

	if message == "" {
		message = FormatCommitMessage(CommitTypeDocs, "notes", "sync notes", "")
	} else {
		message = AppendFooter(message)
	}
	if _, err := o.runner.Run(ctx, "commit", "-m", message); err != nil {
		return failure("commit failed", err)
	}

	out, err := o.runner.Run(ctx, "push", "origin", o.branch)
	if err != nil {
		return failure("push failed; check remote access and network", err)
	}
	return success("committed and pushed", out)
}

// FullSync pulls, rewrites every note in the pool through the store
// (recomputing related links per note), then commits and pushes. The
// vault lock is held for the whole sequence. Any failing stage aborts
// the rest; completed stages are not rolled back.
func (o *Orchestrator) FullSync(ctx context.Context, notes []core.Note, message string) Result {
	unlock, err := o.lock(ctx)
	if err != nil {
		return failure("could not acquire vault lock", err)
	}
	defer unlock()
	return o.fullSync(ctx, notes, message)
}

func (o *Orchestrator) fullSync(ctx context.Context, notes []core.Note, message string) Result {
	if r := o.Pull(ctx); !r.Success {
		return r
	}

	for _, n := range notes {
		related := core.ScoreRelated(n, notes)
		if err := o.repo.Put(ctx, n, related); err != nil {
			return failure(fmt.Sprintf("failed to write note %q", n.Title), err)
		}
	}
	if o.logger != nil {
		o.logger.Debug("vault rewritten", "notes", len(notes))
	}

	if message == "" {
		message = FormatCommitMessage(CommitTypeDocs, "notes", fmt.Sprintf("full sync of %d notes", len(notes)), "")
	}
	return o.commitAndPush(ctx, message)
}

// SaveAndSync writes a single note (links computed against pool), then
// pulls, commits and pushes it.
func (o *Orchestrator) SaveAndSync(ctx context.Context, n core.Note, pool []core.Note) Result {
	related := core.ScoreRelated(n, pool)
	if err := o.repo.Put(ctx, n, related); err != nil {
		return failure(fmt.Sprintf("failed to write note %q", n.Title), err)
	}

	if r := o.Pull(ctx); !r.Success {
		return r
	}
	return o.CommitAndPush(ctx, FormatCommitMessage(CommitTypeDocs, "notes", "save "+n.Slug, ""))
}

// BatchSync writes every note and records them in a single commit.
func (o *Orchestrator) BatchSync(ctx context.Context, notes []core.Note) Result {
	for _, n := range notes {
		related := core.ScoreRelated(n, notes)
		if err := o.repo.Put(ctx, n, related); err != nil {
			return failure(fmt.Sprintf("failed to write note %q", n.Title), err)
		}
	}
	return o.CommitAndPush(ctx, FormatCommitMessage(CommitTypeDocs, "notes", fmt.Sprintf("batch sync of %d notes", len(notes)), ""))
}

// EmergencySync attempts a full sync; on failure it pulls and retries
// the full sync exactly once. The second failure is surfaced as-is.
// This is the only retry policy in the system.
func (o *Orchestrator) EmergencySync(ctx context.Context, notes []core.Note) Result {
	first := o.FullSync(ctx, notes, "")
	if first.Success {
		return first
	}

	if o.logger != nil {
		o.logger.Warn("full sync failed, retrying after pull", "message", first.Message)
	}
	if r := o.Pull(ctx); !r.Success {
		return r
	}
	return o.FullSync(ctx, notes, FormatCommitMessage(CommitTypeDocs, "notes", "emergency sync", ""))
}
