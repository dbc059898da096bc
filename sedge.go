// Package sedge is the composition root for the sedge note assistant.
//
// It connects the note domain (pkg/core) with the storage adapters
// (pkg/adapters) and the git sync layer (pkg/git, pkg/sync). The MCP
// transport and the CLI both build on Open; embedding programs can use
// it directly to get a wired note service for a vault directory.
//
//	v := sedge.Open("/home/me/vault",
//		sedge.WithLogger(logger),
//	)
//	note, related, err := v.Service.Add(ctx, "title", "content", nil, "", "")
package sedge

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sedgehq/sedge/pkg/adapters/jsonfile"
	"github.com/sedgehq/sedge/pkg/adapters/vault"
	"github.com/sedgehq/sedge/pkg/core"
	"github.com/sedgehq/sedge/pkg/git"
	notesync "github.com/sedgehq/sedge/pkg/sync"
)

// Version of the sedge module.
const Version = "0.1.0"

type options struct {
	jsonBackend bool
	subfolder   string
	branch      string
	gitTimeout  time.Duration
	logger      *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithJSONBackend stores notes as flat JSON files instead of Markdown.
func WithJSONBackend() Option {
	return func(o *options) { o.jsonBackend = true }
}

// WithSubfolder sets the notes subfolder inside the vault (default "notes").
func WithSubfolder(sub string) Option {
	return func(o *options) { o.subfolder = sub }
}

// WithBranch sets the branch used for remote sync (default "main").
func WithBranch(branch string) Option {
	return func(o *options) { o.branch = branch }
}

// WithGitTimeout bounds each git invocation.
func WithGitTimeout(d time.Duration) Option {
	return func(o *options) { o.gitTimeout = d }
}

// WithLogger sets the logger used by the storage and sync layers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Vault is a wired note service for one vault directory.
type Vault struct {
	Service *core.Service

	// Sync is nil when git is not installed.
	Sync *notesync.Orchestrator
}

// Open wires the storage backend and, when git is available, the sync
// orchestrator for the vault rooted at vaultPath.
func Open(vaultPath string, opts ...Option) *Vault {
	o := options{subfolder: "notes", branch: "main"}
	for _, opt := range opts {
		opt(&o)
	}

	notesDir := filepath.Join(vaultPath, o.subfolder)
	var repo core.Repository
	if o.jsonBackend {
		repo = jsonfile.New(notesDir, o.logger)
	} else {
		repo = vault.New(notesDir, o.logger)
	}

	var orch *notesync.Orchestrator
	if git.IsInstalled() {
		client := git.NewClient(vaultPath, o.gitTimeout, o.logger)
		orch = notesync.NewOrchestrator(client, repo, vaultPath, o.branch, o.logger)
	} else if o.logger != nil {
		o.logger.Warn("git not found on PATH, sync disabled")
	}

	return &Vault{Service: core.NewService(repo), Sync: orch}
}
