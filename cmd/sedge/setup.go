package main

import (
	"log/slog"

	"github.com/sedgehq/sedge"
	"github.com/sedgehq/sedge/internal/config"
)

// buildVault wires the storage backend and sync orchestrator from the
// loaded configuration. A nil Sync on the result means git is missing.
func buildVault(cfg config.Config, logger *slog.Logger) *sedge.Vault {
	opts := []sedge.Option{
		sedge.WithSubfolder(cfg.Subfolder),
		sedge.WithBranch(cfg.Branch),
		sedge.WithGitTimeout(cfg.GitTimeout),
		sedge.WithLogger(logger),
	}
	if cfg.Backend == config.BackendJSON {
		opts = append(opts, sedge.WithJSONBackend())
	}
	return sedge.Open(cfg.VaultPath, opts...)
}
