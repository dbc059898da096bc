package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sedgehq/sedge/pkg/core"
	notesync "github.com/sedgehq/sedge/pkg/sync"
)

// ToolHandler maps tool calls onto the note service and the sync
// orchestrator, formatting human-readable responses.
type ToolHandler struct {
	service  *core.Service
	orch     *notesync.Orchestrator // nil when sync is not configured
	autoSync bool
	validate *validator.Validate
	logger   *slog.Logger
}

// NewToolHandler creates a tool handler. orch may be nil; sync tools
// then report that sync is not configured.
func NewToolHandler(service *core.Service, orch *notesync.Orchestrator, autoSync bool, logger *slog.Logger) *ToolHandler {
	v := validator.New()
	// Report argument names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ToolHandler{
		service:  service,
		orch:     orch,
		autoSync: autoSync,
		validate: v,
		logger:   logger,
	}
}

// Handle dispatches a tool call by name.
func (h *ToolHandler) Handle(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "add_note":
		return h.handleAdd(ctx, args)
	case "search_notes":
		return h.handleSearch(ctx, args)
	case "list_notes":
		return h.handleList(ctx, args)
	case "update_note":
		return h.handleUpdate(ctx, args)
	case "delete_note":
		return h.handleDelete(ctx, args)
	case "sync_notes":
		return h.handleSync(ctx, args)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// decodeArgs round-trips the argument map through JSON into a typed
// struct and checks required-field presence. Anything beyond presence
// is left to the transport's schema.
func (h *ToolHandler) decodeArgs(args map[string]any, dst any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s is required", verrs[0].Field())
		}
		return err
	}
	return nil
}

type addArgs struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags"`
	Project  string   `json:"project"`
	Category string   `json:"category"`
}

func (h *ToolHandler) handleAdd(ctx context.Context, args map[string]any) (string, error) {
	var a addArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}

	note, related, err := h.service.Add(ctx, a.Title, a.Content, a.Tags, a.Project, a.Category)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Created note %q (%s)\n", note.Title, note.ID)
	if len(related) > 0 {
		fmt.Fprintf(&sb, "Linked %d related note(s):\n", len(related))
		for _, r := range related {
			fmt.Fprintf(&sb, "- %s (score %d", r.Note.Title, r.Score)
			if len(r.SharedElements) > 0 {
				fmt.Fprintf(&sb, ", shared: %s", strings.Join(r.SharedElements, ", "))
			}
			sb.WriteString(")\n")
		}
	} else {
		sb.WriteString("No related notes found.\n")
	}

	sb.WriteString(h.maybeAutoSync(ctx, "add "+note.Slug))
	return sb.String(), nil
}

type searchArgs struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

func (h *ToolHandler) handleSearch(ctx context.Context, args map[string]any) (string, error) {
	var a searchArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Limit <= 0 {
		a.Limit = 10
	}

	notes, err := h.service.Search(ctx, a.Query, a.Limit)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return fmt.Sprintf("No notes matching %q.", a.Query), nil
	}
	return formatListing(fmt.Sprintf("%d note(s) matching %q:", len(notes), a.Query), notes), nil
}

type listArgs struct {
	Limit   int    `json:"limit"`
	Tag     string `json:"tag"`
	Project string `json:"project"`
}

func (h *ToolHandler) handleList(ctx context.Context, args map[string]any) (string, error) {
	var a listArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Limit <= 0 {
		a.Limit = 20
	}

	notes, err := h.service.List(ctx, a.Limit, a.Tag, a.Project)
	if err != nil {
		return "", err
	}
	if len(notes) == 0 {
		return "No notes found.", nil
	}
	return formatListing(fmt.Sprintf("%d note(s), newest first:", len(notes)), notes), nil
}

type updateArgs struct {
	Identifier string   `json:"identifier" validate:"required"`
	Confirm    bool     `json:"confirm"`
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	AddTags    []string `json:"add_tags"`
	RemoveTags []string `json:"remove_tags"`
	Project    *string  `json:"project"`
	Category   *string  `json:"category"`
}

func (h *ToolHandler) handleUpdate(ctx context.Context, args map[string]any) (string, error) {
	var a updateArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}

	note, matches, err := h.service.Resolve(ctx, a.Identifier)
	if err != nil {
		if errors.Is(err, core.ErrAmbiguous) {
			return ambiguousListing(a.Identifier, matches), nil
		}
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Sprintf("No note found matching %q.", a.Identifier), nil
		}
		return "", err
	}

	// ID, Created and Slug stay untouched; the file never moves.
	updated := note
	if a.Title != nil {
		updated.Title = *a.Title
	}
	if a.Content != nil {
		updated.Content = *a.Content
	}
	if a.Project != nil {
		updated.Project = *a.Project
	}
	if a.Category != nil {
		updated.Category = *a.Category
	}
	updated.Tags = core.MergeTags(note.Tags, a.AddTags, a.RemoveTags)

	if !a.Confirm {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Pending update for %q (%s):\n", note.Title, note.ID)
		sb.WriteString(diffLines(note, updated))
		sb.WriteString("Nothing changed. Re-run with confirm=true to apply.")
		return sb.String(), nil
	}

	if _, err := h.service.Save(ctx, updated); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Updated note %q (%s).\n", updated.Title, updated.ID)
	sb.WriteString(h.maybeAutoSync(ctx, "update "+updated.Slug))
	return sb.String(), nil
}

type deleteArgs struct {
	Identifier string `json:"identifier" validate:"required"`
	Confirm    bool   `json:"confirm"`
}

func (h *ToolHandler) handleDelete(ctx context.Context, args map[string]any) (string, error) {
	var a deleteArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}

	note, matches, err := h.service.Resolve(ctx, a.Identifier)
	if err != nil {
		if errors.Is(err, core.ErrAmbiguous) {
			return ambiguousListing(a.Identifier, matches), nil
		}
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Sprintf("No note found matching %q.", a.Identifier), nil
		}
		return "", err
	}

	if !a.Confirm {
		return fmt.Sprintf("About to delete %q (%s), created %s.\nNothing deleted. Re-run with confirm=true to apply.",
			note.Title, note.ID, note.Created.Format("2006-01-02")), nil
	}

	if err := h.service.Delete(ctx, note); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Sprintf("Note %q not found in storage.", a.Identifier), nil
		}
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Deleted note %q (%s).\n", note.Title, note.ID)
	sb.WriteString(h.maybeAutoSync(ctx, "delete "+note.Slug))
	return sb.String(), nil
}

type syncArgs struct {
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

func (h *ToolHandler) handleSync(ctx context.Context, args map[string]any) (string, error) {
	var a syncArgs
	if err := h.decodeArgs(args, &a); err != nil {
		return "", err
	}
	if h.orch == nil {
		return "Sync is not configured. Set SEDGE_VAULT_PATH to a git repository and install git.", nil
	}

	var result notesync.Result
	switch a.Mode {
	case "status":
		result = h.orch.Status(ctx)
	case "pull":
		result = h.orch.Pull(ctx)
	case "check":
		result = h.orch.CheckSetup(ctx)
	case "emergency":
		notes, err := h.service.Repo().List(ctx)
		if err != nil {
			return "", err
		}
		result = h.orch.EmergencySync(ctx, notes)
	case "", "full":
		notes, err := h.service.Repo().List(ctx)
		if err != nil {
			return "", err
		}
		result = h.orch.FullSync(ctx, notes, a.Message)
	default:
		return fmt.Sprintf("Unknown sync mode %q. Use full, status, pull, check or emergency.", a.Mode), nil
	}

	return formatResult(result), nil
}

// maybeAutoSync runs a commit-and-push after a mutating operation when
// auto-sync is enabled. Failures are reported in the response text but
// never fail the operation that already succeeded locally.
func (h *ToolHandler) maybeAutoSync(ctx context.Context, reason string) string {
	if !h.autoSync || h.orch == nil {
		return ""
	}
	result := h.orch.CommitAndPush(ctx, notesync.FormatCommitMessage(notesync.CommitTypeDocs, "notes", reason, ""))
	if !result.Success {
		if h.logger != nil {
			h.logger.Warn("auto-sync failed", "message", result.Message)
		}
		return "Auto-sync failed: " + result.Message + "\n"
	}
	return "Auto-synced to remote.\n"
}

func formatListing(header string, notes []core.Note) string {
	var sb strings.Builder
	sb.WriteString(header + "\n")
	for _, n := range notes {
		fmt.Fprintf(&sb, "- %s (%s)", n.Title, n.ID)
		if len(n.Tags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(n.Tags, ", "))
		}
		if n.Project != "" {
			fmt.Fprintf(&sb, " project:%s", n.Project)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func ambiguousListing(identifier string, matches []core.Note) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q matches %d notes. Use an exact id:\n", identifier, len(matches))
	for _, n := range matches {
		fmt.Fprintf(&sb, "- %s (%s)\n", n.Title, n.ID)
	}
	return sb.String()
}

func diffLines(before, after core.Note) string {
	var sb strings.Builder
	if before.Title != after.Title {
		fmt.Fprintf(&sb, "  title: %q -> %q\n", before.Title, after.Title)
	}
	if before.Content != after.Content {
		fmt.Fprintf(&sb, "  content: %d -> %d chars\n", len(before.Content), len(after.Content))
	}
	if strings.Join(before.Tags, ",") != strings.Join(after.Tags, ",") {
		fmt.Fprintf(&sb, "  tags: [%s] -> [%s]\n", strings.Join(before.Tags, ", "), strings.Join(after.Tags, ", "))
	}
	if before.Project != after.Project {
		fmt.Fprintf(&sb, "  project: %q -> %q\n", before.Project, after.Project)
	}
	if before.Category != after.Category {
		fmt.Fprintf(&sb, "  category: %q -> %q\n", before.Category, after.Category)
	}
	if sb.Len() == 0 {
		sb.WriteString("  (no field changes)\n")
	}
	return sb.String()
}

func formatResult(r notesync.Result) string {
	var sb strings.Builder
	if r.Success {
		sb.WriteString("Sync OK: ")
	} else {
		sb.WriteString("Sync failed: ")
	}
	sb.WriteString(r.Message)
	if r.Details != "" {
		sb.WriteString("\n" + r.Details)
	}
	return sb.String()
}
