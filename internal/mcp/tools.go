package mcp

// toolDefinitions returns the tool surface exposed to the agent runtime.
func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "add_note",
			Description: "Create a new note and link it to related notes in the vault",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Note title",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Note body, Markdown-flavored",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags for categorization",
					},
					"project": map[string]any{
						"type":        "string",
						"description": "Optional project classifier",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Optional category classifier",
					},
				},
				"required": []string{"title", "content"},
			},
		},
		{
			Name:        "search_notes",
			Description: "Search notes by title, content, tags or project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Case-insensitive substring to search for",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum results (default 10)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_notes",
			Description: "List notes, newest first, with optional filters",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum results (default 20)",
					},
					"tag": map[string]any{
						"type":        "string",
						"description": "Only notes carrying this tag",
					},
					"project": map[string]any{
						"type":        "string",
						"description": "Only notes in this project",
					},
				},
			},
		},
		{
			Name:        "update_note",
			Description: "Update a note's fields. Without confirm=true, returns a preview of the pending change",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"identifier": map[string]any{
						"type":        "string",
						"description": "Note id, or free text matched against titles",
					},
					"confirm": map[string]any{
						"type":        "boolean",
						"description": "Apply the change. Without it only a preview is returned",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "New title (storage key stays stable)",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "New body",
					},
					"add_tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags to add",
					},
					"remove_tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags to remove",
					},
					"project": map[string]any{
						"type":        "string",
						"description": "New project",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "New category",
					},
				},
				"required": []string{"identifier"},
			},
		},
		{
			Name:        "delete_note",
			Description: "Delete a note. Without confirm=true, returns a preview",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"identifier": map[string]any{
						"type":        "string",
						"description": "Note id, or free text matched against titles",
					},
					"confirm": map[string]any{
						"type":        "boolean",
						"description": "Apply the deletion. Without it only a preview is returned",
					},
				},
				"required": []string{"identifier"},
			},
		},
		{
			Name:        "sync_notes",
			Description: "Synchronize the vault with its remote git repository",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"mode": map[string]any{
						"type":        "string",
						"description": "One of: full (default), status, pull, check, emergency",
					},
					"message": map[string]any{
						"type":        "string",
						"description": "Commit message for full sync",
					},
				},
			},
		},
	}
}
