package vault

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sedgehq/sedge/pkg/core"
)

// FormatVersion is the vault document format version written to the
// frontmatter. Bump when the document layout changes incompatibly.
const FormatVersion = 1

const (
	footerMarker     = "<!-- sedge:meta"
	relatedHeading   = "\n\n## Related Notes\n\n"
	placeholderTitle = "Untitled Note"
	timestampLayout  = time.RFC3339Nano
)

// frontmatter is the versioned metadata header of a vault document.
// Field order here is the order written to disk.
type frontmatter struct {
	Version  int      `yaml:"sedge"`
	ID       string   `yaml:"id"`
	Slug     string   `yaml:"slug,omitempty"`
	Title    string   `yaml:"title"`
	Created  string   `yaml:"created"`
	Updated  string   `yaml:"updated,omitempty"`
	Project  string   `yaml:"project,omitempty"`
	Category string   `yaml:"category,omitempty"`
	Tags     []string `yaml:"tags"`
}

// Encode serializes a note and its related links into a vault document:
// YAML frontmatter, a title heading, the raw content, an optional
// Related Notes section, a metadata footer comment, and a trailing
// hashtag line.
func Encode(n core.Note, related []core.RelatedNote) ([]byte, error) {
	fm := frontmatter{
		Version:  FormatVersion,
		ID:       n.ID,
		Slug:     n.Slug,
		Title:    n.Title,
		Created:  n.Created.Format(timestampLayout),
		Updated:  time.Now().UTC().Format(timestampLayout),
		Project:  n.Project,
		Category: n.Category,
		Tags:     n.Tags,
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	encoder.Close()
	buf.WriteString("---\n")

	buf.WriteString("# " + n.Title + "\n\n")
	buf.WriteString(n.Content)

	if len(related) > 0 {
		buf.WriteString(relatedHeading)
		for i, r := range related {
			if i > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString("- [[" + r.Note.Slug + "]]")
			if len(r.SharedElements) > 0 {
				buf.WriteString(" (shared: " + strings.Join(r.SharedElements, ", ") + ")")
			}
		}
	}

	buf.WriteString("\n\n" + footerMarker)
	fmt.Fprintf(&buf, " project=%q category=%q created=%q updated=%q id=%q -->\n",
		n.Project, n.Category, fm.Created, fm.Updated, n.ID)

	if len(n.Tags) > 0 {
		buf.WriteString("\n" + hashtagLine(n.Tags) + "\n")
	}

	return buf.Bytes(), nil
}

// Decode parses a vault document back into a note. The frontmatter is
// authoritative; the rendered Related Notes section, footer and hashtag
// line are generated artifacts and are stripped from the content.
func Decode(data []byte) (core.Note, error) {
	var rest []byte
	switch {
	case bytes.HasPrefix(data, []byte("---\n")):
		rest = data[4:]
	case bytes.HasPrefix(data, []byte("---\r\n")):
		rest = data[5:]
	default:
		return core.Note{}, core.ErrNoFrontmatter
	}

	fmBytes, bodyBytes, ok := splitFrontmatter(rest)
	if !ok {
		return core.Note{}, fmt.Errorf("%w: closing delimiter missing", core.ErrNoFrontmatter)
	}

	var fm frontmatter
	if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fm.ID == "" {
		return core.Note{}, fmt.Errorf("%w: id", core.ErrMissingField)
	}
	if fm.Created == "" {
		return core.Note{}, fmt.Errorf("%w: created", core.ErrMissingField)
	}

	created, err := time.Parse(timestampLayout, fm.Created)
	if err != nil {
		return core.Note{}, fmt.Errorf("invalid created timestamp %q: %w", fm.Created, err)
	}

	body := string(bodyBytes)

	title := fm.Title
	if title == "" {
		title = headingTitle(body)
	}
	if title == "" {
		title = placeholderTitle
	}

	slug := fm.Slug
	if slug == "" {
		slug = core.Slugify(title)
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}

	return core.Note{
		ID:       fm.ID,
		Slug:     slug,
		Title:    title,
		Content:  extractContent(body),
		Created:  created,
		Tags:     tags,
		Project:  fm.Project,
		Category: fm.Category,
	}, nil
}

// splitFrontmatter cuts rest at the closing delimiter, which must be a
// line consisting of exactly "---". A "---" embedded in a YAML scalar
// (a title like "part one --- part two") never starts a line of the
// emitted frontmatter, so anchoring on line boundaries keeps such
// fields intact.
func splitFrontmatter(rest []byte) (fm, body []byte, ok bool) {
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[4:], true
	}
	if bytes.HasPrefix(rest, []byte("---\r\n")) {
		return nil, rest[5:], true
	}

	for i := 0; ; {
		j := bytes.Index(rest[i:], []byte("\n---"))
		if j < 0 {
			return nil, nil, false
		}
		pos := i + j
		tail := rest[pos+4:]
		switch {
		case len(tail) == 0:
			return rest[:pos+1], nil, true
		case tail[0] == '\n':
			return rest[:pos+1], tail[1:], true
		case len(tail) >= 2 && tail[0] == '\r' && tail[1] == '\n':
			return rest[:pos+1], tail[2:], true
		}
		i = pos + 1
	}
}

// extractContent strips the generated parts of the body: the footer
// comment (and everything after it), a trailing Related Notes section
// that matches the generated bullet shape, and the title heading line.
func extractContent(body string) string {
	if idx := strings.LastIndex(body, "\n\n"+footerMarker); idx >= 0 {
		body = body[:idx]
	}

	if idx := strings.LastIndex(body, relatedHeading); idx >= 0 {
		tail := body[idx+len(relatedHeading):]
		if isLinkBlock(tail) {
			body = body[:idx]
		}
	}

	// Drop the title heading line and the blank line after it.
	if strings.HasPrefix(body, "# ") {
		if nl := strings.Index(body, "\n"); nl >= 0 {
			body = strings.TrimPrefix(body[nl+1:], "\n")
		} else {
			body = ""
		}
	}

	return body
}

// isLinkBlock reports whether every non-empty line is a generated
// related-note bullet. Guards against stripping a user section that
// merely shares the heading.
func isLinkBlock(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "- [[") {
			return false
		}
	}
	return true
}

// headingTitle returns the text of the first top-level heading, if any.
func headingTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// hashtagLine renders tags as a hashtag line; internal whitespace and
// dashes become underscores.
func hashtagLine(tags []string) string {
	replacer := strings.NewReplacer(" ", "_", "\t", "_", "-", "_")
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + replacer.Replace(t)
	}
	return strings.Join(parts, " ")
}
