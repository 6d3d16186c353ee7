package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// vaultSubdirs maps a content type to its folder under notes/.
var vaultSubdirs = map[ContentType]string{
	TypePodcast: "podcasts",
	TypeArticle: "articles",
	TypeThread:  "threads",
	TypeNote:    "insights",
	TypeInsight: "insights",
}

const digestSubdir = "digests"

// Vault writes markdown notes into an Obsidian-style folder tree. Locators
// returned by its methods are vault-relative paths without the .md extension,
// suitable for [[wikilinks]].
type Vault struct {
	root string
}

func NewVault(root string) *Vault {
	return &Vault{root: root}
}

func (v *Vault) Root() string {
	return v.root
}

// EnsureStructure creates the notes folder tree.
func (v *Vault) EnsureStructure() error {
	dirs := []string{"podcasts", "articles", "threads", "insights", digestSubdir}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(v.root, "notes", d), 0755); err != nil {
			return fmt.Errorf("create vault directory %s: %w", d, err)
		}
	}
	return nil
}

// NotePath resolves the markdown file for a content type and title.
func (v *Vault) NotePath(contentType ContentType, title string) (string, error) {
	subdir, ok := vaultSubdirs[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidType, contentType)
	}
	return filepath.Join(v.root, "notes", subdir, sanitizeFilename(title)+".md"), nil
}

// Locator returns the vault-relative wikilink target for a note.
func (v *Vault) Locator(contentType ContentType, title string) (string, error) {
	subdir, ok := vaultSubdirs[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidType, contentType)
	}
	return "notes/" + subdir + "/" + sanitizeFilename(title), nil
}

// SaveContent renders a summarized piece of content as a markdown note and
// returns its locator.
func (v *Vault) SaveContent(contentType ContentType, summary *ContentSummary, source string, connections []Connection) (string, error) {
	path, err := v.NotePath(contentType, summary.Title)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", summary.Title)
	fmt.Fprintf(&sb, "*Processed: %s*\n", time.Now().Format("2006-01-02 15:04"))
	if source != "" {
		fmt.Fprintf(&sb, "*Source: %s*\n", source)
	}
	sb.WriteString("\n## Summary\n\n")
	sb.WriteString(summary.Overview)
	sb.WriteString("\n")

	if len(summary.KeyPoints) > 0 {
		sb.WriteString("\n## Key Points\n\n")
		for _, p := range summary.KeyPoints {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}

	if len(connections) > 0 {
		sb.WriteString("\n## Related\n\n")
		for _, line := range FormatForDisplay(connections) {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}

	if len(summary.Tags) > 0 {
		sb.WriteString("\n")
		for i, tag := range summary.Tags {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "#%s", sanitizeTag(tag))
		}
		sb.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create note directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}

	return v.Locator(contentType, summary.Title)
}

// SaveDigest writes the daily digest note for a date and returns its locator.
func (v *Vault) SaveDigest(date time.Time, report *DigestReport) (string, error) {
	dateStr := date.Format("2006-01-02")
	path := filepath.Join(v.root, "notes", digestSubdir, dateStr+".md")

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Daily Digest - %s\n\n", dateStr)
	sb.WriteString("## Summary\n\n")
	sb.WriteString(report.Summary)
	sb.WriteString("\n")

	if len(report.Themes) > 0 {
		sb.WriteString("\n## Themes\n\n")
		for _, t := range report.Themes {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	if len(report.Connections) > 0 {
		sb.WriteString("\n## Connections\n\n")
		for _, c := range report.Connections {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create digest directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write digest: %w", err)
	}

	return "notes/" + digestSubdir + "/" + dateStr, nil
}

// Read returns the markdown body behind a locator.
func (v *Vault) Read(locator string) (string, error) {
	data, err := os.ReadFile(filepath.Join(v.root, locator+".md"))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, locator)
	}
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}
	return string(data), nil
}

// Delete removes the note behind a locator. Deleting a missing note is not
// an error.
func (v *Vault) Delete(locator string) error {
	err := os.Remove(filepath.Join(v.root, locator+".md"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func sanitizeFilename(title string) string {
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	name := strings.TrimSpace(sb.String())
	if len(name) > 100 {
		name = strings.TrimSpace(name[:100])
	}
	if name == "" {
		name = "untitled"
	}
	return name
}

func sanitizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return strings.ReplaceAll(tag, " ", "-")
}
