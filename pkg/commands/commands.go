// Package commands loads slash-command help documents. A command document is
// plain markdown display text; its name comes from the file name and maps to
// the slash trigger the host runtime exposes (roadmap.md -> /roadmap).
package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/frontmatter"
)

// Command represents a loaded slash-command help document.
type Command struct {
	Name        string
	Description string
	Meta        map[string]any // frontmatter, if the document carries any
	Path        string
	Body        string
}

// Load reads a single command document. Frontmatter is optional; when present
// only description is recognized and the rest is preserved in Meta. A
// document that opens a frontmatter block but fails to parse it is rejected
// like any other malformed document.
func Load(path string) (*Command, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read command file")
	}

	cmd := &Command{
		Name: strings.TrimSuffix(filepath.Base(path), ".md"),
		Path: path,
	}

	doc, err := frontmatter.Extract(content)
	switch {
	case errors.Is(err, frontmatter.ErrNoFrontmatter):
		cmd.Body = string(content)
	case err != nil:
		return nil, err
	default:
		cmd.Meta = doc.Meta
		cmd.Body = doc.Body
		if desc, ok := doc.Meta["description"].(string); ok {
			cmd.Description = desc
		}
	}

	return cmd, nil
}

// Trigger returns the slash trigger string for the command.
func (c *Command) Trigger() string {
	return "/" + c.Name
}
