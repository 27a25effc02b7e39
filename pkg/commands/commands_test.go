package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCommand(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlainMarkdown(t *testing.T) {
	path := writeCommand(t, t.TempDir(), "roadmap.md", `# /roadmap

Shows a personalized Android learning roadmap.
`)

	cmd, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "roadmap", cmd.Name)
	assert.Equal(t, "/roadmap", cmd.Trigger())
	assert.Empty(t, cmd.Description)
	assert.Contains(t, cmd.Body, "personalized Android learning roadmap")
}

func TestLoadWithFrontmatter(t *testing.T) {
	path := writeCommand(t, t.TempDir(), "learn.md", `---
description: Start a guided learning session
---

# /learn

Usage: /learn <topic>
`)

	cmd, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "learn", cmd.Name)
	assert.Equal(t, "Start a guided learning session", cmd.Description)
	assert.Contains(t, cmd.Body, "Usage: /learn")
	assert.NotContains(t, cmd.Body, "description:")
}

func TestLoadMalformedFrontmatter(t *testing.T) {
	path := writeCommand(t, t.TempDir(), "broken.md", `---
description: [unterminated
---

Body.
`)

	_, err := Load(path)
	assert.Error(t, err)
}
