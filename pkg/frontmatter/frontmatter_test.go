package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	content := []byte(`---
name: kotlin-coroutines
description: Structured concurrency reference
keywords:
  - kotlin
  - coroutines
---

# Kotlin Coroutines

Body text here.
`)

	doc, err := Extract(content)
	require.NoError(t, err)

	assert.Equal(t, "kotlin-coroutines", doc.Meta["name"])
	assert.Equal(t, "Structured concurrency reference", doc.Meta["description"])
	assert.Contains(t, doc.Body, "# Kotlin Coroutines")
	assert.NotContains(t, doc.Body, "keywords:")
}

func TestExtractNoFrontmatter(t *testing.T) {
	doc, err := Extract([]byte("# Just a heading\n\nNo metadata.\n"))
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}

func TestExtractMalformedYAML(t *testing.T) {
	content := []byte(`---
name: broken
description: [unclosed
---

Body.
`)

	doc, err := Extract(content)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid frontmatter YAML")
}

func TestExtractUnterminatedFrontmatter(t *testing.T) {
	// The lines are valid YAML; only the missing closing delimiter makes
	// the block malformed.
	content := []byte(`---
name: never-closed
description: missing the closing delimiter
`)

	doc, err := Extract(content)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoFrontmatter)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestExtractStripsByteOrderMark(t *testing.T) {
	content := []byte("\uFEFF---\nname: bom-doc\n---\n\nBody.\n")

	doc, err := Extract(content)
	require.NoError(t, err)
	assert.Equal(t, "bom-doc", doc.Meta["name"])
	assert.Equal(t, "Body.\n", doc.Body)
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	type descriptor struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Keywords    []string `yaml:"keywords"`
	}

	metaData := map[string]any{
		"name":         "jetpack-compose",
		"description":  "Declarative UI toolkit",
		"keywords":     []any{"compose", "ui"},
		"future_field": map[string]any{"nested": true},
	}

	var d descriptor
	require.NoError(t, Decode(metaData, &d))
	assert.Equal(t, "jetpack-compose", d.Name)
	assert.Equal(t, []string{"compose", "ui"}, d.Keywords)
}

func TestDecodeScalarIntoList(t *testing.T) {
	type descriptor struct {
		Keywords []string `yaml:"keywords"`
	}

	var d descriptor
	require.NoError(t, Decode(map[string]any{"keywords": "kotlin"}, &d))
	assert.Equal(t, []string{"kotlin"}, d.Keywords)
}

func TestStringList(t *testing.T) {
	assert.Nil(t, StringList(nil))
	assert.Equal(t, []string{"kotlin"}, StringList("kotlin"))
	assert.Equal(t, []string{"a", "b"}, StringList([]any{"a", "b"}))
	assert.Nil(t, StringList(42))
}

func TestNormalizeNestedMaps(t *testing.T) {
	content := []byte(`---
name: retrofit-networking
description: REST client patterns
retry:
  max_attempts: 3
  backoff: exponential
---

Body.
`)

	doc, err := Extract(content)
	require.NoError(t, err)

	retry, ok := doc.Meta["retry"].(map[string]any)
	require.True(t, ok, "nested frontmatter maps must normalize to string keys")
	assert.Equal(t, 3, retry["max_attempts"])
}
