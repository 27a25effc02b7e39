// Package frontmatter extracts and decodes YAML frontmatter from markdown
// documents. Agent, skill, and command documents all carry their metadata in a
// frontmatter block delimited by "---" lines; the body below it is opaque
// payload for the host runtime.
package frontmatter

import (
	"bytes"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// ErrNoFrontmatter indicates the document has no frontmatter block at all.
var ErrNoFrontmatter = errors.New("document has no frontmatter")

// Document holds the parsed frontmatter and the remaining markdown body.
type Document struct {
	Meta map[string]any
	Body string
}

// Extract parses the YAML frontmatter of a markdown document.
// It returns ErrNoFrontmatter when the document does not open with a "---"
// delimiter, and a wrapped parser error when the block is present but is not
// valid YAML.
func Extract(content []byte) (*Document, error) {
	text := strings.TrimLeft(string(content), "\uFEFF")
	if !strings.HasPrefix(text, "---") {
		return nil, ErrNoFrontmatter
	}

	// goldmark-meta treats an unclosed block as metadata running to EOF, so
	// the closing delimiter has to be checked before its result is trusted.
	if closingDelimiterLine(text) == -1 {
		return nil, errors.New("invalid frontmatter YAML: unterminated frontmatter block")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert([]byte(text), &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter YAML")
	}
	if metaData == nil {
		return nil, errors.New("invalid frontmatter YAML: unterminated frontmatter block")
	}

	return &Document{
		Meta: normalizeMap(metaData),
		Body: extractBody(text),
	}, nil
}

// Decode maps frontmatter metadata onto a typed descriptor struct. Unknown
// keys are ignored so that documents written for newer host runtimes still
// load, and scalar values are coerced into list fields where the target type
// asks for one.
func Decode(metaData map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create frontmatter decoder")
	}

	if err := decoder.Decode(metaData); err != nil {
		return errors.Wrap(err, "failed to decode frontmatter")
	}

	return nil
}

// normalizeMap converts nested map[interface{}]interface{} values produced by
// the YAML parser into map[string]any so they decode and serialize cleanly.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				continue
			}
			m[key] = normalizeValue(item)
		}
		return m
	case map[string]any:
		return normalizeMap(val)
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = normalizeValue(item)
		}
		return list
	default:
		return v
	}
}

// closingDelimiterLine returns the line index of the "---" closing the
// frontmatter block, or -1 when the block never terminates.
func closingDelimiterLine(content string) int {
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i
		}
	}
	return -1
}

// extractBody removes the frontmatter block and returns the document body.
func extractBody(content string) string {
	frontmatterEnd := closingDelimiterLine(content)
	if frontmatterEnd == -1 {
		return content
	}

	lines := strings.Split(content, "\n")
	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// StringList coerces a frontmatter value into a list of strings. Frontmatter
// authors write both "triggers: kotlin" and "triggers: [kotlin, coroutines]";
// both shapes are accepted.
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
