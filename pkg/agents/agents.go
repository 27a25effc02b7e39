// Package agents loads agent persona documents. An agent is a markdown file
// whose YAML frontmatter tells the host runtime when to surface the persona;
// the body is the persona prompt itself and is carried as opaque payload.
package agents

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/frontmatter"
)

// Metadata is the recognized frontmatter shape for agent documents.
// Unrecognized keys are preserved in Agent.Meta but never rejected.
type Metadata struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Capabilities  []string `yaml:"capabilities"`
	Triggers      []string `yaml:"triggers"`
	Keywords      []string `yaml:"keywords"`
	Prerequisites []string `yaml:"prerequisites"`
	Version       string   `yaml:"version"`
	Model         string   `yaml:"model"`
	Tools         []string `yaml:"tools"`
}

// Agent represents a loaded agent persona document.
type Agent struct {
	Metadata
	Meta map[string]any // full frontmatter, including unrecognized keys
	Path string
	Body string
}

// Load reads a single agent document. The agent name comes from frontmatter
// when present, otherwise from the file name without its .md extension.
func Load(path string) (*Agent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read agent file")
	}

	doc, err := frontmatter.Extract(content)
	if err != nil {
		return nil, err
	}

	var md Metadata
	if err := frontmatter.Decode(doc.Meta, &md); err != nil {
		return nil, err
	}

	if md.Name == "" {
		md.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return &Agent{
		Metadata: md,
		Meta:     doc.Meta,
		Path:     path,
		Body:     doc.Body,
	}, nil
}

// MatchKeywords returns the agent's triggers and keywords merged in
// declaration order with duplicates removed. Both frontmatter keys are
// recognized; authors use them interchangeably.
func (a *Agent) MatchKeywords() []string {
	return mergeKeywords(a.Triggers, a.Keywords)
}

func mergeKeywords(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			key := strings.ToLower(kw)
			if !seen[key] {
				out = append(out, kw)
				seen[key] = true
			}
		}
	}
	return out
}
