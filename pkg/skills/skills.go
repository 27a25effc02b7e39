// Package skills loads skill reference documents. A skill is a directory
// containing a SKILL.md with YAML frontmatter plus any bundled resources
// (scripts, templates, data files) the document refers to.
package skills

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/frontmatter"
)

// FileName is the document expected inside each skill directory.
const FileName = "SKILL.md"

// Metadata is the recognized frontmatter shape for SKILL.md documents.
// The parameters, retry, and logging blocks are descriptive metadata for the
// host runtime; nothing here executes them.
type Metadata struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Capabilities  []string       `yaml:"capabilities"`
	Triggers      []string       `yaml:"triggers"`
	Keywords      []string       `yaml:"keywords"`
	Prerequisites []string       `yaml:"prerequisites"`
	Version       string         `yaml:"version"`
	Model         string         `yaml:"model"`
	Tools         []string       `yaml:"tools"`
	Parameters    map[string]any `yaml:"parameters"`
	Retry         map[string]any `yaml:"retry"`
	Logging       map[string]any `yaml:"logging"`
}

// Skill represents a loaded skill bundle.
type Skill struct {
	Metadata
	Meta      map[string]any // full frontmatter, including unrecognized keys
	Directory string
	Body      string
	Resources []string // bundled files relative to Directory, lexicographic
}

// Load reads the skill bundle rooted at dir. The skill name comes from
// frontmatter when present, otherwise from the directory name. Files under
// dir other than SKILL.md are indexed as resources; ignore holds doublestar
// patterns (relative to dir) excluding files from the index.
func Load(dir string, ignore []string) (*Skill, error) {
	content, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
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
		md.Name = filepath.Base(dir)
	}

	resources, err := indexResources(dir, ignore)
	if err != nil {
		return nil, err
	}

	return &Skill{
		Metadata:  md,
		Meta:      doc.Meta,
		Directory: dir,
		Body:      doc.Body,
		Resources: resources,
	}, nil
}

// MatchKeywords returns the skill's triggers and keywords merged in
// declaration order with duplicates removed.
func (s *Skill) MatchKeywords() []string {
	var out []string
	seen := make(map[string]bool)
	for _, kw := range append(append([]string{}, s.Triggers...), s.Keywords...) {
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
	return out
}

// indexResources walks the skill directory and collects bundled files.
func indexResources(dir string, ignore []string) ([]string, error) {
	var resources []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rel == FileName {
			return nil
		}

		for _, pattern := range ignore {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}

		resources = append(resources, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to index skill resources")
	}

	sort.Strings(resources)
	return resources, nil
}
