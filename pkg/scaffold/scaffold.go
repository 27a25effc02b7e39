// Package scaffold generates a starter content pack: a plugin.json plus
// sample agent, skill, command, and hooks documents that validate cleanly.
// Pack authors edit the generated documents instead of memorizing the layout.
package scaffold

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/agentpack/agentpack/pkg/hooks"
	"github.com/agentpack/agentpack/pkg/manifest"
	"github.com/agentpack/agentpack/pkg/skills"
)

// Options controls pack generation.
type Options struct {
	Name        string
	Version     string
	Description string
	Dir         string // destination; defaults to ./<Name>
}

// Create writes a starter pack and returns the created file paths sorted for
// stable output. It refuses to scaffold over an existing plugin.json.
func Create(opts Options) ([]string, error) {
	if opts.Name == "" {
		return nil, errors.New("pack name is required")
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}
	if opts.Dir == "" {
		opts.Dir = opts.Name
	}

	if _, err := os.Stat(filepath.Join(opts.Dir, manifest.FileName)); err == nil {
		return nil, errors.Errorf("%s already exists in %s", manifest.FileName, opts.Dir)
	}

	m := manifest.Manifest{
		Name:        opts.Name,
		Version:     opts.Version,
		Description: opts.Description,
		Paths: manifest.Paths{
			Agents:   "agents",
			Skills:   "skills",
			Commands: "commands",
			Hooks:    "hooks",
		},
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	files := map[string][]byte{}

	manifestJSON, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal manifest")
	}
	files[manifest.FileName] = append(manifestJSON, '\n')

	agentDoc, err := markdownDoc(map[string]any{
		"name":        "getting-started-guide",
		"description": "Walks newcomers through the pack's topics",
		"capabilities": []string{
			"topic-overview",
		},
		"keywords": []string{
			"getting started",
			"overview",
		},
	}, "You are a friendly guide to this content pack. Point users at the right skill for their question.\n")
	if err != nil {
		return nil, err
	}
	files[filepath.Join("agents", "getting-started-guide.md")] = agentDoc

	skillDoc, err := markdownDoc(map[string]any{
		"name":        "sample-skill",
		"description": "A single-topic reference document",
		"keywords": []string{
			"sample",
		},
	}, "# Sample Skill\n\nReplace this body with reference material for one topic.\n")
	if err != nil {
		return nil, err
	}
	files[filepath.Join("skills", "sample-skill", skills.FileName)] = skillDoc

	files[filepath.Join("commands", "help.md")] = []byte("# /help\n\nLists what this pack can do.\n")

	hooksJSON, err := json.MarshalIndent(hooks.File{
		Hooks: map[string][]hooks.Action{
			hooks.EventPluginLoad: {{Action: "inject_context"}},
		},
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal hooks file")
	}
	files[filepath.Join("hooks", hooks.FileName)] = append(hooksJSON, '\n')

	var created []string
	for rel, content := range files {
		path := filepath.Join(opts.Dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", rel)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", rel)
		}
		created = append(created, path)
	}

	sort.Strings(created)
	return created, nil
}

// markdownDoc renders a YAML frontmatter block followed by the body.
func markdownDoc(meta map[string]any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}
	return []byte(fmt.Sprintf("---\n%s---\n\n%s", fm, body)), nil
}
