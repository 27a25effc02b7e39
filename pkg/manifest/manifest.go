// Package manifest models the plugin.json file that names a content pack and
// declares where its agent, skill, command, and hook documents live.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FileName is the manifest file name expected at a plugin root.
const FileName = "plugin.json"

// Paths maps resource kinds to directories relative to the plugin root.
// Empty entries mean the plugin does not ship that resource kind.
type Paths struct {
	Agents   string `json:"agents,omitempty"`
	Skills   string `json:"skills,omitempty"`
	Commands string `json:"commands,omitempty"`
	Hooks    string `json:"hooks,omitempty"`
}

// Manifest is the parsed plugin.json. Unknown JSON keys are ignored for
// forward compatibility.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Paths       Paths    `json:"paths"`
	Ignore      []string `json:"ignore,omitempty" jsonschema:"description=doublestar patterns excluding files from resource indexing"`

	// Root is the directory the manifest was loaded from. Not serialized.
	Root string `json:"-"`
}

var (
	nameRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	semverRe = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
)

// Load reads and validates the plugin.json under the given plugin root
// directory. A missing or syntactically invalid manifest is fatal; nothing
// else about the pack can be interpreted without it.
func Load(root string) (*Manifest, error) {
	path := filepath.Join(root, FileName)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	m.Root = root

	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid manifest %s", path)
	}

	return &m, nil
}

// Validate checks field-level constraints. Path existence is the loader's
// concern; this only rejects manifests that are malformed on their face.
func (m *Manifest) Validate() error {
	var result *multierror.Error

	if m.Name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	} else if !nameRe.MatchString(m.Name) {
		result = multierror.Append(result, errors.Errorf("invalid name %q: must be lowercase alphanumeric with '.', '_' or '-'", m.Name))
	}

	if m.Version == "" {
		result = multierror.Append(result, errors.New("version is required"))
	} else if !semverRe.MatchString(m.Version) {
		result = multierror.Append(result, errors.Errorf("invalid version %q: expected semver (e.g. 1.2.0)", m.Version))
	}

	for kind, dir := range m.DeclaredPaths() {
		if err := validateRelativePath(dir); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "paths.%s", kind))
		}
	}

	return result.ErrorOrNil()
}

// DeclaredPaths returns the non-empty path declarations keyed by resource kind.
func (m *Manifest) DeclaredPaths() map[string]string {
	paths := make(map[string]string)
	if m.Paths.Agents != "" {
		paths["agents"] = m.Paths.Agents
	}
	if m.Paths.Skills != "" {
		paths["skills"] = m.Paths.Skills
	}
	if m.Paths.Commands != "" {
		paths["commands"] = m.Paths.Commands
	}
	if m.Paths.Hooks != "" {
		paths["hooks"] = m.Paths.Hooks
	}
	return paths
}

// ResolvePath resolves a declared relative path against the plugin root.
func (m *Manifest) ResolvePath(rel string) string {
	return filepath.Join(m.Root, rel)
}

func validateRelativePath(p string) error {
	if filepath.IsAbs(p) {
		return errors.Errorf("path %q must be relative to the plugin root", p)
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Errorf("path %q escapes the plugin root", p)
	}
	return nil
}
