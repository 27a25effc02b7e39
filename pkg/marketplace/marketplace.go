// Package marketplace models marketplace.json and maintains the registry of
// published plugins. Plugin names are unique within a marketplace namespace;
// a duplicate registration is a blocking failure because downstream install
// tooling cannot disambiguate colliding names.
package marketplace

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FileName is the marketplace registration file name.
const FileName = "marketplace.json"

// File is the parsed marketplace.json. Unknown JSON keys are ignored.
type File struct {
	Name       string   `json:"name"`
	Repository string   `json:"repository"`
	Plugins    []string `json:"plugins"`

	Path string `json:"-"`
}

// NameCollisionError reports two plugins claiming the same name in one
// marketplace namespace. Registration fails entirely; neither entry wins.
type NameCollisionError struct {
	Marketplace string
	Name        string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("plugin name %q already registered in marketplace %q", e.Name, e.Marketplace)
}

// Load reads and validates a marketplace.json file.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var f File
	if err := json.Unmarshal(content, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	f.Path = path

	if err := f.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid marketplace file %s", path)
	}

	return &f, nil
}

// Validate checks field constraints and rejects duplicate plugin ids within
// the file itself.
func (f *File) Validate() error {
	var result *multierror.Error

	if f.Name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}

	if f.Repository != "" {
		if u, err := url.Parse(f.Repository); err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, errors.Errorf("invalid repository URL %q", f.Repository))
		}
	}

	seen := make(map[string]bool)
	for _, plugin := range f.Plugins {
		if plugin == "" {
			result = multierror.Append(result, errors.New("plugin ids must not be empty"))
			continue
		}
		if seen[plugin] {
			result = multierror.Append(result, &NameCollisionError{Marketplace: f.Name, Name: plugin})
			continue
		}
		seen[plugin] = true
	}

	return result.ErrorOrNil()
}
