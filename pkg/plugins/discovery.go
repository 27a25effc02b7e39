// Package plugins discovers and installs content packs. Packs live either
// standalone at a directory of their own or installed under
// .agentpack/plugins/ (repo-local) and ~/.agentpack/plugins/ (global), with
// repo-local packs taking precedence. Installed pack directories use the
// "owner@repo" naming format; their descriptors are namespaced "owner/repo/".
package plugins

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/logger"
	"github.com/agentpack/agentpack/pkg/manifest"
)

const (
	agentpackDir  = ".agentpack"
	pluginsSubdir = "plugins"
)

// Discovery locates installed content packs in precedence order.
type Discovery struct {
	baseDir string // ".agentpack" or absolute override for testing
	homeDir string
}

// DiscoveryOption configures a Discovery instance
type DiscoveryOption func(*Discovery) error

// WithBaseDir sets a custom repo-local base directory (for testing)
func WithBaseDir(dir string) DiscoveryOption {
	return func(d *Discovery) error {
		d.baseDir = dir
		return nil
	}
}

// WithHomeDir sets a custom home directory (for testing)
func WithHomeDir(dir string) DiscoveryOption {
	return func(d *Discovery) error {
		d.homeDir = dir
		return nil
	}
}

// NewDiscovery creates a new plugin discovery instance
func NewDiscovery(opts ...DiscoveryOption) (*Discovery, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user home directory")
	}

	d := &Discovery{
		baseDir: agentpackDir,
		homeDir: homeDir,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// InstalledPack is one pack found under a plugins directory.
type InstalledPack struct {
	Name   string // "owner@repo" directory name
	Path   string
	Global bool
	Prefix string // descriptor namespace, "owner/repo/"
}

// ListInstalled returns installed packs in precedence order: repo-local
// first, then global, each sorted by name.
func (d *Discovery) ListInstalled() ([]InstalledPack, error) {
	var packs []InstalledPack
	packs = append(packs, d.listPacksDir(filepath.Join(d.baseDir, pluginsSubdir), false)...)
	packs = append(packs, d.listPacksDir(filepath.Join(d.homeDir, agentpackDir, pluginsSubdir), true)...)
	return packs, nil
}

func (d *Discovery) listPacksDir(pluginsDir string, global bool) []InstalledPack {
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return nil
	}

	var packs []InstalledPack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		packPath := filepath.Join(pluginsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(packPath, manifest.FileName)); err != nil {
			continue
		}
		packs = append(packs, InstalledPack{
			Name:   entry.Name(),
			Path:   packPath,
			Global: global,
			Prefix: packNameToPrefix(entry.Name()),
		})
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs
}

// LoadAll loads every installed pack with its namespace prefix. Packs that
// fail to load fatally (broken manifest) are skipped with a log line; their
// names are returned in failed for diagnostics.
func (d *Discovery) LoadAll(ctx context.Context) (results []*loader.Result, failed []string, err error) {
	packs, err := d.ListInstalled()
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool)
	for _, pack := range packs {
		if seen[pack.Name] {
			continue // repo-local shadows global
		}
		seen[pack.Name] = true

		result, err := loader.Load(ctx, pack.Path, loader.WithNamePrefix(pack.Prefix))
		if err != nil {
			logger.G(ctx).WithField("pack", pack.Name).WithError(err).Debug("skipping pack with broken manifest")
			failed = append(failed, pack.Name)
			continue
		}
		results = append(results, result)
	}

	return results, failed, nil
}

// repoToPackName converts "owner/repo" to the "owner@repo" directory name.
// Only the first slash is replaced so nested paths stay intact.
func repoToPackName(repo string) string {
	if !strings.Contains(repo, "/") {
		return repo
	}
	return strings.Replace(repo, "/", "@", 1)
}

// packNameToPrefix converts "owner@repo" to the "owner/repo/" namespace.
func packNameToPrefix(name string) string {
	return strings.Replace(name, "@", "/", 1) + "/"
}
