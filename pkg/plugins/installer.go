package plugins

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/logger"
)

// ReceiptFileName records install provenance inside an installed pack.
const ReceiptFileName = ".agentpack-receipt.json"

// ValidateRepoName validates a repository name of the form "owner/repo".
func ValidateRepoName(repo string) error {
	if repo == "" {
		return errors.New("repository name cannot be empty")
	}
	if !strings.Contains(repo, "/") {
		return errors.Errorf("invalid repository format %q: expected 'owner/repo'", repo)
	}
	parts := strings.SplitN(repo, "/", 2)
	if parts[0] == "" || parts[1] == "" {
		return errors.Errorf("invalid repository format %q: owner and repo cannot be empty", repo)
	}
	return nil
}

// Installer installs content packs from git repositories.
type Installer struct {
	global    bool
	force     bool
	targetDir string
	homeDir   string
	cloneURL  func(repo string) string
}

// InstallerOption configures an Installer instance
type InstallerOption func(*Installer)

// WithGlobal installs packs to the global directory
func WithGlobal(global bool) InstallerOption {
	return func(i *Installer) {
		i.global = global
	}
}

// WithForce overwrites an existing installation
func WithForce(force bool) InstallerOption {
	return func(i *Installer) {
		i.force = force
	}
}

// WithTargetDir overrides the install destination (for testing)
func WithTargetDir(dir string) InstallerOption {
	return func(i *Installer) {
		i.targetDir = dir
	}
}

// WithCloneURL overrides how a repo name maps to a git URL (for testing)
func WithCloneURL(f func(repo string) string) InstallerOption {
	return func(i *Installer) {
		i.cloneURL = f
	}
}

// NewInstaller creates a new pack installer
func NewInstaller(opts ...InstallerOption) (*Installer, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	i := &Installer{
		homeDir: homeDir,
		cloneURL: func(repo string) string {
			return "https://github.com/" + repo + ".git"
		},
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.targetDir == "" {
		if i.global {
			i.targetDir = filepath.Join(homeDir, agentpackDir)
		} else {
			i.targetDir = agentpackDir
		}
	}

	return i, nil
}

// Receipt records where an installed pack came from.
type Receipt struct {
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Ref         string    `json:"ref,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// InstallResult describes a completed installation.
type InstallResult struct {
	PackName string
	Path     string
	Agents   int
	Skills   int
	Commands int
}

// Install clones the repository, validates it as a content pack, and copies
// it into the plugins directory. The clone is retried with backoff because
// transient network failures are the common case; validation failures are
// terminal.
func (i *Installer) Install(ctx context.Context, repo, ref string) (*InstallResult, error) {
	if err := ValidateRepoName(repo); err != nil {
		return nil, err
	}

	tempDir, err := i.cloneRepo(ctx, repo, ref)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	result, err := loader.Load(ctx, tempDir)
	if err != nil {
		return nil, errors.Wrapf(err, "repository %s is not a valid content pack", repo)
	}
	if err := result.Report.Err(); err != nil {
		return nil, errors.Wrapf(err, "content pack %s failed validation", repo)
	}

	packName := repoToPackName(repo)
	packDir := filepath.Join(i.targetDir, pluginsSubdir, packName)

	if _, err := os.Stat(packDir); err == nil {
		if !i.force {
			return nil, errors.Errorf("pack %q is already installed (use force to overwrite)", packName)
		}
		if err := os.RemoveAll(packDir); err != nil {
			return nil, errors.Wrap(err, "failed to remove existing pack")
		}
	}

	if err := copyDir(tempDir, packDir); err != nil {
		os.RemoveAll(packDir)
		return nil, errors.Wrapf(err, "failed to install pack %q", packName)
	}

	if err := writeReceipt(packDir, repo, ref); err != nil {
		os.RemoveAll(packDir)
		return nil, err
	}

	logger.G(ctx).WithFields(map[string]interface{}{
		"pack": packName,
		"path": packDir,
	}).Debug("installed content pack")

	return &InstallResult{
		PackName: packName,
		Path:     packDir,
		Agents:   len(result.Agents),
		Skills:   len(result.Skills),
		Commands: len(result.Commands),
	}, nil
}

// Remove deletes an installed pack.
func (i *Installer) Remove(packName string) error {
	packDir := filepath.Join(i.targetDir, pluginsSubdir, packName)
	if _, err := os.Stat(packDir); err != nil {
		return errors.Errorf("pack %q is not installed", packName)
	}
	return errors.Wrapf(os.RemoveAll(packDir), "failed to remove pack %q", packName)
}

func (i *Installer) cloneRepo(ctx context.Context, repo, ref string) (string, error) {
	tempDir, err := os.MkdirTemp("", "agentpack-install-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp directory")
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, i.cloneURL(repo), tempDir)

	err = retry.Do(
		func() error {
			cmd := exec.CommandContext(ctx, "git", args...)
			if output, err := cmd.CombinedOutput(); err != nil {
				return errors.Wrapf(err, "git clone failed: %s", strings.TrimSpace(string(output)))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", errors.Wrapf(err, "failed to clone repository %s", repo)
	}

	return tempDir, nil
}

func writeReceipt(packDir, repo, ref string) error {
	receipt := Receipt{
		ID:          uuid.NewString(),
		Repo:        repo,
		Ref:         ref,
		InstalledAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal install receipt")
	}

	return errors.Wrap(
		os.WriteFile(filepath.Join(packDir, ReceiptFileName), data, 0o644),
		"failed to write install receipt")
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
