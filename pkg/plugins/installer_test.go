package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRepoName(t *testing.T) {
	assert.NoError(t, ValidateRepoName("acme/android-pack"))

	for _, repo := range []string{"", "no-slash", "/repo", "owner/"} {
		assert.Error(t, ValidateRepoName(repo), repo)
	}
}

func TestNewInstallerTargetDirs(t *testing.T) {
	local, err := NewInstaller()
	require.NoError(t, err)
	assert.Equal(t, agentpackDir, local.targetDir)

	global, err := NewInstaller(WithGlobal(true))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(global.homeDir, agentpackDir), global.targetDir)
}

func TestInstallerRemove(t *testing.T) {
	target := t.TempDir()
	installer, err := NewInstaller(WithTargetDir(target))
	require.NoError(t, err)

	packDir := filepath.Join(target, pluginsSubdir, "acme@android")
	require.NoError(t, os.MkdirAll(packDir, 0o755))

	require.NoError(t, installer.Remove("acme@android"))
	_, statErr := os.Stat(packDir)
	assert.True(t, os.IsNotExist(statErr))

	assert.Error(t, installer.Remove("acme@android"))
}

func TestCopyDirSkipsGitMetadata(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git", "objects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "skills"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "plugin.json"), []byte("{}"), 0o644))

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, copyDir(src, dst))

	_, err := os.Stat(filepath.Join(dst, "plugin.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteReceipt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeReceipt(dir, "acme/android", "v1.0.0"))

	data, err := os.ReadFile(filepath.Join(dir, ReceiptFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repo": "acme/android"`)
	assert.Contains(t, string(data), `"ref": "v1.0.0"`)
}
