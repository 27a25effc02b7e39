package marketplace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMarketplace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeMarketplace(t, `{
		"name": "android-learning",
		"repository": "https://github.com/acme/android-plugins",
		"plugins": ["android-development-assistant", "kotlin-basics"]
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "android-learning", f.Name)
	assert.Len(t, f.Plugins, 2)
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeMarketplace(t, `{
		"name": "android-learning",
		"plugins": ["pack"],
		"maintainer": "someone"
	}`)

	_, err := Load(path)
	assert.NoError(t, err)
}

func TestValidateRequiresName(t *testing.T) {
	f := &File{Plugins: []string{"pack"}}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestValidateRejectsBadRepositoryURL(t *testing.T) {
	f := &File{Name: "m", Repository: "not a url", Plugins: []string{"pack"}}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid repository URL")
}

func TestValidateDetectsDuplicatePluginIDs(t *testing.T) {
	f := &File{Name: "m", Plugins: []string{"pack", "pack"}}
	err := f.Validate()
	require.Error(t, err)

	var collision *NameCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "m", collision.Marketplace)
	assert.Equal(t, "pack", collision.Name)
}
