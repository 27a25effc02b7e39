package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHooks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeHooks(t, `{
		"hooks": {
			"plugin_install": [
				{"name": "welcome", "action": "show_message", "with": {"text": "Welcome!"}}
			],
			"session_start": [
				{"action": "inject_context"}
			]
		}
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"plugin_install", "session_start"}, f.Events())
	assert.Equal(t, "show_message", f.Hooks[EventPluginInstall][0].Action)
	assert.Equal(t, "Welcome!", f.Hooks[EventPluginInstall][0].With["text"])
	assert.Empty(t, f.UnknownEvents())
}

func TestLoadUnknownEventWarnsNotFails(t *testing.T) {
	path := writeHooks(t, `{
		"hooks": {
			"quantum_leap": [{"action": "do_thing"}]
		}
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"quantum_leap"}, f.UnknownEvents())
}

func TestLoadRejectsEmptyActions(t *testing.T) {
	path := writeHooks(t, `{
		"hooks": {
			"plugin_load": []
		}
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no actions")
}

func TestLoadRejectsMissingActionVerb(t *testing.T) {
	path := writeHooks(t, `{
		"hooks": {
			"plugin_load": [{"name": "nameless"}]
		}
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no action verb")
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeHooks(t, `{"hooks":`)
	_, err := Load(path)
	assert.Error(t, err)
}
