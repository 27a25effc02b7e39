package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func agentDoc(name string) string {
	return fmt.Sprintf(`---
name: %s
description: Test agent %s
keywords:
  - kotlin
---

Persona body.
`, name, name)
}

func skillDoc(name string) string {
	return fmt.Sprintf(`---
name: %s
description: Test skill %s
keywords:
  - compose
---

Skill body.
`, name, name)
}

// newPack lays out a complete valid content pack and returns its root.
func newPack(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "plugin.json"), `{
		"name": "android-development-assistant",
		"version": "1.0.0",
		"paths": {
			"agents": "agents",
			"skills": "skills",
			"commands": "commands",
			"hooks": "hooks"
		}
	}`)

	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("agent-%d", i)
		writeFile(t, filepath.Join(root, "agents", name+".md"), agentDoc(name))
	}
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("skill-%d", i)
		writeFile(t, filepath.Join(root, "skills", name, "SKILL.md"), skillDoc(name))
	}
	writeFile(t, filepath.Join(root, "commands", "roadmap.md"), "# /roadmap\n\nHelp text.\n")
	writeFile(t, filepath.Join(root, "hooks", "hooks.json"), `{
		"hooks": {"plugin_load": [{"action": "inject_context"}]}
	}`)

	return root
}

func TestLoadCompletePack(t *testing.T) {
	root := newPack(t)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, result.Agents, 7)
	assert.Len(t, result.Skills, 7)
	assert.Len(t, result.Commands, 1)
	require.NotNil(t, result.Hooks)
	assert.False(t, result.Report.HasErrors())
	assert.NoError(t, result.Report.Err())
}

func TestLoadIsIdempotent(t *testing.T) {
	root := newPack(t)
	ctx := context.Background()

	first, err := Load(ctx, root)
	require.NoError(t, err)
	second, err := Load(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, first.Manifest, second.Manifest)
	assert.Equal(t, first.Agents, second.Agents)
	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Commands, second.Commands)
}

func TestLoadDeterministicOrder(t *testing.T) {
	root := newPack(t)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	for i := 1; i < len(result.Agents); i++ {
		assert.Less(t, result.Agents[i-1].Name, result.Agents[i].Name)
	}
	for i := 1; i < len(result.Skills); i++ {
		assert.Less(t, result.Skills[i-1].Name, result.Skills[i].Name)
	}
}

func TestLoadMissingManifestIsFatal(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestLoadMissingDeclaredPath(t *testing.T) {
	root := newPack(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "agents")))

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, result.Agents)
	// Other kinds still load despite the failure.
	assert.Len(t, result.Skills, 7)

	require.True(t, result.Report.HasErrors())
	var missing *MissingFileError
	require.ErrorAs(t, result.Report.Err(), &missing)
	assert.Equal(t, "agents", missing.Kind)
	assert.Equal(t, "agents", missing.Path)
}

func TestLoadUnreadableDeclaredPathNamesCause(t *testing.T) {
	root := newPack(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "agents")))
	// The declared path exists but is a regular file, not a directory.
	writeFile(t, filepath.Join(root, "agents"), "not a directory")

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	var missing *MissingFileError
	require.ErrorAs(t, result.Report.Err(), &missing)
	assert.Equal(t, "agents", missing.Kind)
	assert.NotEqual(t, "path does not exist", missing.Reason)
	assert.NotEmpty(t, missing.Reason)
}

func TestLoadEmptyDeclaredPathNeverSilent(t *testing.T) {
	root := newPack(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "skills")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skills"), 0o755))

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, result.Skills)
	var missing *MissingFileError
	require.ErrorAs(t, result.Report.Err(), &missing)
	assert.Equal(t, "skills", missing.Kind)
}

func TestLoadMalformedFrontmatterIsolation(t *testing.T) {
	root := newPack(t)
	writeFile(t, filepath.Join(root, "skills", "broken", "SKILL.md"), `---
description: [unterminated
---

Body.
`)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	// The six siblings (plus one extra valid) still load.
	assert.Len(t, result.Skills, 7)

	var malformed *MalformedFrontmatterError
	require.ErrorAs(t, result.Report.Err(), &malformed)
	assert.Contains(t, malformed.Path, filepath.Join("broken", "SKILL.md"))
}

func TestLoadUnterminatedFrontmatterIsolation(t *testing.T) {
	root := newPack(t)
	// Valid YAML lines, but the closing "---" never comes.
	writeFile(t, filepath.Join(root, "skills", "never-closed", "SKILL.md"), `---
name: never-closed
description: missing the closing delimiter
`)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, result.Skills, 7)

	var malformed *MalformedFrontmatterError
	require.ErrorAs(t, result.Report.Err(), &malformed)
	assert.Contains(t, malformed.Path, filepath.Join("never-closed", "SKILL.md"))
	assert.Contains(t, malformed.Error(), "unterminated")
}

func TestLoadSkillDirWithoutSkillFile(t *testing.T) {
	root := newPack(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skills", "no-doc"), 0o755))

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, result.Skills, 7)
	var missing *MissingFileError
	require.ErrorAs(t, result.Report.Err(), &missing)
}

func TestLoadUnknownHookEventWarns(t *testing.T) {
	root := newPack(t)
	writeFile(t, filepath.Join(root, "hooks", "hooks.json"), `{
		"hooks": {"time_travel": [{"action": "jump"}]}
	}`)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	assert.False(t, result.Report.HasErrors())
	require.Len(t, result.Report.Warnings, 1)
	assert.Contains(t, result.Report.Warnings[0], "time_travel")
}

func TestLoadWithNamePrefix(t *testing.T) {
	root := newPack(t)

	result, err := Load(context.Background(), root, WithNamePrefix("acme/android/"))
	require.NoError(t, err)

	assert.Equal(t, "acme/android/agent-1", result.Agents[0].Name)
	assert.Equal(t, "acme/android/skill-1", result.Skills[0].Name)
	assert.Equal(t, "acme/android/roadmap", result.Commands[0].Name)
}

func TestCandidates(t *testing.T) {
	root := newPack(t)

	result, err := Load(context.Background(), root)
	require.NoError(t, err)

	candidates := result.Candidates()
	require.Len(t, candidates, 14)
	assert.Equal(t, "agent-1", candidates[0].Name)
	assert.Equal(t, []string{"kotlin"}, candidates[0].Keywords)
	assert.Equal(t, "skill-1", candidates[7].Name)
}
