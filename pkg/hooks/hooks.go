// Package hooks parses the hooks.json automation-trigger declarations a
// content pack may ship. Hooks map lifecycle event names to actions the host
// runtime performs; this toolchain validates the mapping but never executes
// anything.
package hooks

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FileName is the hooks declaration file expected inside the hooks directory.
const FileName = "hooks.json"

// Event names the host runtime fires. Packs may declare hooks for events this
// toolchain does not know yet; those produce warnings, not errors.
const (
	EventPluginInstall    = "plugin_install"
	EventPluginLoad       = "plugin_load"
	EventSessionStart     = "session_start"
	EventUserPromptSubmit = "user_prompt_submit"
	EventAgentActivate    = "agent_activate"
)

var knownEvents = map[string]bool{
	EventPluginInstall:    true,
	EventPluginLoad:       true,
	EventSessionStart:     true,
	EventUserPromptSubmit: true,
	EventAgentActivate:    true,
}

// Action is one declared automation action for an event.
type Action struct {
	Name   string         `json:"name,omitempty"`
	Action string         `json:"action"`
	With   map[string]any `json:"with,omitempty"`
}

// File is the parsed hooks.json. Unknown JSON keys are ignored.
type File struct {
	Hooks map[string][]Action `json:"hooks"`

	Path string `json:"-"`
}

// Load reads and structurally validates a hooks.json file.
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
		return nil, errors.Wrapf(err, "invalid hooks file %s", path)
	}

	return &f, nil
}

// Validate rejects structurally broken declarations: an event with no
// actions, or an action with no action verb.
func (f *File) Validate() error {
	var result *multierror.Error

	for _, event := range f.Events() {
		actions := f.Hooks[event]
		if len(actions) == 0 {
			result = multierror.Append(result, errors.Errorf("event %q declares no actions", event))
			continue
		}
		for i, a := range actions {
			if a.Action == "" {
				result = multierror.Append(result, errors.Errorf("event %q action #%d has no action verb", event, i+1))
			}
		}
	}

	return result.ErrorOrNil()
}

// UnknownEvents returns declared event names this toolchain does not
// recognize, sorted for stable diagnostics.
func (f *File) UnknownEvents() []string {
	var unknown []string
	for event := range f.Hooks {
		if !knownEvents[event] {
			unknown = append(unknown, event)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Events returns all declared event names in sorted order.
func (f *File) Events() []string {
	events := make([]string, 0, len(f.Hooks))
	for event := range f.Hooks {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}
