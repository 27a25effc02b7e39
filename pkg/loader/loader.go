// Package loader reads a content pack from disk: it parses plugin.json,
// loads every declared agent, skill, command, and hook document, and
// accumulates validation failures instead of stopping at the first one.
// Partial plugin functionality beats total failure for documentation-only
// artifacts, so missing paths and malformed documents are collected into a
// report while everything well-formed still loads.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/agentpack/agentpack/pkg/agents"
	"github.com/agentpack/agentpack/pkg/commands"
	"github.com/agentpack/agentpack/pkg/hooks"
	"github.com/agentpack/agentpack/pkg/logger"
	"github.com/agentpack/agentpack/pkg/manifest"
	"github.com/agentpack/agentpack/pkg/matcher"
	"github.com/agentpack/agentpack/pkg/skills"
)

// Report accumulates non-fatal validation failures and warnings produced
// while loading a pack.
type Report struct {
	Errors   []error
	Warnings []string
}

// Add records a non-fatal validation error.
func (r *Report) Add(err error) {
	r.Errors = append(r.Errors, err)
}

// AddWarning records an advisory finding that does not affect loading.
func (r *Report) AddWarning(w string) {
	r.Warnings = append(r.Warnings, w)
}

// HasErrors reports whether any validation errors were recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err folds the recorded errors into a single error, or nil when clean.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, err := range r.Errors {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Result is a fully loaded content pack plus its validation report.
type Result struct {
	Manifest *manifest.Manifest
	Agents   []*agents.Agent
	Skills   []*skills.Skill
	Commands []*commands.Command
	Hooks    *hooks.File
	Report   *Report
}

// Option configures a Load call.
type Option func(*config)

type config struct {
	namePrefix string
}

// WithNamePrefix namespaces every loaded descriptor name, e.g. "owner/repo/".
// Installed plugin packs are loaded this way so names from different
// publishers cannot shadow each other.
func WithNamePrefix(prefix string) Option {
	return func(c *config) {
		c.namePrefix = prefix
	}
}

// Load reads the content pack rooted at dir. A missing or invalid manifest is
// fatal; everything else is collected into the result's report. Directory
// entries are processed in lexicographic order so diagnostics are
// reproducible across runs.
func Load(ctx context.Context, dir string, opts ...Option) (*Result, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}

	log := logger.G(ctx).WithField("plugin", m.Name)
	log.WithField("root", dir).Debug("loading content pack")

	result := &Result{
		Manifest: m,
		Report:   &Report{},
	}

	if m.Paths.Agents != "" {
		result.Agents = loadAgents(ctx, m, cfg.namePrefix, result.Report)
	}
	if m.Paths.Skills != "" {
		result.Skills = loadSkills(ctx, m, cfg.namePrefix, result.Report)
	}
	if m.Paths.Commands != "" {
		result.Commands = loadCommands(ctx, m, cfg.namePrefix, result.Report)
	}
	if m.Paths.Hooks != "" {
		result.Hooks = loadHooks(ctx, m, result.Report)
	}

	log.WithFields(map[string]interface{}{
		"agents":   len(result.Agents),
		"skills":   len(result.Skills),
		"commands": len(result.Commands),
		"errors":   len(result.Report.Errors),
	}).Debug("content pack loaded")

	return result, nil
}

// Candidates returns the pack's agents and skills as matcher candidates in
// load order. Commands are excluded: they are invoked by slash trigger, not
// matched against free text.
func (r *Result) Candidates() []matcher.Candidate {
	candidates := make([]matcher.Candidate, 0, len(r.Agents)+len(r.Skills))
	for _, a := range r.Agents {
		candidates = append(candidates, matcher.Candidate{
			Name:        a.Name,
			Kind:        matcher.KindAgent,
			Description: a.Description,
			Keywords:    a.MatchKeywords(),
		})
	}
	for _, s := range r.Skills {
		candidates = append(candidates, matcher.Candidate{
			Name:        s.Name,
			Kind:        matcher.KindSkill,
			Description: s.Description,
			Keywords:    s.MatchKeywords(),
		})
	}
	return candidates
}

func loadAgents(ctx context.Context, m *manifest.Manifest, prefix string, report *Report) []*agents.Agent {
	dir := m.ResolvePath(m.Paths.Agents)

	files, ok := listFiles(dir, ".md", "agents", m.Paths.Agents, report)
	if !ok {
		return nil
	}

	var loaded []*agents.Agent
	for _, path := range files {
		agent, err := agents.Load(path)
		if err != nil {
			report.Add(&MalformedFrontmatterError{Path: path, Err: err})
			logger.G(ctx).WithField("path", path).WithError(err).Debug("skipping malformed agent document")
			continue
		}
		agent.Name = prefix + agent.Name
		loaded = append(loaded, agent)
	}

	if len(loaded) == 0 && len(files) == 0 {
		report.Add(&MissingFileError{Kind: "agents", Path: m.Paths.Agents, Reason: "no agent documents found"})
	}

	return loaded
}

func loadSkills(ctx context.Context, m *manifest.Manifest, prefix string, report *Report) []*skills.Skill {
	dir := m.ResolvePath(m.Paths.Skills)

	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Add(&MissingFileError{Kind: "skills", Path: m.Paths.Skills, Reason: readFailureReason(err)})
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var loaded []*skills.Skill
	for _, name := range names {
		skillDir := filepath.Join(dir, name)
		if _, err := os.Stat(filepath.Join(skillDir, skills.FileName)); err != nil {
			report.Add(&MissingFileError{
				Kind:   "skills",
				Path:   filepath.ToSlash(filepath.Join(m.Paths.Skills, name, skills.FileName)),
				Reason: readFailureReason(err),
			})
			continue
		}

		skill, err := skills.Load(skillDir, m.Ignore)
		if err != nil {
			report.Add(&MalformedFrontmatterError{Path: filepath.Join(skillDir, skills.FileName), Err: err})
			logger.G(ctx).WithField("dir", skillDir).WithError(err).Debug("skipping malformed skill document")
			continue
		}
		skill.Name = prefix + skill.Name
		loaded = append(loaded, skill)
	}

	if len(loaded) == 0 && len(names) == 0 {
		report.Add(&MissingFileError{Kind: "skills", Path: m.Paths.Skills, Reason: "no skill directories found"})
	}

	return loaded
}

func loadCommands(ctx context.Context, m *manifest.Manifest, prefix string, report *Report) []*commands.Command {
	dir := m.ResolvePath(m.Paths.Commands)

	files, ok := listFiles(dir, ".md", "commands", m.Paths.Commands, report)
	if !ok {
		return nil
	}

	var loaded []*commands.Command
	for _, path := range files {
		cmd, err := commands.Load(path)
		if err != nil {
			report.Add(&MalformedFrontmatterError{Path: path, Err: err})
			logger.G(ctx).WithField("path", path).WithError(err).Debug("skipping malformed command document")
			continue
		}
		cmd.Name = prefix + cmd.Name
		loaded = append(loaded, cmd)
	}

	if len(loaded) == 0 && len(files) == 0 {
		report.Add(&MissingFileError{Kind: "commands", Path: m.Paths.Commands, Reason: "no command documents found"})
	}

	return loaded
}

func loadHooks(ctx context.Context, m *manifest.Manifest, report *Report) *hooks.File {
	path := filepath.Join(m.ResolvePath(m.Paths.Hooks), hooks.FileName)

	if _, err := os.Stat(path); err != nil {
		report.Add(&MissingFileError{
			Kind:   "hooks",
			Path:   filepath.ToSlash(filepath.Join(m.Paths.Hooks, hooks.FileName)),
			Reason: readFailureReason(err),
		})
		return nil
	}

	f, err := hooks.Load(path)
	if err != nil {
		report.Add(err)
		return nil
	}

	for _, event := range f.UnknownEvents() {
		report.AddWarning(fmt.Sprintf("hooks: unrecognized event name %q", event))
		logger.G(ctx).WithField("event", event).Debug("unrecognized hook event")
	}

	return f
}

// readFailureReason distinguishes an absent path from other read failures
// (permissions, not a directory) so diagnostics name the real cause.
func readFailureReason(err error) string {
	if os.IsNotExist(err) {
		return "path does not exist"
	}
	return err.Error()
}

// listFiles returns the extension-matching files of dir in lexicographic
// order. On an unreadable directory it records a MissingFileError and returns
// ok=false.
func listFiles(dir, ext, kind, declared string, report *Report) ([]string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Add(&MissingFileError{Kind: kind, Path: declared, Reason: readFailureReason(err)})
		return nil, false
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, true
}
