package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/logger"
	"github.com/agentpack/agentpack/pkg/presenter"
)

const watchDebounce = 500 * time.Millisecond

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a content pack",
	Long: `Validate the content pack rooted at dir (default ".").

Every declared path is checked and every document parsed; failures are
collected into a single report instead of stopping at the first one. The exit
code is non-zero when the report contains errors.

Examples:
  agentpack validate                 # Validate the pack in the current directory
  agentpack validate ./my-pack
  agentpack validate --format json   # Machine-readable report
  agentpack validate --watch         # Re-validate on file changes
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		format, _ := cmd.Flags().GetString("format")
		watch, _ := cmd.Flags().GetBool("watch")

		if watch {
			return watchAndValidate(cmd.Context(), dir, format)
		}

		clean, err := runValidation(cmd.Context(), dir, format)
		if err != nil {
			return err
		}
		if !clean {
			return errors.New("validation failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("format", "text", "Report format (text, json)")
	validateCmd.Flags().Bool("watch", false, "Re-validate whenever the pack changes")
}

// validationReport is the JSON shape of a validation run.
type validationReport struct {
	Plugin   string   `json:"plugin"`
	Version  string   `json:"version"`
	Agents   int      `json:"agents"`
	Skills   int      `json:"skills"`
	Commands int      `json:"commands"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func runValidation(ctx context.Context, dir, format string) (clean bool, err error) {
	result, err := loader.Load(ctx, dir)
	if err != nil {
		return false, err
	}

	report := validationReport{
		Plugin:   result.Manifest.Name,
		Version:  result.Manifest.Version,
		Agents:   len(result.Agents),
		Skills:   len(result.Skills),
		Commands: len(result.Commands),
		Warnings: result.Report.Warnings,
	}
	for _, e := range result.Report.Errors {
		report.Errors = append(report.Errors, e.Error())
	}

	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return false, errors.Wrap(err, "failed to marshal report")
		}
		fmt.Println(string(data))
		return !result.Report.HasErrors(), nil
	}

	presenter.Section(fmt.Sprintf("%s %s", report.Plugin, report.Version))
	presenter.Info(fmt.Sprintf("agents: %d, skills: %d, commands: %d", report.Agents, report.Skills, report.Commands))
	for _, w := range report.Warnings {
		presenter.Warning(w)
	}
	for _, e := range result.Report.Errors {
		presenter.Error(e, "")
	}
	if result.Report.HasErrors() {
		presenter.Info(fmt.Sprintf("%d problem(s) found", len(report.Errors)))
		return false, nil
	}
	presenter.Success("content pack is valid")
	return true, nil
}

func watchAndValidate(ctx context.Context, dir, format string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, dir); err != nil {
		return err
	}

	if _, err := runValidation(ctx, dir, format); err != nil {
		presenter.Error(err, "validation")
	}
	presenter.Info("watching for changes (Ctrl-C to stop)")

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.G(ctx).WithField("event", event.String()).Debug("file change detected")
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("file watcher error")
		case <-pending:
			presenter.Separator()
			if _, err := runValidation(ctx, dir, format); err != nil {
				presenter.Error(err, "validation")
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() == ".git" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
