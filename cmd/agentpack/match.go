package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/matcher"
	"github.com/agentpack/agentpack/pkg/plugins"
	"github.com/agentpack/agentpack/pkg/presenter"
)

var matchCmd = &cobra.Command{
	Use:   "match <query>",
	Short: "Rank agents and skills against a query",
	Long: `Match a free-text query against the keywords of every agent and skill
in the current pack and all installed plugins, ranked by the number of
matched keywords.

Examples:
  agentpack match "set up a new kotlin project"
  agentpack match "review this pull request" --dir ./my-pack
  agentpack match "deploy" --no-plugins
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		dir, _ := cmd.Flags().GetString("dir")
		noPlugins, _ := cmd.Flags().GetBool("no-plugins")

		var candidates []matcher.Candidate

		result, err := loader.Load(cmd.Context(), dir)
		if err == nil {
			candidates = append(candidates, result.Candidates()...)
		} else if !noPlugins {
			presenter.Warning(fmt.Sprintf("no pack at %s: %v", dir, err))
		} else {
			return err
		}

		if !noPlugins {
			discovery, derr := plugins.NewDiscovery(plugins.WithBaseDir(filepath.Join(dir, ".agentpack")))
			if derr != nil {
				return derr
			}
			installed, failed, lerr := discovery.LoadAll(cmd.Context())
			if lerr != nil {
				presenter.Warning(lerr.Error())
			}
			for _, name := range failed {
				presenter.Warning(fmt.Sprintf("skipping plugin %s: failed to load", name))
			}
			for _, res := range installed {
				candidates = append(candidates, res.Candidates()...)
			}
		}

		matches := matcher.Rank(cmd.Context(), query, candidates)
		if len(matches) == 0 {
			presenter.Info("no agents or skills matched")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintln(tw, "NAME\tKIND\tSCORE\tMATCHED")
		for _, m := range matches {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.Name, m.Kind, m.Score, strings.Join(m.Matched, ", "))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().String("dir", ".", "Content pack directory")
	matchCmd.Flags().Bool("no-plugins", false, "Match only the local pack, skip installed plugins")
}
