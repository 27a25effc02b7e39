package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list (agents|skills|commands) [dir]",
	Short: "List the descriptors of a content pack",
	Long: `List the agents, skills, or commands of the content pack rooted at dir
(default ".").

Examples:
  agentpack list agents
  agentpack list skills ./my-pack
  agentpack list skills --resources   # Include bundled resource files
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		dir := "."
		if len(args) > 1 {
			dir = args[1]
		}
		showResources, _ := cmd.Flags().GetBool("resources")

		result, err := loader.Load(cmd.Context(), dir)
		if err != nil {
			return err
		}
		for _, e := range result.Report.Errors {
			presenter.Warning(e.Error())
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer tw.Flush()

		switch kind {
		case "agents":
			fmt.Fprintln(tw, "NAME\tDESCRIPTION\tKEYWORDS")
			for _, a := range result.Agents {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, a.Description, strings.Join(a.MatchKeywords(), ", "))
			}
		case "skills":
			fmt.Fprintln(tw, "NAME\tDESCRIPTION\tKEYWORDS")
			for _, s := range result.Skills {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Description, strings.Join(s.MatchKeywords(), ", "))
				if showResources {
					for _, r := range s.Resources {
						fmt.Fprintf(tw, "  %s\t\t\n", r)
					}
				}
			}
		case "commands":
			fmt.Fprintln(tw, "TRIGGER\tDESCRIPTION")
			for _, c := range result.Commands {
				fmt.Fprintf(tw, "%s\t%s\n", c.Trigger(), c.Description)
			}
		default:
			return errors.Errorf("unknown descriptor kind %q: expected agents, skills, or commands", kind)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().Bool("resources", false, "Show bundled resource files for each skill")
}
