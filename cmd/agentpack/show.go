package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/loader"
	"github.com/agentpack/agentpack/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a descriptor document by name",
	Long: `Show the full Markdown body of the named agent, skill, or command.
Commands may also be addressed by their slash trigger.

Examples:
  agentpack show code-reviewer
  agentpack show /help --dir ./my-pack
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, _ := cmd.Flags().GetString("dir")

		result, err := loader.Load(cmd.Context(), dir)
		if err != nil {
			return err
		}

		for _, a := range result.Agents {
			if a.Name == name {
				presenter.Section(fmt.Sprintf("agent %s", a.Name))
				fmt.Println(a.Body)
				return nil
			}
		}
		for _, s := range result.Skills {
			if s.Name == name {
				presenter.Section(fmt.Sprintf("skill %s", s.Name))
				fmt.Println(s.Body)
				for _, r := range s.Resources {
					presenter.Info(fmt.Sprintf("resource: %s", r))
				}
				return nil
			}
		}
		for _, c := range result.Commands {
			if c.Name == name || c.Trigger() == name {
				presenter.Section(fmt.Sprintf("command %s", c.Trigger()))
				fmt.Println(c.Body)
				return nil
			}
		}

		return errors.Errorf("no agent, skill, or command named %q", name)
	},
}

func init() {
	showCmd.Flags().String("dir", ".", "Content pack directory")
}
