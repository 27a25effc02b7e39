package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/presenter"
	"github.com/agentpack/agentpack/pkg/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new content pack",
	Long: `Create a starter content pack with a plugin.json manifest, one sample
agent, skill, and command, and an empty hooks file.

Examples:
  agentpack init my-pack
  agentpack init my-pack --dir . --description "Team review helpers"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		description, _ := cmd.Flags().GetString("description")
		packVersion, _ := cmd.Flags().GetString("pack-version")

		created, err := scaffold.Create(scaffold.Options{
			Name:        args[0],
			Version:     packVersion,
			Description: description,
			Dir:         dir,
		})
		if err != nil {
			return err
		}

		for _, path := range created {
			presenter.Info(fmt.Sprintf("created %s", path))
		}
		presenter.Success(fmt.Sprintf("content pack %q is ready", args[0]))
		return nil
	},
}

func init() {
	initCmd.Flags().String("dir", "", "Destination directory (defaults to ./<name>)")
	initCmd.Flags().String("description", "", "Pack description for the manifest")
	initCmd.Flags().String("pack-version", "0.1.0", "Initial pack version")
}
