package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/plugins"
	"github.com/agentpack/agentpack/pkg/presenter"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Install and manage content pack plugins",
	Long: `Install content packs from GitHub repositories into .agentpack/plugins/
(repo-local) or ~/.agentpack/plugins/ (global). Repo-local packs shadow
global packs of the same name.`,
}

var pluginAddCmd = &cobra.Command{
	Use:   "add <owner/repo>",
	Short: "Install a content pack from a GitHub repository",
	Long: `Clone the repository, validate it as a content pack, and install it.
Packs that fail validation are not installed.

Examples:
  agentpack plugin add myorg/review-pack
  agentpack plugin add myorg/review-pack --ref v2.1.0
  agentpack plugin add myorg/review-pack --global --force
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		force, _ := cmd.Flags().GetBool("force")
		ref, _ := cmd.Flags().GetString("ref")

		installer, err := plugins.NewInstaller(
			plugins.WithGlobal(global),
			plugins.WithForce(force),
		)
		if err != nil {
			return err
		}

		presenter.Info(fmt.Sprintf("installing %s...", args[0]))
		result, err := installer.Install(cmd.Context(), args[0], ref)
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("installed %s to %s", result.PackName, result.Path))
		presenter.Info(fmt.Sprintf("%d agents, %d skills, %d commands",
			result.Agents, result.Skills, result.Commands))
		return nil
	},
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed content packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		discovery, err := plugins.NewDiscovery()
		if err != nil {
			return err
		}

		packs, err := discovery.ListInstalled()
		if err != nil {
			return err
		}
		if len(packs) == 0 {
			presenter.Info("no content packs installed")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintln(tw, "NAME\tSCOPE\tPATH")
		for _, pack := range packs {
			scope := "local"
			if pack.Global {
				scope = "global"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", pack.Name, scope, pack.Path)
		}
		return nil
	},
}

var pluginRemoveCmd = &cobra.Command{
	Use:   "remove <owner@repo>",
	Short: "Remove an installed content pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		installer, err := plugins.NewInstaller(plugins.WithGlobal(global))
		if err != nil {
			return err
		}

		if err := installer.Remove(args[0]); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("removed %s", args[0]))
		return nil
	},
}

func init() {
	pluginAddCmd.Flags().Bool("global", false, "Install to ~/.agentpack instead of ./.agentpack")
	pluginAddCmd.Flags().Bool("force", false, "Overwrite an existing installation")
	pluginAddCmd.Flags().String("ref", "", "Git branch or tag to install")
	pluginRemoveCmd.Flags().Bool("global", false, "Remove from ~/.agentpack instead of ./.agentpack")

	pluginCmd.AddCommand(pluginAddCmd)
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginRemoveCmd)
}
