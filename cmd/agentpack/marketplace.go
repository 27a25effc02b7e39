package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/marketplace"
	"github.com/agentpack/agentpack/pkg/presenter"
)

var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Manage marketplace plugin registrations",
	Long: `Register the plugins declared in a marketplace.json file, list
registrations, or remove one. Plugin names are unique per marketplace
namespace; a registration that would collide with an existing name
fails entirely and registers nothing.`,
}

var marketplaceRegisterCmd = &cobra.Command{
	Use:   "register [file]",
	Short: "Register the plugins of a marketplace.json file",
	Long: `Register every plugin named in the marketplace file (default
"./marketplace.json"). Registration is all-or-nothing.

Examples:
  agentpack marketplace register
  agentpack marketplace register ./my-pack/marketplace.json
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := marketplace.FileName
		if len(args) > 0 {
			path = args[0]
		}
		dbPath, _ := cmd.Flags().GetString("db")

		f, err := marketplace.Load(path)
		if err != nil {
			return err
		}

		registry, err := marketplace.OpenRegistry(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer registry.Close()

		entries, err := registry.Register(cmd.Context(), f)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			presenter.Info(fmt.Sprintf("registered %s/%s", entry.Marketplace, entry.Name))
		}
		presenter.Success(fmt.Sprintf("registered %d plugins in marketplace %q", len(entries), f.Name))
		return nil
	},
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list [namespace]",
	Short: "List registered plugins",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace := ""
		if len(args) > 0 {
			namespace = args[0]
		}
		dbPath, _ := cmd.Flags().GetString("db")

		registry, err := marketplace.OpenRegistry(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer registry.Close()

		entries, err := registry.List(cmd.Context(), namespace)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			presenter.Info("no plugins registered")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer tw.Flush()
		fmt.Fprintln(tw, "MARKETPLACE\tNAME\tREPOSITORY\tREGISTERED")
		for _, entry := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				entry.Marketplace, entry.Name, entry.Repository,
				entry.RegisteredAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var marketplaceRemoveCmd = &cobra.Command{
	Use:   "remove <namespace> <name>",
	Short: "Remove a plugin registration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")

		registry, err := marketplace.OpenRegistry(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer registry.Close()

		if err := registry.Remove(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		presenter.Success(fmt.Sprintf("removed %s/%s", args[0], args[1]))
		return nil
	},
}

func init() {
	marketplaceCmd.PersistentFlags().String("db", "", "Registry database path (defaults to ~/.agentpack/registry.db)")

	marketplaceCmd.AddCommand(marketplaceRegisterCmd)
	marketplaceCmd.AddCommand(marketplaceListCmd)
	marketplaceCmd.AddCommand(marketplaceRemoveCmd)
}
