package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/manifest"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema for plugin.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := manifest.SchemaJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}
