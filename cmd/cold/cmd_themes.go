package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cold/internal/themes"
)

var themesFlags struct {
	definitions bool
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the theme vocabulary",
	Args:  cobra.NoArgs,
	// The vocabulary is embedded; no configuration is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := themes.Default()
		if themesFlags.definitions {
			fmt.Fprintln(cmd.OutOrStdout(), catalog.Table())
			return nil
		}
		for _, name := range catalog.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	themesCmd.Flags().BoolVarP(&themesFlags.definitions, "definitions", "d", false, "Print a Markdown table with definitions")
}
