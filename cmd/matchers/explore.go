package main

import (
	"github.com/praetorian-inc/matchers/pkg/explore"
	"github.com/spf13/cobra"
)

var exploreDatastore string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse recorded searches",
	Long: `Launch an interactive TUI to browse searches recorded with --datastore.

Features:
  - Filter pane listing matchers by usage
  - Searches table with vi-style navigation (j/k, g/G)
  - Details pane with haystack ID and match offsets`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDatastore, "datastore", "matchers.db", "Path to the history database")
}

func runExplore(cmd *cobra.Command, args []string) error {
	if err := checkDatastore(exploreDatastore); err != nil {
		return err
	}
	return explore.Run(exploreDatastore)
}
