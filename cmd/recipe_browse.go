/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/tui"
	"github.com/spf13/cobra"
)

var recipeBrowseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"ui"},
	Short:   "Browse recipes interactively and produce from the list",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The browser asks before producing, so the services never prompt themselves
		s, err := connect(cmd, brewery.AlwaysConfirm, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		deps := tui.Deps{Catalog: s.catalog, Ledger: s.ledger, Orchestrator: s.orch}
		return tui.Run(cmd.Context(), deps, brewery.NewView(models.Snapshot{}))
	},
}

func init() {
	recipeCmd.AddCommand(recipeBrowseCmd)
}
