/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/dstockto/brewctl/brewery"
	"github.com/spf13/cobra"
)

var inventoryAddCmd = &cobra.Command{
	Use:   "add <name> [stock]",
	Short: "Add a new ingredient",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("category")
		cat, err := ParseCategoryFlag(raw)
		if err != nil {
			return err
		}
		if cat == "" {
			return errors.New("--category is required")
		}
		stock := ""
		if len(args) > 1 {
			stock = args[1]
		}
		unitID, _ := cmd.Flags().GetInt("unit-id")

		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ing, err := s.ledger.AddIngredient(cmd.Context(), args[0], cat, stock, unitID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", ing)
		return nil
	},
}

var inventoryDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an ingredient",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		s, err := connect(cmd, confirmer(yes), nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		inventory, err := s.ledger.FetchInventory(ctx)
		if err != nil {
			return err
		}
		ing, err := brewery.FindIngredient(inventory, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := s.ledger.DeleteIngredient(ctx, ing); err != nil {
			if brewery.IsAbort(err) {
				_, _ = fmt.Fprintln(out, "Deletion aborted.")
				return nil
			}
			return err
		}
		_, _ = fmt.Fprintf(out, "Ingredient #%d %s deleted successfully.\n", ing.ID, ing.Name)
		return nil
	},
}

func init() {
	inventoryCmd.AddCommand(inventoryAddCmd, inventoryDeleteCmd)

	inventoryAddCmd.Flags().StringP("category", "k", "", "category of the new ingredient (malt, hop, yeast)")
	inventoryAddCmd.Flags().Int("unit-id", 0, "backend unit id (default: the backend's default unit)")
	inventoryDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
