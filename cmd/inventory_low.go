/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"

	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// inventoryLowCmd lists ingredients that are running low so you know what to reorder
var inventoryLowCmd = &cobra.Command{
	Use:     "low [name|#id]",
	Short:   "Show ingredients running low so you know what to reorder",
	Long:    "List ingredients whose stock is at or under their low_thresholds entry, or --max-remaining when none matches.",
	Aliases: []string{"reorder"},
	RunE:    runInventoryLow,
}

// defaultLowFlag reads --max-remaining; a bad value disables the fallback.
func defaultLowFlag(cmd *cobra.Command) decimal.Decimal {
	raw, _ := cmd.Flags().GetString("max-remaining")
	d, err := models.ParseQuantity(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// isLow keeps ingredients at or under their threshold. A zero threshold disables the check.
func isLow(fallback decimal.Decimal) ingredientFilter {
	return func(ing models.Ingredient) bool {
		thr := ResolveLowThreshold(ing.Category, ing.Name, fallback)
		return thr.IsPositive() && ing.Stock.LessThanOrEqual(thr)
	}
}

func runInventoryLow(cmd *cobra.Command, args []string) error {
	s, err := connect(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	// Default to wildcard if no name provided
	if len(args) == 0 {
		args = append(args, "*")
	}

	raw, _ := cmd.Flags().GetString("category")
	cat, err := ParseCategoryFlag(raw)
	if err != nil {
		return err
	}
	fallback := defaultLowFlag(cmd)
	aggFilter := aggregateFilter(categoryFilter(cat), isLow(fallback))
	showPurchase, _ := cmd.Flags().GetBool("purchase")

	cmd.SilenceUsage = true
	inventory, err := s.ledger.FetchInventory(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, a := range args {
		name := a
		if a != "*" {
			name = "'" + a + "'"
		}
		low := matchIngredients(inventory, a, aggFilter)

		header := fmt.Sprintf("Ingredients running low matching %s: %d\n", name, len(low))
		if len(low) == 0 {
			_, _ = color.New(color.FgHiRed).Fprint(out, header)
			continue
		}
		_, _ = color.New(color.FgGreen).Fprint(out, header)
		for _, ing := range low {
			thr := ResolveLowThreshold(ing.Category, ing.Name, fallback)
			_, _ = fmt.Fprintf(out, " - %s (reorder at %s %s)\n", ing, models.FormatQuantity(thr), unitOf(ing))
			if showPurchase {
				_, _ = fmt.Fprintf(out, "   %s\n", shopLink(string(ing.Category), ing.Name))
			}
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

func init() {
	inventoryCmd.AddCommand(inventoryLowCmd)

	inventoryLowCmd.Flags().String("max-remaining", "1", "threshold used when no low_thresholds entry matches (0 to disable)")
	inventoryLowCmd.Flags().StringP("category", "k", "", "filter by category (malt, hop, yeast or a configured alias)")
	inventoryLowCmd.Flags().Bool("purchase", false, "show a shop search link for each ingredient")
}
