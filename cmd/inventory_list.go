/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// inventoryListCmd represents the inventory list command.
var inventoryListCmd = &cobra.Command{
	Use:   "list [name or id...]",
	Short: "list ingredients by name or id",
	Long: `List ingredients matching a name or id. You can provide multiple names or ids. For multi-word names, enclose
	in quotes. Names match partially, ignoring case and accents. To show everything, use the wildcard character '*'.`,
	RunE:    runInventoryList,
	Aliases: []string{"ls", "find", "f"},
}

func runInventoryList(cmd *cobra.Command, args []string) error {
	s, err := connect(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 0 {
		args = append(args, "*")
	}

	var filters []ingredientFilter

	raw, _ := cmd.Flags().GetString("category")
	cat, err := ParseCategoryFlag(raw)
	if err != nil {
		return err
	}
	filters = append(filters, categoryFilter(cat))

	if only, _ := cmd.Flags().GetBool("in-stock"); only {
		filters = append(filters, inStock)
	}
	if only, _ := cmd.Flags().GetBool("empty"); only {
		filters = append(filters, outOfStock)
	}
	if low, _ := cmd.Flags().GetBool("low"); low {
		filters = append(filters, isLow(defaultLowFlag(cmd)))
	}
	aggFilter := aggregateFilter(filters...)
	showPurchase, _ := cmd.Flags().GetBool("purchase")

	cmd.SilenceUsage = true
	inventory, err := s.ledger.FetchInventory(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, a := range args {
		found := matchIngredients(inventory, a, aggFilter)
		printIngredients(out, a, found, showPurchase)
	}

	return nil
}

// matchIngredients selects ingredients by id, "*" or partial name, then applies filter.
func matchIngredients(all []models.Ingredient, selector string, filter ingredientFilter) []models.Ingredient {
	id, idErr := strconv.Atoi(selector)
	want := models.NormalizeName(selector)
	var out []models.Ingredient
	for _, ing := range all {
		switch {
		case idErr == nil:
			if ing.ID != id {
				continue
			}
		case selector != "*" && !strings.Contains(models.NormalizeName(ing.Name), want):
			continue
		}
		if filter(ing) {
			out = append(out, ing)
		}
	}
	return out
}

func printIngredients(out io.Writer, selector string, found []models.Ingredient, showPurchase bool) {
	foundFmt := "Found %d ingredients matching '%s':\n"
	name := selector
	if _, err := strconv.Atoi(selector); err == nil {
		name = "#" + selector
		foundFmt = "Found %d ingredient with ID %s:\n"
	}

	foundMsg := fmt.Sprintf(foundFmt, len(found), name)
	if len(found) == 0 {
		_, _ = color.New(color.FgHiRed).Fprint(out, foundMsg)
		return
	}
	_, _ = color.New(color.FgGreen).Fprint(out, foundMsg)

	counts := map[models.Category]int{}
	for _, ing := range found {
		_, _ = fmt.Fprintf(out, " - %s\n", ing)
		if showPurchase {
			_, _ = fmt.Fprintf(out, "   %s\n", shopLink(string(ing.Category), ing.Name))
		}
		counts[ing.Category]++
	}

	bold := color.New(color.Bold).SprintFunc()
	var parts []string
	for _, c := range models.Categories {
		if counts[c] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", bold(c.Title()), counts[c]))
		}
	}
	plural := "ingredients"
	if len(found) == 1 {
		plural = "ingredient"
	}
	_, _ = fmt.Fprintf(out, "%s: %d %s, %s\n\n", bold("Summary"), len(found), plural, strings.Join(parts, ", "))
}

func init() {
	inventoryCmd.AddCommand(inventoryListCmd)

	inventoryListCmd.Flags().StringP("category", "k", "", "filter by category (malt, hop, yeast or a configured alias)")
	inventoryListCmd.Flags().Bool("in-stock", false, "show only ingredients with stock on hand")
	inventoryListCmd.Flags().Bool("empty", false, "show only ingredients with no stock")
	inventoryListCmd.Flags().Bool("low", false, "show only ingredients at or under their reorder threshold")
	inventoryListCmd.Flags().String("max-remaining", "0", "threshold for --low when no low_thresholds entry matches")
	inventoryListCmd.Flags().Bool("purchase", false, "show a shop search link for each ingredient")
}
