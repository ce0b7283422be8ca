/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv", "i"},
	Short:   "Show and change ingredient stock",
	Long:    `Show and change the stock of malts, hops and yeasts held by the backend.`,
}

// ingredientFilter reports whether an ingredient should be shown.
type ingredientFilter func(models.Ingredient) bool

// noFilter returns true for all ingredients.
func noFilter(_ models.Ingredient) bool {
	return true
}

// categoryFilter keeps one category; an empty category keeps everything.
func categoryFilter(c models.Category) ingredientFilter {
	if c == "" {
		return noFilter
	}
	return func(ing models.Ingredient) bool {
		return ing.Category == c
	}
}

// inStock returns true if anything is on hand.
func inStock(ing models.Ingredient) bool {
	return ing.Stock.IsPositive()
}

// outOfStock returns true if nothing is on hand.
func outOfStock(ing models.Ingredient) bool {
	return !ing.Stock.IsPositive()
}

// aggregateFilter returns a function that returns true if all given filters return true.
func aggregateFilter(filters ...ingredientFilter) ingredientFilter {
	return func(ing models.Ingredient) bool {
		for _, f := range filters {
			if !f(ing) {
				return false
			}
		}

		return true
	}
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
}
