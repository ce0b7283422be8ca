/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	statusOK         = "OK"
	statusLow        = "LOW"
	statusWarn       = "WARN"
	statusUnresolved = "UNRESOLVED"
)

type recipeUsage struct {
	recipe string
	amount decimal.Decimal
}

// totalNeed is one ingredient's requirement summed over every checked recipe.
type totalNeed struct {
	key      models.Key
	category models.Category
	req      models.CategorizedRequirement
	amount   decimal.Decimal
	recipes  []recipeUsage
}

type zeroAmountWarning struct {
	recipe   string
	category models.Category
	name     string
}

// aggregateNeeds sums the requirements of recipes, each scaled to batches, keyed by ingredient
// id or normalized name. Needs keep the order in which they first appear.
func aggregateNeeds(recipes []models.Recipe, batches int) ([]*totalNeed, []zeroAmountWarning) {
	var needs []*totalNeed
	byKey := make(map[models.Key]*totalNeed)
	var zero []zeroAmountWarning

	for _, r := range recipes {
		scaled := brewery.Scale(r, batches)
		for _, req := range scaled.Requirements() {
			if req.Quantity.IsZero() {
				zero = append(zero, zeroAmountWarning{recipe: r.Name, category: req.Category, name: req.Name})
			}
			key := req.Key()
			n, ok := byKey[key]
			if !ok {
				n = &totalNeed{key: key, category: req.Category, req: req}
				byKey[key] = n
				needs = append(needs, n)
			}
			n.amount = n.amount.Add(req.Quantity)

			// Track recipe usage
			found := false
			for i, u := range n.recipes {
				if u.recipe == r.Name {
					n.recipes[i].amount = u.amount.Add(req.Quantity)
					found = true
					break
				}
			}
			if !found {
				n.recipes = append(n.recipes, recipeUsage{recipe: r.Name, amount: req.Quantity})
			}
		}
	}
	return needs, zero
}

// needStatus compares one aggregated need with the snapshot. WARN means the need is covered
// but would leave stock under the ingredient's reorder threshold.
func needStatus(n *totalNeed, snap models.Snapshot) (string, decimal.Decimal) {
	if _, ok := snap.Get(n.key); !ok {
		return statusUnresolved, decimal.Zero
	}

	onHand := snap.Available(n.req)
	if onHand.LessThan(n.amount) {
		return statusLow, onHand
	}
	threshold := ResolveLowThreshold(n.category, n.req.Name, decimal.Zero)
	if onHand.Sub(n.amount).LessThan(threshold) {
		return statusWarn, onHand
	}
	return statusOK, onHand
}

var recipeCheckCmd = &cobra.Command{
	Use:   "check [id|name...]",
	Short: "Check if enough stock is available for one or more recipes",
	Long: `Check sums what the given recipes need (every recipe when none is given), scaled by --batches,
and compares it with the stock on hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batches, _ := cmd.Flags().GetInt("batches")
		if batches < 1 {
			return fmt.Errorf("--batches must be at least 1")
		}
		byRecipe, _ := cmd.Flags().GetBool("by-recipe")

		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		var recipes []models.Recipe
		if len(args) > 0 {
			for _, a := range args {
				r, err := s.catalog.Find(ctx, a)
				if err != nil {
					return err
				}
				recipes = append(recipes, r)
			}
		} else {
			recipes, err = s.client.ListRecipesWithIngredients(ctx)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if len(recipes) == 0 {
			_, _ = fmt.Fprintln(out, "No recipes found to check.")
			return nil
		}

		opts, err := s.catalog.FetchOptions(ctx)
		if err != nil {
			return err
		}
		for i := range recipes {
			recipes[i] = s.catalog.Resolve(recipes[i], opts)
		}
		snap, err := s.ledger.FetchStock(ctx)
		if err != nil {
			return err
		}

		needs, zeroWarnings := aggregateNeeds(recipes, batches)
		if len(needs) == 0 {
			_, _ = fmt.Fprintln(out, "No ingredients needed.")
			return nil
		}
		printNeeds(out, needs, snap, byRecipe)

		if len(recipes) > 1 {
			_, _ = fmt.Fprintln(out)
			for _, r := range recipes {
				f := brewery.Evaluate(r, snap, batches)
				mark := color.GreenString("✔")
				if !f.Feasible {
					mark = color.RedString("✘")
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", mark, r)
			}
		}

		if len(zeroWarnings) > 0 {
			_, _ = fmt.Fprintln(out)
			perRecipe := make(map[string][]zeroAmountWarning)
			var names []string
			for _, w := range zeroWarnings {
				if _, ok := perRecipe[w.recipe]; !ok {
					names = append(names, w.recipe)
				}
				perRecipe[w.recipe] = append(perRecipe[w.recipe], w)
			}
			for _, name := range names {
				_, _ = fmt.Fprintf(out, "%s Recipe '%s' has ingredients with 0 quantity that may not be set up:\n", warnLabel(), name)
				for _, w := range perRecipe[name] {
					_, _ = fmt.Fprintf(out, "  - %s (%s)\n", w.name, w.category)
				}
			}
		}

		return nil
	},
}

func printNeeds(out io.Writer, needs []*totalNeed, snap models.Snapshot, byRecipe bool) {
	_, _ = fmt.Fprintf(out, "%-4s %-6s %-28s %12s %12s %10s\n", "", "", "Ingredient", "Needed", "On Hand", "Status")
	_, _ = fmt.Fprintln(out, strings.Repeat("-", 78))

	allMet := true
	for _, n := range needs {
		status, onHand := needStatus(n, snap)
		if status == statusLow || status == statusUnresolved {
			allMet = false
		}

		displayStatus := status
		switch status {
		case statusOK:
			displayStatus = color.GreenString(status)
		case statusUnresolved, statusWarn:
			displayStatus = color.YellowString(status)
		case statusLow:
			displayStatus = color.RedString(status)
		}
		// Pad by the plain width so colour codes do not break alignment
		displayStatus = strings.Repeat(" ", 10-len(status)) + displayStatus

		block := models.CoverageBlock(onHand, n.amount)
		if block == "" {
			block = "    "
		}
		_, _ = fmt.Fprintf(out, "%s %-6s %-28s %12s %12s %s\n", block, n.category, TruncateFront(n.req.Name, 28),
			models.FormatQuantity(n.amount), models.FormatQuantity(onHand), displayStatus)

		if byRecipe {
			for _, u := range n.recipes {
				_, _ = fmt.Fprintf(out, "    - %s (%s)\n", u.recipe, models.FormatQuantity(u.amount))
			}
		}
	}

	if allMet {
		_, _ = fmt.Fprintln(out, "\nAll requirements met.")
	} else {
		_, _ = fmt.Fprintln(out, "\nSome ingredients are missing or low.")
	}
}

func init() {
	recipeCmd.AddCommand(recipeCheckCmd)
	recipeCheckCmd.Flags().IntP("batches", "b", 1, "number of batches of each recipe")
	recipeCheckCmd.Flags().BoolP("by-recipe", "r", false, "show which recipes use each ingredient")
}
