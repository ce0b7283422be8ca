/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recipeListCmd = &cobra.Command{
	Use:     "list [filter]",
	Aliases: []string{"ls"},
	Short:   "List recipes, optionally filtered by name or style",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		recipes, err := s.catalog.FetchRecipes(cmd.Context())
		if err != nil {
			return err
		}
		filter := ""
		if len(args) > 0 {
			filter = args[0]
		}
		recipes = brewery.FilterRecipes(recipes, filter)

		out := cmd.OutOrStdout()
		if len(recipes) == 0 {
			_, _ = fmt.Fprintln(out, "No recipes found.")
			return nil
		}
		for _, r := range recipes {
			line := " - " + r.String()
			if r.ABV.Valid {
				line += fmt.Sprintf(" %s%% ABV", r.ABV.Decimal.String())
			}
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	},
}

var recipeShowCmd = &cobra.Command{
	Use:     "show [id|name]",
	Aliases: []string{"s"},
	Short:   "Show a recipe and whether it can be produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		batches, _ := cmd.Flags().GetInt("batches")
		if batches < 1 {
			return fmt.Errorf("--batches must be at least 1")
		}

		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		r, err := findRecipe(ctx, s.catalog, args, "Select recipe")
		if err != nil {
			if brewery.IsAbort(err) {
				return nil
			}
			return err
		}
		snap, err := s.ledger.FetchStock(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold).SprintFunc()
		_, _ = fmt.Fprintf(out, "%s %s\n", bold(r.Name), termLink(fmt.Sprintf("#%d", r.ID), recipeURL(s.client.Base(), r.ID)))
		for _, f := range []struct {
			label string
			value string
		}{
			{"Style", r.Style},
			{"ABV", nullString(r.ABV, "%")},
			{"IBU", nullString(r.IBU, "")},
			{"Volume", nullString(r.Volume, " l")},
			{"Description", r.Description},
		} {
			if f.value != "" {
				_, _ = fmt.Fprintf(out, "%-12s %s\n", f.label+":", f.value)
			}
		}
		_, _ = fmt.Fprintln(out)

		printFeasibility(out, r, snap, batches)
		return nil
	},
}

// printFeasibility prints the requirement table of r scaled to batches, then the verdict.
func printFeasibility(out io.Writer, r models.Recipe, snap models.Snapshot, batches int) {
	f := brewery.Evaluate(r, snap, batches)
	_, _ = fmt.Fprintf(out, "%-4s %-6s %-28s %12s %12s\n", "", "", "Ingredient", "Needed", "On Hand")
	for _, req := range f.Recipe.Requirements() {
		have := snap.Available(req)
		block := models.CoverageBlock(have, req.Quantity)
		if block == "" {
			block = "    "
		}
		line := fmt.Sprintf("%-6s %-28s %12s %12s", req.Category, TruncateFront(req.Name, 28), models.FormatQuantity(req.Quantity), models.FormatQuantity(have))
		if have.LessThan(req.Quantity) {
			line = color.RedString(line)
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", block, line)
	}
	_, _ = fmt.Fprintln(out)

	if f.Feasible {
		_, _ = color.New(color.FgGreen).Fprintf(out, "Can produce %d batch(es).", batches)
	} else {
		_, _ = color.New(color.FgRed).Fprintf(out, "Cannot produce %d batch(es): short of %d ingredient(s).", batches, len(f.Shortfalls))
	}
	if n, ok := brewery.MaxBatches(r, snap); ok {
		_, _ = fmt.Fprintf(out, " Stock covers %d batch(es).", n)
	}
	_, _ = fmt.Fprintln(out)
}

func init() {
	recipeCmd.AddCommand(recipeListCmd, recipeShowCmd)
	recipeShowCmd.Flags().IntP("batches", "b", 1, "number of batches to check")
}
