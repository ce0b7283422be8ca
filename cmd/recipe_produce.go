/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recipeProduceCmd = &cobra.Command{
	Use:     "produce [id|name]",
	Aliases: []string{"done", "p"},
	Short:   "Produce batches of a recipe, consuming its ingredients",
	Long: `Produce checks the recipe against current stock and, when every ingredient is covered,
asks the backend to produce it. The stock shown afterwards is re-read from the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batches, _ := cmd.Flags().GetInt("batches")
		if batches < 1 {
			return fmt.Errorf("--batches must be at least 1")
		}
		yes, _ := cmd.Flags().GetBool("yes")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		s, err := connect(cmd, nil, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		r, err := findRecipe(ctx, s.catalog, args, "Select recipe to produce")
		if err != nil {
			if brewery.IsAbort(err) {
				_, _ = fmt.Fprintln(out, "Production cancelled.")
				return nil
			}
			return err
		}
		snap, err := s.ledger.FetchStock(ctx)
		if err != nil {
			return err
		}

		if dryRun {
			printFeasibility(out, r, snap, batches)
			f := brewery.Evaluate(r, snap, batches)
			if f.Feasible {
				_, _ = fmt.Fprintln(out, "\nStock after production (preview):")
				printRecipeStock(out, f.Recipe, snap.Deduct(f.Recipe.Requirements()))
			}
			_, _ = color.New(color.FgYellow).Fprintln(out, "Dry run: nothing was sent.")
			return nil
		}

		ok, err := confirmer(yes).Confirm(fmt.Sprintf("Produce %d batch(es) of %s", batches, r.Name))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Production cancelled.")
			return nil
		}

		view := brewery.NewView(snap)
		res, err := s.orch.Produce(ctx, view, r, batches)
		if err != nil {
			var infeasible *brewery.InfeasibleError
			var rejected *api.ProductionError
			switch {
			case errors.As(err, &infeasible):
				_, _ = color.New(color.FgRed).Fprintf(out, "Cannot produce %d batch(es) of %s:\n", batches, r.Name)
				for _, sf := range infeasible.Shortfalls {
					_, _ = fmt.Fprintf(out, "  - %s %s: need %s, have %s (missing %s)\n", sf.Category, sf.Name,
						models.FormatQuantity(sf.Required), models.FormatQuantity(sf.Available), models.FormatQuantity(sf.Missing()))
				}
			case errors.As(err, &rejected):
				_, _ = color.New(color.FgRed).Fprintf(out, "Rejected: %s\n", rejected.Message)
			}
			return err
		}

		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("Produced %d batch(es) of %s.", batches, r.Name)
		}
		_, _ = color.New(color.FgGreen).Fprintln(out, msg)
		if res.RefreshErr != nil {
			_, _ = fmt.Fprintf(out, "%s could not refresh stock: %v\n", warnLabel(), res.RefreshErr)
			return nil
		}
		_, _ = fmt.Fprintln(out, "\nStock now:")
		printRecipeStock(out, r, res.Snapshot)
		return nil
	},
}

// printRecipeStock lists the on-hand stock of each ingredient r uses.
func printRecipeStock(out io.Writer, r models.Recipe, snap models.Snapshot) {
	for _, req := range r.Requirements() {
		_, _ = fmt.Fprintf(out, " - %-6s %-28s %12s\n", req.Category, TruncateFront(req.Name, 28),
			models.FormatQuantity(snap.Available(req)))
	}
}

func init() {
	recipeCmd.AddCommand(recipeProduceCmd)
	recipeProduceCmd.Flags().IntP("batches", "b", 1, "number of batches to produce")
	recipeProduceCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	recipeProduceCmd.Flags().Bool("dry-run", false, "show what would be consumed without producing")
}
