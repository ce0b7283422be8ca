/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/notify"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// inventoryAdjustCmd represents the inventory adjust command
var inventoryAdjustCmd = &cobra.Command{
	Use:   "adjust <id|name> <amount> [<id|name> <amount>...]",
	Short: "Adjust adds stock to ingredients (or removes or sets it with --remove / --set)",
	Long: `Adjust adds the given amount to each ingredient's stock. With --remove the amount is taken away
(never below zero) and with --set it becomes the new stock. Amounts accept "." or "," as decimal separator.`,
	RunE:    runInventoryAdjust,
	Aliases: []string{"adj", "a"},
}

// StockChange is one selector and amount pair from the command line.
type StockChange struct {
	Selector string
	Amount   string
}

// parseStockChanges splits args into selector/amount pairs.
func parseStockChanges(args []string) ([]StockChange, error) {
	if len(args)%2 != 0 || len(args) < 2 {
		return nil, fmt.Errorf("arguments should be an ingredient id or name followed by an amount")
	}
	changes := make([]StockChange, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		changes = append(changes, StockChange{Selector: args[i], Amount: args[i+1]})
	}
	return changes, nil
}

// adjustAction picks the action from the mutually exclusive --remove / --set flags.
func adjustAction(cmd *cobra.Command) (brewery.Action, error) {
	remove, _ := cmd.Flags().GetBool("remove")
	set, _ := cmd.Flags().GetBool("set")
	switch {
	case remove && set:
		return "", fmt.Errorf("flags --remove and --set are mutually exclusive; please specify only one")
	case remove:
		return brewery.ActionRemove, nil
	case set:
		return brewery.ActionSet, nil
	}
	return brewery.ActionAdd, nil
}

func runInventoryAdjust(cmd *cobra.Command, args []string) error {
	changes, err := parseStockChanges(args)
	if err != nil {
		return err
	}
	action, err := adjustAction(cmd)
	if err != nil {
		return err
	}

	s, err := connect(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		_, _ = color.New(color.FgHiYellow).Fprintln(out, "Dry run mode enabled. Nothing will be changed.")
	}

	cmd.SilenceUsage = true
	ctx := cmd.Context()
	inventory, err := s.ledger.FetchInventory(ctx)
	if err != nil {
		return err
	}

	var errs error
	for _, c := range changes {
		ing, err := brewery.FindIngredient(inventory, c.Selector)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		adj := brewery.Adjustment{Action: action, Amount: c.Amount}
		var next decimal.Decimal
		if dryRun {
			next, err = brewery.PlanAdjustment(ing.Stock, adj)
		} else {
			next, err = s.ledger.Adjust(ctx, ing, adj)
		}
		if err != nil {
			_, _ = color.New(color.FgYellow).Fprintf(out, " - Not changing #%d %s: %v\n", ing.ID, ing.Name, err)
			errs = errors.Join(errs, fmt.Errorf("ingredient #%d %s: %w", ing.ID, ing.Name, err))
			continue
		}

		paint := color.New(color.FgGreen)
		if next.LessThan(ing.Stock) {
			paint = color.New(color.FgMagenta)
		}
		_, _ = paint.Fprintf(out, " - %s #%d %s: %s -> %s %s\n",
			ing.Category.Title(), ing.ID, ing.Name, models.FormatQuantity(ing.Stock), models.FormatQuantity(next), unitOf(ing))

		if !dryRun {
			if err := s.notifier.Notify(ctx, notify.Event{
				Kind:       notify.StockAdjusted,
				Ingredient: ing.Name,
				Quantity:   models.FormatQuantity(next),
			}); err != nil {
				logFor(cmd).Warn("notification failed", "err", err)
			}
		}
	}

	return errs
}

func init() {
	inventoryCmd.AddCommand(inventoryAdjustCmd)

	inventoryAdjustCmd.Flags().BoolP("dry-run", "d", false, "show what would change, but don't actually change anything")
	inventoryAdjustCmd.Flags().BoolP("remove", "r", false, "remove the amount instead of adding it")
	inventoryAdjustCmd.Flags().Bool("set", false, "set the stock to the amount")
}
