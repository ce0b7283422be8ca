/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/dstockto/brewctl/db"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log", "h"},
	Short:   "Show the local journal of production requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		j, err := openJournal()
		if err != nil {
			return err
		}
		defer func() { _ = j.Close() }()

		cmd.SilenceUsage = true
		entries, err := j.ListProductions(cmd.Context(), limit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printHistory(out io.Writer, entries []db.Production) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No productions recorded.")
		return
	}
	_, _ = fmt.Fprintf(out, "%-19s %-8s %-28s %7s  %s\n", "When", "Status", "Recipe", "Batches", "Message")
	for _, p := range entries {
		status := color.GreenString("%-8s", p.Status)
		if p.Status != db.StatusOK {
			status = color.RedString("%-8s", p.Status)
		}
		recipe := TruncateFront(fmt.Sprintf("#%d %s", p.RecipeID, p.RecipeName), 28)
		_, _ = fmt.Fprintf(out, "%-19s %s %-28s %7d  %s\n",
			p.CreatedAt.Local().Format("2006-01-02 15:04:05"), status, recipe, p.Batches, p.Message)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)")
}
