/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
)

// optionPicker chooses an ingredient for a draft row. skip is true when the row stays unlinked.
type optionPicker func(opts []brewery.Option, cat models.Category, term string) (opt brewery.Option, skip bool, err error)

// resolveDraft links draft rows to ingredient ids. Rows whose name matches an ingredient are
// linked directly, the rest go through pick. Rows with an id but no name get the ingredient's
// name. It returns how many rows changed.
func resolveDraft(d *models.RecipeDraft, opts brewery.Options, pick optionPicker) (int, error) {
	changed := 0
	for _, cat := range models.Categories {
		rows := d.Rows(cat)
		for i := range rows {
			row := &rows[i]
			switch {
			case row.IngredientID == 0 && row.Name != "":
				opt, ok := opts.Lookup(cat, row.Name)
				if !ok {
					if pick == nil || len(opts[cat]) == 0 {
						continue
					}
					var skip bool
					var err error
					opt, skip, err = pick(opts[cat], cat, row.Name)
					if err != nil {
						return changed, err
					}
					if skip {
						continue
					}
				}
				row.IngredientID = opt.ID
				row.Name = opt.Name
				changed++
			case row.IngredientID != 0 && row.Name == "":
				if opt, ok := opts.ByID(cat, row.IngredientID); ok {
					row.Name = opt.Name
					changed++
				}
			}
		}
	}
	return changed, nil
}

// interactivePicker prompts on the terminal, or with a numbered list when --simple is set.
func interactivePicker(cmd *cobra.Command) optionPicker {
	simple, _ := cmd.Flags().GetBool("simple")
	return func(opts []brewery.Option, cat models.Category, term string) (brewery.Option, bool, error) {
		if !simple && !isInteractiveAllowed(false) {
			return brewery.Option{}, true, nil
		}
		return selectOption(opts, cat, term, simple)
	}
}

var recipeResolveCmd = &cobra.Command{
	Use:     "resolve",
	Aliases: []string{"link"},
	Short:   "Interactively link draft ingredient names to backend ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := pickDraft(cmd, "Select recipe draft to resolve")
		if err != nil {
			return err
		}
		draft, err := loadDraft(path)
		if err != nil {
			return err
		}

		s, err := connect(cmd, nil, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		opts, err := s.catalog.FetchOptions(cmd.Context())
		if err != nil {
			return err
		}

		n, err := resolveDraft(&draft, opts, interactivePicker(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if n == 0 {
			_, _ = fmt.Fprintln(out, "No changes needed.")
			return nil
		}
		if err := saveDraft(path, draft); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Linked %d row(s) in %s\n", n, FormatDraftPath(path))
		return nil
	},
}

func init() {
	recipeCmd.AddCommand(recipeResolveCmd)
	recipeResolveCmd.Flags().StringP("file", "f", "", "recipe draft to resolve")
	recipeResolveCmd.Flags().Bool("simple", false, "use a numbered list instead of the search prompt")
}
