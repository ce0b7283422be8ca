/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
)

var recipeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a recipe from a draft file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveRecipe(cmd, 0)
	},
}

var recipeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a recipe with the contents of a draft file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid recipe id %q", args[0])
		}
		return saveRecipe(cmd, id)
	},
}

// saveRecipe creates (id == 0) or updates a recipe from the selected draft. With --interactive,
// rows that match no ingredient by name are resolved before saving.
func saveRecipe(cmd *cobra.Command, id int) error {
	path, err := pickDraft(cmd, "Select recipe draft")
	if err != nil {
		return err
	}
	draft, err := loadDraft(path)
	if err != nil {
		return err
	}

	s, err := connect(cmd, nil, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	cmd.SilenceUsage = true
	ctx := cmd.Context()

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		opts, err := s.catalog.FetchOptions(ctx)
		if err != nil {
			return err
		}
		n, err := resolveDraft(&draft, opts, interactivePicker(cmd))
		if err != nil {
			return err
		}
		if n > 0 {
			if err := saveDraft(path, draft); err != nil {
				return err
			}
		}
	}

	var r models.Recipe
	var dropped []brewery.Dropped
	if id == 0 {
		r, dropped, err = s.editor.CreateRecipe(ctx, draft)
	} else {
		r, dropped, err = s.editor.UpdateRecipe(ctx, id, draft)
	}
	if err != nil {
		return err
	}

	printDropped(cmd, dropped)
	verb := "created"
	if id != 0 {
		verb = "updated"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recipe %s %s.\n", r, verb)
	return nil
}

func init() {
	recipeCmd.AddCommand(recipeCreateCmd, recipeUpdateCmd)
	for _, c := range []*cobra.Command{recipeCreateCmd, recipeUpdateCmd} {
		c.Flags().StringP("file", "f", "", "recipe draft to read")
		c.Flags().BoolP("interactive", "i", false, "pick ingredients for rows that match none by name")
		c.Flags().Bool("simple", false, "with --interactive, use a numbered list instead of the search prompt")
	}
}
