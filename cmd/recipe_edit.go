/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
)

// findEditor returns the user's editor command split into program and arguments.
func findEditor() ([]string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		// Fallback to common editors
		for _, e := range []string{"vim", "vi", "nano"} {
			if _, err := os.Stat("/usr/bin/" + e); err == nil {
				editor = e
				break
			}
			if _, err := os.Stat("/usr/local/bin/" + e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return nil, fmt.Errorf("no editor found. Please set $VISUAL or $EDITOR environment variable")
	}
	// Handle editor with arguments (e.g. "code --wait")
	return strings.Fields(editor), nil
}

func runEditor(path string) error {
	parts, err := findEditor()
	if err != nil {
		return err
	}
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var recipeEditCmd = &cobra.Command{
	Use:     "edit [id|name]",
	Aliases: []string{"ed", "e"},
	Short:   "Edit a recipe in your editor and save it back",
	Long: `Edit writes the recipe to a temporary draft, opens it in $VISUAL or $EDITOR and, when the
draft changed, saves it back to the backend. With --file a local draft is edited instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			return runEditor(path)
		}

		s, err := connect(cmd, nil, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		r, err := findRecipe(ctx, s.catalog, args, "Select recipe to edit")
		if err != nil {
			if brewery.IsAbort(err) {
				return nil
			}
			return err
		}

		tmp, err := os.CreateTemp("", ToFileName(r.Name)+"-*.yaml")
		if err != nil {
			return err
		}
		path := tmp.Name()
		_ = tmp.Close()
		defer func() { _ = os.Remove(path) }()

		before := models.DraftFromRecipe(r)
		if err := saveDraft(path, before); err != nil {
			return err
		}
		original, _ := os.ReadFile(path)

		if err := runEditor(path); err != nil {
			return err
		}
		edited, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if string(edited) == string(original) {
			_, _ = fmt.Fprintln(out, "No changes made.")
			return nil
		}

		draft, err := loadDraft(path)
		if err != nil {
			return err
		}
		saved, dropped, err := s.editor.UpdateRecipe(ctx, r.ID, draft)
		if err != nil {
			return err
		}
		printDropped(cmd, dropped)
		_, _ = fmt.Fprintf(out, "Recipe %s updated.\n", saved)
		return nil
	},
}

var recipeDeleteCmd = &cobra.Command{
	Use:     "delete [id|name]",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := connect(cmd, confirmer(yes), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		cmd.SilenceUsage = true
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		r, err := findRecipe(ctx, s.catalog, args, "Select recipe to delete")
		if err == nil {
			err = s.editor.DeleteRecipe(ctx, r.ID, r.Name)
		}
		if brewery.IsAbort(err) {
			_, _ = fmt.Fprintln(out, "Deletion aborted.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Recipe %s deleted successfully.\n", r)
		return nil
	},
}

func init() {
	recipeCmd.AddCommand(recipeEditCmd, recipeDeleteCmd)
	recipeEditCmd.Flags().StringP("file", "f", "", "edit a local recipe draft instead")
	recipeDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
