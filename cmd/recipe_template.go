/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dstockto/brewctl/models"
	"github.com/spf13/cobra"
)

var recipeTemplateCmd = &cobra.Command{
	Use:     "template [filename]",
	Aliases: []string{"new"},
	Short:   "Create a new recipe draft in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current working directory (it may have been deleted): %w", err)
		}

		var filename string
		if len(args) > 0 {
			filename = args[0]
		} else {
			filename = filepath.Base(cwd)
		}
		if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
			filename += ".yaml"
		}
		name := ToRecipeName(strings.TrimSuffix(strings.TrimSuffix(filepath.Base(filename), ".yaml"), ".yml"))

		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("file %s already exists", filename)
		}
		if err := saveDraft(filename, newDraft(name)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Created new recipe draft: %s\n", FormatDraftPath(filename))

		moveToDrafts, _ := cmd.Flags().GetBool("move")
		if !moveToDrafts {
			return nil
		}
		if Cfg == nil || Cfg.DraftsDir == "" {
			_, _ = fmt.Fprintf(out, "%s drafts_dir not configured, leaving the draft here.\n", warnLabel())
			return nil
		}
		if err := os.MkdirAll(Cfg.DraftsDir, 0755); err != nil {
			return fmt.Errorf("failed to create drafts directory: %w", err)
		}
		dest := filepath.Join(Cfg.DraftsDir, filepath.Base(filename))
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("file %s already exists in the drafts directory", dest)
		}
		if err := os.Rename(filename, dest); err != nil {
			return fmt.Errorf("failed to move file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Moved %s to %s\n", filename, FormatDraftPath(dest))
		return nil
	},
}

// newDraft is the starting point for a recipe: one sample row per category.
func newDraft(name string) models.RecipeDraft {
	return models.RecipeDraft{
		Name:   name,
		Style:  "",
		Malts:  []models.DraftRow{{Name: "Pilsen", Quantity: "5"}},
		Hops:   []models.DraftRow{{Name: "Saaz", Quantity: "0.05"}},
		Yeasts: []models.DraftRow{{Name: "Safale S-33", Quantity: "0.011"}},
	}
}

func init() {
	recipeCmd.AddCommand(recipeTemplateCmd)
	recipeTemplateCmd.Flags().BoolP("move", "m", false, "move the created draft to the drafts directory")
}
