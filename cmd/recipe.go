/*
Copyright © 2025 David Stockton <dave@davidstockton.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var recipeCmd = &cobra.Command{
	Use:     "recipe",
	Aliases: []string{"recipes", "r"},
	Short:   "Manage recipes and produce batches",
	Long:    `List, check, edit and produce beer recipes. Recipe drafts are YAML files edited locally.`,
}

type DiscoveredDraft struct {
	Path        string
	DisplayName string
	Draft       models.RecipeDraft
}

func FormatDraftPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// Check if it's in the current directory
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, absPath); err == nil && !strings.HasPrefix(rel, "..") {
			return "./" + rel
		}
	}

	// Check if it's in the drafts directory
	if Cfg != nil && Cfg.DraftsDir != "" {
		if absDrafts, err := filepath.Abs(Cfg.DraftsDir); err == nil {
			if rel, err := filepath.Rel(absDrafts, absPath); err == nil && !strings.HasPrefix(rel, "..") {
				return "<drafts>/" + rel
			}
		}
	}

	return absPath
}

// discoverDrafts finds recipe drafts in the working directory and drafts_dir. YAML files
// without a recipe name are not drafts and are skipped.
func discoverDrafts() ([]DiscoveredDraft, error) {
	var drafts []DiscoveredDraft
	seen := make(map[string]bool)

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	} else {
		// Log warning but continue if CWD is inaccessible
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to get current working directory: %v\n", err)
	}
	if Cfg != nil && Cfg.DraftsDir != "" {
		dirs = append(dirs, Cfg.DraftsDir)
	}

	for _, dir := range dirs {
		// Evaluate symlinks for the root directory
		if evalDir, err := filepath.EvalSymlinks(dir); err == nil {
			dir = evalDir
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // skip errors for a single directory
		}

		for _, d := range entries {
			if d.IsDir() {
				continue
			}
			path := filepath.Join(dir, d.Name())
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				absPath = path
			}
			if seen[absPath] {
				continue
			}
			seen[absPath] = true

			draft, err := loadDraft(absPath)
			if err != nil || draft.Name == "" {
				continue
			}
			drafts = append(drafts, DiscoveredDraft{
				Path:        absPath,
				DisplayName: FormatDraftPath(absPath),
				Draft:       draft,
			})
		}
	}
	return drafts, nil
}

func loadDraft(path string) (models.RecipeDraft, error) {
	var d models.RecipeDraft
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse %s: %w", FormatDraftPath(path), err)
	}
	return d, nil
}

func saveDraft(path string, d models.RecipeDraft) error {
	out, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// pickDraft returns the draft path from --file, or lets the user choose among discovered drafts.
func pickDraft(cmd *cobra.Command, label string) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return path, nil
	}

	drafts, err := discoverDrafts()
	if err != nil {
		return "", err
	}
	if len(drafts) == 0 {
		return "", fmt.Errorf("no recipe drafts found; pass --file or create one with 'recipe template'")
	}
	if len(drafts) == 1 {
		return drafts[0].Path, nil
	}
	if !isInteractiveAllowed(false) {
		return "", fmt.Errorf("%d recipe drafts found; pass --file to choose one", len(drafts))
	}

	var items []string
	for _, d := range drafts {
		items = append(items, fmt.Sprintf("%s (%s)", d.DisplayName, d.Draft.Name))
	}
	prompt := promptui.Select{
		Label:             label,
		Items:             items,
		Stdout:            NoBellStdout,
		StartInSearchMode: true,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	selectedIdx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return drafts[selectedIdx].Path, nil
}

// findRecipe resolves the recipe named by args[0], or lets the user pick one when no argument
// is given. The returned recipe carries its full detail.
func findRecipe(ctx context.Context, catalog *brewery.RecipeCatalog, args []string, label string) (models.Recipe, error) {
	if len(args) > 0 {
		return catalog.Find(ctx, strings.Join(args, " "))
	}
	if !isInteractiveAllowed(false) {
		return models.Recipe{}, errors.New("name the recipe by id or name")
	}
	recipes, err := catalog.FetchRecipes(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	r, canceled, err := selectRecipe(recipes, label)
	if err != nil {
		return models.Recipe{}, err
	}
	if canceled {
		return models.Recipe{}, brewery.ErrConfirmationAbort
	}
	return catalog.FetchRecipe(ctx, r.ID)
}

// printDropped warns about draft rows that were left out of a saved recipe.
func printDropped(cmd *cobra.Command, dropped []brewery.Dropped) {
	if len(dropped) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %d row(s) name no known ingredient and were not saved:\n", warnLabel(), len(dropped))
	for _, d := range dropped {
		_, _ = fmt.Fprintf(out, "  - %s: %s (%s)\n", d.Category, d.Name, d.Quantity)
	}
	_, _ = fmt.Fprintln(out, "Run 'brewctl recipe resolve' to link them to ingredients.")
}

func init() {
	rootCmd.AddCommand(recipeCmd)
}
