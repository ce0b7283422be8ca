package brewery

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dstockto/brewctl/models"
)

// RecipeSource is the part of the backend client the catalog reads through.
type RecipeSource interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id int) (models.Recipe, error)
	ListIngredients(ctx context.Context, cat *models.Category) ([]models.Ingredient, error)
}

// Option is an ingredient a recipe row can point at.
type Option struct {
	ID   int
	Name string
}

// Options are the selectable ingredients per category, sorted by name.
type Options map[models.Category][]Option

// Lookup finds an option by name within one category, ignoring case and accents.
func (o Options) Lookup(cat models.Category, name string) (Option, bool) {
	want := models.NormalizeName(name)
	if want == "" {
		return Option{}, false
	}
	for _, opt := range o[cat] {
		if models.NormalizeName(opt.Name) == want {
			return opt, true
		}
	}
	return Option{}, false
}

// ByID finds an option by id within one category.
func (o Options) ByID(cat models.Category, id int) (Option, bool) {
	for _, opt := range o[cat] {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

type RecipeCatalog struct {
	source RecipeSource
}

func NewRecipeCatalog(source RecipeSource) *RecipeCatalog {
	return &RecipeCatalog{source: source}
}

func (c *RecipeCatalog) FetchRecipes(ctx context.Context) ([]models.Recipe, error) {
	return c.source.ListRecipes(ctx)
}

// FetchRecipe returns the detail of one recipe, with the backend's ingredient ids.
func (c *RecipeCatalog) FetchRecipe(ctx context.Context, id int) (models.Recipe, error) {
	return c.source.GetRecipe(ctx, id)
}

// FetchOptions reads the ingredient list once and groups it by category.
func (c *RecipeCatalog) FetchOptions(ctx context.Context) (Options, error) {
	ings, err := c.source.ListIngredients(ctx, nil)
	if err != nil {
		return nil, err
	}
	opts := Options{}
	for _, ing := range ings {
		if !ing.Category.Valid() || ing.ID == 0 {
			continue
		}
		opts[ing.Category] = append(opts[ing.Category], Option{ID: ing.ID, Name: ing.Name})
	}
	for _, list := range opts {
		sort.SliceStable(list, func(i, j int) bool {
			return models.NormalizeName(list[i].Name) < models.NormalizeName(list[j].Name)
		})
	}
	return opts, nil
}

// Resolve fills in missing requirement ids by name within the requirement's category.
// An explicit id always wins; unmatched requirements keep their name only.
func (c *RecipeCatalog) Resolve(r models.Recipe, opts Options) models.Recipe {
	for _, cat := range models.Categories {
		src := r.Group(cat)
		if src == nil {
			continue
		}
		out := make([]models.Requirement, len(src))
		for i, req := range src {
			if req.IngredientID == 0 {
				if opt, ok := opts.Lookup(cat, req.Name); ok {
					req.IngredientID = opt.ID
				}
			} else if req.Name == "" {
				if opt, ok := opts.ByID(cat, req.IngredientID); ok {
					req.Name = opt.Name
				}
			}
			out[i] = req
		}
		r.SetGroup(cat, out)
	}
	return r
}

// Find returns the detail of the recipe named by selector: an id, an exact name or a unique
// partial name. Names are compared ignoring case and accents.
func (c *RecipeCatalog) Find(ctx context.Context, selector string) (models.Recipe, error) {
	selector = strings.TrimSpace(selector)
	if id, err := strconv.Atoi(selector); err == nil {
		return c.FetchRecipe(ctx, id)
	}
	recipes, err := c.FetchRecipes(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	want := models.NormalizeName(selector)
	var partial []models.Recipe
	for _, r := range recipes {
		n := models.NormalizeName(r.Name)
		if n == want {
			return c.FetchRecipe(ctx, r.ID)
		}
		if strings.Contains(n, want) {
			partial = append(partial, r)
		}
	}
	switch len(partial) {
	case 0:
		return models.Recipe{}, fmt.Errorf("no recipe matches %q", selector)
	case 1:
		return c.FetchRecipe(ctx, partial[0].ID)
	}
	names := make([]string, 0, len(partial))
	for _, r := range partial {
		names = append(names, r.String())
	}
	return models.Recipe{}, fmt.Errorf("%q matches several recipes: %s", selector, strings.Join(names, ", "))
}

// FilterRecipes keeps recipes whose name or style contains filter, ignoring case and accents.
func FilterRecipes(recipes []models.Recipe, filter string) []models.Recipe {
	want := models.NormalizeName(filter)
	if want == "" {
		return recipes
	}
	var out []models.Recipe
	for _, r := range recipes {
		if strings.Contains(models.NormalizeName(r.Name), want) || strings.Contains(models.NormalizeName(r.Style), want) {
			out = append(out, r)
		}
	}
	return out
}
