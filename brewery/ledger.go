package brewery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

// IngredientSource is the part of the backend client the ledger reads and writes through.
type IngredientSource interface {
	ListIngredients(ctx context.Context, cat *models.Category) ([]models.Ingredient, error)
	ListCategoriesWithIngredients(ctx context.Context) ([]models.Ingredient, error)
	CreateIngredient(ctx context.Context, in api.NewIngredient) (models.Ingredient, error)
	PatchIngredientStock(ctx context.Context, id int, stock decimal.Decimal) error
	DeleteIngredient(ctx context.Context, id int) error
}

// StockLedger reads on-hand stock and applies manual stock changes.
type StockLedger struct {
	source  IngredientSource
	confirm Confirmer
}

func NewStockLedger(source IngredientSource, confirm Confirmer) *StockLedger {
	return &StockLedger{source: source, confirm: confirm}
}

// FetchStock reads every ingredient once and builds a snapshot. It never returns a partial
// snapshot: any failure is returned as is.
func (l *StockLedger) FetchStock(ctx context.Context) (models.Snapshot, error) {
	ings, err := l.source.ListIngredients(ctx, nil)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.NewSnapshot(ings), nil
}

// FetchInventory returns the inventory grouped by category for display.
func (l *StockLedger) FetchInventory(ctx context.Context) ([]models.Ingredient, error) {
	ings, err := l.source.ListCategoriesWithIngredients(ctx)
	if err != nil {
		return nil, err
	}
	models.SortIngredients(ings)
	return ings, nil
}

// Adjust applies adj to ing and writes the new absolute stock.
func (l *StockLedger) Adjust(ctx context.Context, ing models.Ingredient, adj Adjustment) (decimal.Decimal, error) {
	next, err := PlanAdjustment(ing.Stock, adj)
	if err != nil {
		return decimal.Zero, err
	}
	if err := l.source.PatchIngredientStock(ctx, ing.ID, next); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// AddIngredient validates and creates a new ingredient.
func (l *StockLedger) AddIngredient(ctx context.Context, name string, cat models.Category, stock string, unitID int) (models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Ingredient{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if !cat.Valid() {
		return models.Ingredient{}, &ValidationError{Field: "category", Message: fmt.Sprintf("%q is not a malt, hop or yeast", cat)}
	}
	qty := decimal.Zero
	if strings.TrimSpace(stock) != "" {
		var err error
		qty, err = models.ParseQuantity(stock)
		if err != nil {
			return models.Ingredient{}, &ValidationError{Field: "stock", Message: fmt.Sprintf("%q is not a number", stock)}
		}
	}
	if qty.IsNegative() {
		return models.Ingredient{}, &ValidationError{Field: "stock", Message: "cannot be negative"}
	}
	return l.source.CreateIngredient(ctx, api.NewIngredient{
		Name:       name,
		Stock:      qty,
		UnitID:     unitID,
		CategoryID: cat.BackendID(),
	})
}

// DeleteIngredient removes an ingredient after confirmation.
func (l *StockLedger) DeleteIngredient(ctx context.Context, ing models.Ingredient) error {
	if err := confirm(l.confirm, fmt.Sprintf("Delete ingredient #%d %s", ing.ID, ing.Name)); err != nil {
		return err
	}
	return l.source.DeleteIngredient(ctx, ing.ID)
}

// FindIngredient matches a selector against ings: an id, an exact name (accent and case
// insensitive) or a unique partial name.
func FindIngredient(ings []models.Ingredient, selector string) (models.Ingredient, error) {
	selector = strings.TrimSpace(selector)
	if id, err := strconv.Atoi(selector); err == nil {
		for _, ing := range ings {
			if ing.ID == id {
				return ing, nil
			}
		}
		return models.Ingredient{}, fmt.Errorf("ingredient #%d not found", id)
	}

	want := models.NormalizeName(selector)
	var partial []models.Ingredient
	for _, ing := range ings {
		n := models.NormalizeName(ing.Name)
		if n == want {
			return ing, nil
		}
		if strings.Contains(n, want) {
			partial = append(partial, ing)
		}
	}
	switch len(partial) {
	case 0:
		return models.Ingredient{}, fmt.Errorf("no ingredient matches %q", selector)
	case 1:
		return partial[0], nil
	}
	names := make([]string, 0, len(partial))
	for _, ing := range partial {
		names = append(names, fmt.Sprintf("#%d %s", ing.ID, ing.Name))
	}
	return models.Ingredient{}, fmt.Errorf("%q matches several ingredients: %s", selector, strings.Join(names, ", "))
}
