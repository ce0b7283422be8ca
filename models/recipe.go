package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Requirement is the quantity of one ingredient a recipe consumes per batch. IngredientID is
// zero when the backend only gave us a name.
type Requirement struct {
	IngredientID int
	Name         string
	Quantity     decimal.Decimal
}

// Recipe is a named formulation with per category requirements, in insertion order.
type Recipe struct {
	ID          int
	Name        string
	Style       string
	Description string
	ABV         decimal.NullDecimal
	IBU         decimal.NullDecimal
	Volume      decimal.NullDecimal
	Malts       []Requirement
	Hops        []Requirement
	Yeasts      []Requirement
}

// Group returns the requirement collection for one category.
func (r Recipe) Group(c Category) []Requirement {
	switch c {
	case Malt:
		return r.Malts
	case Hop:
		return r.Hops
	case Yeast:
		return r.Yeasts
	}
	return nil
}

// SetGroup replaces the requirement collection for one category.
func (r *Recipe) SetGroup(c Category, reqs []Requirement) {
	switch c {
	case Malt:
		r.Malts = reqs
	case Hop:
		r.Hops = reqs
	case Yeast:
		r.Yeasts = reqs
	}
}

// CategorizedRequirement is a requirement tagged with the collection it came from.
type CategorizedRequirement struct {
	Category Category
	Requirement
}

// Key is the identifier key when the requirement has one, otherwise the name key within the
// requirement's category.
func (r CategorizedRequirement) Key() Key {
	if r.IngredientID != 0 {
		return IDKey(r.IngredientID)
	}
	return NameKey(r.Category, r.Name)
}

// Requirements flattens malts, then hops, then yeasts, keeping per-category order.
func (r Recipe) Requirements() []CategorizedRequirement {
	out := make([]CategorizedRequirement, 0, len(r.Malts)+len(r.Hops)+len(r.Yeasts))
	for _, c := range Categories {
		for _, req := range r.Group(c) {
			out = append(out, CategorizedRequirement{Category: c, Requirement: req})
		}
	}
	return out
}

// HasIngredients reports whether any detail was decoded. Recipe summaries have none.
func (r Recipe) HasIngredients() bool {
	return len(r.Malts)+len(r.Hops)+len(r.Yeasts) > 0
}

func (r Recipe) String() string {
	if r.Style != "" && r.Style != r.Name {
		return fmt.Sprintf("#%d %s (%s)", r.ID, r.Name, r.Style)
	}
	return fmt.Sprintf("#%d %s", r.ID, r.Name)
}

// flatGroupKeys lists the keys recipes have used for flat requirement arrays.
var flatGroupKeys = map[Category][]string{
	Malt:  {"maltas", "malts"},
	Hop:   {"lupulos", "lúpulos", "hops"},
	Yeast: {"levaduras", "yeasts"},
}

// DecodeRecipe decodes a recipe summary or detail. Details come either as
// "tipos": [{nombre_tipo, ingredientes}] or as flat maltas/lupulos/levaduras arrays.
func DecodeRecipe(raw json.RawMessage) (Recipe, error) {
	var f rawFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}
	if f == nil {
		return Recipe{}, fmt.Errorf("decode recipe: empty record")
	}

	rec := Recipe{
		ID:          f.id("id"),
		Name:        f.str("nombre_receta", "nombre", "name"),
		Style:       f.str("estilo", "style"),
		Description: f.str("descripcion", "description"),
	}
	if d, ok := f.num("porcentaje_alcohol", "abv"); ok {
		rec.ABV = decimal.NewNullDecimal(d)
	}
	if d, ok := f.num("ibu"); ok {
		rec.IBU = decimal.NewNullDecimal(d)
	}
	if d, ok := f.num("contenido_neto", "volumen"); ok {
		rec.Volume = decimal.NewNullDecimal(d)
	}

	if f.has("tipos") {
		groups, err := decodeList(f["tipos"])
		if err != nil {
			return Recipe{}, err
		}
		for _, g := range groups {
			var gf rawFields
			if err := json.Unmarshal(g, &gf); err != nil {
				return Recipe{}, fmt.Errorf("decode recipe group: %w", err)
			}
			cat, err := ParseCategory(gf.str("nombre_tipo", "nombre", "name"))
			if err != nil {
				continue
			}
			reqs, err := decodeRequirements(gf["ingredientes"])
			if err != nil {
				return Recipe{}, err
			}
			rec.SetGroup(cat, append(rec.Group(cat), reqs...))
		}
		return rec, nil
	}

	for _, cat := range Categories {
		for _, key := range flatGroupKeys[cat] {
			if !f.has(key) {
				continue
			}
			reqs, err := decodeRequirements(f[key])
			if err != nil {
				return Recipe{}, err
			}
			rec.SetGroup(cat, append(rec.Group(cat), reqs...))
		}
	}
	// the earliest recipes carried a single yeast object
	if len(rec.Yeasts) == 0 && f.has("levadura") {
		req, err := decodeRequirement(f["levadura"])
		if err != nil {
			return Recipe{}, err
		}
		rec.Yeasts = []Requirement{req}
	}

	return rec, nil
}

// DecodeRecipes decodes /recetas/ or /recetas-con-ingredientes/.
func DecodeRecipes(body []byte) ([]Recipe, error) {
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	out := make([]Recipe, 0, len(items))
	for _, raw := range items {
		r, err := DecodeRecipe(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeRequirements(raw json.RawMessage) ([]Requirement, error) {
	items, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Requirement, 0, len(items))
	for _, item := range items {
		req, err := decodeRequirement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// decodeRequirement prefers an explicit identifier (ingrediente_id, ingrediente, id) and keeps
// the name as a fallback key. The legacy "tipo" field held the ingredient name.
func decodeRequirement(raw json.RawMessage) (Requirement, error) {
	var f rawFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return Requirement{}, fmt.Errorf("decode requirement: %w", err)
	}
	req := Requirement{
		IngredientID: f.id("ingrediente_id", "ingrediente", "id"),
		Name:         f.str("nombre_ingrediente", "nombre", "name", "tipo"),
	}
	if req.Name == "" {
		if raw, ok := f["ingrediente"]; ok {
			var nested rawFields
			if err := json.Unmarshal(raw, &nested); err == nil && nested != nil {
				req.Name = nested.str("nombre_ingrediente", "nombre", "name")
			}
		}
	}
	qty, _ := f.num("cantidad", "quantity")
	req.Quantity = clampZero(qty)
	return req, nil
}
