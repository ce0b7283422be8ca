package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/shopspring/decimal"
)

// Ingredient is one raw material tracked by the backend.
type Ingredient struct {
	ID       int
	Name     string
	Category Category
	Stock    decimal.Decimal
	Unit     string
	UnitID   int
}

func (i Ingredient) String() string {
	//  ████ Malts - #12 Pilsen - 20.000 kg
	unit := i.Unit
	if unit == "" {
		unit = "u"
	}
	category := string(i.Category)
	if i.Category.Valid() {
		category = i.Category.Title()
	}
	block := CoverageBlock(i.Stock, decimal.Zero)
	if block != "" {
		block += " "
	}
	return fmt.Sprintf("%s\033[1m%s\033[0m - #%d %s - %s %s", block, category, i.ID, i.Name, FormatQuantity(i.Stock), unit)
}

var (
	shortColor = colorful.Color{R: 0.78, G: 0, B: 0}
	fullColor  = colorful.Color{R: 0, G: 0.78, B: 0}
)

// CoverageBlock renders a coloured block that fades from red (nothing on hand) to green
// (on hand covers twice the need). With no need, anything on hand is green.
// Returns "" when colour output is disabled.
func CoverageBlock(onHand, needed decimal.Decimal) string {
	if color.NoColor {
		return ""
	}
	ratio := 1.0
	switch {
	case !onHand.IsPositive():
		ratio = 0
	case needed.IsPositive():
		ratio, _ = onHand.Div(needed).Div(decimal.NewFromInt(2)).Float64()
	}
	if ratio > 1 {
		ratio = 1
	}
	c := shortColor.BlendHcl(fullColor, ratio).Clamped()
	r, g, b := c.RGB255()
	blockChars := "████"
	if onHand.LessThan(needed) {
		blockChars = "▓▓▓▓"
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, blockChars)
}

// DecodeIngredient decodes one ingredient record from /ingredientes/. Missing or malformed
// stock decodes to zero and negative stock clamps to zero.
func DecodeIngredient(raw json.RawMessage) (Ingredient, error) {
	var f rawFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return Ingredient{}, fmt.Errorf("decode ingredient: %w", err)
	}
	if f == nil {
		return Ingredient{}, fmt.Errorf("decode ingredient: empty record")
	}

	ing := Ingredient{
		ID:   f.id("id"),
		Name: f.str("nombre_ingrediente", "nombre", "name"),
	}
	stock, _ := f.num("stock", "cantidad")
	ing.Stock = clampZero(stock)

	if c, ok := categoryFromRaw(f["tipo"]); ok {
		ing.Category = c
	} else if c, ok := CategoryByID(f.id("tipo_id")); ok {
		ing.Category = c
	}

	if raw, ok := f["unidad"]; ok {
		var unit rawFields
		if err := json.Unmarshal(raw, &unit); err == nil && unit != nil {
			ing.Unit = unit.str("nombre", "name", "simbolo")
			ing.UnitID = unit.id("id")
		} else {
			ing.Unit = f.str("unidad")
		}
	}
	if ing.UnitID == 0 {
		ing.UnitID = f.id("unidad_id")
	}

	return ing, nil
}

// DecodeIngredients decodes the /ingredientes/ list.
func DecodeIngredients(body []byte) ([]Ingredient, error) {
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	out := make([]Ingredient, 0, len(items))
	for _, raw := range items {
		ing, err := DecodeIngredient(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

// DecodeCategoryGroups decodes /tipos-con-ingredientes/ into a flat ingredient list. The group
// label decides the category of every nested ingredient; groups with unknown labels are skipped.
func DecodeCategoryGroups(body []byte) ([]Ingredient, error) {
	groups, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	var out []Ingredient
	for _, raw := range groups {
		var g rawFields
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("decode category group: %w", err)
		}
		cat, err := ParseCategory(g.str("nombre_tipo", "nombre", "name"))
		if err != nil {
			continue
		}
		nested, err := decodeList(g["ingredientes"])
		if err != nil {
			return nil, err
		}
		for _, n := range nested {
			ing, err := DecodeIngredient(n)
			if err != nil {
				return nil, err
			}
			ing.Category = cat
			out = append(out, ing)
		}
	}
	return out, nil
}

// SortIngredients orders by category (malt, hop, yeast) then name.
func SortIngredients(ings []Ingredient) {
	rank := map[Category]int{Malt: 0, Hop: 1, Yeast: 2}
	sort.SliceStable(ings, func(i, j int) bool {
		ri, okI := rank[ings[i].Category]
		rj, okJ := rank[ings[j].Category]
		if !okI {
			ri = len(rank)
		}
		if !okJ {
			rj = len(rank)
		}
		if ri != rj {
			return ri < rj
		}
		return NormalizeName(ings[i].Name) < NormalizeName(ings[j].Name)
	})
}
