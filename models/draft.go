package models

import "strings"

// DraftRow is one ingredient line of a recipe draft. Quantity is kept as text so that both
// "12.5" and "12,5" survive a YAML round trip untouched.
type DraftRow struct {
	IngredientID int    `yaml:"ingredient_id,omitempty"`
	Name         string `yaml:"name"`
	Quantity     string `yaml:"quantity"`
}

// RecipeDraft is the editable form of a recipe, stored as YAML.
type RecipeDraft struct {
	Name        string     `yaml:"name"`
	Style       string     `yaml:"style,omitempty"`
	Description string     `yaml:"description,omitempty"`
	ABV         string     `yaml:"abv,omitempty"`
	IBU         string     `yaml:"ibu,omitempty"`
	Volume      string     `yaml:"volume,omitempty"`
	Malts       []DraftRow `yaml:"malts"`
	Hops        []DraftRow `yaml:"hops"`
	Yeasts      []DraftRow `yaml:"yeasts"`
}

// Rows returns the draft rows for one category.
func (d RecipeDraft) Rows(c Category) []DraftRow {
	switch c {
	case Malt:
		return d.Malts
	case Hop:
		return d.Hops
	case Yeast:
		return d.Yeasts
	}
	return nil
}

func (d *RecipeDraft) setRows(c Category, rows []DraftRow) {
	switch c {
	case Malt:
		d.Malts = rows
	case Hop:
		d.Hops = rows
	case Yeast:
		d.Yeasts = rows
	}
}

// Normalize trims every text field and leaves at least one (possibly blank) row per category,
// the way the editor form always shows one empty line.
func (d *RecipeDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Style = strings.TrimSpace(d.Style)
	d.Description = strings.TrimSpace(d.Description)
	d.ABV = strings.TrimSpace(d.ABV)
	d.IBU = strings.TrimSpace(d.IBU)
	d.Volume = strings.TrimSpace(d.Volume)
	for _, c := range Categories {
		rows := d.Rows(c)
		for i := range rows {
			rows[i].Name = strings.TrimSpace(rows[i].Name)
			rows[i].Quantity = strings.TrimSpace(rows[i].Quantity)
		}
		if len(rows) == 0 {
			rows = []DraftRow{{Name: "", Quantity: "0"}}
		}
		d.setRows(c, rows)
	}
}

// DraftFromRecipe turns a decoded recipe back into an editable draft.
func DraftFromRecipe(r Recipe) RecipeDraft {
	d := RecipeDraft{
		Name:        r.Name,
		Style:       r.Style,
		Description: r.Description,
	}
	if r.ABV.Valid {
		d.ABV = r.ABV.Decimal.String()
	}
	if r.IBU.Valid {
		d.IBU = r.IBU.Decimal.String()
	}
	if r.Volume.Valid {
		d.Volume = r.Volume.Decimal.String()
	}
	for _, c := range Categories {
		var rows []DraftRow
		for _, req := range r.Group(c) {
			rows = append(rows, DraftRow{
				IngredientID: req.IngredientID,
				Name:         req.Name,
				Quantity:     req.Quantity.String(),
			})
		}
		d.setRows(c, rows)
	}
	d.Normalize()
	return d
}
