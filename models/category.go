package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category is the canonical ingredient category used everywhere past the API boundary.
type Category string

const (
	Malt  Category = "malt"
	Hop   Category = "hop"
	Yeast Category = "yeast"
)

var ErrUnknownCategory = errors.New("unknown ingredient category")

// Categories lists every category in display order. Flattening a recipe follows this order.
var Categories = []Category{Malt, Hop, Yeast}

// categoryLabels maps every label the backend (or a user) has been seen to send, after
// NormalizeName, to its canonical category.
var categoryLabels = map[string]Category{
	"malt":      Malt,
	"malts":     Malt,
	"malta":     Malt,
	"maltas":    Malt,
	"hop":       Hop,
	"hops":      Hop,
	"lupulo":    Hop,
	"lupulos":   Hop,
	"yeast":     Yeast,
	"yeasts":    Yeast,
	"levadura":  Yeast,
	"levaduras": Yeast,
}

// ParseCategory normalizes a backend or user supplied label ("Lúpulos", "lupulos", "hops", ...).
func ParseCategory(label string) (Category, error) {
	if c, ok := categoryLabels[NormalizeName(label)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// CategoryByID maps the backend's numeric category id.
func CategoryByID(id int) (Category, bool) {
	for _, c := range Categories {
		if c.BackendID() == id {
			return c, true
		}
	}
	return "", false
}

// BackendID is the id of the category row on the backend.
func (c Category) BackendID() int {
	switch c {
	case Malt:
		return 1
	case Hop:
		return 2
	case Yeast:
		return 3
	}
	return 0
}

// BackendLabel is the name the backend uses for the category.
func (c Category) BackendLabel() string {
	switch c {
	case Malt:
		return "Maltas"
	case Hop:
		return "Lúpulos"
	case Yeast:
		return "Levaduras"
	}
	return string(c)
}

// Title is the plural English heading used in tables.
func (c Category) Title() string {
	switch c {
	case Malt:
		return "Malts"
	case Hop:
		return "Hops"
	case Yeast:
		return "Yeasts"
	}
	return strings.ToUpper(string(c))
}

func (c Category) Valid() bool {
	return c == Malt || c == Hop || c == Yeast
}

// categoryFromRaw accepts the shapes seen for an ingredient's "tipo": an object with
// nombre_tipo and/or id, a bare label, or a bare numeric id.
func categoryFromRaw(raw json.RawMessage) (Category, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var obj rawFields
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		if label := obj.str("nombre_tipo", "nombre", "name"); label != "" {
			if c, err := ParseCategory(label); err == nil {
				return c, true
			}
		}
		if id := obj.id("id"); id != 0 {
			return CategoryByID(id)
		}
		return "", false
	}
	var label string
	if err := json.Unmarshal(raw, &label); err == nil {
		if c, err := ParseCategory(label); err == nil {
			return c, true
		}
		if id, err := strconv.Atoi(strings.TrimSpace(label)); err == nil {
			return CategoryByID(id)
		}
		return "", false
	}
	var id int
	if err := json.Unmarshal(raw, &id); err == nil {
		return CategoryByID(id)
	}
	return "", false
}
