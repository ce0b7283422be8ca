// Package fakebackend is an in-memory stand-in for the brewery REST backend. It keeps the
// backend's routes and field names so the CLI can be developed and tested without a server.
package fakebackend

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

// StatusError is a refusal with the HTTP status the backend answers it with.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

func notFound(format string, args ...any) error {
	return &StatusError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &StatusError{Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &StatusError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

type Unit struct {
	ID   int
	Name string
}

type Ingredient struct {
	ID       int
	Name     string
	Category models.Category
	Stock    decimal.Decimal
	UnitID   int
}

type Item struct {
	IngredientID int
	Quantity     decimal.Decimal
}

type Recipe struct {
	ID          int
	Name        string
	Style       string
	Description string
	ABV         *decimal.Decimal
	Volume      *decimal.Decimal
	IBU         *decimal.Decimal
	Items       []Item
}

// Store holds the backend state. All methods are safe for concurrent use.
type Store struct {
	mu             sync.Mutex
	units          map[int]Unit
	ingredients    map[int]*Ingredient
	recipes        map[int]*Recipe
	nextIngredient int
	nextRecipe     int
	produceCalls   int
}

func NewStore() *Store {
	return &Store{
		units:          map[int]Unit{1: {ID: 1, Name: "kg"}},
		ingredients:    map[int]*Ingredient{},
		recipes:        map[int]*Recipe{},
		nextIngredient: 1,
		nextRecipe:     1,
	}
}

// AddIngredient inserts an ingredient and returns its id.
func (s *Store) AddIngredient(name string, cat models.Category, stock decimal.Decimal, unitID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addIngredient(name, cat, stock, unitID)
}

func (s *Store) addIngredient(name string, cat models.Category, stock decimal.Decimal, unitID int) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("nombre_ingrediente is required")
	}
	if !cat.Valid() {
		return 0, invalid("unknown tipo")
	}
	if stock.IsNegative() {
		return 0, invalid("stock cannot be negative")
	}
	if unitID == 0 {
		unitID = 1
	}
	if _, ok := s.units[unitID]; !ok {
		return 0, invalid("unknown unidad %d", unitID)
	}
	id := s.nextIngredient
	s.nextIngredient++
	s.ingredients[id] = &Ingredient{ID: id, Name: name, Category: cat, Stock: stock, UnitID: unitID}
	return id, nil
}

// Ingredients returns a copy of every ingredient ordered by id.
func (s *Store) Ingredients() []Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, *ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Ingredient(id int) (Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok {
		return Ingredient{}, false
	}
	return *ing, true
}

// SetStock replaces the stock of one ingredient.
func (s *Store) SetStock(id int, stock decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.ingredients[id]
	if !ok {
		return notFound("ingredient %d not found", id)
	}
	if stock.IsNegative() {
		return invalid("stock cannot be negative")
	}
	ing.Stock = stock
	return nil
}

func (s *Store) DeleteIngredient(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ingredients[id]; !ok {
		return notFound("ingredient %d not found", id)
	}
	for _, r := range s.recipes {
		for _, it := range r.Items {
			if it.IngredientID == id {
				return conflict("ingredient is used by recipe %q", r.Name)
			}
		}
	}
	delete(s.ingredients, id)
	return nil
}

func (s *Store) Unit(id int) Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[id]
}

// SaveRecipe creates a recipe when r.ID is zero and replaces it otherwise.
func (s *Store) SaveRecipe(r Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(r.Name) == "" {
		return Recipe{}, invalid("nombre_receta is required")
	}
	for _, it := range r.Items {
		if _, ok := s.ingredients[it.IngredientID]; !ok {
			return Recipe{}, invalid("unknown ingredient %d", it.IngredientID)
		}
		if it.Quantity.IsNegative() {
			return Recipe{}, invalid("cantidad cannot be negative")
		}
	}
	if r.ID == 0 {
		r.ID = s.nextRecipe
		s.nextRecipe++
	} else if _, ok := s.recipes[r.ID]; !ok {
		return Recipe{}, notFound("recipe %d not found", r.ID)
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Items = append([]Item(nil), r.Items...)
	s.recipes[r.ID] = &r
	return r, nil
}

func (s *Store) Recipes() []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Recipe(id int) (Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return Recipe{}, false
	}
	return *r, true
}

func (s *Store) DeleteRecipe(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return notFound("recipe %d not found", id)
	}
	delete(s.recipes, id)
	return nil
}

// Produce validates stock for every requirement of the recipe times batches and deducts it
// all at once. Nothing changes when any ingredient is short.
func (s *Store) Produce(recipeID, batches int) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.produceCalls++
	if batches < 1 {
		return Recipe{}, invalid("cantidad must be at least 1")
	}
	r, ok := s.recipes[recipeID]
	if !ok {
		return Recipe{}, notFound("recipe %d not found", recipeID)
	}
	n := decimal.NewFromInt(int64(batches))
	for _, it := range r.Items {
		ing, ok := s.ingredients[it.IngredientID]
		if !ok {
			return Recipe{}, conflict("ingredient %d no longer exists", it.IngredientID)
		}
		need := it.Quantity.Mul(n)
		if ing.Stock.LessThan(need) {
			return Recipe{}, conflict("insufficient stock for %s: need %s, have %s", ing.Name, models.FormatQuantity(need), models.FormatQuantity(ing.Stock))
		}
	}
	for _, it := range r.Items {
		ing := s.ingredients[it.IngredientID]
		ing.Stock = ing.Stock.Sub(it.Quantity.Mul(n))
	}
	return *r, nil
}

// ProduceCalls counts production requests received, accepted or not.
func (s *Store) ProduceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.produceCalls
}

// Seed fills the store with a small brewery: three malts, two hops, two yeasts and two
// recipes. Abadía needs Pilsen 10, Saaz 1 and Safale S-33 0.5 per batch.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := decimal.RequireFromString
	ids := map[string]int{}
	for _, ing := range []struct {
		name  string
		cat   models.Category
		stock string
	}{
		{"Pilsen", models.Malt, "20"},
		{"Munich", models.Malt, "15"},
		{"Caramel 60", models.Malt, "5"},
		{"Saaz", models.Hop, "2"},
		{"Perle", models.Hop, "1.5"},
		{"Safale S-33", models.Yeast, "1"},
		{"Safbrew BE-256", models.Yeast, "0.5"},
	} {
		id, _ := s.addIngredient(ing.name, ing.cat, d(ing.stock), 1)
		ids[ing.name] = id
	}

	abv, ibu, vol := d("6.5"), d("22"), d("20")
	for _, r := range []Recipe{
		{
			Name: "Abadía", Style: "Belgian Dubbel", ABV: &abv, IBU: &ibu, Volume: &vol,
			Items: []Item{
				{ids["Pilsen"], d("10")},
				{ids["Saaz"], d("1")},
				{ids["Safale S-33"], d("0.5")},
			},
		},
		{
			Name: "Scotch", Style: "Scotch Ale",
			Items: []Item{
				{ids["Pilsen"], d("5")},
				{ids["Munich"], d("8")},
				{ids["Caramel 60"], d("2")},
				{ids["Perle"], d("0.5")},
				{ids["Safale S-33"], d("0.5")},
			},
		},
	} {
		r.ID = s.nextRecipe
		s.nextRecipe++
		rc := r
		s.recipes[rc.ID] = &rc
	}
}
