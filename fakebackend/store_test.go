package fakebackend

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

func TestProduceIsAllOrNothing(t *testing.T) {
	s := NewStore()
	s.Seed()
	if err := s.SetStock(6, decimal.RequireFromString("0.4")); err != nil {
		t.Fatalf("SetStock() error = %v", err)
	}

	_, err := s.Produce(1, 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusConflict {
		t.Fatalf("Produce() error = %v, want conflict", err)
	}
	pilsen, _ := s.Ingredient(1)
	if !pilsen.Stock.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Pilsen changed after a refused production: %s", pilsen.Stock)
	}
	if s.ProduceCalls() != 1 {
		t.Errorf("ProduceCalls() = %d, want 1", s.ProduceCalls())
	}
}

func TestProduceDeductsEveryRequirement(t *testing.T) {
	s := NewStore()
	s.Seed()
	if _, err := s.Produce(1, 1); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	want := map[int]string{1: "10", 4: "1", 6: "0.5", 2: "15"}
	for id, qty := range want {
		ing, _ := s.Ingredient(id)
		if !ing.Stock.Equal(decimal.RequireFromString(qty)) {
			t.Errorf("%s stock = %s, want %s", ing.Name, ing.Stock, qty)
		}
	}
}

func TestProduceValidation(t *testing.T) {
	s := NewStore()
	s.Seed()
	tests := []struct {
		name     string
		recipe   int
		batches  int
		wantCode int
	}{
		{"zero batches", 1, 0, http.StatusBadRequest},
		{"unknown recipe", 99, 1, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Produce(tt.recipe, tt.batches)
			var se *StatusError
			if !errors.As(err, &se) || se.Status != tt.wantCode {
				t.Errorf("Produce() error = %v, want status %d", err, tt.wantCode)
			}
		})
	}
}

func TestSaveRecipeRejectsUnknownIngredient(t *testing.T) {
	s := NewStore()
	s.Seed()
	_, err := s.SaveRecipe(Recipe{Name: "Ghost", Items: []Item{{IngredientID: 42, Quantity: decimal.NewFromInt(1)}}})
	if err == nil {
		t.Fatal("expected an error for an unknown ingredient")
	}
	if _, err := s.AddIngredient("  ", models.Malt, decimal.Zero, 0); err == nil {
		t.Error("expected an error for an empty ingredient name")
	}
}
