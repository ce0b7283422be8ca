package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewSnapshotKeys(t *testing.T) {
	s := NewSnapshot([]Ingredient{
		{ID: 1, Name: "Pilsen", Category: Malt, Stock: decimal.NewFromInt(20)},
		{ID: 2, Name: "Saaz", Category: Hop, Stock: decimal.NewFromInt(2)},
		{ID: 3, Name: "pilsen", Category: Malt, Stock: decimal.NewFromInt(7)},
	})

	if v, ok := s.Get(IDKey(3)); !ok || v.IntPart() != 7 {
		t.Errorf("Get(id:3) = %s, %v", v, ok)
	}
	if NameKey(Malt, "PILSEN") != "name:malt:pilsen" {
		t.Errorf("NameKey() = %s", NameKey(Malt, "PILSEN"))
	}
	if v, _ := s.Get(NameKey(Malt, "PILSEN")); v.IntPart() != 20 {
		t.Errorf("name collision should keep the first ingredient, got %s", v)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestSnapshotAvailable(t *testing.T) {
	s := NewSnapshot([]Ingredient{
		{ID: 1, Name: "Pilsen", Category: Malt, Stock: decimal.NewFromInt(20)},
		{ID: 2, Name: "Cascade", Category: Malt, Stock: decimal.NewFromInt(50)},
		{ID: 3, Name: "Cascade", Category: Hop, Stock: decimal.Zero},
	})
	malt := func(r Requirement) CategorizedRequirement { return CategorizedRequirement{Category: Malt, Requirement: r} }
	hop := func(r Requirement) CategorizedRequirement { return CategorizedRequirement{Category: Hop, Requirement: r} }
	tests := []struct {
		name string
		req  CategorizedRequirement
		want int64
	}{
		{"by id", malt(Requirement{IngredientID: 1}), 20},
		{"by name", malt(Requirement{Name: "pílsen"}), 20},
		{"unknown id is not matched by name", malt(Requirement{IngredientID: 99, Name: "Pilsen"}), 0},
		{"name in another category", hop(Requirement{Name: "Pilsen"}), 0},
		{"same name malt", malt(Requirement{Name: "Cascade"}), 50},
		{"same name hop", hop(Requirement{Name: "Cascade"}), 0},
		{"missing", malt(Requirement{Name: "Munich"}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Available(tt.req); got.IntPart() != tt.want {
				t.Errorf("Available() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotDeductClampsAndCopies(t *testing.T) {
	s := NewSnapshot([]Ingredient{
		{ID: 1, Name: "Pilsen", Category: Malt, Stock: decimal.NewFromInt(20)},
		{ID: 2, Name: "Saaz", Category: Hop, Stock: decimal.NewFromInt(1)},
	})
	after := s.Deduct([]CategorizedRequirement{
		{Category: Malt, Requirement: Requirement{IngredientID: 1, Name: "Pilsen", Quantity: decimal.NewFromInt(5)}},
		{Category: Hop, Requirement: Requirement{Name: "Saaz", Quantity: decimal.NewFromInt(3)}},
		{Category: Malt, Requirement: Requirement{IngredientID: 99, Name: "Pilsen", Quantity: decimal.NewFromInt(4)}},
	})

	if v, _ := after.Get(IDKey(1)); v.IntPart() != 15 {
		t.Errorf("Pilsen after = %s, want 15", v)
	}
	if v, _ := after.Get(NameKey(Malt, "Pilsen")); v.IntPart() != 15 {
		t.Errorf("Pilsen name key after = %s, want 15", v)
	}
	if v, _ := after.Get(NameKey(Hop, "Saaz")); !v.IsZero() {
		t.Errorf("Saaz after = %s, want clamped 0", v)
	}
	if v, _ := s.Get(IDKey(1)); v.IntPart() != 20 {
		t.Errorf("Deduct modified the original snapshot: %s", v)
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := SnapshotOf(map[Key]decimal.Decimal{NameKey(Malt, "Pilsen"): decimal.RequireFromString("20.000")})
	b := SnapshotOf(map[Key]decimal.Decimal{NameKey(Malt, "pilsen"): decimal.NewFromInt(20)})
	c := SnapshotOf(map[Key]decimal.Decimal{NameKey(Malt, "Pilsen"): decimal.NewFromInt(21)})
	if !a.Equal(b) {
		t.Errorf("expected snapshots to be equal")
	}
	if a.Equal(c) {
		t.Errorf("expected snapshots to differ")
	}
	if a.Equal(Snapshot{}) {
		t.Errorf("expected non-empty snapshot to differ from empty")
	}
}
