package brewery

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func abadia() models.Recipe {
	return models.Recipe{
		ID:     1,
		Name:   "Abadía",
		Malts:  []models.Requirement{{Name: "Pilsen", Quantity: dec("10")}},
		Hops:   []models.Requirement{{Name: "Saaz", Quantity: dec("1")}},
		Yeasts: []models.Requirement{{Name: "Safale S-33", Quantity: dec("0.5")}},
	}
}

func stock(pilsen, saaz, s33 string) models.Snapshot {
	return models.SnapshotOf(map[models.Key]decimal.Decimal{
		models.NameKey(models.Malt, "Pilsen"):       dec(pilsen),
		models.NameKey(models.Hop, "Saaz"):          dec(saaz),
		models.NameKey(models.Yeast, "Safale S-33"): dec(s33),
	})
}

func TestFeasibilityScenarios(t *testing.T) {
	tests := []struct {
		name      string
		snap      models.Snapshot
		want      bool
		wantShort []Shortfall
	}{
		{"plenty of stock", stock("20", "2", "1"), true, nil},
		{"exact equality", stock("10", "1", "0.5"), true, nil},
		{"pilsen short", stock("5", "2", "1"), false, []Shortfall{
			{Category: models.Malt, Name: "Pilsen", Key: models.NameKey(models.Malt, "Pilsen"), Required: dec("10"), Available: dec("5")},
		}},
		{"ingredient missing from snapshot", models.SnapshotOf(map[models.Key]decimal.Decimal{
			models.NameKey(models.Malt, "Pilsen"): dec("10"),
			models.NameKey(models.Hop, "Saaz"):    dec("1"),
		}), false, []Shortfall{
			{Category: models.Yeast, Name: "Safale S-33", Key: models.NameKey(models.Yeast, "Safale S-33"), Required: dec("0.5"), Available: decimal.Zero},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := abadia()
			if got := CanProduce(r, tt.snap); got != tt.want {
				t.Errorf("CanProduce() = %v, want %v", got, tt.want)
			}
			got := Shortfalls(r, tt.snap)
			if len(got) != len(tt.wantShort) {
				t.Fatalf("Shortfalls() = %+v, want %+v", got, tt.wantShort)
			}
			for i := range got {
				g, w := got[i], tt.wantShort[i]
				if g.Category != w.Category || g.Name != w.Name || g.Key != w.Key || !g.Required.Equal(w.Required) || !g.Available.Equal(w.Available) {
					t.Errorf("Shortfalls()[%d] = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestUnknownIngredientIDIsNotMatchedByName(t *testing.T) {
	snap := models.NewSnapshot([]models.Ingredient{
		{ID: 1, Name: "Pilsen", Category: models.Malt, Stock: dec("20")},
	})
	r := models.Recipe{
		Name:  "Renamed",
		Malts: []models.Requirement{{IngredientID: 99, Name: "Pilsen", Quantity: dec("10")}},
	}
	if CanProduce(r, snap) {
		t.Fatalf("CanProduce() = true for an ingredient id the snapshot does not know")
	}
	short := Shortfalls(r, snap)
	if len(short) != 1 || short[0].Key != models.IDKey(99) || !short[0].Required.Equal(dec("10")) || !short[0].Available.IsZero() {
		t.Errorf("Shortfalls() = %+v", short)
	}
}

func TestSameNameInAnotherCategory(t *testing.T) {
	snap := models.NewSnapshot([]models.Ingredient{
		{ID: 1, Name: "Cascade", Category: models.Malt, Stock: dec("50")},
		{ID: 2, Name: "Cascade", Category: models.Hop, Stock: dec("0")},
	})
	r := models.Recipe{
		Name: "Pale",
		Hops: []models.Requirement{{Name: "Cascade", Quantity: dec("1")}},
	}
	if CanProduce(r, snap) {
		t.Fatalf("a hop requirement must not read the malt's stock")
	}
	short := Shortfalls(r, snap)
	if len(short) != 1 || short[0].Category != models.Hop || short[0].Key != models.NameKey(models.Hop, "Cascade") {
		t.Errorf("Shortfalls() = %+v", short)
	}

	r = models.Recipe{Name: "Amber", Malts: []models.Requirement{{Name: "cascade", Quantity: dec("1")}}}
	if !CanProduce(r, snap) {
		t.Errorf("the malt requirement should be covered, shortfalls %+v", Shortfalls(r, snap))
	}
}

func TestShortfallsOrderIsDeterministic(t *testing.T) {
	r := models.Recipe{
		Name:   "Scotch",
		Yeasts: []models.Requirement{{Name: "S-04", Quantity: dec("1")}},
		Hops:   []models.Requirement{{Name: "Perle", Quantity: dec("1")}, {Name: "Fuggle", Quantity: dec("1")}},
		Malts:  []models.Requirement{{Name: "Munich", Quantity: dec("1")}, {Name: "Pilsen", Quantity: dec("1")}},
	}
	empty := models.Snapshot{}
	want := []string{"Munich", "Pilsen", "Perle", "Fuggle", "S-04"}
	for i := 0; i < 5; i++ {
		var names []string
		for _, s := range Shortfalls(r, empty) {
			names = append(names, s.Name)
		}
		if !reflect.DeepEqual(names, want) {
			t.Fatalf("Shortfalls() order = %v, want %v", names, want)
		}
	}
}

// Random recipes and snapshots: CanProduce agrees with every requirement being covered and
// with Shortfalls being empty.
func TestCanProduceMatchesShortfalls(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"Pilsen", "Munich", "Saaz", "Perle", "S-33"}
	for i := 0; i < 200; i++ {
		entries := map[models.Key]decimal.Decimal{}
		for _, n := range names {
			for _, c := range models.Categories {
				if rng.Intn(4) > 0 {
					entries[models.NameKey(c, n)] = decimal.New(int64(rng.Intn(40)), -1)
				}
			}
		}
		snap := models.SnapshotOf(entries)
		var r models.Recipe
		for _, n := range names {
			if rng.Intn(2) == 0 {
				continue
			}
			req := models.Requirement{Name: n, Quantity: decimal.New(int64(rng.Intn(40)), -1)}
			switch rng.Intn(3) {
			case 0:
				r.Malts = append(r.Malts, req)
			case 1:
				r.Hops = append(r.Hops, req)
			default:
				r.Yeasts = append(r.Yeasts, req)
			}
		}

		covered := true
		for _, req := range r.Requirements() {
			if snap.Available(req).LessThan(req.Quantity) {
				covered = false
			}
		}
		can := CanProduce(r, snap)
		if can != covered {
			t.Fatalf("case %d: CanProduce() = %v, want %v", i, can, covered)
		}
		if can != (len(Shortfalls(r, snap)) == 0) {
			t.Fatalf("case %d: CanProduce() = %v but Shortfalls() = %v", i, can, Shortfalls(r, snap))
		}
	}
}

func TestEvaluateScalesBatches(t *testing.T) {
	snap := stock("20", "2", "1")
	if f := Evaluate(abadia(), snap, 2); !f.Feasible {
		t.Errorf("two batches should fit exactly, shortfalls %+v", f.Shortfalls)
	}
	f := Evaluate(abadia(), snap, 3)
	if f.Feasible || len(f.Shortfalls) != 3 {
		t.Fatalf("three batches: feasible=%v shortfalls=%+v", f.Feasible, f.Shortfalls)
	}
	if !f.Shortfalls[0].Required.Equal(dec("30")) || !f.Shortfalls[0].Missing().Equal(dec("10")) {
		t.Errorf("scaled pilsen shortfall = %+v", f.Shortfalls[0])
	}
	if !abadia().Malts[0].Quantity.Equal(dec("10")) {
		t.Errorf("Scale must not modify the input recipe")
	}
}

func TestMaxBatches(t *testing.T) {
	n, ok := MaxBatches(abadia(), stock("35", "4", "3"))
	if !ok || n != 3 {
		t.Errorf("MaxBatches() = %d, %v, want 3, true", n, ok)
	}
	if _, ok := MaxBatches(models.Recipe{}, stock("1", "1", "1")); ok {
		t.Errorf("a recipe without requirements has no limit")
	}
}
