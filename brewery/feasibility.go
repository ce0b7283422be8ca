package brewery

import (
	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

// Shortfall is one requirement the snapshot does not cover.
type Shortfall struct {
	Category  models.Category
	Name      string
	Key       models.Key
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Missing is how much more stock the requirement needs.
func (s Shortfall) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// CanProduce reports whether every requirement of r is covered by s. Equality is enough and an
// ingredient missing from the snapshot counts as zero.
func CanProduce(r models.Recipe, s models.Snapshot) bool {
	for _, req := range r.Requirements() {
		if s.Available(req).LessThan(req.Quantity) {
			return false
		}
	}
	return true
}

// Shortfalls lists uncovered requirements in the recipe's requirement order: malts, hops,
// then yeasts, each in recipe order.
func Shortfalls(r models.Recipe, s models.Snapshot) []Shortfall {
	var out []Shortfall
	for _, req := range r.Requirements() {
		have := s.Available(req)
		if !have.LessThan(req.Quantity) {
			continue
		}
		name := req.Name
		if name == "" {
			name = string(req.Key())
		}
		out = append(out, Shortfall{
			Category:  req.Category,
			Name:      name,
			Key:       req.Key(),
			Required:  req.Quantity,
			Available: have,
		})
	}
	return out
}

// Scale returns a copy of r with every requirement multiplied by batches.
func Scale(r models.Recipe, batches int) models.Recipe {
	n := decimal.NewFromInt(int64(batches))
	out := r
	for _, c := range models.Categories {
		src := r.Group(c)
		if src == nil {
			continue
		}
		scaled := make([]models.Requirement, len(src))
		for i, req := range src {
			req.Quantity = req.Quantity.Mul(n)
			scaled[i] = req
		}
		out.SetGroup(c, scaled)
	}
	return out
}

// Feasibility is the outcome of checking a recipe at a batch count.
type Feasibility struct {
	Recipe     models.Recipe // scaled
	Batches    int
	Feasible   bool
	Shortfalls []Shortfall
}

func Evaluate(r models.Recipe, s models.Snapshot, batches int) Feasibility {
	scaled := Scale(r, batches)
	short := Shortfalls(scaled, s)
	return Feasibility{
		Recipe:     scaled,
		Batches:    batches,
		Feasible:   len(short) == 0,
		Shortfalls: short,
	}
}

// MaxBatches is the largest batch count the snapshot covers. Recipes without requirements
// have no limit and report ok == false.
func MaxBatches(r models.Recipe, s models.Snapshot) (n int64, ok bool) {
	for _, req := range r.Requirements() {
		if !req.Quantity.IsPositive() {
			continue
		}
		fit := s.Available(req).Div(req.Quantity).Floor().IntPart()
		if !ok || fit < n {
			n, ok = fit, true
		}
	}
	return n, ok
}
