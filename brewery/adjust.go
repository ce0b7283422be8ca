package brewery

import (
	"fmt"
	"strings"

	"github.com/dstockto/brewctl/models"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionSet    Action = "set"
)

// Adjustment is a stock change as typed by the user.
type Adjustment struct {
	Action Action
	Amount string
}

// PlanAdjustment computes the new absolute stock. Add and remove need a positive amount,
// set accepts zero, and removing more than is on hand is refused.
func PlanAdjustment(current decimal.Decimal, adj Adjustment) (decimal.Decimal, error) {
	amount, err := models.ParseQuantity(adj.Amount)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a number", strings.TrimSpace(adj.Amount))}
	}

	switch adj.Action {
	case ActionAdd, "":
		if !amount.IsPositive() {
			return decimal.Zero, &ValidationError{Field: "amount", Message: "must be greater than zero"}
		}
		return current.Add(amount), nil
	case ActionRemove:
		if !amount.IsPositive() {
			return decimal.Zero, &ValidationError{Field: "amount", Message: "must be greater than zero"}
		}
		if amount.GreaterThan(current) {
			return decimal.Zero, &ValidationError{Field: "amount", Message: fmt.Sprintf("cannot remove %s, only %s on hand", models.FormatQuantity(amount), models.FormatQuantity(current))}
		}
		return decimal.Max(current.Sub(amount), decimal.Zero), nil
	case ActionSet:
		if amount.IsNegative() {
			return decimal.Zero, &ValidationError{Field: "amount", Message: "cannot be negative"}
		}
		return amount, nil
	}
	return decimal.Zero, &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", adj.Action)}
}
