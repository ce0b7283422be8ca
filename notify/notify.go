// Package notify tells people what happened: console toasts for the operator, MQTT events for
// the brewery's dashboards and Telegram messages for whoever is on shift.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	ProductionSucceeded Kind = "production.succeeded"
	ProductionRejected  Kind = "production.rejected"
	RecipeSaved         Kind = "recipe.saved"
	RecipeDeleted       Kind = "recipe.deleted"
	StockAdjusted       Kind = "stock.adjusted"
)

// Event is one notification. Fields that do not apply to the kind are left empty.
type Event struct {
	Kind       Kind      `json:"kind"`
	RecipeID   int       `json:"recipe_id,omitempty"`
	RecipeName string    `json:"recipe_name,omitempty"`
	Batches    int       `json:"batches,omitempty"`
	Ingredient string    `json:"ingredient,omitempty"`
	Quantity   string    `json:"quantity,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}

// Failed reports whether the event describes a refusal.
func (e Event) Failed() bool {
	return e.Kind == ProductionRejected
}

// Text renders the event as one human readable line.
func (e Event) Text() string {
	var s string
	switch e.Kind {
	case ProductionSucceeded:
		s = fmt.Sprintf("Produced %d batch(es) of %s", e.Batches, e.RecipeName)
	case ProductionRejected:
		s = fmt.Sprintf("Production of %d batch(es) of %s was rejected", e.Batches, e.RecipeName)
	case RecipeSaved:
		s = fmt.Sprintf("Recipe %s saved", e.RecipeName)
	case RecipeDeleted:
		s = fmt.Sprintf("Recipe %s deleted", e.RecipeName)
	case StockAdjusted:
		s = fmt.Sprintf("Stock of %s set to %s", e.Ingredient, e.Quantity)
	default:
		s = string(e.Kind)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
