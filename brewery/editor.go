package brewery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/logger"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/notify"
	"github.com/shopspring/decimal"
)

// RecipeWriter is the part of the backend client the editor writes through.
type RecipeWriter interface {
	CreateRecipe(ctx context.Context, p api.RecipePayload) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, id int, p api.RecipePayload) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int) error
}

// Dropped is a draft row left out of a payload because it names no known ingredient.
type Dropped struct {
	Category models.Category
	Name     string
	Quantity string
}

// Editor turns drafts into recipe writes.
type Editor struct {
	writer   RecipeWriter
	catalog  *RecipeCatalog
	confirm  Confirmer
	notifier notify.Notifier
	log      *slog.Logger
}

func NewEditor(writer RecipeWriter, catalog *RecipeCatalog, confirm Confirmer, notifier notify.Notifier) *Editor {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Editor{writer: writer, catalog: catalog, confirm: confirm, notifier: notifier, log: logger.Discard()}
}

// SetLogger sets where failed notifications are reported. A nil logger is ignored.
func (e *Editor) SetLogger(l *slog.Logger) *Editor {
	if l != nil {
		e.log = l
	}
	return e
}

// BuildPayload validates a draft and converts it to a write payload. Rows with an empty name
// are skipped. Rows without an id are matched by name against opts; those still without an id
// are left out and returned in dropped.
func BuildPayload(draft models.RecipeDraft, opts Options) (p api.RecipePayload, dropped []Dropped, err error) {
	draft.Normalize()
	if draft.Name == "" {
		return api.RecipePayload{}, nil, &ValidationError{Field: "name", Message: "is required"}
	}
	p = api.RecipePayload{
		Name:        draft.Name,
		Description: draft.Description,
		Style:       draft.Style,
		ABV:         optionalNumber(draft.ABV),
		IBU:         optionalNumber(draft.IBU),
		Volume:      optionalNumber(draft.Volume),
		Ingredients: []api.RecipeIngredient{},
	}

	for _, cat := range models.Categories {
		for _, row := range draft.Rows(cat) {
			if row.Name == "" {
				continue
			}
			qty := decimal.Zero
			if row.Quantity != "" {
				qty, err = models.ParseQuantity(row.Quantity)
				if err != nil {
					return api.RecipePayload{}, nil, &ValidationError{Field: "quantity", Message: fmt.Sprintf("%s %q: %q is not a number", cat, row.Name, row.Quantity)}
				}
			}
			if qty.IsNegative() {
				return api.RecipePayload{}, nil, &ValidationError{Field: "quantity", Message: fmt.Sprintf("%s %q cannot be negative", cat, row.Name)}
			}
			id := row.IngredientID
			if id == 0 {
				if opt, ok := opts.Lookup(cat, row.Name); ok {
					id = opt.ID
				}
			}
			if id == 0 {
				dropped = append(dropped, Dropped{Category: cat, Name: row.Name, Quantity: row.Quantity})
				continue
			}
			p.Ingredients = append(p.Ingredients, api.RecipeIngredient{IngredientID: id, Quantity: qty})
		}
	}
	return p, dropped, nil
}

func optionalNumber(s string) *decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := models.ParseQuantity(s)
	if err != nil {
		return nil
	}
	return &d
}

// CreateRecipe builds the payload against the current ingredient options and creates it.
func (e *Editor) CreateRecipe(ctx context.Context, draft models.RecipeDraft) (models.Recipe, []Dropped, error) {
	p, dropped, err := e.payload(ctx, draft)
	if err != nil {
		return models.Recipe{}, nil, err
	}
	r, err := e.writer.CreateRecipe(ctx, p)
	if err != nil {
		return models.Recipe{}, dropped, err
	}
	e.saved(ctx, r)
	return r, dropped, nil
}

// UpdateRecipe replaces the recipe with the given id by the draft.
func (e *Editor) UpdateRecipe(ctx context.Context, id int, draft models.RecipeDraft) (models.Recipe, []Dropped, error) {
	if id < 1 {
		return models.Recipe{}, nil, &ValidationError{Field: "id", Message: "must be a positive recipe id"}
	}
	p, dropped, err := e.payload(ctx, draft)
	if err != nil {
		return models.Recipe{}, nil, err
	}
	r, err := e.writer.UpdateRecipe(ctx, id, p)
	if err != nil {
		return models.Recipe{}, dropped, err
	}
	e.saved(ctx, r)
	return r, dropped, nil
}

// DeleteRecipe deletes after confirmation. Declining returns ErrConfirmationAbort and sends
// nothing.
func (e *Editor) DeleteRecipe(ctx context.Context, id int, name string) error {
	if err := confirm(e.confirm, fmt.Sprintf("Delete recipe #%d %s", id, name)); err != nil {
		return err
	}
	if err := e.writer.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	e.notify(ctx, notify.Event{Kind: notify.RecipeDeleted, RecipeID: id, RecipeName: name})
	return nil
}

func (e *Editor) payload(ctx context.Context, draft models.RecipeDraft) (api.RecipePayload, []Dropped, error) {
	var opts Options
	if e.catalog != nil {
		var err error
		opts, err = e.catalog.FetchOptions(ctx)
		if err != nil {
			return api.RecipePayload{}, nil, err
		}
	}
	return BuildPayload(draft, opts)
}

func (e *Editor) saved(ctx context.Context, r models.Recipe) {
	e.notify(ctx, notify.Event{Kind: notify.RecipeSaved, RecipeID: r.ID, RecipeName: r.Name})
}

func (e *Editor) notify(ctx context.Context, ev notify.Event) {
	if err := e.notifier.Notify(ctx, ev); err != nil {
		e.log.Warn("notification failed", "kind", ev.Kind, "err", err)
	}
}
