package brewery

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/logger"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var options = Options{
	models.Malt:  {{ID: 1, Name: "Pilsen"}, {ID: 2, Name: "Munich"}},
	models.Hop:   {{ID: 4, Name: "Saaz"}},
	models.Yeast: {{ID: 6, Name: "Safale S-33"}},
}

func TestBuildPayloadSkipsEmptyRows(t *testing.T) {
	draft := models.RecipeDraft{
		Name: "Abadía",
		Malts: []models.DraftRow{
			{IngredientID: 1, Name: "Pilsen", Quantity: "10"},
			{IngredientID: 2, Name: "", Quantity: "5"},
		},
	}
	p, dropped, err := BuildPayload(draft, options)
	require.NoError(t, err)
	require.Len(t, p.Ingredients, 1)
	assert.Equal(t, 1, p.Ingredients[0].IngredientID)
	assert.Empty(t, dropped)
}

func TestBuildPayloadResolvesByName(t *testing.T) {
	draft := models.RecipeDraft{
		Name:   " Scotch ",
		ABV:    "7,2",
		IBU:    "n/a",
		Malts:  []models.DraftRow{{Name: "MUNICH", Quantity: "8,5"}, {Name: "Chocolate", Quantity: "1"}},
		Hops:   []models.DraftRow{{Name: "saaz", Quantity: ""}},
		Yeasts: []models.DraftRow{{Name: "Safale S-33", Quantity: "0.5"}},
	}
	p, dropped, err := BuildPayload(draft, options)
	require.NoError(t, err)
	assert.Equal(t, "Scotch", p.Name)
	require.NotNil(t, p.ABV)
	assert.True(t, p.ABV.Equal(dec("7.2")))
	assert.Nil(t, p.IBU, "unparseable numbers are omitted")

	ids := []int{}
	for _, ing := range p.Ingredients {
		ids = append(ids, ing.IngredientID)
	}
	assert.Equal(t, []int{2, 4, 6}, ids)
	assert.True(t, p.Ingredients[0].Quantity.Equal(dec("8.5")))
	assert.True(t, p.Ingredients[1].Quantity.IsZero())
	assert.Equal(t, []Dropped{{Category: models.Malt, Name: "Chocolate", Quantity: "1"}}, dropped)
}

func TestBuildPayloadValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft models.RecipeDraft
		field string
	}{
		{"missing name", models.RecipeDraft{Name: "   "}, "name"},
		{"bad quantity", models.RecipeDraft{Name: "X", Malts: []models.DraftRow{{Name: "Pilsen", Quantity: "ten"}}}, "quantity"},
		{"negative quantity", models.RecipeDraft{Name: "X", Hops: []models.DraftRow{{Name: "Saaz", Quantity: "-1"}}}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildPayload(tt.draft, options)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

type memWriter struct {
	deleted []int
}

func (m *memWriter) CreateRecipe(context.Context, api.RecipePayload) (models.Recipe, error) {
	return models.Recipe{}, errors.New("not used")
}

func (m *memWriter) UpdateRecipe(context.Context, int, api.RecipePayload) (models.Recipe, error) {
	return models.Recipe{}, errors.New("not used")
}

func (m *memWriter) DeleteRecipe(_ context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestDeleteRecipeNeedsConfirmation(t *testing.T) {
	w := &memWriter{}
	var asked string
	no := ConfirmFunc(func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	})

	err := NewEditor(w, nil, no, nil).DeleteRecipe(context.Background(), 3, "Stout")
	assert.True(t, IsAbort(err))
	assert.Equal(t, "Delete recipe #3 Stout", asked)
	assert.Empty(t, w.deleted)

	require.NoError(t, NewEditor(w, nil, AlwaysConfirm, nil).DeleteRecipe(context.Background(), 3, "Stout"))
	assert.Equal(t, []int{3}, w.deleted)
}

type brokenNotifier struct{}

func (brokenNotifier) Notify(context.Context, notify.Event) error {
	return errors.New("broker unreachable")
}

func TestDeleteRecipeLogsFailedNotification(t *testing.T) {
	var buf bytes.Buffer
	w := &memWriter{}
	ed := NewEditor(w, nil, AlwaysConfirm, brokenNotifier{}).SetLogger(logger.New("warn", "text", &buf))

	require.NoError(t, ed.DeleteRecipe(context.Background(), 3, "Stout"))
	assert.Equal(t, []int{3}, w.deleted)
	assert.Contains(t, buf.String(), "notification failed")
	assert.Contains(t, buf.String(), "broker unreachable")
}

func TestEditorAgainstBackend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ed := NewEditor(f.client, f.catalog, AlwaysConfirm, f.events)

	created, dropped, err := ed.CreateRecipe(ctx, models.RecipeDraft{
		Name:   "Pale",
		Malts:  []models.DraftRow{{Name: "pilsen", Quantity: "4"}, {Name: "", Quantity: "0"}},
		Hops:   []models.DraftRow{{Name: "Cascade", Quantity: "0.1"}},
		Yeasts: []models.DraftRow{{Name: "Safale S-33", Quantity: "0.5"}},
	})
	require.NoError(t, err)
	assert.Len(t, dropped, 1)
	require.Len(t, created.Malts, 1)
	assert.Equal(t, "Pilsen", created.Malts[0].Name)
	assert.Empty(t, created.Hops)

	draft := models.DraftFromRecipe(created)
	draft.Name = "Pale Ale"
	updated, _, err := ed.UpdateRecipe(ctx, created.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "Pale Ale", updated.Name)
	assert.Len(t, updated.Yeasts, 1)

	_, _, err = ed.UpdateRecipe(ctx, 999, draft)
	var perr *api.ProductionError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, api.ErrNotFound)
}
