package brewery

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/db"
	"github.com/dstockto/brewctl/fakebackend"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *fakebackend.Store
	client  *api.Client
	ledger  *StockLedger
	catalog *RecipeCatalog
	journal *memJournal
	events  *memNotifier
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := fakebackend.NewStore()
	store.Seed()
	srv := httptest.NewServer(fakebackend.NewServer(store, nil).Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL)
	f := &fixture{
		store:   store,
		client:  client,
		ledger:  NewStockLedger(client, AlwaysConfirm),
		catalog: NewRecipeCatalog(client),
		journal: &memJournal{},
		events:  &memNotifier{},
	}
	f.orch = NewOrchestrator(client, f.ledger,
		WithJournal(f.journal),
		WithNotifier(f.events),
		WithRequestIDs(func() string { return "req-1" }),
	)
	return f
}

func (f *fixture) view(t *testing.T) *View {
	t.Helper()
	snap, err := f.ledger.FetchStock(context.Background())
	require.NoError(t, err)
	return NewView(snap)
}

type memJournal struct{ entries []db.Production }

func (m *memJournal) RecordProduction(_ context.Context, p db.Production) error {
	m.entries = append(m.entries, p)
	return nil
}

type memNotifier struct{ events []notify.Event }

func (m *memNotifier) Notify(_ context.Context, e notify.Event) error {
	m.events = append(m.events, e)
	return nil
}

func TestFetchStockIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.ledger.FetchStock(ctx)
	require.NoError(t, err)
	b, err := f.ledger.FetchStock(ctx)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.True(t, a.Available(models.CategorizedRequirement{Category: models.Malt, Requirement: models.Requirement{Name: "pilsen"}}).Equal(decimal.NewFromInt(20)))
}

func TestProduceRefreshesSnapshotFromBackend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.view(t)
	recipe, err := f.catalog.FetchRecipe(ctx, 1)
	require.NoError(t, err)

	res, err := f.orch.Produce(ctx, view, recipe, 1)
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
	assert.NoError(t, res.RefreshErr)
	assert.True(t, res.Snapshot.Available(models.CategorizedRequirement{Category: models.Malt, Requirement: models.Requirement{IngredientID: 1}}).Equal(decimal.NewFromInt(10)))
	assert.True(t, view.Snapshot().Equal(res.Snapshot))

	require.Len(t, f.journal.entries, 1)
	assert.Equal(t, db.StatusOK, f.journal.entries[0].Status)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, notify.ProductionSucceeded, f.events.events[0].Kind)
}

func TestProduceRejectionKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := f.view(t)
	before := view.Snapshot()
	recipe, err := f.catalog.FetchRecipe(ctx, 1)
	require.NoError(t, err)

	// someone else used the malt since our snapshot was taken
	require.NoError(t, f.store.SetStock(1, decimal.NewFromInt(5)))

	_, err = f.orch.Produce(ctx, view, recipe, 1)
	var perr *api.ProductionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "insufficient stock for Pilsen: need 10.000, have 5.000", perr.Message)
	assert.True(t, view.Snapshot().Equal(before), "snapshot must not change after a rejection")

	require.Len(t, f.journal.entries, 1)
	assert.Equal(t, db.StatusRejected, f.journal.entries[0].Status)
	assert.Equal(t, perr.Message, f.journal.entries[0].Message)
	assert.Equal(t, notify.ProductionRejected, f.events.events[0].Kind)
}

func TestProduceInfeasibleSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipe, err := f.catalog.FetchRecipe(ctx, 1)
	require.NoError(t, err)
	view := f.view(t)

	_, err = f.orch.Produce(ctx, view, recipe, 3)
	var inf *InfeasibleError
	require.ErrorAs(t, err, &inf)
	assert.Equal(t, "Pilsen", inf.Shortfalls[0].Name)
	assert.Zero(t, f.store.ProduceCalls())
	assert.Empty(t, f.journal.entries)
}

func TestProduceRejectsZeroBatches(t *testing.T) {
	f := newFixture(t)
	_, err := f.orch.Produce(context.Background(), NewView(models.Snapshot{}), abadia(), 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "batches", ve.Field)
	assert.Zero(t, f.store.ProduceCalls())
}

type okProducer struct{}

func (okProducer) Produce(context.Context, int, int, string) (api.ProduceResponse, error) {
	return api.ProduceResponse{Message: "done"}, nil
}

type downSource struct{ IngredientSource }

func (downSource) ListIngredients(context.Context, *models.Category) ([]models.Ingredient, error) {
	return nil, &api.FetchError{Op: "list ingredients", Message: "request failed", Err: errors.New("connection refused")}
}

func TestProduceRefreshFailureKeepsOldSnapshot(t *testing.T) {
	before := stock("20", "2", "1")
	view := NewView(before)
	orch := NewOrchestrator(okProducer{}, NewStockLedger(downSource{}, nil))

	res, err := orch.Produce(context.Background(), view, abadia(), 1)
	require.NoError(t, err)
	var fe *api.FetchError
	require.ErrorAs(t, res.RefreshErr, &fe)
	assert.True(t, view.Snapshot().Equal(before))
	assert.NotEmpty(t, res.RequestID)
}

type plainFailure struct{}

func (plainFailure) Produce(context.Context, int, int, string) (api.ProduceResponse, error) {
	return api.ProduceResponse{}, errors.New("socket closed")
}

func TestProduceWrapsUntypedFailures(t *testing.T) {
	orch := NewOrchestrator(plainFailure{}, NewStockLedger(downSource{}, nil))
	_, err := orch.Produce(context.Background(), NewView(stock("20", "2", "1")), abadia(), 1)
	var perr *api.ProductionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "socket closed", perr.Message)
}
