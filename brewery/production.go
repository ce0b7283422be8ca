package brewery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/db"
	"github.com/dstockto/brewctl/logger"
	"github.com/dstockto/brewctl/models"
	"github.com/dstockto/brewctl/notify"
	"github.com/google/uuid"
)

// Producer sends production requests to the backend.
type Producer interface {
	Produce(ctx context.Context, recipeID, batches int, requestID string) (api.ProduceResponse, error)
}

// Journal records production attempts locally.
type Journal interface {
	RecordProduction(ctx context.Context, p db.Production) error
}

// ProductionResult describes an accepted production. Snapshot is the stock re-read after the
// backend confirmed; when that re-read fails RefreshErr is set and the view keeps its old
// snapshot.
type ProductionResult struct {
	RecipeID   int
	RecipeName string
	Batches    int
	RequestID  string
	Message    string
	Snapshot   models.Snapshot
	RefreshErr error
}

// Orchestrator runs the produce flow: local feasibility check, one backend request, then a
// fresh stock read. It never deducts stock itself.
type Orchestrator struct {
	producer     Producer
	ledger       *StockLedger
	journal      Journal
	notifier     notify.Notifier
	metrics      *api.Metrics
	log          *slog.Logger
	newRequestID func() string
}

type OrchestratorOption func(*Orchestrator)

func WithJournal(j Journal) OrchestratorOption {
	return func(o *Orchestrator) { o.journal = j }
}

func WithNotifier(n notify.Notifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithMetrics(m *api.Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRequestIDs replaces the uuid generator.
func WithRequestIDs(next func() string) OrchestratorOption {
	return func(o *Orchestrator) { o.newRequestID = next }
}

func NewOrchestrator(producer Producer, ledger *StockLedger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		producer:     producer,
		ledger:       ledger,
		notifier:     notify.Nop{},
		log:          logger.Discard(),
		newRequestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Produce asks the backend for batches of recipe. The request is only sent when the view's
// snapshot covers the scaled requirements. On rejection the backend's *api.ProductionError is
// returned and the view is left alone; on success the stock is re-read after the write and
// installed into the view.
func (o *Orchestrator) Produce(ctx context.Context, view *View, recipe models.Recipe, batches int) (ProductionResult, error) {
	res := ProductionResult{RecipeID: recipe.ID, RecipeName: recipe.Name, Batches: batches}
	if batches < 1 {
		return res, &ValidationError{Field: "batches", Message: "must be at least 1"}
	}

	check := Evaluate(recipe, view.Snapshot(), batches)
	if !check.Feasible {
		o.metrics.ProductionOutcome("infeasible")
		return res, &InfeasibleError{Recipe: recipe.Name, Batches: batches, Shortfalls: check.Shortfalls}
	}

	res.RequestID = o.newRequestID()
	log := o.log.With("recipe_id", recipe.ID, "recipe", recipe.Name, "batches", batches, "request_id", res.RequestID)
	log.Debug("sending production request")

	resp, err := o.producer.Produce(ctx, recipe.ID, batches, res.RequestID)
	if err != nil {
		var perr *api.ProductionError
		if !errors.As(err, &perr) {
			perr = &api.ProductionError{Op: "produce", Message: err.Error(), Err: err}
		}
		log.Info("production rejected", "status", perr.StatusCode, "message", perr.Message)
		o.metrics.ProductionOutcome("rejected")
		o.record(ctx, res, db.StatusRejected, perr.Message)
		o.announce(ctx, notify.Event{
			Kind: notify.ProductionRejected, RecipeID: recipe.ID, RecipeName: recipe.Name,
			Batches: batches, RequestID: res.RequestID, Message: perr.Message,
		})
		return res, perr
	}

	res.Message = resp.Message
	log.Info("production accepted", "message", resp.Message)
	o.metrics.ProductionOutcome("ok")
	o.record(ctx, res, db.StatusOK, resp.Message)
	o.announce(ctx, notify.Event{
		Kind: notify.ProductionSucceeded, RecipeID: recipe.ID, RecipeName: recipe.Name,
		Batches: batches, RequestID: res.RequestID, Message: resp.Message,
	})

	token := view.Begin()
	snap, err := o.ledger.FetchStock(ctx)
	if err != nil {
		log.Warn("stock refresh after production failed", "err", err)
		res.RefreshErr = err
		res.Snapshot = view.Snapshot()
		return res, nil
	}
	view.ApplySnapshot(token, snap)
	res.Snapshot = snap
	return res, nil
}

func (o *Orchestrator) record(ctx context.Context, res ProductionResult, status, message string) {
	if o.journal == nil {
		return
	}
	err := o.journal.RecordProduction(ctx, db.Production{
		RequestID:  res.RequestID,
		RecipeID:   res.RecipeID,
		RecipeName: res.RecipeName,
		Batches:    res.Batches,
		Status:     status,
		Message:    message,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		o.log.Warn("journal write failed", "err", err)
	}
}

func (o *Orchestrator) announce(ctx context.Context, e notify.Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if err := o.notifier.Notify(ctx, e); err != nil {
		o.log.Warn("notification failed", "kind", e.Kind, "err", err)
	}
}
