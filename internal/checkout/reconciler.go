package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	product "github.com/velvetrow/velvetrow-backend/internal/products"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox/payloads"
)

// ReconcileLine is one recorded order line the reconciler must settle
// against live stock.
type ReconcileLine struct {
	ProductID *uuid.UUID
	Name      string
	Quantity  int
}

// LineOutcome reports how one line was settled.
type LineOutcome struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Applied   bool
	SoldOut   bool
	Reason    string
}

// ReconcileResult aggregates per-line outcomes. Err carries the combined
// problems for logging; it never fails the order.
type ReconcileResult struct {
	Outcomes []LineOutcome
	Err      error
}

// Skipped returns the lines whose stock could not be decremented.
func (r ReconcileResult) Skipped() []LineOutcome {
	skipped := make([]LineOutcome, 0)
	for _, outcome := range r.Outcomes {
		if !outcome.Applied {
			skipped = append(skipped, outcome)
		}
	}
	return skipped
}

type stockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

type reconcilerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reconcilerOutbox interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Reconciler decrements product stock for recorded order lines. Every
// line is settled independently with a guarded atomic update; an oversold
// line is skipped with a warning, never a rollback.
type Reconciler struct {
	tx          reconcilerTxRunner
	repoFactory func(tx *gorm.DB) stockRepository
	outbox      reconcilerOutbox
	logg        *logger.Logger
}

// ReconcilerParams wires the reconciler dependencies. StockRepoFactory
// defaults to the products repository.
type ReconcilerParams struct {
	Tx               reconcilerTxRunner
	StockRepoFactory func(tx *gorm.DB) stockRepository
	Outbox           reconcilerOutbox
	Logger           *logger.Logger
}

// NewReconciler builds a stock reconciler.
func NewReconciler(params ReconcilerParams) (*Reconciler, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	factory := params.StockRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) stockRepository {
			return product.NewRepository(tx)
		}
	}
	return &Reconciler{
		tx:          params.Tx,
		repoFactory: factory,
		outbox:      params.Outbox,
		logg:        params.Logger,
	}, nil
}

// Reconcile settles stock for every line of a recorded order. Lines whose
// product is missing fall back to an exact-name lookup before being
// skipped. The result never reverts the order; callers log Err and move
// on.
func (r *Reconciler) Reconcile(ctx context.Context, orderID uuid.UUID, reference string, lines []ReconcileLine) ReconcileResult {
	result := ReconcileResult{Outcomes: make([]LineOutcome, 0, len(lines))}
	soldOut := make([]payloads.ProductOutOfStockEvent, 0)

	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := r.repoFactory(tx)

		for _, line := range lines {
			outcome := r.settleLine(ctx, repo, line)
			result.Outcomes = append(result.Outcomes, outcome)
			if !outcome.Applied {
				result.Err = multierr.Append(result.Err,
					fmt.Errorf("line %q x%d: %s", line.Name, line.Quantity, outcome.Reason))
				continue
			}
			if outcome.SoldOut {
				soldOut = append(soldOut, payloads.ProductOutOfStockEvent{
					ProductID: outcome.ProductID,
					Name:      outcome.Name,
					SoldOutAt: time.Now().UTC(),
				})
			}
		}

		for _, event := range soldOut {
			emit := outbox.DomainEvent{
				EventType:     enums.EventProductOutOfStock,
				AggregateType: enums.AggregateProduct,
				AggregateID:   event.ProductID,
				Version:       1,
				Data:          event,
			}
			if err := r.outbox.Emit(ctx, tx, emit); err != nil {
				return err
			}
		}

		if skipped := result.Skipped(); len(skipped) > 0 {
			payload := payloads.StockReconciliationFailedEvent{
				OrderID:   orderID,
				Reference: reference,
			}
			for _, outcome := range skipped {
				payload.SkippedLines = append(payload.SkippedLines, payloads.SkippedStockLine{
					ProductID: outcome.ProductID,
					Name:      outcome.Name,
					Quantity:  outcome.Quantity,
					Reason:    outcome.Reason,
				})
			}
			emit := outbox.DomainEvent{
				EventType:     enums.EventStockReconciliationFailed,
				AggregateType: enums.AggregateOrder,
				AggregateID:   orderID,
				Version:       1,
				Data:          payload,
			}
			if err := r.outbox.EmitIfNotExists(ctx, tx, emit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result.Err = multierr.Append(result.Err, err)
	}

	if result.Err != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"order_id":  orderID.String(),
			"reference": reference,
		})
		r.logg.Warn(logCtx, fmt.Sprintf("stock reconciliation incomplete: %v", result.Err))
	}
	return result
}

func (r *Reconciler) settleLine(ctx context.Context, repo stockRepository, line ReconcileLine) LineOutcome {
	outcome := LineOutcome{Name: line.Name, Quantity: line.Quantity}
	if line.ProductID != nil {
		outcome.ProductID = *line.ProductID
	}
	if line.Quantity < 1 {
		outcome.Reason = "invalid quantity"
		return outcome
	}

	product, err := r.resolveProduct(ctx, repo, line)
	if err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.ProductID = product.ID

	applied, err := repo.DecrementStock(ctx, product.ID, line.Quantity)
	if err != nil {
		outcome.Reason = fmt.Sprintf("decrement failed: %v", err)
		return outcome
	}
	if !applied {
		outcome.Reason = fmt.Sprintf("insufficient stock (have %d, need %d)", product.StockQty, line.Quantity)
		return outcome
	}

	outcome.Applied = true
	outcome.SoldOut = product.StockQty == line.Quantity
	return outcome
}

func (r *Reconciler) resolveProduct(ctx context.Context, repo stockRepository, line ReconcileLine) (*models.Product, error) {
	if line.ProductID != nil {
		product, err := repo.FindByID(ctx, *line.ProductID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load product: %w", err)
		}
	}

	product, err := repo.FindByName(ctx, line.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found by id or name")
		}
		return nil, fmt.Errorf("load product by name: %w", err)
	}
	return product, nil
}
