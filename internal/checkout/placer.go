package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sustaina-market/storefront/internal/aws"
	"github.com/sustaina-market/storefront/internal/idempotency"
	"github.com/sustaina-market/storefront/internal/orders"
)

var (
	// ErrPlacementInProgress: the same idempotency key is being processed
	// elsewhere (another tab, another instance).
	ErrPlacementInProgress = errors.New("placement already in progress")

	// ErrPreviousAttemptFailed: the key was used by an attempt that
	// failed mid-way; the client should retry with a fresh key.
	ErrPreviousAttemptFailed = errors.New("previous attempt failed")
)

// Placer persists orders to DynamoDB with idempotency-key semantics and
// enqueues them for fulfillment.
type Placer struct {
	orders     *orders.Store
	idemp      *idempotency.Store
	idempTable string
	publisher  *aws.Publisher
	metrics    *aws.Metrics
}

// NewPlacer wires the durable placement path.
func NewPlacer(ordersStore *orders.Store, idempStore *idempotency.Store, idempTable string, publisher *aws.Publisher, metrics *aws.Metrics) *Placer {
	return &Placer{
		orders:     ordersStore,
		idemp:      idempStore,
		idempTable: idempTable,
		publisher:  publisher,
		metrics:    metrics,
	}
}

// Place atomically writes the idempotency record and the order, then
// enqueues the fulfillment message. A reused key resolves to the recorded
// outcome instead of a second order.
func (p *Placer) Place(ctx context.Context, order orders.Order, idempotencyKey string) (PlacementResult, error) {
	rec := p.idemp.NewRecord(idempotencyKey, order.OrderID)

	err := p.orders.CreateWithIdempotency(ctx, p.idempTable, rec, order)
	if err != nil {
		if !errors.Is(err, orders.ErrKeyConflict) {
			return PlacementResult{}, fmt.Errorf("create order: %w", err)
		}
		return p.resolveDuplicate(ctx, idempotencyKey, err)
	}

	msgPayload, _ := json.Marshal(map[string]string{
		"order_id":        order.OrderID,
		"idempotency_key": idempotencyKey,
	})
	attrs := map[string]string{
		"idempotency_key": idempotencyKey,
		"order_id":        order.OrderID,
	}
	if err := p.publisher.SendFulfillmentMessage(ctx, string(msgPayload), attrs); err != nil {
		// Order exists but was never queued; flag the key so the client
		// sees a retryable failure instead of a silent black hole.
		_ = p.idemp.MarkFailed(ctx, idempotencyKey, fmt.Sprintf("enqueue_failed: %v", err))
		return PlacementResult{}, fmt.Errorf("enqueue fulfillment: %w", err)
	}

	responseBody, _ := json.Marshal(map[string]string{
		"order_id": order.OrderID,
		"status":   order.Status,
	})
	_ = p.idemp.MarkDone(ctx, idempotencyKey, string(responseBody), http.StatusCreated)

	p.metrics.Count(ctx, "OrdersPlaced", 1)

	return PlacementResult{OrderID: order.OrderID, CreatedAt: order.CreatedAt}, nil
}

// resolveDuplicate inspects the idempotency record behind a key conflict
// and maps it to an outcome, mirroring what a returning client should see.
func (p *Placer) resolveDuplicate(ctx context.Context, key string, cause error) (PlacementResult, error) {
	rec, err := p.idemp.Get(ctx, key)
	if err != nil {
		return PlacementResult{}, fmt.Errorf("idempotency check: %w", err)
	}
	if rec == nil {
		return PlacementResult{}, fmt.Errorf("transaction failed with no idempotency record: %w", cause)
	}

	switch rec.Status {
	case idempotency.StatusDone:
		res := PlacementResult{
			OrderID:      rec.OrderID,
			CreatedAt:    rec.CreatedAt,
			Duplicate:    true,
			ReplayBody:   rec.ResponseBody,
			ReplayStatus: rec.ResponseStatus,
		}
		// prefer the order's own timestamp over the record's
		if o, getErr := p.orders.Get(ctx, rec.OrderID); getErr == nil && o != nil {
			res.CreatedAt = o.CreatedAt
		}
		return res, nil
	case idempotency.StatusInProgress:
		return PlacementResult{}, fmt.Errorf("%w: order %s", ErrPlacementInProgress, rec.OrderID)
	case idempotency.StatusFailed:
		return PlacementResult{}, fmt.Errorf("%w: order %s", ErrPreviousAttemptFailed, rec.OrderID)
	default:
		return PlacementResult{}, fmt.Errorf("unknown idempotency status %q", rec.Status)
	}
}
