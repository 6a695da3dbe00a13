package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/sustaina-market/storefront/internal/aws"
	"github.com/sustaina-market/storefront/internal/idempotency"
	"github.com/sustaina-market/storefront/internal/orders"
)

// Processor advances orders through fulfillment:
// Pending -> Processing -> Delivered. Transitions are conditional so a
// redelivered SQS message cannot move an order twice.
type Processor struct {
	idempStore *idempotency.Store
	orderStore *orders.Store
	metrics    *aws.Metrics
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, idempTable, ordersTable string) *Processor {
	return &Processor{
		idempStore: idempotency.NewStore(clients.DynamoDB, idempTable, 48*time.Hour),
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
		metrics:    aws.NewMetrics(clients.CloudWatch),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda retries on error; repeated failures land in the DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg FulfillmentMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s idempotency_key=%s corr=%s",
		msg.OrderID, msg.IdempotencyKey, msg.CorrelationID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// The transact write that enqueued us also created the order, so
		// this points at table misconfiguration. Let it hit the DLQ.
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	if err := p.orderStore.IncrementAttempts(ctx, msg.OrderID); err != nil {
		log.Printf("[worker] failed to bump attempts for order=%s: %v", msg.OrderID, err)
	}

	err = p.orderStore.TransitionStatus(ctx, msg.OrderID, orders.StatusPending, orders.StatusProcessing)
	if errors.Is(err, orders.ErrStatusMismatch) {
		o2, getErr := p.orderStore.Get(ctx, msg.OrderID)
		if getErr != nil || o2 == nil {
			return fmt.Errorf("order %s vanished during transition probe: %v", msg.OrderID, getErr)
		}
		switch o2.Status {
		case orders.StatusDelivered:
			log.Printf("[worker] already delivered order=%s", msg.OrderID)
			return nil
		case orders.StatusProcessing:
			// another worker took it; swallow the duplicate
			log.Printf("[worker] duplicate fulfillment event for order=%s", msg.OrderID)
			return nil
		default:
			return fmt.Errorf("unexpected status for order=%s: %s", msg.OrderID, o2.Status)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to move order to Processing: %w", err)
	}

	// Charge the MoMo reference and dispatch the rider. Simulated until
	// the payment aggregator contract is signed.
	log.Printf("[worker] fulfilling order=%s region=%s total=%.2f",
		order.OrderID, order.DeliveryRegion, order.Total)
	time.Sleep(200 * time.Millisecond)

	if err := p.orderStore.TransitionStatus(ctx, msg.OrderID, orders.StatusProcessing, orders.StatusDelivered); err != nil {
		return fmt.Errorf("failed to move order to Delivered: %w", err)
	}

	response := fmt.Sprintf(`{"order_id":%q,"status":%q}`, msg.OrderID, orders.StatusDelivered)
	if err := p.idempStore.MarkDone(ctx, msg.IdempotencyKey, response, http.StatusOK); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	p.metrics.Count(ctx, "OrdersDelivered", 1)
	log.Printf("[worker] delivered order=%s", msg.OrderID)
	return nil
}
