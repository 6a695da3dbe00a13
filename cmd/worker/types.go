package main

// FulfillmentMessage is the payload sent from API -> SQS -> worker.
type FulfillmentMessage struct {
	OrderID        string `json:"order_id"`
	IdempotencyKey string `json:"idempotency_key"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}
