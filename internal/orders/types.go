package orders

import (
	"time"

	"github.com/sustaina-market/storefront/internal/cart"
)

// Order statuses. A failed placement never creates an order, so there is
// no failed status; orders only move forward through fulfillment.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered:
		return true
	}
	return false
}

// Order is the record created at successful checkout and stored in the
// orders DynamoDB table. Items is a frozen copy of the cart at submission
// time; later cart mutations never touch it. Total is likewise frozen.
type Order struct {
	OrderID          string          `dynamodbav:"order_id" json:"order_id"` // PK
	CustomerName     string          `dynamodbav:"customer_name" json:"customer_name"`
	ContactEmail     string          `dynamodbav:"contact_email,omitempty" json:"contact_email,omitempty"`
	DeliveryRegion   string          `dynamodbav:"delivery_region" json:"delivery_region"`
	DeliveryAddress  string          `dynamodbav:"delivery_address" json:"delivery_address"`
	PaymentReference string          `dynamodbav:"payment_reference" json:"payment_reference"` // MoMo number
	Items            []cart.LineItem `dynamodbav:"items" json:"items"`
	Subtotal         float64         `dynamodbav:"subtotal" json:"subtotal"`
	ShippingFee      float64         `dynamodbav:"shipping_fee" json:"shipping_fee"`
	Total            float64         `dynamodbav:"total" json:"total"`
	Status           string          `dynamodbav:"status" json:"status"`
	CreatedAt        time.Time       `dynamodbav:"created_at" json:"created_at"` // set once, immutable
	UpdatedAt        time.Time       `dynamodbav:"updated_at" json:"updated_at"`
	Attempts         int             `dynamodbav:"attempts,omitempty" json:"attempts,omitempty"`
}
