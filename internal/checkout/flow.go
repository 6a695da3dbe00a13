package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sustaina-market/storefront/internal/cart"
	"github.com/sustaina-market/storefront/internal/orders"
	"github.com/sustaina-market/storefront/internal/validation"
)

// State of the submission flow.
type State string

const (
	StateIdle       State = "Idle"
	StateValidating State = "Validating"
	StateSubmitting State = "Submitting"
	StateSucceeded  State = "Succeeded"
	StateFailed     State = "Failed"
)

var (
	// ErrEmptyCart: the flow never starts on an empty cart; the UI sends
	// the shopper back to the catalog instead.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSubmissionInFlight: a second submit arrived while the first was
	// still running. Exactly one order creation per checkout session.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrAlreadyCompleted: the flow reached Succeeded; a new checkout
	// session (new flow) is required.
	ErrAlreadyCompleted = errors.New("checkout already completed")
)

// ValidationError carries field-level errors back to the form. The state
// machine stays in Validating.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// PlacementResult is what the order-persistence collaborator returns on
// success.
type PlacementResult struct {
	OrderID   string
	CreatedAt time.Time
	// Duplicate is set when the idempotency key was already completed;
	// ReplayBody/ReplayStatus hold the recorded response.
	Duplicate    bool
	ReplayBody   string
	ReplayStatus int
}

// OrderPlacer hands a fully-formed order to durable storage. Errors from
// it stop at the flow; they never mutate the cart.
type OrderPlacer interface {
	Place(ctx context.Context, order orders.Order, idempotencyKey string) (PlacementResult, error)
}

// Flow is the checkout submission state machine for one cart:
// Idle -> Validating -> Submitting -> Succeeded | Failed, with Failed
// allowed back into Validating on retry. The cart is cleared only after a
// confirmed placement, never before.
type Flow struct {
	cart     *cart.Store
	pricing  cart.Pricing
	placer   OrderPlacer
	validate *validatorv10.Validate

	mu       sync.Mutex
	state    State
	inFlight atomic.Bool
}

// NewFlow wires a flow over a cart store.
func NewFlow(cartStore *cart.Store, pricing cart.Pricing, placer OrderPlacer) *Flow {
	return &Flow{
		cart:     cartStore,
		pricing:  pricing,
		placer:   placer,
		validate: validation.New(),
		state:    StateIdle,
	}
}

// State returns the current machine state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// Submit drives one submission attempt. The order-placement call is the
// only suspension point; everything before it is synchronous validation
// and pricing over the current snapshot.
func (f *Flow) Submit(ctx context.Context, req validation.CheckoutRequest, idempotencyKey string) (*PlacementResult, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	if f.State() == StateSucceeded {
		return nil, ErrAlreadyCompleted
	}

	snapshot := f.cart.Snapshot()
	if len(snapshot) == 0 {
		// Guard, not a failure state: the machine never leaves Idle.
		return nil, ErrEmptyCart
	}

	f.setState(StateValidating)
	if err := f.validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.ErrorsToMap(err)}
	}

	totals := f.pricing.Totals(snapshot)
	if cart.Cents(req.ExpectedTotal) != cart.Cents(totals.GrandTotal) {
		return nil, &ValidationError{Fields: map[string]string{
			"expected_total": fmt.Sprintf("server total %.2f does not match %.2f", totals.GrandTotal, req.ExpectedTotal),
		}}
	}

	f.setState(StateSubmitting)
	order := orders.Order{
		OrderID:          uuid.NewString(),
		CustomerName:     strings.TrimSpace(req.FirstName + " " + req.LastName),
		ContactEmail:     req.Email,
		DeliveryRegion:   req.Region,
		DeliveryAddress:  req.Address,
		PaymentReference: req.MomoNumber,
		Items:            snapshot.Clone(),
		Subtotal:         totals.Subtotal,
		ShippingFee:      totals.ShippingFee,
		Total:            totals.GrandTotal,
		Status:           orders.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	res, err := f.placer.Place(ctx, order, idempotencyKey)
	if err != nil {
		// Cart stays untouched; Failed -> Validating happens on retry.
		f.setState(StateFailed)
		return nil, err
	}

	// Clear only after confirmation.
	f.cart.Clear(ctx)
	f.setState(StateSucceeded)
	return &res, nil
}
