package validation

// Regions the delivery fleet covers. The checkout form offers exactly
// this set.
var DeliveryRegions = []string{
	"Greater Accra",
	"Ashanti",
	"Central",
	"Western",
	"Eastern",
	"Northern",
}

// CheckoutRequest is the payload for POST /checkout. ExpectedTotal is the
// grand total the client displayed to the shopper; the flow rejects the
// submission if it no longer matches the server-side computation.
type CheckoutRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email"`
	MomoNumber    string  `json:"momo_number" validate:"required,momo"` // MTN / Telecel / AT mobile money
	Address       string  `json:"address" validate:"required"`          // street or digital address, e.g. GA-123-4567
	Region        string  `json:"region" validate:"required,region"`
	ExpectedTotal float64 `json:"expected_total" validate:"required,gt=0"`
}
