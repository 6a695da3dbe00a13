package cart

import "math"

// Default delivery pricing in GHS.
const (
	DefaultShippingThreshold = 200.00
	DefaultFlatShippingFee   = 25.00
)

// Pricing derives totals from a snapshot. Totals are recomputed on every
// read; nothing is cached.
type Pricing struct {
	ShippingThreshold float64
	FlatShippingFee   float64
}

// DefaultPricing returns the storefront's standard delivery pricing.
func DefaultPricing() Pricing {
	return Pricing{
		ShippingThreshold: DefaultShippingThreshold,
		FlatShippingFee:   DefaultFlatShippingFee,
	}
}

// Totals is the derived price view of a snapshot.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	GrandTotal  float64 `json:"grand_total"`
}

// Subtotal sums unit price times quantity over all lines.
func (p Pricing) Subtotal(s Snapshot) float64 {
	var sum float64
	for _, it := range s {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// ShippingFee is waived when the subtotal strictly exceeds the threshold.
// The comparison runs in rounded cents so 200.01 vs 200.00 resolves
// exactly. An empty cart is not special-cased; checkout never reaches
// pricing with one.
func (p Pricing) ShippingFee(subtotal float64) float64 {
	if Cents(subtotal) > Cents(p.ShippingThreshold) {
		return 0
	}
	return p.FlatShippingFee
}

// Totals computes the full breakdown for a snapshot.
func (p Pricing) Totals(s Snapshot) Totals {
	sub := p.Subtotal(s)
	fee := p.ShippingFee(sub)
	return Totals{Subtotal: sub, ShippingFee: fee, GrandTotal: sub + fee}
}

// Cents converts a GHS amount to integer pesewas for exact comparison.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
