package cart

// LineItem is one catalog entry held in a cart. Name, UnitPrice and
// ImageRef are snapshots captured when the item was first added; they are
// never refreshed from the catalog, so a shopper keeps the price they saw.
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageRef  string  `json:"image_ref,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Snapshot is the full set of line items at a moment in time. Lookups are
// by ID; at most one line per ID.
type Snapshot []LineItem

// Count returns the total quantity across all lines.
func (s Snapshot) Count() int {
	n := 0
	for _, it := range s {
		n += it.Quantity
	}
	return n
}

// Find returns the index of the line with the given ID, or -1.
func (s Snapshot) Find(id string) int {
	for i, it := range s {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. Orders keep a clone so later cart mutations
// cannot reach into a submitted order.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
