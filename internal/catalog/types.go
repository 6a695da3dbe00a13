package catalog

// Product categories carried by the storefront.
const (
	CategoryVegetables = "Vegetables"
	CategoryGrains     = "Grains & Tubers"
	CategoryPantry     = "Pantry"
	CategoryProteins   = "Proteins"
	CategoryFruit      = "Fruit"
)

// Product is the canonical catalog record. The cart copies id, name,
// price and image from it at add-time and never reads it again for an
// existing line.
type Product struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Price               float64  `json:"price"`
	OriginalPrice       float64  `json:"original_price,omitempty"` // set when the product is on a deal
	Description         string   `json:"description"`
	Category            string   `json:"category"`
	Image               string   `json:"image"`
	Gallery             []string `json:"gallery,omitempty"`
	SustainabilityScore int      `json:"sustainability_score"` // 1-100
	Tags                []string `json:"tags"`
}

// OnDeal reports whether the product carries a discounted price.
func (p Product) OnDeal() bool {
	return p.OriginalPrice > p.Price && p.OriginalPrice > 0
}

// Recipe pairs cooking instructions with the catalog products used as
// ingredients.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	PrepTime     string   `json:"prep_time"`
	Difficulty   string   `json:"difficulty"` // Easy | Medium | Hard
	Ingredients  []string `json:"ingredients"` // product IDs
	Instructions []string `json:"instructions"`
}
