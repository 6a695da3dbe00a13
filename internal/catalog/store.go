package catalog

import (
	"errors"
	"strings"
)

// ErrProductNotFound is returned by Get for unknown product IDs.
var ErrProductNotFound = errors.New("product not found")

// Store holds the read-only catalog. The catalog ships with the binary;
// there is no write path.
type Store struct {
	products []Product
	recipes  []Recipe
	byID     map[string]Product
}

// NewStore returns a Store seeded with the launch catalog.
func NewStore() *Store {
	return NewStoreWith(seedProducts, seedRecipes)
}

// NewStoreWith builds a Store from explicit data, used by tests.
func NewStoreWith(products []Product, recipes []Recipe) *Store {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{products: products, recipes: recipes, byID: byID}
}

// Get returns the product with the given ID.
func (s *Store) Get(id string) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// Filter narrows a List call. Zero value matches everything.
type Filter struct {
	Category string // exact category, empty or "All" matches all
	Search   string // case-insensitive match on name, description or tags
}

// List returns products matching the filter, in catalog order.
func (s *Store) List(f Filter) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Category != "" && f.Category != "All" && p.Category != f.Category {
			continue
		}
		if query != "" && !matchesSearch(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// Deals returns products currently sold below their original price.
func (s *Store) Deals() []Product {
	out := make([]Product, 0)
	for _, p := range s.products {
		if p.OnDeal() {
			out = append(out, p)
		}
	}
	return out
}

// Recipes returns all recipes.
func (s *Store) Recipes() []Recipe {
	return s.recipes
}

// RecipeIngredients resolves a recipe's ingredient IDs to products.
// Unknown IDs are skipped; a recipe may reference seasonal items that have
// rotated out of the catalog.
func (s *Store) RecipeIngredients(r Recipe) []Product {
	out := make([]Product, 0, len(r.Ingredients))
	for _, id := range r.Ingredients {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
