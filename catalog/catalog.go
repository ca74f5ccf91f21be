// Package catalog holds the immutable product reference data for the shop.
package catalog

// Product is a catalog entry. The cart stores a copy of the product taken at
// the time it was added, so later catalog changes do not affect open carts.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
}

// Catalog serves product lookups over a fixed product list.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from the given products. Order is preserved.
func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// List returns all products in catalog order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
