package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:embed products.json
var defaultProducts []byte

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("duplicate product id")
)

// Catalog is a read-only, ordered product list.
type Catalog struct {
	products []Product
	byID     map[int]int // productID -> index in products
}

// New builds a catalog from products, keeping their order.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// LoadJSON parses a JSON array of products.
func LoadJSON(data []byte) (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(products)
}

// Default returns the embedded storefront catalog.
func Default() (*Catalog, error) {
	return LoadJSON(defaultProducts)
}

func (c *Catalog) Get(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// All returns a copy of every product in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) ByCategory(category string) []Product {
	return c.filter(func(p Product) bool { return p.Category == category })
}

func (c *Catalog) NewArrivals() []Product {
	return c.filter(func(p Product) bool { return p.IsNew })
}

// Search matches products containing every whitespace-separated term of
// query in their name, description, category, sub-category or tags.
// An empty query matches everything.
func (c *Catalog) Search(query string) []Product {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return c.All()
	}
	return c.filter(func(p Product) bool {
		text := p.searchableText()
		for _, term := range terms {
			if !strings.Contains(text, term) {
				return false
			}
		}
		return true
	})
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
