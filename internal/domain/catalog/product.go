package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category values used by the storefront navigation.
const (
	CategoryNotebooks     = "notebooks"
	CategoryPens          = "pens"
	CategoryStickers      = "stickers"
	CategoryPlanners      = "planners"
	CategoryGreetingCards = "greeting-cards"
	CategoryAccessories   = "accessories"
)

// Product is an immutable catalog entry.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category,omitempty"`
	IsNew       bool            `json:"is_new,omitempty"`
	Details     []string        `json:"details,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// searchableText is the lower-cased haystack used by Search.
func (p Product) searchableText() string {
	parts := []string{p.Name, p.Description, p.Category, p.SubCategory}
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
