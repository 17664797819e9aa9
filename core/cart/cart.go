// Package cart holds the shopping session state: cart line items and the
// brand and category facets checked on the shop page.
package cart

import (
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/shopspring/decimal"
)

// Item is one cart line. It carries the product fields known when it was
// added so the cart can be rendered without the catalog.
type Item struct {
	ID       catalog.ID      `json:"id"`
	Quantity int             `json:"quantity"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Color    string          `json:"color,omitempty"`
	Badge    bool            `json:"badge,omitempty"`
	Brand    catalog.Facet   `json:"brand"`
	Category catalog.Facet   `json:"category"`
}

// FromProduct returns a line for quantity units of p.
func FromProduct(p catalog.Product, quantity int) Item {
	return Item{
		ID:       p.ID,
		Quantity: quantity,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Color:    p.Color,
		Badge:    p.Badge,
		Brand:    p.Brand,
		Category: p.Category,
	}
}

// Total is the line price.
func (it Item) Total() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// State is everything the store persists. Items keep insertion order; the
// checked facet lists have set semantics keyed by facet ID.
type State struct {
	Items             []Item          `json:"items"`
	CheckedBrands     []catalog.Facet `json:"checkedBrands"`
	CheckedCategories []catalog.Facet `json:"checkedCategories"`
}

// Count is the number of units in the cart.
func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// Empty reports whether the cart holds no line items.
func (s State) Empty() bool { return len(s.Items) == 0 }

func (s State) clone() State {
	return State{
		Items:             append([]Item{}, s.Items...),
		CheckedBrands:     append([]catalog.Facet{}, s.CheckedBrands...),
		CheckedCategories: append([]catalog.Facet{}, s.CheckedCategories...),
	}
}

func (s State) find(id catalog.ID) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// toggle removes f from fs when a facet with the same ID is present and
// appends it otherwise.
func toggle(fs []catalog.Facet, f catalog.Facet) []catalog.Facet {
	for i, x := range fs {
		if x.ID == f.ID {
			return append(fs[:i:i], fs[i+1:]...)
		}
	}
	return append(fs, f)
}

func uniqueFacets(fs []catalog.Facet) []catalog.Facet {
	out := make([]catalog.Facet, 0, len(fs))
	seen := make(map[catalog.ID]bool, len(fs))
	for _, f := range fs {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}
