// Package catalog describes the products of the shop and the brand and
// category facets used to narrow listings.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency every price in the shop is expressed in.
var Currency = currency.USD

// Facet is one brand or category a listing can be narrowed by.
type Facet struct {
	ID    ID     `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	Color       string          `json:"color,omitempty"`
	Badge       bool            `json:"badge"`
	IsSale      bool            `json:"is_sale"`
	Brand       Facet           `json:"brand"`
	Category    Facet           `json:"category"`
}

// Filter keeps the products whose brand is among brands and whose category
// is among categories. An empty facet list does not constrain anything.
func Filter(products []Product, brands []Facet, categories []Facet) []Product {
	bs := index(brands)
	cs := index(categories)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if len(bs) > 0 && !bs[p.Brand.ID] {
			continue
		}
		if len(cs) > 0 && !cs[p.Category.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func index(fs []Facet) map[ID]bool {
	m := make(map[ID]bool, len(fs))
	for _, f := range fs {
		m[f.ID] = true
	}
	return m
}

// FormatPrice renders an amount in the shop currency, e.g. "USD 69.99".
func FormatPrice(amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", Currency, amount.StringFixed(2))
}
