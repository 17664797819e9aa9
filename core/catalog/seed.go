package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the catalog the sandbox API serves and the shop page lists its
// facets from.
type Seed struct {
	Brands     []Facet
	Categories []Facet
	Products   []Product
}

type seedProduct struct {
	ID          ID     `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Discount    string `yaml:"discount"`
	Stock       int    `yaml:"stock"`
	Image       string `yaml:"image"`
	Color       string `yaml:"color"`
	Badge       bool   `yaml:"badge"`
	Sale        bool   `yaml:"sale"`
	Brand       ID     `yaml:"brand"`
	Category    ID     `yaml:"category"`
}

type seedFile struct {
	Brands     []Facet       `yaml:"brands"`
	Categories []Facet       `yaml:"categories"`
	Products   []seedProduct `yaml:"products"`
}

// LoadSeed decodes the embedded catalog.
func LoadSeed() (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return Seed{}, fmt.Errorf("decoding seed catalog: %w", err)
	}

	brands := facetsByID(f.Brands)
	categories := facetsByID(f.Categories)

	s := Seed{
		Brands:     f.Brands,
		Categories: f.Categories,
		Products:   make([]Product, 0, len(f.Products)),
	}

	for _, sp := range f.Products {
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return Seed{}, fmt.Errorf("product[%s]: price: %w", sp.ID, err)
		}

		discount := decimal.Zero
		if sp.Discount != "" {
			if discount, err = decimal.NewFromString(sp.Discount); err != nil {
				return Seed{}, fmt.Errorf("product[%s]: discount: %w", sp.ID, err)
			}
		}

		brand, ok := brands[sp.Brand]
		if !ok {
			return Seed{}, fmt.Errorf("product[%s]: unknown brand %q", sp.ID, sp.Brand)
		}
		category, ok := categories[sp.Category]
		if !ok {
			return Seed{}, fmt.Errorf("product[%s]: unknown category %q", sp.ID, sp.Category)
		}

		s.Products = append(s.Products, Product{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Price:       price,
			Discount:    discount,
			Stock:       sp.Stock,
			ImageURL:    sp.Image,
			Color:       sp.Color,
			Badge:       sp.Badge,
			IsSale:      sp.Sale,
			Brand:       brand,
			Category:    category,
		})
	}

	return s, nil
}

func facetsByID(fs []Facet) map[ID]Facet {
	m := make(map[ID]Facet, len(fs))
	for _, f := range fs {
		m[f.ID] = f
	}
	return m
}
