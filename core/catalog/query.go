package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query narrows a product listing on the server side.
type Query struct {
	Category  ID
	Search    string
	SortBy    string
	Start     int
	Limit     int
	LowPrice  *decimal.Decimal
	HighPrice *decimal.Decimal
	Sale      bool
}

var sorters = map[string]func(a, b Product) bool{
	"name":   func(a, b Product) bool { return a.Name < b.Name },
	"-name":  func(a, b Product) bool { return a.Name > b.Name },
	"price":  func(a, b Product) bool { return a.Price.LessThan(b.Price) },
	"-price": func(a, b Product) bool { return a.Price.GreaterThan(b.Price) },
}

// Values encodes the query using the parameter names of the products API.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category.String())
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Start > 0 {
		v.Set("start", strconv.Itoa(q.Start))
	}
	if q.Limit > 0 {
		v.Set("products", strconv.Itoa(q.Limit))
	}
	if q.LowPrice != nil {
		v.Set("low_price", q.LowPrice.String())
	}
	if q.HighPrice != nil {
		v.Set("high_price", q.HighPrice.String())
	}
	if q.Sale {
		v.Set("sale", "1")
	}
	return v
}

// ParseQuery is the inverse of Values. Missing parameters take the API
// defaults: start 0 and DefaultLimit products.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Category: ID(v.Get("category")),
		Search:   v.Get("search"),
		SortBy:   v.Get("sort_by"),
		Limit:    DefaultLimit,
	}

	if q.SortBy != "" {
		if _, ok := sorters[q.SortBy]; !ok {
			return Query{}, fmt.Errorf("sort_by: unsupported value %q", q.SortBy)
		}
	}

	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = strconv.Atoi(s); err != nil || q.Start < 0 {
			return Query{}, fmt.Errorf("start: must be a non-negative integer")
		}
	}
	if s := v.Get("products"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 1 || q.Limit > MaxLimit {
			return Query{}, fmt.Errorf("products: must be between 1 and %d", MaxLimit)
		}
	}
	if q.LowPrice, err = parsePrice(v, "low_price"); err != nil {
		return Query{}, err
	}
	if q.HighPrice, err = parsePrice(v, "high_price"); err != nil {
		return Query{}, err
	}
	if s := v.Get("sale"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Query{}, fmt.Errorf("sale: must be 0 or 1")
		}
		q.Sale = n != 0
	}

	return q, nil
}

func parsePrice(v url.Values, key string) (*decimal.Decimal, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}

// Apply runs the query over an in-memory listing.
func (q Query) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	search := strings.ToLower(q.Search)

	for _, p := range products {
		if q.Category != "" && p.Category.ID != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.LowPrice != nil && p.Price.LessThan(*q.LowPrice) {
			continue
		}
		if q.HighPrice != nil && p.Price.GreaterThan(*q.HighPrice) {
			continue
		}
		if q.Sale && !p.IsSale {
			continue
		}
		out = append(out, p)
	}

	if less, ok := sorters[q.SortBy]; ok {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	start := q.Start
	if start < 0 {
		start = 0
	}
	if start >= len(out) {
		return []Product{}
	}
	out = out[start:]

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
