package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"StoreAdmin/internal/commerce"
)

type (
	Product      = commerce.Product
	ProductInput = commerce.ProductInput
)

type Criteria struct {
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (c Criteria) Matches(p Product) bool {
	if !titleMatches(p.Title, strings.ToLower(c.Query)) {
		return false
	}

	price := p.Price()
	if c.MinPrice != nil && price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

func Apply(snapshot []Product, c Criteria) []Product {
	out := make([]Product, 0, len(snapshot))
	for _, p := range snapshot {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func titleMatches(title, foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), foldedQuery)
}

func ParseBound(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid price bound %q", s)
	}
	return &d, nil
}
