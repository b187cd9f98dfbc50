package orders

import (
	"fmt"
	"strings"

	"StoreAdmin/internal/commerce"
)

type TaxLine struct {
	Price string `json:"price"`
	Rate  string `json:"rate"`
	Title string `json:"title"`
}

type LineItem struct {
	Title    string    `json:"title"`
	Price    string    `json:"price"`
	Quantity int       `json:"quantity"`
	TaxLines []TaxLine `json:"tax_lines"`
}

type Form struct {
	Email     string     `json:"email"`
	Tags      string     `json:"tags"`
	LineItems []LineItem `json:"line_items"`
}

func NewLineItem() LineItem {
	return LineItem{Quantity: 1, TaxLines: []TaxLine{{}}}
}

func (f Form) Validate() error {
	v := &commerce.ValidationError{}

	if strings.TrimSpace(f.Email) == "" {
		v.Add("email", "Email is required")
	}
	if strings.TrimSpace(f.Tags) == "" {
		v.Add("tags", "Tags are required")
	}
	if len(f.LineItems) == 0 {
		v.Add("line_items", "At least one product is required")
	}
	for i, li := range f.LineItems {
		if strings.TrimSpace(li.Title) == "" {
			v.Add(fmt.Sprintf("line_items[%d].title", i), "Title is required")
		}
		if strings.TrimSpace(li.Price) == "" {
			v.Add(fmt.Sprintf("line_items[%d].price", i), "Price is required")
		}
		if li.Quantity < 1 {
			v.Add(fmt.Sprintf("line_items[%d].quantity", i), "Quantity must be at least 1")
		}
	}

	return v.Err()
}

func (f Form) input() commerce.OrderInput {
	in := commerce.OrderInput{
		Email:     f.Email,
		Tags:      f.Tags,
		LineItems: make([]commerce.LineItemInput, 0, len(f.LineItems)),
	}
	for _, li := range f.LineItems {
		taxes := make([]commerce.TaxLineInput, 0, len(li.TaxLines))
		for _, tl := range li.TaxLines {
			taxes = append(taxes, commerce.TaxLineInput{Price: tl.Price, Rate: tl.Rate, Title: tl.Title})
		}
		in.LineItems = append(in.LineItems, commerce.LineItemInput{
			Title:    li.Title,
			Price:    li.Price,
			Quantity: li.Quantity,
			TaxLines: taxes,
		})
	}
	return in
}
