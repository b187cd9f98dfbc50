package commerce

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a money amount as the gateway sends it. Depending on the endpoint
// it arrives either as a JSON string ("19.99") or a JSON number (19.99); the
// text is kept as received.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*p = Price(n.String())
		return nil
	}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// Decimal parses the price. Text that is empty or not a number yields zero.
func (p Price) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(p)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

type Variant struct {
	ID                int64  `json:"id,omitempty"`
	Price             Price  `json:"price"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
}

type Image struct {
	ID  int64  `json:"id,omitempty"`
	Alt string `json:"alt"`
	Src string `json:"src"`
}

type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Vendor   string    `json:"vendor"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

func (p Product) Price() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	return p.Variants[0].Price.Decimal()
}

type ImageInput struct {
	Alt string `json:"alt"`
	Src string `json:"src"`
}

type VariantInput struct {
	Price             string `json:"price"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity *int   `json:"inventory_quantity,omitempty"`
}

type ProductInput struct {
	Title    string         `json:"title"`
	Vendor   string         `json:"vendor"`
	Images   []ImageInput   `json:"images"`
	Variants []VariantInput `json:"variants"`
}

type LineItem struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID                   int64      `json:"id"`
	ConfirmationNumber   string     `json:"confirmation_number"`
	Email                string     `json:"email"`
	OrderNumber          int64      `json:"order_number"`
	Tags                 string     `json:"tags"`
	CurrentSubtotalPrice Price      `json:"current_subtotal_price"`
	LineItems            []LineItem `json:"line_items"`
}

type TaxLineInput struct {
	Price string `json:"price"`
	Rate  string `json:"rate"`
	Title string `json:"title"`
}

type LineItemInput struct {
	Title    string         `json:"title"`
	Price    string         `json:"price"`
	Quantity int            `json:"quantity"`
	TaxLines []TaxLineInput `json:"tax_lines"`
}

type OrderInput struct {
	Email     string          `json:"email"`
	Tags      string          `json:"tags"`
	LineItems []LineItemInput `json:"line_items"`
}
