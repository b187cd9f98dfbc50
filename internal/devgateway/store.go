package devgateway

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StoreAdmin/internal/commerce"
)

const orderNumberBase = 1000

var ErrDuplicateSKU = errors.New("sku already exists")

type Store interface {
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context) ([]commerce.Product, error)
	CreateProduct(ctx context.Context, in commerce.ProductInput) (commerce.Product, error)
	UpdateProduct(ctx context.Context, id int64, in commerce.ProductInput) (commerce.Product, bool, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	ListOrders(ctx context.Context) ([]commerce.Order, error)
	CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error)
	DeleteOrder(ctx context.Context, id int64) (bool, error)
}

func newProduct(id int64, in commerce.ProductInput) commerce.Product {
	p := commerce.Product{
		ID:       id,
		Title:    in.Title,
		Vendor:   in.Vendor,
		Variants: []commerce.Variant{},
		Images:   []commerce.Image{},
	}
	return applyUpdate(p, in)
}

// applyUpdate merges an update body into p. Variants are matched by
// position so an edit that only carries a price keeps SKU and stock.
func applyUpdate(p commerce.Product, in commerce.ProductInput) commerce.Product {
	p.Title = in.Title
	p.Vendor = in.Vendor

	if in.Images != nil {
		p.Images = make([]commerce.Image, 0, len(in.Images))
		for _, im := range in.Images {
			p.Images = append(p.Images, commerce.Image{Alt: im.Alt, Src: im.Src})
		}
	}

	variants := append([]commerce.Variant(nil), p.Variants...)
	for i, vi := range in.Variants {
		if i >= len(variants) {
			variants = append(variants, commerce.Variant{})
		}
		variants[i].Price = commerce.Price(vi.Price)
		if vi.SKU != "" {
			variants[i].SKU = vi.SKU
		}
		if vi.InventoryQuantity != nil {
			variants[i].InventoryQuantity = *vi.InventoryQuantity
		}
	}
	if variants == nil {
		variants = []commerce.Variant{}
	}
	p.Variants = variants
	return p
}

func primarySKU(p commerce.Product) string {
	if len(p.Variants) == 0 {
		return ""
	}
	return strings.TrimSpace(p.Variants[0].SKU)
}

func newOrder(id int64, in commerce.OrderInput) commerce.Order {
	o := commerce.Order{
		ID:                 id,
		ConfirmationNumber: confirmationNumber(),
		Email:              in.Email,
		OrderNumber:        orderNumberBase + id,
		Tags:               in.Tags,
		LineItems:          make([]commerce.LineItem, 0, len(in.LineItems)),
	}

	subtotal := decimal.Zero
	for i, li := range in.LineItems {
		price := commerce.Price(li.Price)
		subtotal = subtotal.Add(price.Decimal().Mul(decimal.NewFromInt(int64(li.Quantity))))
		o.LineItems = append(o.LineItems, commerce.LineItem{
			ID:       int64(i + 1),
			Name:     li.Title,
			Title:    li.Title,
			Price:    price,
			Quantity: li.Quantity,
		})
	}
	o.CurrentSubtotalPrice = commerce.Price(subtotal.StringFixed(2))
	return o
}

func confirmationNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
