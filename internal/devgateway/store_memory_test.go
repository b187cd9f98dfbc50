package devgateway

import (
	"context"
	"errors"
	"testing"

	"StoreAdmin/internal/commerce"
)

func TestMemStore_SeededProducts(t *testing.T) {
	s := NewSeededMemStore()

	ps, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(ps) != 4 {
		t.Fatalf("products=%d want=4", len(ps))
	}
	if ps[0].Title != "Keyboard" || ps[0].Variants[0].Price != "49.90" {
		t.Fatalf("first=%+v", ps[0])
	}
}

func TestMemStore_UpdateKeepsSKUAndStock(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	qty := 7
	p, err := s.CreateProduct(ctx, commerce.ProductInput{
		Title:    "Lamp",
		Vendor:   "Acme",
		Variants: []commerce.VariantInput{{Price: "5.00", SKU: "L-1", InventoryQuantity: &qty}},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	got, found, err := s.UpdateProduct(ctx, p.ID, commerce.ProductInput{
		Title:    "Lamp 2",
		Vendor:   "Acme",
		Variants: []commerce.VariantInput{{Price: "6.00"}},
	})
	if err != nil || !found {
		t.Fatalf("UpdateProduct: found=%v err=%v", found, err)
	}
	v := got.Variants[0]
	if v.Price != "6.00" || v.SKU != "L-1" || v.InventoryQuantity != 7 {
		t.Fatalf("variant=%+v", v)
	}

	if _, found, _ := s.UpdateProduct(ctx, 999, commerce.ProductInput{}); found {
		t.Fatalf("update of missing product reported found")
	}
}

func TestMemStore_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	in := commerce.ProductInput{Title: "A", Variants: []commerce.VariantInput{{Price: "1", SKU: "X"}}}
	if _, err := s.CreateProduct(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.CreateProduct(ctx, in); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("err=%v want ErrDuplicateSKU", err)
	}

	noSKU := commerce.ProductInput{Title: "B", Variants: []commerce.VariantInput{{Price: "1"}}}
	for i := 0; i < 2; i++ {
		if _, err := s.CreateProduct(ctx, noSKU); err != nil {
			t.Fatalf("blank sku create %d: %v", i, err)
		}
	}
}

func TestNewOrder_Subtotal(t *testing.T) {
	o := newOrder(3, commerce.OrderInput{
		Email: "a@example.com",
		LineItems: []commerce.LineItemInput{
			{Title: "Mug", Price: "2.50", Quantity: 3},
			{Title: "Odd", Price: "n/a", Quantity: 2},
		},
	})

	if o.CurrentSubtotalPrice != "7.50" {
		t.Fatalf("subtotal=%q want=7.50", o.CurrentSubtotalPrice)
	}
	if o.OrderNumber != orderNumberBase+3 {
		t.Fatalf("order_number=%d", o.OrderNumber)
	}
	if len(o.ConfirmationNumber) != 9 {
		t.Fatalf("confirmation=%q want 9 chars", o.ConfirmationNumber)
	}
	if o.LineItems[0].Name != "Mug" {
		t.Fatalf("name=%q", o.LineItems[0].Name)
	}
}

func TestMemStore_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	o, _ := s.CreateOrder(ctx, commerce.OrderInput{LineItems: []commerce.LineItemInput{{Title: "x", Price: "1", Quantity: 1}}})

	if found, _ := s.DeleteOrder(ctx, o.ID); !found {
		t.Fatalf("delete reported missing")
	}
	if found, _ := s.DeleteOrder(ctx, o.ID); found {
		t.Fatalf("second delete reported found")
	}
}
