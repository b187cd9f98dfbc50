package catalog

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"StoreAdmin/internal/commerce"
)

// fakeGateway keeps products in memory and records every call.
type fakeGateway struct {
	mu       sync.Mutex
	products []Product
	nextID   int64
	calls    []string

	listErr   error
	mutateErr error
}

func newFakeGateway(ps ...Product) *fakeGateway {
	g := &fakeGateway{products: slices.Clone(ps), nextID: 1000}
	return g
}

func (g *fakeGateway) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.calls)
}

func (g *fakeGateway) ListProducts(context.Context) ([]Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("list")

	if g.listErr != nil {
		return nil, g.listErr
	}
	return slices.Clone(g.products), nil
}

func (g *fakeGateway) CreateProduct(_ context.Context, in ProductInput) (Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("create")

	if g.mutateErr != nil {
		return Product{}, g.mutateErr
	}
	g.nextID++
	p := Product{ID: g.nextID, Title: in.Title, Vendor: in.Vendor}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, commerce.Variant{Price: commerce.Price(v.Price), SKU: v.SKU})
	}
	g.products = append(g.products, p)
	return p, nil
}

func (g *fakeGateway) UpdateProduct(_ context.Context, id int64, in ProductInput) (Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("update")

	if g.mutateErr != nil {
		return Product{}, g.mutateErr
	}
	for i, p := range g.products {
		if p.ID == id {
			p.Title = in.Title
			p.Vendor = in.Vendor
			g.products[i] = p
			return p, nil
		}
	}
	return Product{}, &commerce.GatewayError{Op: "update_product", Status: http.StatusNotFound}
}

func (g *fakeGateway) DeleteProduct(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("delete")

	if g.mutateErr != nil {
		return g.mutateErr
	}
	g.products = slices.DeleteFunc(g.products, func(p Product) bool { return p.ID == id })
	return nil
}

func product(id int64, title, price string) Product {
	return Product{
		ID:       id,
		Title:    title,
		Vendor:   "Acme",
		Variants: []commerce.Variant{{Price: commerce.Price(price)}},
	}
}

func titles(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}
