package devgateway

import (
	"context"
	"slices"
	"sync"

	"StoreAdmin/internal/commerce"
)

type MemStore struct {
	mu       sync.RWMutex
	products []commerce.Product
	orders   []commerce.Order
	nextID   int64
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

func NewSeededMemStore() *MemStore {
	s := NewMemStore()
	for _, in := range seedProducts() {
		_, _ = s.CreateProduct(context.Background(), in)
	}
	return s
}

func NewStore() Store {
	return NewSeededMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListProducts(ctx context.Context) ([]commerce.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]commerce.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, in commerce.ProductInput) (commerce.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := newProduct(s.nextID, in)
	if s.skuTakenLocked(primarySKU(p), 0) {
		return commerce.Product{}, ErrDuplicateSKU
	}

	s.nextID++
	s.products = append(s.products, p)
	return cloneProduct(p), nil
}

func (s *MemStore) UpdateProduct(ctx context.Context, id int64, in commerce.ProductInput) (commerce.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p commerce.Product) bool { return p.ID == id })
	if i < 0 {
		return commerce.Product{}, false, nil
	}

	p := applyUpdate(cloneProduct(s.products[i]), in)
	if s.skuTakenLocked(primarySKU(p), id) {
		return commerce.Product{}, true, ErrDuplicateSKU
	}

	s.products[i] = p
	return cloneProduct(p), true, nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.products)
	s.products = slices.DeleteFunc(s.products, func(p commerce.Product) bool { return p.ID == id })
	return len(s.products) < n, nil
}

func (s *MemStore) ListOrders(ctx context.Context) ([]commerce.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]commerce.Order, 0, len(s.orders))
	for _, o := range s.orders {
		o.LineItems = slices.Clone(o.LineItems)
		out = append(out, o)
	}
	return out, nil
}

func (s *MemStore) CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := newOrder(s.nextID, in)
	s.nextID++
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *MemStore) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.orders)
	s.orders = slices.DeleteFunc(s.orders, func(o commerce.Order) bool { return o.ID == id })
	return len(s.orders) < n, nil
}

func (s *MemStore) skuTakenLocked(sku string, except int64) bool {
	if sku == "" {
		return false
	}
	for _, p := range s.products {
		if p.ID != except && primarySKU(p) == sku {
			return true
		}
	}
	return false
}

func cloneProduct(p commerce.Product) commerce.Product {
	p.Variants = slices.Clone(p.Variants)
	p.Images = slices.Clone(p.Images)
	return p
}

func seedProducts() []commerce.ProductInput {
	qty := func(n int) *int { return &n }
	return []commerce.ProductInput{
		{
			Title:    "Keyboard",
			Vendor:   "Keychron",
			Images:   []commerce.ImageInput{{Alt: "Keyboard", Src: "https://cdn.example.com/keyboard.png"}},
			Variants: []commerce.VariantInput{{Price: "49.90", SKU: "KB-001", InventoryQuantity: qty(25)}},
		},
		{
			Title:    "Mouse",
			Vendor:   "Logitech",
			Images:   []commerce.ImageInput{{Alt: "Mouse", Src: "https://cdn.example.com/mouse.png"}},
			Variants: []commerce.VariantInput{{Price: "19.90", SKU: "MS-001", InventoryQuantity: qty(40)}},
		},
		{
			Title:    "Red Mug",
			Vendor:   "Acme",
			Images:   []commerce.ImageInput{{Alt: "Red Mug", Src: "https://cdn.example.com/red-mug.png"}},
			Variants: []commerce.VariantInput{{Price: "10.00", SKU: "MUG-RED", InventoryQuantity: qty(12)}},
		},
		{
			Title:    "Blue Mug",
			Vendor:   "Acme",
			Images:   []commerce.ImageInput{{Alt: "Blue Mug", Src: "https://cdn.example.com/blue-mug.png"}},
			Variants: []commerce.VariantInput{{Price: "25.00", SKU: "MUG-BLUE", InventoryQuantity: qty(8)}},
		},
	}
}
