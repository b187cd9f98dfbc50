package catalog

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"

	"StoreAdmin/internal/commerce"
)

func completeForm() ProductForm {
	return ProductForm{
		Title:             "Lamp",
		Vendor:            "Lumen",
		Price:             "19.90",
		SKU:               "LMP-1",
		InventoryQuantity: "12",
		Alt:               "a lamp",
		Src:               "https://img.example/lamp.png",
	}
}

func newTestCoordinator(t *testing.T, ps ...Product) (*Coordinator, *fakeGateway) {
	t.Helper()

	gw := newFakeGateway(ps...)
	store := NewStore(gw, zap.NewNop())
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewCoordinator(gw, store, zap.NewNop()), gw
}

func TestCoordinator_CreateMissingSKU(t *testing.T) {
	c, gw := newTestCoordinator(t, product(1, "Mug", "1"))
	before := c.Store.Snapshot()

	f := completeForm()
	f.SKU = ""
	_, err := c.Create(context.Background(), f)

	var ve *commerce.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v want ValidationError", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "sku" {
		t.Fatalf("fields=%+v want [sku]", ve.Fields)
	}
	if calls := gw.Calls(); !slices.Equal(calls, []string{"list"}) {
		t.Fatalf("calls=%v want only the initial list", calls)
	}
	if got := c.Store.Snapshot(); len(got) != len(before) || got[0].ID != before[0].ID {
		t.Fatalf("snapshot changed")
	}
}

func TestCoordinator_CreateListsEveryMissingField(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Create(context.Background(), ProductForm{})

	var ve *commerce.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v want ValidationError", err)
	}
	want := []string{"title", "vendor", "price", "sku", "inventory_quantity", "alt", "src"}
	var got []string
	for _, f := range ve.Fields {
		got = append(got, f.Field)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("fields=%v want=%v", got, want)
	}
}

func TestCoordinator_CreateRejectsFractionalQuantity(t *testing.T) {
	c, _ := newTestCoordinator(t)

	f := completeForm()
	f.InventoryQuantity = "1.5"
	_, err := c.Create(context.Background(), f)

	var ve *commerce.ValidationError
	if !errors.As(err, &ve) || !ve.Has("inventory_quantity") {
		t.Fatalf("err=%v want inventory_quantity failure", err)
	}
}

func TestCoordinator_CreateReloads(t *testing.T) {
	c, gw := newTestCoordinator(t)

	p, err := c.Create(context.Background(), completeForm())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if calls := gw.Calls(); !slices.Equal(calls, []string{"list", "create", "list"}) {
		t.Fatalf("calls=%v", calls)
	}
	if _, ok := c.Store.Find(p.ID); !ok {
		t.Fatalf("created product %d missing from snapshot", p.ID)
	}
}

func TestCoordinator_DeleteConfirmed(t *testing.T) {
	c, gw := newTestCoordinator(t, product(1, "Mug", "1"), product(2, "Cup", "2"))

	err := c.Delete(context.Background(), 1, func(_ context.Context, id int64) bool { return id == 1 })
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if calls := gw.Calls(); !slices.Equal(calls, []string{"list", "delete", "list"}) {
		t.Fatalf("calls=%v", calls)
	}
	if _, ok := c.Store.Find(1); ok {
		t.Fatalf("deleted product still in snapshot")
	}
}

func TestCoordinator_DeleteDeclined(t *testing.T) {
	c, gw := newTestCoordinator(t, product(1, "Mug", "1"))

	err := c.Delete(context.Background(), 1, func(context.Context, int64) bool { return false })
	if !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("err=%v want ErrNotConfirmed", err)
	}
	if err := c.Delete(context.Background(), 1, nil); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("nil confirm: err=%v want ErrNotConfirmed", err)
	}
	if calls := gw.Calls(); !slices.Equal(calls, []string{"list"}) {
		t.Fatalf("calls=%v", calls)
	}
}

func TestCoordinator_UpdateFailureLeavesSnapshot(t *testing.T) {
	c, gw := newTestCoordinator(t, product(1, "Mug", "1"))
	gw.mutateErr = &commerce.GatewayError{Op: "update_product", Status: 500}

	_, err := c.Update(context.Background(), 1, ProductForm{Title: "Renamed"})
	if !commerce.IsGatewayError(err) {
		t.Fatalf("err=%v want GatewayError", err)
	}
	if p, _ := c.Store.Find(1); p.Title != "Mug" {
		t.Fatalf("title=%q want=Mug", p.Title)
	}
	if calls := gw.Calls(); !slices.Equal(calls, []string{"list", "update"}) {
		t.Fatalf("calls=%v (no reload expected)", calls)
	}
}

func TestCoordinator_UpdateSendsPartialFormAsIs(t *testing.T) {
	c, _ := newTestCoordinator(t, product(1, "Mug", "1"))

	p, err := c.Update(context.Background(), 1, ProductForm{Title: "Renamed"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Title != "Renamed" || p.Vendor != "" {
		t.Fatalf("product=%+v", p)
	}
}

func TestCoordinator_ReloadFailureAfterMutation(t *testing.T) {
	c, gw := newTestCoordinator(t, product(1, "Mug", "1"))
	gw.listErr = &commerce.GatewayError{Op: "list_products", Status: 502}

	err := c.Delete(context.Background(), 1, func(context.Context, int64) bool { return true })
	if !errors.Is(err, ErrStaleSnapshot) {
		t.Fatalf("err=%v want ErrStaleSnapshot", err)
	}
	if !commerce.IsGatewayError(err) {
		t.Fatalf("err=%v should wrap the gateway error", err)
	}
	if _, ok := c.Store.Find(1); !ok {
		t.Fatalf("stale snapshot should still hold product 1")
	}
}

func TestEditForm(t *testing.T) {
	p := Product{
		ID:       5,
		Title:    "Lamp",
		Vendor:   "Lumen",
		Variants: []commerce.Variant{{Price: "19.90"}, {Price: "29.90"}},
		Images:   []commerce.Image{{Alt: "front", Src: "f.png"}, {Alt: "back", Src: "b.png"}},
	}

	f := EditForm(p)
	if f.Price != "19.90" || f.Alt != "front" || f.Src != "f.png" {
		t.Fatalf("form=%+v", f)
	}

	f = EditForm(Product{Title: "Bare"})
	if f.Price != "" || f.Alt != "" || f.Src != "" {
		t.Fatalf("form=%+v", f)
	}
}
