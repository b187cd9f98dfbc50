package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrNotConfirmed = errors.New("delete not confirmed")

	// ErrStaleSnapshot accompanies a successful mutation whose follow-up
	// reload failed.
	ErrStaleSnapshot = errors.New("snapshot not refreshed after mutation")
)

type Gateway interface {
	Lister
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Confirm is asked before a delete is sent. Only true lets it through.
type Confirm func(ctx context.Context, id int64) bool

type Coordinator struct {
	Gateway Gateway
	Store   *Store
	Log     *zap.Logger
}

func NewCoordinator(gw Gateway, store *Store, log *zap.Logger) *Coordinator {
	return &Coordinator{Gateway: gw, Store: store, Log: log}
}

func (c *Coordinator) Create(ctx context.Context, f ProductForm) (Product, error) {
	if err := f.Validate(); err != nil {
		return Product{}, err
	}

	p, err := c.Gateway.CreateProduct(ctx, f.createInput())
	if err != nil {
		c.logFailure("create", 0, err)
		return Product{}, err
	}
	return p, c.reload(ctx, "create")
}

func (c *Coordinator) Update(ctx context.Context, id int64, f ProductForm) (Product, error) {
	p, err := c.Gateway.UpdateProduct(ctx, id, f.updateInput())
	if err != nil {
		c.logFailure("update", id, err)
		return Product{}, err
	}
	return p, c.reload(ctx, "update")
}

func (c *Coordinator) Delete(ctx context.Context, id int64, confirm Confirm) error {
	if confirm == nil || !confirm(ctx, id) {
		return ErrNotConfirmed
	}

	if err := c.Gateway.DeleteProduct(ctx, id); err != nil {
		c.logFailure("delete", id, err)
		return err
	}
	return c.reload(ctx, "delete")
}

func (c *Coordinator) reload(ctx context.Context, op string) error {
	if _, err := c.Store.Load(ctx); err != nil {
		if c.Log != nil {
			c.Log.Warn("reload after mutation failed", zap.String("op", op), zap.Error(err))
		}
		return fmt.Errorf("%w: %w", ErrStaleSnapshot, err)
	}
	return nil
}

func (c *Coordinator) logFailure(op string, id int64, err error) {
	if c.Log == nil {
		return
	}
	c.Log.Error("product mutation failed", zap.String("op", op), zap.Int64("product_id", id), zap.Error(err))
}
