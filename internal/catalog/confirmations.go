package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultConfirmationTTL = 2 * time.Minute

var ErrUnknownConfirmation = errors.New("unknown or expired delete confirmation")

type Deleter interface {
	Delete(ctx context.Context, id int64, confirm Confirm) error
}

type PendingDelete struct {
	ID        string    `json:"confirmation_id"`
	ProductID int64     `json:"product_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Confirmations struct {
	Deleter Deleter
	TTL     time.Duration

	now     func() time.Time
	mu      sync.Mutex
	pending map[string]PendingDelete
}

func NewConfirmations(d Deleter, ttl time.Duration) *Confirmations {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &Confirmations{
		Deleter: d,
		TTL:     ttl,
		now:     time.Now,
		pending: make(map[string]PendingDelete),
	}
}

func (c *Confirmations) Request(productID int64) PendingDelete {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)

	p := PendingDelete{
		ID:        uuid.NewString(),
		ProductID: productID,
		ExpiresAt: now.Add(c.TTL),
	}
	c.pending[p.ID] = p
	return p
}

func (c *Confirmations) Confirm(ctx context.Context, id string) (PendingDelete, error) {
	p, ok := c.take(id)
	if !ok {
		return PendingDelete{}, ErrUnknownConfirmation
	}

	err := c.Deleter.Delete(ctx, p.ProductID, func(_ context.Context, pid int64) bool {
		return pid == p.ProductID
	})
	return p, err
}

func (c *Confirmations) Cancel(id string) error {
	if _, ok := c.take(id); !ok {
		return ErrUnknownConfirmation
	}
	return nil
}

func (c *Confirmations) take(id string) (PendingDelete, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return PendingDelete{}, false
	}
	delete(c.pending, id)

	if !now.Before(p.ExpiresAt) {
		return PendingDelete{}, false
	}
	return p, true
}

func (c *Confirmations) pruneLocked(now time.Time) {
	for id, p := range c.pending {
		if !now.Before(p.ExpiresAt) {
			delete(c.pending, id)
		}
	}
}
