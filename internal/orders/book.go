package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StoreAdmin/internal/commerce"
)

var ErrStaleOrders = errors.New("orders not refreshed after mutation")

type Gateway interface {
	ListOrders(ctx context.Context) ([]commerce.Order, error)
	CreateOrder(ctx context.Context, in commerce.OrderInput) (commerce.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type Book struct {
	Gateway Gateway
	Log     *zap.Logger

	mu       sync.RWMutex
	orders   []commerce.Order
	total    decimal.Decimal
	inflight int
	issued   uint64
	applied  uint64
	loadedAt time.Time
}

func NewBook(gw Gateway, log *zap.Logger) *Book {
	return &Book{Gateway: gw, Log: log, orders: []commerce.Order{}}
}

// Load replaces the orders and recomputes the total. A failed fetch, or one
// overtaken by a later load that already landed, keeps the current state.
func (b *Book) Load(ctx context.Context) error {
	seq := b.begin()
	defer b.end()

	list, err := b.Gateway.ListOrders(ctx)
	if err != nil {
		if b.Log != nil {
			b.Log.Error("orders load failed", zap.Error(err))
		}
		return err
	}

	total := Total(list)
	next := slices.Clone(list)
	if next == nil {
		next = []commerce.Order{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq <= b.applied {
		return nil
	}
	b.orders = next
	b.total = total
	b.applied = seq
	b.loadedAt = time.Now().UTC()
	return nil
}

func (b *Book) Orders() []commerce.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.orders)
}

func (b *Book) Total() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.total
}

func (b *Book) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inflight > 0
}

func (b *Book) LoadedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loadedAt
}

func (b *Book) Create(ctx context.Context, f Form) (commerce.Order, error) {
	if err := f.Validate(); err != nil {
		return commerce.Order{}, err
	}

	o, err := b.Gateway.CreateOrder(ctx, f.input())
	if err != nil {
		if b.Log != nil {
			b.Log.Error("create order failed", zap.Error(err))
		}
		return commerce.Order{}, err
	}
	return o, b.reload(ctx)
}

func (b *Book) Delete(ctx context.Context, id int64) error {
	if err := b.Gateway.DeleteOrder(ctx, id); err != nil {
		if b.Log != nil {
			b.Log.Error("delete order failed", zap.Int64("order_id", id), zap.Error(err))
		}
		return err
	}
	return b.reload(ctx)
}

func (b *Book) reload(ctx context.Context) error {
	if err := b.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStaleOrders, err)
	}
	return nil
}

func (b *Book) begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	b.inflight++
	return b.issued
}

func (b *Book) end() {
	b.mu.Lock()
	b.inflight--
	b.mu.Unlock()
}

func Total(list []commerce.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range list {
		sum = sum.Add(o.CurrentSubtotalPrice.Decimal())
	}
	return sum
}

const nameLimit = 20

func TruncateName(name string, limit int) string {
	r := []rune(name)
	if len(r) <= limit {
		return name
	}
	return string(r[:limit]) + "..."
}

type Summary struct {
	ID                 int64  `json:"id"`
	ConfirmationNumber string `json:"confirmation_number"`
	Email              string `json:"email"`
	OrderNumber        int64  `json:"order_number"`
	Tags               string `json:"tags"`
	Subtotal           string `json:"subtotal"`
	ProductNames       string `json:"product_names"`
}

func Summaries(list []commerce.Order) []Summary {
	out := make([]Summary, 0, len(list))
	for _, o := range list {
		names := make([]string, 0, len(o.LineItems))
		for _, li := range o.LineItems {
			name := li.Name
			if name == "" {
				name = li.Title
			}
			names = append(names, TruncateName(name, nameLimit))
		}
		out = append(out, Summary{
			ID:                 o.ID,
			ConfirmationNumber: o.ConfirmationNumber,
			Email:              o.Email,
			OrderNumber:        o.OrderNumber,
			Tags:               o.Tags,
			Subtotal:           string(o.CurrentSubtotalPrice),
			ProductNames:       strings.Join(names, ", "),
		})
	}
	return out
}
