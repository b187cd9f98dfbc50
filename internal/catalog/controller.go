package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type View struct {
	Items         []Product        `json:"items"`
	Suggestions   []Product        `json:"suggestions"`
	Query         string           `json:"query"`
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
	TotalPages    int              `json:"total_pages"`
	FilteredCount int              `json:"filtered_count"`
	TotalCount    int              `json:"total_count"`
	Loading       bool             `json:"loading"`
	LoadedAt      time.Time        `json:"loaded_at"`
}

type Controller struct {
	Store     *Store
	Mutations *Coordinator
	Log       *zap.Logger

	mu       sync.Mutex
	criteria Criteria
	page     int
	view     View
}

func NewController(store *Store, mutations *Coordinator, log *zap.Logger) *Controller {
	c := &Controller{
		Store:     store,
		Mutations: mutations,
		Log:       log,
		page:      1,
	}
	c.recompute()
	return c
}

func (c *Controller) View() View {
	c.mu.Lock()
	v := c.view
	c.mu.Unlock()

	v.Loading = c.Store.Loading()
	return v
}

func (c *Controller) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

func (c *Controller) Load(ctx context.Context) (View, error) {
	_, err := c.Store.Load(ctx)
	return c.Refresh(), err
}

func (c *Controller) Refresh() View {
	return c.update(func() {})
}

// SetCriteria replaces the filter. The current page is kept, clamped to the
// pages the new filter produces.
func (c *Controller) SetCriteria(cr Criteria) View {
	return c.update(func() { c.criteria = cr })
}

func (c *Controller) SelectSuggestion(title string) View {
	return c.update(func() { c.criteria.Query = title })
}

func (c *Controller) Next() View {
	return c.update(func() {
		if c.page < c.view.TotalPages {
			c.page++
		}
	})
}

func (c *Controller) Prev() View {
	return c.update(func() {
		if c.page > 1 {
			c.page--
		}
	})
}

func (c *Controller) GoTo(page int) View {
	return c.update(func() { c.page = page })
}

func (c *Controller) Product(id int64) (Product, bool) {
	return c.Store.Find(id)
}

func (c *Controller) Create(ctx context.Context, f ProductForm) (Product, error) {
	p, err := c.Mutations.Create(ctx, f)
	c.Refresh()
	return p, err
}

func (c *Controller) Update(ctx context.Context, id int64, f ProductForm) (Product, error) {
	p, err := c.Mutations.Update(ctx, id, f)
	c.Refresh()
	return p, err
}

func (c *Controller) Delete(ctx context.Context, id int64, confirm Confirm) error {
	err := c.Mutations.Delete(ctx, id, confirm)
	c.Refresh()
	return err
}

// update brings the view up to date with the snapshot, applies fn and
// recomputes again so navigation bounds are never judged on a stale view.
func (c *Controller) update(fn func()) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recompute()
	fn()
	c.recompute()

	v := c.view
	v.Loading = c.Store.Loading()
	return v
}

func (c *Controller) recompute() {
	snapshot := c.Store.Snapshot()
	filtered := Apply(snapshot, c.criteria)

	total := TotalPages(len(filtered), PageSize)
	c.page = max(1, min(c.page, total))

	c.view = View{
		Items:         Page(filtered, c.page, PageSize),
		Suggestions:   Suggest(snapshot, c.criteria.Query, SuggestionLimit),
		Query:         c.criteria.Query,
		MinPrice:      c.criteria.MinPrice,
		MaxPrice:      c.criteria.MaxPrice,
		Page:          c.page,
		PageSize:      PageSize,
		TotalPages:    total,
		FilteredCount: len(filtered),
		TotalCount:    len(snapshot),
		LoadedAt:      c.Store.LoadedAt(),
	}
}
