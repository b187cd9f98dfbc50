package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

type Store struct {
	Gateway Lister
	Log     *zap.Logger

	mu       sync.RWMutex
	products []Product
	inflight int
	issued   uint64
	applied  uint64
	loadedAt time.Time
}

func NewStore(gw Lister, log *zap.Logger) *Store {
	return &Store{Gateway: gw, Log: log, products: []Product{}}
}

// Load replaces the snapshot with a fresh fetch. A failed fetch, or one
// overtaken by a later load that already landed, leaves the snapshot alone.
func (s *Store) Load(ctx context.Context) ([]Product, error) {
	seq := s.begin()
	defer s.end()

	products, err := s.Gateway.ListProducts(ctx)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("snapshot load failed", zap.Error(err))
		}
		return nil, err
	}

	applied := s.apply(seq, products)
	if s.Log != nil {
		if applied {
			s.Log.Info("snapshot loaded", zap.Int("products", len(products)))
		} else {
			s.Log.Debug("stale snapshot discarded", zap.Uint64("seq", seq))
		}
	}
	return s.Snapshot(), nil
}

func (s *Store) Replace(products []Product) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	s.apply(seq, products)
}

func (s *Store) apply(seq uint64, products []Product) bool {
	next := slices.Clone(products)
	if next == nil {
		next = []Product{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}
	s.products = next
	s.applied = seq
	s.loadedAt = time.Now().UTC()
	return true
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.inflight++
	return s.issued
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *Store) Snapshot() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) Find(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
