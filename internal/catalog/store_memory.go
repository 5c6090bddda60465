package catalog

import (
	"context"
	"sync"
)

// MemStore serves a fixed product set, grouped by derived sport.
type MemStore struct {
	mu sync.RWMutex
	m  map[Sport][]Product
}

func NewMemStore(products ...Product) *MemStore {
	s := &MemStore{m: map[Sport][]Product{}}
	for _, p := range products {
		sp := p.Sport()
		s.m[sp] = append(s.m[sp], p)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, sport Sport) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sport != SportAll {
		return append([]Product{}, s.m[sport]...), nil
	}

	out := make([]Product, 0, 16)
	for _, sp := range Sports {
		out = append(out, s.m[sp]...)
	}
	// products no keyword rule could classify still belong to the catalog
	return append(out, s.m[SportAll]...), nil
}
