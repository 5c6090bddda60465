// Package recommend records what the shopper looks at, buys and searches for,
// and turns that record into product suggestions.
package recommend

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"Sportivo/internal/kv"
	"Sportivo/pkg/kit"
)

const (
	MaxViewed    = 20
	MaxPurchased = 10
	MaxSearches  = 10
)

// Behavior is the bounded history that drives recommendations. Every list
// is most-recent-first.
type Behavior struct {
	ViewedProducts    []string `json:"viewedProducts"`
	PurchasedProducts []string `json:"purchasedProducts"`
	SearchHistory     []string `json:"searchHistory"`
}

func (b Behavior) clone() Behavior {
	return Behavior{
		ViewedProducts:    cloneOrEmpty(b.ViewedProducts),
		PurchasedProducts: cloneOrEmpty(b.PurchasedProducts),
		SearchHistory:     cloneOrEmpty(b.SearchHistory),
	}
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// Tracker owns the persisted Behavior record.
type Tracker struct {
	store    kv.Store
	log      *zap.Logger
	behavior Behavior
}

func Load(ctx context.Context, store kv.Store, log *zap.Logger) (*Tracker, error) {
	t := &Tracker{store: store, log: kit.OrNop(log)}

	var b Behavior
	err := kv.LoadJSON(ctx, store, kv.KeyUserBehavior, &b)
	switch {
	case err == nil:
		t.behavior = Behavior{
			ViewedProducts:    truncate(b.ViewedProducts, MaxViewed),
			PurchasedProducts: truncate(b.PurchasedProducts, MaxPurchased),
			SearchHistory:     truncate(b.SearchHistory, MaxSearches),
		}.clone()
	case errors.Is(err, kv.ErrNotFound):
		t.behavior = Behavior{}.clone()
	case errors.Is(err, kv.ErrCorrupt):
		t.log.Warn("discarding corrupt user behavior", zap.Error(err))
		t.behavior = Behavior{}.clone()
	default:
		return nil, err
	}
	return t, nil
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// TrackView records a product view. Ids already in the list keep their
// position.
func (t *Tracker) TrackView(ctx context.Context, productID string) error {
	if slices.Contains(t.behavior.ViewedProducts, productID) {
		return nil
	}
	next := t.behavior.clone()
	next.ViewedProducts = prepend(next.ViewedProducts, productID, MaxViewed)
	return t.commit(ctx, next)
}

// TrackPurchase records a purchase with the same rules as TrackView.
func (t *Tracker) TrackPurchase(ctx context.Context, productID string) error {
	if slices.Contains(t.behavior.PurchasedProducts, productID) {
		return nil
	}
	next := t.behavior.clone()
	next.PurchasedProducts = prepend(next.PurchasedProducts, productID, MaxPurchased)
	return t.commit(ctx, next)
}

// TrackSearch stores the lowercased term. Blank terms are ignored; repeats
// are kept.
func (t *Tracker) TrackSearch(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	next := t.behavior.clone()
	next.SearchHistory = prepend(next.SearchHistory, strings.ToLower(term), MaxSearches)
	return t.commit(ctx, next)
}

func (t *Tracker) Behavior() Behavior { return t.behavior.clone() }

func prepend(list []string, v string, limit int) []string {
	return truncate(append([]string{v}, list...), limit)
}

func (t *Tracker) commit(ctx context.Context, next Behavior) error {
	if err := kv.SaveJSON(ctx, t.store, kv.KeyUserBehavior, next); err != nil {
		return err
	}
	t.behavior = next
	return nil
}
