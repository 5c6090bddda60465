// Package wishlist keeps the set of products the shopper has saved for later.
package wishlist

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"Sportivo/internal/kv"
	"Sportivo/pkg/kit"
)

var ErrInvalidProduct = errors.New("wishlist: empty product id")

type Item struct {
	ProductID string    `json:"productId"`
	DateAdded time.Time `json:"dateAdded"`
}

type Wishlist struct {
	store kv.Store
	log   *zap.Logger
	now   func() time.Time
	items []Item
}

func Load(ctx context.Context, store kv.Store, log *zap.Logger) (*Wishlist, error) {
	w := &Wishlist{store: store, log: kit.OrNop(log), now: time.Now}

	var items []Item
	err := kv.LoadJSON(ctx, store, kv.KeyWishlist, &items)
	switch {
	case err == nil:
		w.items = dedupe(items)
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		w.log.Warn("discarding corrupt wishlist", zap.Error(err))
	default:
		return nil, err
	}
	return w, nil
}

func dedupe(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || slices.ContainsFunc(out, func(o Item) bool { return o.ProductID == it.ProductID }) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Add appends productID stamped with the current time. It reports false,
// without writing, when the product is already on the list.
func (w *Wishlist) Add(ctx context.Context, productID string) (bool, error) {
	if strings.TrimSpace(productID) == "" {
		return false, ErrInvalidProduct
	}
	if w.Contains(productID) {
		return false, nil
	}
	next := append(slices.Clone(w.items), Item{ProductID: productID, DateAdded: w.now().UTC()})
	if err := w.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Remove is idempotent.
func (w *Wishlist) Remove(ctx context.Context, productID string) error {
	next := slices.DeleteFunc(slices.Clone(w.items), func(it Item) bool {
		return it.ProductID == productID
	})
	return w.commit(ctx, next)
}

func (w *Wishlist) Contains(productID string) bool {
	return slices.ContainsFunc(w.items, func(it Item) bool { return it.ProductID == productID })
}

func (w *Wishlist) Quantity() int { return len(w.items) }

func (w *Wishlist) Items() []Item { return slices.Clone(w.items) }

func (w *Wishlist) commit(ctx context.Context, next []Item) error {
	if next == nil {
		next = []Item{}
	}
	if err := kv.SaveJSON(ctx, w.store, kv.KeyWishlist, next); err != nil {
		return err
	}
	w.items = next
	return nil
}
