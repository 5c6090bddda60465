// Package storefront is the application root: it owns the shopper's
// session state and exposes the storefront engines over HTTP.
package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Sportivo/internal/cart"
	"Sportivo/internal/kv"
	"Sportivo/internal/order"
	"Sportivo/internal/recommend"
	"Sportivo/internal/review"
	"Sportivo/internal/wishlist"
)

// Session is the state of the single shopper, restored from the store.
type Session struct {
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	Reviews  *review.Book
	Behavior *recommend.Tracker
	Orders   *order.History
}

func LoadSession(ctx context.Context, store kv.Store, log *zap.Logger) (*Session, error) {
	var (
		s   Session
		err error
	)
	if s.Cart, err = cart.Load(ctx, store, log); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if s.Wishlist, err = wishlist.Load(ctx, store, log); err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	if s.Reviews, err = review.Load(ctx, store, log); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	if s.Behavior, err = recommend.Load(ctx, store, log); err != nil {
		return nil, fmt.Errorf("load behavior: %w", err)
	}
	if s.Orders, err = order.Load(ctx, store, log); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return &s, nil
}
