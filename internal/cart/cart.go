// Package cart owns the shopper's line items. Every mutation is written to
// the store before it becomes visible in memory, so a failed write leaves
// the cart exactly as it was.
//
// A Cart is not safe for concurrent use; the storefront serializes access.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"Sportivo/internal/kv"
	"Sportivo/pkg/kit"
)

const (
	MinQuantity = 1
	MaxQuantity = 10

	DefaultDeliveryOptionID = "2"
)

var (
	ErrNotFound        = errors.New("cart: item not found")
	ErrInvalidQuantity = errors.New("cart: quantity out of range")
	ErrInvalidProduct  = errors.New("cart: empty product id")
	ErrInvalidOption   = errors.New("cart: empty delivery option id")
)

type Item struct {
	ProductID        string `json:"productId"`
	Quantity         int    `json:"quantity"`
	DeliveryOptionID string `json:"deliveryOptionId"`
}

type Cart struct {
	store kv.Store
	log   *zap.Logger
	items []Item
}

// Load restores the cart persisted in store. An absent or unreadable value
// yields an empty cart; only store I/O failures are returned.
func Load(ctx context.Context, store kv.Store, log *zap.Logger) (*Cart, error) {
	c := &Cart{store: store, log: kit.OrNop(log)}

	var items []Item
	err := kv.LoadJSON(ctx, store, kv.KeyCart, &items)
	switch {
	case err == nil:
		c.items = c.sanitize(items)
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		c.log.Warn("discarding corrupt cart", zap.Error(err))
	default:
		return nil, err
	}
	return c, nil
}

// sanitize drops lines that could not have been produced by the engine.
// Accumulated quantities above MaxQuantity are legal and kept.
func (c *Cart) sanitize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup || strings.TrimSpace(it.ProductID) == "" || it.Quantity < MinQuantity {
			c.log.Warn("dropping invalid cart line", zap.String("product_id", it.ProductID), zap.Int("quantity", it.Quantity))
			continue
		}
		if it.DeliveryOptionID == "" {
			it.DeliveryOptionID = DefaultDeliveryOptionID
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Add increases the quantity of an existing line or appends a new one with
// the default delivery option. quantity is one increment and must lie in
// [MinQuantity, MaxQuantity]; the accumulated total is not capped.
func (c *Cart) Add(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return ErrInvalidProduct
	}
	if err := checkQuantity(quantity); err != nil {
		return err
	}

	next := slices.Clone(c.items)
	if i := indexOf(next, productID); i >= 0 {
		next[i].Quantity += quantity
	} else {
		next = append(next, Item{
			ProductID:        productID,
			Quantity:         quantity,
			DeliveryOptionID: DefaultDeliveryOptionID,
		})
	}
	return c.commit(ctx, next)
}

// Remove drops the line for productID. Removing an absent line is a no-op.
func (c *Cart) Remove(ctx context.Context, productID string) error {
	next := slices.DeleteFunc(slices.Clone(c.items), func(it Item) bool {
		return it.ProductID == productID
	})
	return c.commit(ctx, next)
}

func (c *Cart) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	i := indexOf(c.items, productID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, productID)
	}

	next := slices.Clone(c.items)
	next[i].Quantity = quantity
	return c.commit(ctx, next)
}

// UpdateDeliveryOption records the chosen option id. Whether the id exists
// in the delivery table is the caller's concern.
func (c *Cart) UpdateDeliveryOption(ctx context.Context, productID, optionID string) error {
	if strings.TrimSpace(optionID) == "" {
		return ErrInvalidOption
	}
	i := indexOf(c.items, productID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, productID)
	}

	next := slices.Clone(c.items)
	next[i].DeliveryOptionID = optionID
	return c.commit(ctx, next)
}

// Reset empties the cart.
func (c *Cart) Reset(ctx context.Context) error {
	return c.commit(ctx, []Item{})
}

// Quantity is the sum of all line quantities.
func (c *Cart) Quantity() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Items() []Item {
	return slices.Clone(c.items)
}

func (c *Cart) Item(productID string) (Item, bool) {
	i := indexOf(c.items, productID)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) commit(ctx context.Context, next []Item) error {
	if next == nil {
		next = []Item{}
	}
	if err := kv.SaveJSON(ctx, c.store, kv.KeyCart, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

func checkQuantity(q int) error {
	if q < MinQuantity || q > MaxQuantity {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidQuantity, q, MinQuantity, MaxQuantity)
	}
	return nil
}

func indexOf(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ProductID == productID })
}
