// Package order turns a cart snapshot into an immutable order record and
// keeps the shopper's order history.
package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Sportivo/internal/cart"
	"Sportivo/internal/kv"
	"Sportivo/pkg/kit"
)

const idPrefix = "order-"

type Line struct {
	ProductID             string    `json:"productId"`
	Quantity              int       `json:"quantity"`
	EstimatedDeliveryTime time.Time `json:"estimatedDeliveryTime"`
	DeliveryOptionID      string    `json:"deliveryOptionId"`
}

type Order struct {
	ID             string    `json:"id"`
	OrderTime      time.Time `json:"orderTime"`
	TotalCostCents int64     `json:"totalCostCents"`
	Products       []Line    `json:"products"`
}

// Line returns the order line for productID.
func (o Order) Line(productID string) (Line, bool) {
	i := slices.IndexFunc(o.Products, func(l Line) bool { return l.ProductID == productID })
	if i < 0 {
		return Line{}, false
	}
	return o.Products[i], true
}

// History is the persisted, most-recent-first list of placed orders.
type History struct {
	store  kv.Store
	log    *zap.Logger
	now    func() time.Time
	newID  func() (uuid.UUID, error)
	orders []Order
}

func Load(ctx context.Context, store kv.Store, log *zap.Logger) (*History, error) {
	h := &History{store: store, log: kit.OrNop(log), now: time.Now, newID: uuid.NewV7}

	var orders []Order
	err := kv.LoadJSON(ctx, store, kv.KeyOrders, &orders)
	switch {
	case err == nil:
		if hasLegacyProducts(orders) {
			h.log.Info("clearing orders with legacy product ids", zap.Int("orders", len(orders)))
			if err := store.Remove(ctx, kv.KeyOrders); err != nil {
				return nil, fmt.Errorf("order: clear legacy orders: %w", err)
			}
			break
		}
		h.orders = h.sanitize(orders)
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		h.log.Warn("discarding corrupt orders", zap.Error(err))
	default:
		return nil, err
	}
	return h, nil
}

// hasLegacyProducts detects histories written against the old catalog,
// whose product ids were UUIDs.
func hasLegacyProducts(orders []Order) bool {
	for _, o := range orders {
		for _, l := range o.Products {
			if strings.Contains(l.ProductID, "-") && len(l.ProductID) > 20 {
				return true
			}
		}
	}
	return false
}

// sanitize drops orders and lines that Place could never have written.
// An order left without lines is dropped as well.
func (h *History) sanitize(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.ID == "" || o.TotalCostCents < 0 {
			h.log.Warn("dropping invalid order", zap.String("order_id", o.ID), zap.Int64("total_cents", o.TotalCostCents))
			continue
		}
		lines := make([]Line, 0, len(o.Products))
		for _, l := range o.Products {
			if l.ProductID == "" || l.Quantity < 1 {
				h.log.Warn("dropping invalid order line",
					zap.String("order_id", o.ID), zap.String("product_id", l.ProductID), zap.Int("quantity", l.Quantity))
				continue
			}
			lines = append(lines, l)
		}
		if len(lines) == 0 {
			h.log.Warn("dropping order without lines", zap.String("order_id", o.ID))
			continue
		}
		o.Products = lines
		out = append(out, o)
	}
	return out
}

// Place prices the cart, records the order at the head of the history and
// then empties the cart. If the order is stored but the cart cannot be
// reset, the order is returned together with the error.
func (h *History) Place(ctx context.Context, c *cart.Cart, products ProductLookup, options OptionLookup) (Order, error) {
	items := c.Items()
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	totals, err := ComputeTotals(items, products, options)
	if err != nil {
		return Order{}, err
	}
	id, err := h.newID()
	if err != nil {
		return Order{}, fmt.Errorf("order: new id: %w", err)
	}

	placed := h.now().UTC()
	o := Order{
		ID:             idPrefix + id.String(),
		OrderTime:      placed,
		TotalCostCents: totals.TotalCents,
		Products:       make([]Line, 0, len(items)),
	}
	for _, it := range items {
		opt, err := options.Get(it.DeliveryOptionID)
		if err != nil {
			return Order{}, err
		}
		o.Products = append(o.Products, Line{
			ProductID:             it.ProductID,
			Quantity:              it.Quantity,
			EstimatedDeliveryTime: opt.EstimatedDelivery(placed),
			DeliveryOptionID:      it.DeliveryOptionID,
		})
	}

	next := append([]Order{o}, h.orders...)
	if err := kv.SaveJSON(ctx, h.store, kv.KeyOrders, next); err != nil {
		return Order{}, err
	}
	h.orders = next

	if err := c.Reset(ctx); err != nil {
		return o, fmt.Errorf("order %s placed, cart not reset: %w", o.ID, err)
	}
	return o, nil
}

func (h *History) Get(id string) (Order, bool) {
	for _, o := range h.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// All returns the orders most recent first.
func (h *History) All() []Order {
	return slices.Clone(h.orders)
}
