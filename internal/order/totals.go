package order

import (
	"errors"
	"fmt"
	"math"

	"Sportivo/internal/cart"
	"Sportivo/internal/catalog"
	"Sportivo/internal/delivery"
)

// TaxPercent is applied to the shipping-inclusive subtotal.
const TaxPercent = 10

var (
	ErrUnknownProduct = errors.New("order: unknown product")
	ErrEmptyCart      = errors.New("order: cart is empty")
	ErrTotalOverflow  = errors.New("order: total overflow")
)

type ProductLookup interface {
	Product(id string) (catalog.Product, bool)
}

type OptionLookup interface {
	Get(id string) (delivery.Option, error)
}

type Totals struct {
	Items          int   `json:"items"`
	ProductCents   int64 `json:"productCents"`
	ShippingCents  int64 `json:"shippingCents"`
	BeforeTaxCents int64 `json:"beforeTaxCents"`
	TaxCents       int64 `json:"taxCents"`
	TotalCents     int64 `json:"totalCents"`
}

// ComputeTotals prices a cart snapshot. Shipping is charged once per line
// regardless of quantity; tax is rounded half up to whole cents.
func ComputeTotals(items []cart.Item, products ProductLookup, options OptionLookup) (Totals, error) {
	var t Totals
	for _, it := range items {
		p, ok := products.Product(it.ProductID)
		if !ok {
			return Totals{}, fmt.Errorf("%w: %s", ErrUnknownProduct, it.ProductID)
		}
		opt, err := options.Get(it.DeliveryOptionID)
		if err != nil {
			return Totals{}, fmt.Errorf("line %s: %w", it.ProductID, err)
		}

		line, ok := mul(p.PriceCents, int64(it.Quantity))
		if !ok {
			return Totals{}, ErrTotalOverflow
		}
		if t.ProductCents, ok = add(t.ProductCents, line); !ok {
			return Totals{}, ErrTotalOverflow
		}
		if t.ShippingCents, ok = add(t.ShippingCents, opt.PriceCents); !ok {
			return Totals{}, ErrTotalOverflow
		}
		t.Items += it.Quantity
	}

	var ok bool
	if t.BeforeTaxCents, ok = add(t.ProductCents, t.ShippingCents); !ok {
		return Totals{}, ErrTotalOverflow
	}
	t.TaxCents = taxOn(t.BeforeTaxCents)
	if t.TotalCents, ok = add(t.BeforeTaxCents, t.TaxCents); !ok {
		return Totals{}, ErrTotalOverflow
	}
	return t, nil
}

func taxOn(cents int64) int64 {
	return cents/100*TaxPercent + (cents%100*TaxPercent+50)/100
}

func add(a, b int64) (int64, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a < 0 || b < 0 || a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}
