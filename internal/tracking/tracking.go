// Package tracking derives delivery progress for placed orders.
package tracking

import (
	"errors"
	"fmt"
	"math"
	"time"

	"Sportivo/internal/order"
)

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

const (
	minProgress = 5
	maxProgress = 95
	done        = 100
)

var ErrUnknownLine = errors.New("tracking: product not in order")

// Progress is the delivery progress in percent. Before delivery it moves
// in whole elapsed hours and stays within [5, 95].
func Progress(orderTime, deliveryTime, now time.Time) int {
	if !now.Before(deliveryTime) {
		return done
	}
	if !now.After(orderTime) {
		return minProgress
	}

	total := wholeHours(deliveryTime.Sub(orderTime))
	if total <= 0 {
		return minProgress
	}
	elapsed := wholeHours(now.Sub(orderTime))

	p := float64(elapsed) / float64(total) * 100
	p = math.Max(minProgress, math.Min(maxProgress, p))
	return int(math.Floor(p + 0.5))
}

func wholeHours(d time.Duration) int64 {
	return int64(d / time.Hour)
}

// StatusFor buckets a progress value into a label.
func StatusFor(progress int) Status {
	switch {
	case progress >= 90:
		return StatusDelivered
	case progress >= 50:
		return StatusShipped
	default:
		return StatusPreparing
	}
}

type Report struct {
	OrderID               string    `json:"orderId"`
	ProductID             string    `json:"productId"`
	Quantity              int       `json:"quantity"`
	OrderTime             time.Time `json:"orderTime"`
	EstimatedDeliveryTime time.Time `json:"estimatedDeliveryTime"`
	Progress              int       `json:"progress"`
	Status                Status    `json:"status"`
	// Delivered is true once the estimated delivery time has passed.
	Delivered bool `json:"delivered"`
}

func Track(o order.Order, productID string, now time.Time) (Report, error) {
	l, ok := o.Line(productID)
	if !ok {
		return Report{}, fmt.Errorf("%w: %s in %s", ErrUnknownLine, productID, o.ID)
	}
	p := Progress(o.OrderTime, l.EstimatedDeliveryTime, now)
	return Report{
		OrderID:               o.ID,
		ProductID:             l.ProductID,
		Quantity:              l.Quantity,
		OrderTime:             o.OrderTime,
		EstimatedDeliveryTime: l.EstimatedDeliveryTime,
		Progress:              p,
		Status:                StatusFor(p),
		Delivered:             !now.Before(l.EstimatedDeliveryTime),
	}, nil
}
