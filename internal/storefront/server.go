package storefront

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"Sportivo/internal/cart"
	"Sportivo/internal/catalog"
	"Sportivo/internal/delivery"
	"Sportivo/internal/kv"
	"Sportivo/internal/money"
	"Sportivo/internal/order"
	"Sportivo/internal/review"
	"Sportivo/internal/tracking"
	"Sportivo/internal/wishlist"
	"Sportivo/pkg/kit"
)

// CatalogSource yields the complete product list or a single error.
type CatalogSource interface {
	FetchAll(ctx context.Context) ([]catalog.Product, error)
}

// Server serializes every engine call behind one mutex: the session has a
// single logical actor.
type Server struct {
	Store    kv.Store
	Catalog  CatalogSource
	Delivery *delivery.Table
	Session  *Session
	Log      *zap.Logger
	Metrics  *Metrics

	// ReviewLimiter throttles review posting per client. Nil disables it.
	ReviewLimiter *kit.IPRateLimiter
	// Now defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	products *catalog.Index
}

// catalogIndex returns the cached catalog, fetching it on first use. A
// failed fetch is not cached so the next call retries.
func (s *Server) catalogIndex(ctx context.Context) (*catalog.Index, error) {
	if s.products != nil {
		return s.products, nil
	}
	list, err := s.Catalog.FetchAll(ctx)
	if err != nil {
		s.Metrics.catalogFailed()
		return nil, err
	}
	s.products = catalog.NewIndex(list)
	return s.products, nil
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) currency(ctx context.Context, override string) (money.Currency, error) {
	if override != "" {
		return money.ParseCurrency(override)
	}
	p, err := money.LoadPreferences(ctx, s.Store)
	if err != nil {
		return "", err
	}
	return p.Currency, nil
}

// writeError maps engine errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "cart item not found", nil)
	case errors.Is(err, tracking.ErrUnknownLine):
		kit.WriteError(w, r, http.StatusNotFound, "product not in order", nil)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidOption),
		errors.Is(err, wishlist.ErrInvalidProduct),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrInvalidProduct),
		errors.Is(err, delivery.ErrUnknownOption),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnknownProduct),
		errors.Is(err, order.ErrTotalOverflow),
		errors.Is(err, money.ErrUnknownCurrency):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, catalog.ErrUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, catalog.ErrBadStatus), errors.Is(err, catalog.ErrMalformed):
		if s.Log != nil {
			s.Log.Warn("catalog error", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	case isTimeoutErr(err):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		if s.Log != nil {
			s.Log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
