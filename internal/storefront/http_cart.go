package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Sportivo/internal/cart"
	"Sportivo/internal/money"
	"Sportivo/internal/order"
	"Sportivo/internal/tracking"
	"Sportivo/pkg/kit"
)

type cartResp struct {
	Items    []cart.Item `json:"items"`
	Quantity int         `json:"quantity"`
}

func (s *Server) cartView() cartResp {
	return cartResp{Items: s.Session.Cart.Items(), Quantity: s.Session.Cart.Quantity()}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) resetCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Session.Cart.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

type addCartReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// addCartItem adds to the cart and records the product as purchased, the
// way the shop front always has.
func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	req := addCartReq{Quantity: 1}
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupProduct(w, r, req.ProductID); !ok {
		return
	}
	if err := s.Session.Cart.Add(r.Context(), req.ProductID, req.Quantity); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Session.Behavior.TrackPurchase(r.Context(), req.ProductID); err != nil && s.Log != nil {
		s.Log.Warn("track purchase failed", zap.Error(err), zap.String("product_id", req.ProductID))
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

type updateCartReq struct {
	Quantity         *int    `json:"quantity"`
	DeliveryOptionID *string `json:"deliveryOptionId"`
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")

	var req updateCartReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Quantity == nil && req.DeliveryOptionID == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity or deliveryOptionId required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.DeliveryOptionID != nil {
		if _, err := s.Delivery.Get(*req.DeliveryOptionID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Quantity != nil {
		if err := s.Session.Cart.UpdateQuantity(r.Context(), id, *req.Quantity); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.DeliveryOptionID != nil {
		if err := s.Session.Cart.UpdateDeliveryOption(r.Context(), id, *req.DeliveryOptionID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Session.Cart.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

type summaryResp struct {
	order.Totals
	Currency  money.Currency    `json:"currency"`
	Formatted map[string]string `json:"formatted"`
}

func (s *Server) cartSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.currency(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := order.ComputeTotals(s.Session.Cart.Items(), idx, s.Delivery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, summaryResp{
		Totals:   t,
		Currency: cur,
		Formatted: map[string]string{
			"product":   money.Format(t.ProductCents, cur),
			"shipping":  money.Format(t.ShippingCents, cur),
			"beforeTax": money.Format(t.BeforeTaxCents, cur),
			"tax":       money.Format(t.TaxCents, cur),
			"total":     money.Format(t.TotalCents, cur),
		},
	})
}

func (s *Server) deliveryOptions(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Delivery.All())
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kit.WriteJSON(w, http.StatusOK, nonNil(s.Session.Orders.All()))
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.Session.Orders.Place(r.Context(), s.Session.Cart, idx, s.Delivery)
	if err != nil {
		if o.ID != "" {
			// stored, only the cart reset failed
			s.Metrics.orderPlaced()
			if s.Log != nil {
				s.Log.Error("cart reset after order failed", zap.Error(err), zap.String("order_id", o.ID))
			}
			kit.WriteJSON(w, http.StatusCreated, o)
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.Metrics.orderPlaced()
	if s.Log != nil {
		s.Log.Info("order placed", zap.String("order_id", o.ID), zap.Int64("total_cents", o.TotalCostCents))
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.Session.Orders.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "order not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) trackOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.Session.Orders.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "order not found", map[string]any{"id": id})
		return
	}
	rep, err := tracking.Track(o, chi.URLParam(r, "productId"), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, rep)
}
