package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Sportivo/internal/money"
	"Sportivo/internal/review"
	"Sportivo/internal/wishlist"
	"Sportivo/pkg/kit"
)

type wishlistResp struct {
	Items    []wishlist.Item `json:"items"`
	Quantity int             `json:"quantity"`
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kit.WriteJSON(w, http.StatusOK, wishlistResp{Items: s.Session.Wishlist.Items(), Quantity: s.Session.Wishlist.Quantity()})
}

type addWishlistReq struct {
	ProductID string `json:"productId"`
}

func (s *Server) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req addWishlistReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupProduct(w, r, req.ProductID); !ok {
		return
	}
	added, err := s.Session.Wishlist.Add(r.Context(), req.ProductID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	kit.WriteJSON(w, status, map[string]any{"added": added, "quantity": s.Session.Wishlist.Quantity()})
}

func (s *Server) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Session.Wishlist.Remove(r.Context(), chi.URLParam(r, "productId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewsResp struct {
	Reviews    []review.Review   `json:"reviews"`
	Statistics review.Statistics `json:"statistics"`
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	kit.WriteJSON(w, http.StatusOK, reviewsResp{
		Reviews:    nonNil(s.Session.Reviews.ForProduct(id)),
		Statistics: s.Session.Reviews.Statistics(id),
	})
}

type addReviewReq struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
	UserName   string `json:"userName"`
}

func (s *Server) addReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addReviewReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupProduct(w, r, id); !ok {
		return
	}
	rv, err := s.Session.Reviews.Add(r.Context(), id, req.Rating, req.ReviewText, req.UserName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, rv)
}

func (s *Server) markHelpful(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Session.Reviews.MarkHelpful(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) regions(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, money.Regions)
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := money.LoadPreferences(r.Context(), s.Store)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	var req money.Preferences
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := money.SavePreferences(r.Context(), s.Store, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}
