package storefront

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Sportivo/internal/catalog"
	"Sportivo/internal/recommend"
	"Sportivo/internal/review"
	"Sportivo/pkg/kit"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Get("/suggestions", s.suggestions)
		r.Get("/{id}", s.productDetail)
		r.Get("/{id}/also-bought", s.alsoBought)
		r.Get("/{id}/reviews", s.listReviews)
		if s.ReviewLimiter != nil {
			r.With(s.ReviewLimiter.Middleware).Post("/{id}/reviews", s.addReview)
		} else {
			r.Post("/{id}/reviews", s.addReview)
		}
	})
	r.Post("/reviews/{id}/helpful", s.markHelpful)

	r.Get("/recommendations", s.recommendations)
	r.Get("/behavior", s.behavior)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.getCart)
		r.Delete("/", s.resetCart)
		r.Get("/summary", s.cartSummary)
		r.Post("/items", s.addCartItem)
		r.Patch("/items/{productId}", s.updateCartItem)
		r.Delete("/items/{productId}", s.removeCartItem)
	})
	r.Get("/delivery-options", s.deliveryOptions)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/", s.placeOrder)
		r.Get("/{id}", s.getOrder)
		r.Get("/{id}/tracking/{productId}", s.trackOrder)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", s.getWishlist)
		r.Post("/items", s.addWishlistItem)
		r.Delete("/items/{productId}", s.removeWishlistItem)
	})

	r.Get("/regions", s.regions)
	r.Get("/preferences", s.getPreferences)
	r.Put("/preferences", s.putPreferences)

	return r
}

// listProducts filters by ?sport= and ?q=. A non-blank query is recorded
// in the search history.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	sport, ok := catalog.ParseSport(r.URL.Query().Get("sport"))
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown sport", map[string]any{"sport": r.URL.Query().Get("sport")})
		return
	}
	q := r.URL.Query().Get("q")

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Session.Behavior.TrackSearch(r.Context(), q); err != nil {
		s.writeError(w, r, err)
		return
	}

	out := catalog.Search(catalog.FilterBySport(idx.All(), sport), q)
	kit.WriteJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, catalog.Suggestions(idx.All(), r.URL.Query().Get("q"), catalog.MaxSuggestions))
}

type productDetail struct {
	Product    catalog.Product   `json:"product"`
	Sport      catalog.Sport     `json:"sport"`
	ImageURL   string            `json:"imageUrl"`
	InWishlist bool              `json:"inWishlist"`
	Reviews    review.Statistics `json:"reviews"`
}

// productDetail answers a product page and records the view.
func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookupProduct(w, r, id)
	if !ok {
		return
	}
	if err := s.Session.Behavior.TrackView(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, productDetail{
		Product:    p,
		Sport:      p.Sport(),
		ImageURL:   p.ImageURL(),
		InWishlist: s.Session.Wishlist.Contains(id),
		Reviews:    s.Session.Reviews.Statistics(id),
	})
}

func (s *Server) alsoBought(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupProduct(w, r, id); !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, recommend.CustomersAlsoBought(s.products.All(), id))
}

// lookupProduct writes the error response itself when it returns false.
// The caller must hold s.mu.
func (s *Server) lookupProduct(w http.ResponseWriter, r *http.Request, id string) (catalog.Product, bool) {
	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return catalog.Product{}, false
	}
	p, ok := idx.Product(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return catalog.Product{}, false
	}
	return p, true
}

type recommendationsResp struct {
	// Kind is "personal" when driven by behavior and "popular" for the
	// best-rated fallback.
	Kind     string            `json:"kind"`
	Products []catalog.Product `json:"products"`
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	exclude := strings.TrimSpace(r.URL.Query().Get("exclude"))

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.catalogIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := recommendationsResp{Kind: "personal", Products: s.Session.Behavior.Recommendations(idx.All(), exclude)}
	if len(out.Products) == 0 {
		out = recommendationsResp{Kind: "popular", Products: nonNil(recommend.Popular(idx.All(), recommend.MaxRecommendations))}
	}
	if s.Log != nil {
		s.Log.Debug("recommendations", zap.String("kind", out.Kind), zap.Int("count", len(out.Products)))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) behavior(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kit.WriteJSON(w, http.StatusOK, s.Session.Behavior.Behavior())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
