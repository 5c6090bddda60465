package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Sportivo/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", kit.Healthz)

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products/all", s.listAll)
	r.Get("/products/{sport}", s.listSport)

	return r
}

func (s *Server) listAll(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, SportAll)
}

func (s *Server) listSport(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "sport")
	sport, ok := ParseSport(raw)
	if !ok || sport == SportAll {
		kit.WriteError(w, r, http.StatusNotFound, "unknown sport", map[string]any{"sport": raw})
		return
	}
	s.list(w, r, sport)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, sport Sport) {
	products, err := s.Store.List(r.Context(), sport)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err), zap.String("sport", string(sport)))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}
