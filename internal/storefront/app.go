package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Sportivo/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// CatalogURL is probed by /readyz and proxied under /catalog/.
	CatalogURL string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(s *Server, deps HTTPDeps) (http.Handler, error) {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", readyz(s, deps))

	if deps.CatalogURL != "" {
		proxy, err := NewCatalogProxy(deps.CatalogURL, deps.Log)
		if err != nil {
			return nil, err
		}
		r.Handle("/catalog/*", proxy)
	}

	r.Mount("/", s.Routes())
	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

// readyz requires a reachable store and, when configured, a ready catalog
// service. Both probes run concurrently.
func readyz(s *Server, deps HTTPDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ctx := errgroup.WithContext(r.Context())
		ctx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()

		g.Go(func() error {
			if err := s.Store.Ping(ctx); err != nil {
				return fmt.Errorf("store: %w", err)
			}
			return nil
		})
		if deps.CatalogURL != "" {
			g.Go(func() error {
				if err := checkReady(ctx, strings.TrimRight(deps.CatalogURL, "/")+"/readyz"); err != nil {
					return fmt.Errorf("catalog: %w", err)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}
	return nil
}
