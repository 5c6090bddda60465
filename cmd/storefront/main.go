package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Sportivo/internal/catalog"
	"Sportivo/internal/delivery"
	"Sportivo/internal/kv"
	"Sportivo/internal/storefront"
	"Sportivo/pkg/kit"
)

const (
	startupTimeout = 10 * time.Second

	reviewLimit  = 10
	reviewWindow = time.Minute
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	catalogURL := getenv("CATALOG_URL", "http://localhost:3000")

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, closeStore, err := openStore(ctx, getenv("STORE_DRIVER", "sqlite"))
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}

	options := delivery.Default()
	if path := os.Getenv("DELIVERY_OPTIONS"); path != "" {
		if options, err = delivery.LoadFile(path); err != nil {
			log.Fatal("load delivery options failed", zap.Error(err))
		}
	}

	sess, err := storefront.LoadSession(ctx, store, log)
	if err != nil {
		log.Fatal("load session failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &storefront.Server{
		Store:         store,
		Catalog:       catalog.NewClient(catalogURL),
		Delivery:      options,
		Session:       sess,
		Log:           log,
		Metrics:       storefront.NewMetrics(reg),
		ReviewLimiter: kit.NewIPRateLimiter(reviewLimit, reviewWindow),
	}

	h, err := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		CatalogURL:     catalogURL,
	})
	if err != nil {
		log.Fatal("init storefront handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(":"+port, h, log, closeStore); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, driver string) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case "memory":
		return kv.NewMemStore(), noop, nil
	case "sqlite":
		s, err := kv.NewSQLiteStore(getenv("STORE_PATH", "sportivo.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		s, err := kv.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
