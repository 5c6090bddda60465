package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Sportivo/internal/catalog"
)

func newCatalogTS(t *testing.T, store catalog.Store) *httptest.Server {
	t.Helper()

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: zap.NewNop()}, catalog.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "catalog",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "tok",
		AllowedOrigin:  "*",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func getProducts(t *testing.T, url string) (int, []catalog.Product) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	var out []catalog.Product
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func TestServer_Routes(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemStore(sample()...))

	code, all := getProducts(t, ts.URL+"/products/all")
	if code != http.StatusOK || len(all) != 4 {
		t.Fatalf("all: code=%d n=%d", code, len(all))
	}

	code, vb := getProducts(t, ts.URL+"/products/vollyball")
	if code != http.StatusOK || len(vb) != 1 || vb[0].ID != "d" {
		t.Fatalf("vollyball: code=%d %v", code, ids(vb))
	}

	if code, _ := getProducts(t, ts.URL+"/products/curling"); code != http.StatusNotFound {
		t.Fatalf("unknown sport code=%d", code)
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status=%d", path, resp.StatusCode)
		}
	}
}

func TestServer_CORSAndMetricsAuth(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewMemStore(sample()...))

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/products/all", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight status=%d origin=%q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("metrics without token status=%d", resp.StatusCode)
	}
}
