package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/goleak"

	"Sportivo/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	)
}

func TestClient_FetchAll(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewFileStore(catalog.EmbeddedData(), nil))

	got, err := catalog.NewClient(ts.URL + "/").FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("empty catalog")
	}
}

func TestClient_FetchAllErrors(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
		want error
	}{
		{
			name: "bad status",
			h:    func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			want: catalog.ErrBadStatus,
		},
		{
			name: "not an array",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"id":"x"}`)) },
			want: catalog.ErrMalformed,
		},
		{
			name: "null body",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`null`)) },
			want: catalog.ErrMalformed,
		},
		{
			name: "truncated",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`[{"id":"x"`)) },
			want: catalog.ErrMalformed,
		},
		{
			name: "wrong field type",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`[{"id":"x","priceCents":"12"}]`)) },
			want: catalog.ErrMalformed,
		},
		{
			name: "missing id",
			h:    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`[{"name":"nameless"}]`)) },
			want: catalog.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.h)
			defer ts.Close()

			got, err := catalog.NewClient(ts.URL).FetchAll(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v want %v", err, tt.want)
			}
			if got != nil {
				t.Fatalf("partial result returned: %v", got)
			}
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := catalog.NewClient(url).FetchAll(context.Background())
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}
