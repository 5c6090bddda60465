package catalog_test

import (
	"context"
	"testing"
	"testing/fstest"

	"Sportivo/internal/catalog"
)

func TestFileStore_EmbeddedData(t *testing.T) {
	ctx := context.Background()
	s := catalog.NewFileStore(catalog.EmbeddedData(), nil)

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	all, err := s.List(ctx, catalog.SportAll)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) == 0 {
		t.Fatalf("embedded catalog is empty")
	}
	for _, p := range all {
		if err := p.Validate(); err != nil {
			t.Errorf("embedded product invalid: %v", err)
		}
		if p.Sport() == catalog.SportAll {
			t.Errorf("embedded product %s has no sport", p.ID)
		}
	}

	// catalog order: football first, volleyball last
	if all[0].Sport() != catalog.SportFootball || all[len(all)-1].Sport() != catalog.SportVolleyball {
		t.Errorf("unexpected order: first=%s last=%s", all[0].ID, all[len(all)-1].ID)
	}

	vb, err := s.List(ctx, catalog.SportVolleyball)
	if err != nil {
		t.Fatalf("list volleyball: %v", err)
	}
	for _, p := range vb {
		if p.Sport() != catalog.SportVolleyball {
			t.Errorf("%s in volleyball list", p.ID)
		}
	}
}

func TestFileStore_BadFileServedEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"football.json":   {Data: []byte(`[{"id":"f1","name":"Ball","priceCents":100,"keywords":["football"]}]`)},
		"basketball.json": {Data: []byte(`{broken`)},
	}
	s := catalog.NewFileStore(fsys, nil)

	all, err := s.List(context.Background(), catalog.SportAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != "f1" {
		t.Fatalf("got %v", ids(all))
	}

	bb, err := s.List(context.Background(), catalog.SportBasketball)
	if err != nil || len(bb) != 0 {
		t.Fatalf("broken file: %v %v", ids(bb), err)
	}
}

func TestMemStore_GroupsBySport(t *testing.T) {
	s := catalog.NewMemStore(append(sample(), catalog.Product{ID: "z", Keywords: []string{"chess"}})...)

	all, _ := s.List(context.Background(), catalog.SportAll)
	if len(all) != 5 || all[len(all)-1].ID != "z" {
		t.Fatalf("all=%v", ids(all))
	}
	tt, _ := s.List(context.Background(), catalog.SportTableTennis)
	if len(tt) != 1 || tt[0].ID != "c" {
		t.Fatalf("tabletennis=%v", ids(tt))
	}
}
