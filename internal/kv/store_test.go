package kv_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"Sportivo/internal/kv"
)

func stores(t *testing.T) map[string]kv.Store {
	t.Helper()

	sq, err := kv.NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]kv.Store{
		"memory": kv.NewMemStore(),
		"sqlite": sq,
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Ping(ctx); err != nil {
				t.Fatalf("ping: %v", err)
			}

			if _, ok, err := s.Get(ctx, kv.KeyCart); err != nil || ok {
				t.Fatalf("absent key: ok=%v err=%v", ok, err)
			}

			if err := s.Set(ctx, kv.KeyCart, []byte(`[1]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set(ctx, kv.KeyCart, []byte(`[1,2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			v, ok, err := s.Get(ctx, kv.KeyCart)
			if err != nil || !ok || string(v) != `[1,2]` {
				t.Fatalf("get: v=%s ok=%v err=%v", v, ok, err)
			}

			if err := s.Remove(ctx, kv.KeyCart); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if err := s.Remove(ctx, kv.KeyCart); err != nil {
				t.Fatalf("remove twice: %v", err)
			}
			if _, ok, _ := s.Get(ctx, kv.KeyCart); ok {
				t.Fatalf("key still present after remove")
			}
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := kv.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.SaveJSON(ctx, s, kv.KeyWishlist, []string{"a", "b"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	s, err = kv.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var got []string
	if err := kv.LoadJSON(ctx, s, kv.KeyWishlist, &got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got=%v", got)
	}
}

func TestLoadJSON_Errors(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemStore()

	var v []int
	if err := kv.LoadJSON(ctx, s, kv.KeyOrders, &v); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("absent: err=%v", err)
	}

	must(t, s.Set(ctx, kv.KeyOrders, []byte(`{not json`)))
	if err := kv.LoadJSON(ctx, s, kv.KeyOrders, &v); !errors.Is(err, kv.ErrCorrupt) {
		t.Fatalf("corrupt: err=%v", err)
	}
}

func TestMemStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemStore()

	buf := []byte(`"x"`)
	must(t, s.Set(ctx, kv.KeyUserFlag, buf))
	buf[1] = 'y'

	got, _, _ := s.Get(ctx, kv.KeyUserFlag)
	if string(got) != `"x"` {
		t.Fatalf("store aliased caller buffer: %s", got)
	}
}

// must fails the test when a setup step errors.
func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}
