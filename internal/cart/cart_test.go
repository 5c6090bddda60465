package cart_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"Sportivo/internal/cart"
	"Sportivo/internal/kv"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails every Set while fail is true.
type flakyStore struct {
	*kv.MemStore
	fail bool
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.fail {
		return errDiskFull
	}
	return s.MemStore.Set(ctx, key, value)
}

func mustLoad(t *testing.T, store kv.Store) *cart.Cart {
	t.Helper()
	c, err := cart.Load(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestAdd_AccumulatesSingleLine(t *testing.T) {
	ctx := context.Background()
	c := mustLoad(t, kv.NewMemStore())

	adds := []int{1, 3, 10, 2, 7}
	sum := 0
	for _, q := range adds {
		if err := c.Add(ctx, "fb-ball-pro", q); err != nil {
			t.Fatalf("add %d: %v", q, err)
		}
		sum += q
	}

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("lines=%d want 1", len(items))
	}
	want := cart.Item{ProductID: "fb-ball-pro", Quantity: sum, DeliveryOptionID: "2"}
	if diff := cmp.Diff(want, items[0]); diff != "" {
		t.Fatalf("line (-want +got):\n%s", diff)
	}
}

func TestAdd_RejectsOutOfRangeIncrement(t *testing.T) {
	ctx := context.Background()
	c := mustLoad(t, kv.NewMemStore())

	for _, q := range []int{0, -1, 11} {
		if err := c.Add(ctx, "p", q); !errors.Is(err, cart.ErrInvalidQuantity) {
			t.Errorf("add %d: err=%v", q, err)
		}
	}
	if err := c.Add(ctx, " ", 1); !errors.Is(err, cart.ErrInvalidProduct) {
		t.Errorf("blank id: err=%v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("invalid adds changed cart: %+v", c.Items())
	}
}

func TestRemoveThenAdd_ResetsDeliveryOption(t *testing.T) {
	ctx := context.Background()
	c := mustLoad(t, kv.NewMemStore())

	must(t, c.Add(ctx, "p1", 2))
	if err := c.UpdateDeliveryOption(ctx, "p1", "3"); err != nil {
		t.Fatalf("update option: %v", err)
	}
	if err := c.Remove(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.Remove(ctx, "p1"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	must(t, c.Add(ctx, "p1", 1))

	it, ok := c.Item("p1")
	if !ok || it.DeliveryOptionID != cart.DefaultDeliveryOptionID || it.Quantity != 1 {
		t.Fatalf("re-added line=%+v ok=%v", it, ok)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	c := mustLoad(t, kv.NewMemStore())

	if err := c.UpdateQuantity(ctx, "ghost", 2); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("quantity: err=%v", err)
	}
	if err := c.UpdateDeliveryOption(ctx, "ghost", "1"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("delivery: err=%v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	c := mustLoad(t, kv.NewMemStore())
	must(t, c.Add(ctx, "p1", 4))

	if err := c.UpdateQuantity(ctx, "p1", 11); !errors.Is(err, cart.ErrInvalidQuantity) {
		t.Fatalf("err=%v", err)
	}
	if err := c.UpdateQuantity(ctx, "p1", 9); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Quantity() != 9 {
		t.Fatalf("quantity=%d", c.Quantity())
	}
}

func TestQuantity_InvariantUnderOrder(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 50; round++ {
		c := mustLoad(t, kv.NewMemStore())
		for step := 0; step < 30; step++ {
			id := ids[r.Intn(len(ids))]
			if r.Intn(4) == 0 {
				must(t, c.Remove(ctx, id))
			} else {
				must(t, c.Add(ctx, id, 1+r.Intn(cart.MaxQuantity)))
			}
		}

		sum := 0
		seen := map[string]bool{}
		for _, it := range c.Items() {
			if seen[it.ProductID] {
				t.Fatalf("duplicate line %s", it.ProductID)
			}
			seen[it.ProductID] = true
			sum += it.Quantity
		}
		if sum != c.Quantity() {
			t.Fatalf("round %d: Quantity()=%d sum=%d", round, c.Quantity(), sum)
		}
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	c := mustLoad(t, store)

	must(t, c.Add(ctx, "p1", 2))
	must(t, c.Add(ctx, "p2", 5))
	must(t, c.UpdateDeliveryOption(ctx, "p2", "1"))

	reloaded := mustLoad(t, store)
	if diff := cmp.Diff(c.Items(), reloaded.Items()); diff != "" {
		t.Fatalf("reload (-before +after):\n%s", diff)
	}

	if err := c.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := mustLoad(t, store).Len(); n != 0 {
		t.Fatalf("reset cart reloaded with %d lines", n)
	}
}

func TestLoad_CorruptOrInvalid(t *testing.T) {
	ctx := context.Background()

	store := kv.NewMemStore()
	must(t, store.Set(ctx, kv.KeyCart, []byte(`{"oops":`)))
	if c := mustLoad(t, store); c.Len() != 0 {
		t.Fatalf("corrupt cart loaded %d lines", c.Len())
	}

	must(t, store.Set(ctx, kv.KeyCart, []byte(`[
		{"productId":"ok","quantity":14,"deliveryOptionId":"1"},
		{"productId":"","quantity":1,"deliveryOptionId":"1"},
		{"productId":"zero","quantity":0,"deliveryOptionId":"1"},
		{"productId":"ok","quantity":1,"deliveryOptionId":"3"},
		{"productId":"legacy","quantity":1}
	]`)))
	c := mustLoad(t, store)
	want := []cart.Item{
		{ProductID: "ok", Quantity: 14, DeliveryOptionID: "1"},
		{ProductID: "legacy", Quantity: 1, DeliveryOptionID: "2"},
	}
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("sanitized (-want +got):\n%s", diff)
	}
}

func TestFailedWrite_LeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemStore: kv.NewMemStore()}
	c := mustLoad(t, store)
	must(t, c.Add(ctx, "p1", 1))
	before := c.Items()

	store.fail = true
	if err := c.Add(ctx, "p1", 3); !errors.Is(err, errDiskFull) {
		t.Fatalf("add err=%v", err)
	}
	if err := c.Add(ctx, "p2", 1); !errors.Is(err, errDiskFull) {
		t.Fatalf("add new err=%v", err)
	}
	if err := c.Reset(ctx); !errors.Is(err, errDiskFull) {
		t.Fatalf("reset err=%v", err)
	}

	if diff := cmp.Diff(before, c.Items()); diff != "" {
		t.Fatalf("state changed despite failed write (-before +after):\n%s", diff)
	}
}

func TestLoad_StoreFailure(t *testing.T) {
	_, err := cart.Load(context.Background(), brokenStore{kv.NewMemStore()}, nil)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err=%v", err)
	}
}

type brokenStore struct{ *kv.MemStore }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDiskFull }

// must fails the test when a setup step errors.
func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}
