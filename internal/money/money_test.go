package money

import (
	"context"
	"errors"
	"testing"

	"Sportivo/internal/kv"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		cents int64
		cur   Currency
		want  string
	}{
		{2750, USD, "$27.50"},
		{0, USD, "$0.00"},
		{2750, EUR, "€25.30"},
		{1000, GBP, "£7.90"},
		{1000, CAD, "C$13.60"},
		{1000, AUD, "A$15.20"},
		{2750, JPY, "¥4,111"},
		{123456789, USD, "$1234567.89"},
		{1000, "XYZ", "$10.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.cents, tc.cur); got != tc.want {
			t.Errorf("Format(%d, %s)=%q want %q", tc.cents, tc.cur, got, tc.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	if c, err := ParseCurrency(" jpy "); err != nil || c != JPY {
		t.Fatalf("c=%q err=%v", c, err)
	}
	if _, err := ParseCurrency("BTC"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("err=%v", err)
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()

	p, err := LoadPreferences(ctx, store)
	if err != nil || p != DefaultPreferences() {
		t.Fatalf("defaults p=%+v err=%v", p, err)
	}

	if _, err := SavePreferences(ctx, store, Preferences{Currency: "nope"}); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("err=%v", err)
	}

	want := Preferences{Currency: GBP, Region: "United Kingdom", Flag: "🇬🇧"}
	if _, err := SavePreferences(ctx, store, Preferences{Currency: "gbp", Region: want.Region, Flag: want.Flag}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadPreferences(ctx, store)
	if err != nil || got != want {
		t.Fatalf("got=%+v err=%v", got, err)
	}

	must(t, store.Set(ctx, kv.KeyUserCurrency, []byte(`"DOGE"`)))
	got, _ = LoadPreferences(ctx, store)
	if got.Currency != DefaultCurrency {
		t.Fatalf("unknown stored currency kept: %+v", got)
	}
}

// must fails the test when a setup step errors.
func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}
