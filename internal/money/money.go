// Package money formats stored cent amounts in the shopper's display
// currency. Conversion is for display only and never feeds back into
// stored prices.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	JPY Currency = "JPY"
)

const DefaultCurrency = USD

var ErrUnknownCurrency = errors.New("money: unknown currency")

type Region struct {
	Name     string   `json:"name"`
	Currency Currency `json:"currency"`
	Flag     string   `json:"flag"`
}

// Regions are the selectable shopping regions.
var Regions = []Region{
	{Name: "United States", Currency: USD, Flag: "🇺🇸"},
	{Name: "Europe", Currency: EUR, Flag: "🇪🇺"},
	{Name: "United Kingdom", Currency: GBP, Flag: "🇬🇧"},
	{Name: "Canada", Currency: CAD, Flag: "🇨🇦"},
	{Name: "Australia", Currency: AUD, Flag: "🇦🇺"},
	{Name: "Japan", Currency: JPY, Flag: "🇯🇵"},
}

type currencyInfo struct {
	rate   decimal.Decimal // units per USD
	symbol string
}

var currencies = map[Currency]currencyInfo{
	USD: {decimal.NewFromInt(1), "$"},
	EUR: {decimal.RequireFromString("0.92"), "€"},
	GBP: {decimal.RequireFromString("0.79"), "£"},
	CAD: {decimal.RequireFromString("1.36"), "C$"},
	AUD: {decimal.RequireFromString("1.52"), "A$"},
	JPY: {decimal.RequireFromString("149.5"), "¥"},
}

var grouped = message.NewPrinter(language.English)

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := currencies[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// Format renders USD cents in currency c. Yen has no minor unit and is
// shown rounded with thousands separators; everything else gets two
// decimals. Unknown currencies fall back to USD.
func Format(cents int64, c Currency) string {
	info, ok := currencies[c]
	if !ok {
		c, info = DefaultCurrency, currencies[DefaultCurrency]
	}
	amount := decimal.NewFromInt(cents).Shift(-2).Mul(info.rate)
	if c == JPY {
		return info.symbol + grouped.Sprintf("%d", amount.Round(0).IntPart())
	}
	return info.symbol + amount.StringFixed(2)
}
