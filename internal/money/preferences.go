package money

import (
	"context"
	"errors"

	"Sportivo/internal/kv"
)

// Preferences are the shopper's display settings. Each field is persisted
// under its own key.
type Preferences struct {
	Currency Currency `json:"currency"`
	Region   string   `json:"region"`
	Flag     string   `json:"flag"`
}

func DefaultPreferences() Preferences {
	r := Regions[0]
	return Preferences{Currency: r.Currency, Region: r.Name, Flag: r.Flag}
}

// LoadPreferences reads the stored settings. Missing, unreadable or unknown
// values fall back to the defaults.
func LoadPreferences(ctx context.Context, store kv.Store) (Preferences, error) {
	p := DefaultPreferences()

	var cur string
	if err := loadString(ctx, store, kv.KeyUserCurrency, &cur); err != nil {
		return Preferences{}, err
	}
	if c, err := ParseCurrency(cur); err == nil {
		p.Currency = c
	}
	if err := loadString(ctx, store, kv.KeyUserRegion, &p.Region); err != nil {
		return Preferences{}, err
	}
	if err := loadString(ctx, store, kv.KeyUserFlag, &p.Flag); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func loadString(ctx context.Context, store kv.Store, key string, dst *string) error {
	var v string
	err := kv.LoadJSON(ctx, store, key, &v)
	switch {
	case err == nil:
		if v != "" {
			*dst = v
		}
		return nil
	case errors.Is(err, kv.ErrNotFound), errors.Is(err, kv.ErrCorrupt):
		return nil
	default:
		return err
	}
}

// SavePreferences validates the currency and writes all three settings.
func SavePreferences(ctx context.Context, store kv.Store, p Preferences) (Preferences, error) {
	c, err := ParseCurrency(string(p.Currency))
	if err != nil {
		return Preferences{}, err
	}
	p.Currency = c
	for key, v := range map[string]string{
		kv.KeyUserCurrency: string(p.Currency),
		kv.KeyUserRegion:   p.Region,
		kv.KeyUserFlag:     p.Flag,
	} {
		if err := kv.SaveJSON(ctx, store, key, v); err != nil {
			return Preferences{}, err
		}
	}
	return p, nil
}
