// Package delivery is the static table of checkout delivery options.
package delivery

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOption = errors.New("delivery: unknown option")
	ErrInvalidTable  = errors.New("delivery: invalid options table")
)

//go:embed options.yaml
var defaultOptions []byte

type Option struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	PriceCents int64  `yaml:"price_cents" json:"priceCents"`
	Days       int    `yaml:"days" json:"days"`
}

// EstimatedDelivery adds the option's lead time to from.
func (o Option) EstimatedDelivery(from time.Time) time.Time {
	return from.AddDate(0, 0, o.Days)
}

type Table struct {
	options []Option
	byID    map[string]Option
}

type file struct {
	Options []Option `yaml:"options"`
}

// Default returns the built-in table. It panics only if the embedded file
// is broken, which the package tests rule out.
func Default() *Table {
	t, err := Parse(defaultOptions)
	if err != nil {
		panic(err)
	}
	return t
}

func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("delivery: read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(f.Options) == 0 {
		return nil, fmt.Errorf("%w: no options", ErrInvalidTable)
	}

	t := &Table{options: f.Options, byID: make(map[string]Option, len(f.Options))}
	for _, o := range f.Options {
		switch {
		case o.ID == "":
			return nil, fmt.Errorf("%w: option without id", ErrInvalidTable)
		case o.PriceCents < 0 || o.Days < 0:
			return nil, fmt.Errorf("%w: option %s: negative price or days", ErrInvalidTable, o.ID)
		}
		if _, dup := t.byID[o.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate option %s", ErrInvalidTable, o.ID)
		}
		t.byID[o.ID] = o
	}
	return t, nil
}

func (t *Table) Get(id string) (Option, error) {
	o, ok := t.byID[id]
	if !ok {
		return Option{}, fmt.Errorf("%w: %q", ErrUnknownOption, id)
	}
	return o, nil
}

func (t *Table) All() []Option {
	return append([]Option(nil), t.options...)
}
