// Package catalog holds the read-only product model shared by the storefront
// engines, the static catalog service that serves it, and the client that
// fetches it.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProduct = errors.New("catalog: invalid product")

const placeholderImage = "images/products/placeholder.jpg"

type Rating struct {
	Stars float64 `json:"stars"`
	Count int     `json:"count"`
	// Distribution maps a star value (1..5) to its share in percent.
	Distribution map[int]float64 `json:"distribution,omitempty"`
}

type Product struct {
	ID             string         `json:"id"`
	Image          string         `json:"image"`
	Name           string         `json:"name"`
	Rating         Rating         `json:"rating"`
	PriceCents     int64          `json:"priceCents"`
	Keywords       []string       `json:"keywords"`
	Specifications map[string]any `json:"specifications,omitempty"`
}

func (p Product) ImageURL() string {
	if p.Image == "" {
		return placeholderImage
	}
	return p.Image
}

// Validate rejects records the engines cannot price or classify.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	case p.PriceCents < 0:
		return fmt.Errorf("%w: %s: negative price", ErrInvalidProduct, p.ID)
	case p.Rating.Stars < 0 || p.Rating.Stars > 5:
		return fmt.Errorf("%w: %s: rating out of range", ErrInvalidProduct, p.ID)
	}
	return nil
}

func (p Product) hasKeyword(k string) bool {
	for _, kw := range p.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// Index is an id lookup over an immutable product list.
type Index struct {
	list []Product
	byID map[string]int
}

func NewIndex(products []Product) *Index {
	idx := &Index{
		list: products,
		byID: make(map[string]int, len(products)),
	}
	for i, p := range products {
		if _, dup := idx.byID[p.ID]; !dup {
			idx.byID[p.ID] = i
		}
	}
	return idx
}

func (i *Index) Product(id string) (Product, bool) {
	n, ok := i.byID[id]
	if !ok {
		return Product{}, false
	}
	return i.list[n], true
}

func (i *Index) All() []Product { return i.list }

func (i *Index) Len() int { return len(i.list) }
