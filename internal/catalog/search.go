package catalog

import "strings"

const MaxSuggestions = 5

// Matches reports whether term occurs, case-insensitively, in the product
// name or any keyword.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}

// Search filters products by term. A blank term matches everything.
func Search(products []Product, term string) []Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(term) {
			out = append(out, p)
		}
	}
	return out
}

// Suggestions returns at most limit matches for the type-ahead box.
func Suggestions(products []Product, term string, limit int) []Product {
	if strings.TrimSpace(term) == "" || limit <= 0 {
		return []Product{}
	}
	out := Search(products, term)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
