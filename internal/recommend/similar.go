package recommend

import (
	"slices"

	"Sportivo/internal/catalog"
)

const (
	MaxRecommendations = 8
	MaxAlsoBought      = 6
)

// Recommendations collects products similar to every viewed and then every
// purchased product, skipping excludeID as a seed. Results keep first-seen
// order, are unique by id and capped at MaxRecommendations.
func (t *Tracker) Recommendations(all []catalog.Product, excludeID string) []catalog.Product {
	idx := catalog.NewIndex(all)
	seeds := append(slices.Clone(t.behavior.ViewedProducts), t.behavior.PurchasedProducts...)

	out := []catalog.Product{}
	seen := map[string]struct{}{}
	for _, id := range seeds {
		if id == excludeID {
			continue
		}
		for _, p := range similarTo(idx, id) {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

// SimilarProducts lists products sharing productID's sport or at least one
// keyword, best rated first. Unknown ids have no similar products.
func SimilarProducts(all []catalog.Product, productID string) []catalog.Product {
	return similarTo(catalog.NewIndex(all), productID)
}

func similarTo(idx *catalog.Index, productID string) []catalog.Product {
	target, ok := idx.Product(productID)
	if !ok {
		return nil
	}
	sport := target.Sport()

	var out []catalog.Product
	for _, p := range idx.All() {
		if p.ID == productID {
			continue
		}
		if p.Sport() == sport || sharesKeyword(p, target) {
			out = append(out, p)
		}
	}
	byStarsDesc(out)
	return out
}

// CustomersAlsoBought lists other products of the same sport, best rated
// first, capped at MaxAlsoBought.
func CustomersAlsoBought(all []catalog.Product, productID string) []catalog.Product {
	idx := catalog.NewIndex(all)
	target, ok := idx.Product(productID)
	if !ok {
		return []catalog.Product{}
	}
	sport := target.Sport()

	out := []catalog.Product{}
	for _, p := range all {
		if p.ID != productID && p.Sport() == sport {
			out = append(out, p)
		}
	}
	byStarsDesc(out)
	if len(out) > MaxAlsoBought {
		out = out[:MaxAlsoBought]
	}
	return out
}

// Popular is the fallback shelf shown when there is no behavior to work
// from: the n best rated products.
func Popular(all []catalog.Product, n int) []catalog.Product {
	out := slices.Clone(all)
	byStarsDesc(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func sharesKeyword(a, b catalog.Product) bool {
	for _, k := range a.Keywords {
		if slices.Contains(b.Keywords, k) {
			return true
		}
	}
	return false
}

func byStarsDesc(ps []catalog.Product) {
	slices.SortStableFunc(ps, func(a, b catalog.Product) int {
		switch {
		case a.Rating.Stars > b.Rating.Stars:
			return -1
		case a.Rating.Stars < b.Rating.Stars:
			return 1
		}
		return 0
	})
}
