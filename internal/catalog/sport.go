package catalog

import "strings"

// Sport is the single derived category of a product.
type Sport string

const (
	SportAll         Sport = "all"
	SportFootball    Sport = "football"
	SportBasketball  Sport = "basketball"
	SportTableTennis Sport = "tabletennis"
	SportVolleyball  Sport = "volleyball"
)

// legacyVolleyball is the spelling used by the catalog data files and URLs.
const legacyVolleyball = "vollyball"

// Sports lists the concrete categories in catalog order.
var Sports = []Sport{SportFootball, SportBasketball, SportTableTennis, SportVolleyball}

// Sport classifies the product by exact keyword match. The first matching
// rule wins; anything unmatched falls into SportAll.
func (p Product) Sport() Sport {
	switch {
	case p.hasKeyword("football"):
		return SportFootball
	case p.hasKeyword("basketball"):
		return SportBasketball
	case p.hasKeyword("table tennis"), p.hasKeyword("ping pong"):
		return SportTableTennis
	case p.hasKeyword(legacyVolleyball):
		return SportVolleyball
	default:
		return SportAll
	}
}

// ParseSport accepts a category name as it appears in URLs. An empty value
// means SportAll.
func ParseSport(s string) (Sport, bool) {
	switch v := Sport(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return SportAll, true
	case legacyVolleyball:
		return SportVolleyball, true
	case SportAll, SportFootball, SportBasketball, SportTableTennis, SportVolleyball:
		return v, true
	default:
		return "", false
	}
}

func FilterBySport(products []Product, sport Sport) []Product {
	if sport == SportAll {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Sport() == sport {
			out = append(out, p)
		}
	}
	return out
}
