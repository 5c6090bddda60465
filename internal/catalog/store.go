package catalog

import (
	"context"
	"embed"
	"io/fs"
)

//go:embed data/*.json
var embedded embed.FS

// sportFiles maps each category to the file it is served from, in the order
// /products/all concatenates them.
var sportFiles = []struct {
	sport Sport
	file  string
}{
	{SportFootball, "football.json"},
	{SportBasketball, "basketball.json"},
	{SportTableTennis, "tabletennis.json"},
	{SportVolleyball, legacyVolleyball + ".json"},
}

type Store interface {
	Ping(ctx context.Context) error
	// List returns the products of one category, or every category
	// concatenated in catalog order for SportAll.
	List(ctx context.Context, sport Sport) ([]Product, error)
}

// EmbeddedData is the catalog shipped with the binary.
func EmbeddedData() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
