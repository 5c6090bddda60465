package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUnavailable = errors.New("catalog unavailable")
	ErrBadStatus   = errors.New("catalog bad status")
	ErrMalformed   = errors.New("catalog malformed response")
)

const (
	clientTimeout    = 3 * time.Second
	maxCatalogBytes  = 8 << 20
	allProductsRoute = "/products/all"
)

// Client fetches the full catalog from the catalog service.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: clientTimeout},
	}
}

// FetchAll returns every product or a single error. Transport failures map
// to ErrUnavailable, non-200 answers to ErrBadStatus, and any undecodable or
// invalid record to ErrMalformed; no partial list is ever returned.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+allProductsRoute, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return decodeProducts(io.LimitReader(resp.Body, maxCatalogBytes))
}

func decodeProducts(r io.Reader) ([]Product, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null body", ErrMalformed)
	}

	out := make([]Product, 0, len(raw))
	for i, item := range raw {
		var p Product
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
