package storefront

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"Sportivo/pkg/kit"
)

const catalogPrefix = "/catalog"

// NewCatalogProxy forwards /catalog/... to the catalog service with the
// prefix stripped, so browsers can load product data from one origin.
func NewCatalogProxy(target string, log *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if log != nil {
			log.Warn("catalog proxy failed", zap.Error(err), zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "catalog unavailable", nil)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			kit.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = strings.TrimPrefix(r.URL.Path, catalogPrefix)
		r2.URL.RawPath = ""
		rp.ServeHTTP(w, r2)
	}), nil
}
