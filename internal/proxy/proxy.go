package proxy

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"tablechat/internal/config"
)

// SearchProxy is a same-origin reverse proxy in front of the search service.
// It exists only to dodge browser cross-origin restrictions and keep the API
// key off the client: every forwarded request gets the api-key header and
// the fixed api-version query string injected server-side.
type SearchProxy struct {
	target     *url.URL
	apiKey     string
	apiVersion string
	inner      *httputil.ReverseProxy
}

// NewSearchProxy builds a proxy for the configured search endpoint.
func NewSearchProxy(cfg config.SearchConfig) (*SearchProxy, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing search endpoint")
	}
	target, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}

	p := &SearchProxy{
		target:     target,
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
	}
	p.inner = &httputil.ReverseProxy{
		Director: p.direct,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("[SearchProxy] upstream error for %s: %v", r.URL.Path, err)
			http.Error(w, "search service unavailable", http.StatusBadGateway)
		},
	}
	return p, nil
}

// direct rewrites the inbound request onto the search service, injecting
// credentials and the API version. Any client-supplied api-key is discarded.
func (p *SearchProxy) direct(req *http.Request) {
	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host
	req.URL.Path = singleJoin(p.target.Path, req.URL.Path)
	req.Host = p.target.Host

	q := req.URL.Query()
	q.Set("api-version", p.apiVersion)
	req.URL.RawQuery = q.Encode()

	req.Header.Del("Cookie")
	req.Header.Set("api-key", p.apiKey)
}

func (p *SearchProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.inner.ServeHTTP(w, r)
}

func singleJoin(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return strings.TrimRight(a, "/") + "/" + strings.TrimLeft(b, "/")
}
