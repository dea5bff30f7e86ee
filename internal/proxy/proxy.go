// Package proxy runs the development-time same-origin proxy: requests to
// /api/... are forwarded to the mock server with the /api prefix stripped,
// so a client configured for proxy mode avoids cross-origin restrictions.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proxy forwards prefixed requests to a target server.
type Proxy struct {
	Port   int
	prefix string
	target *url.URL
	server *http.Server
}

// New creates a proxy listening on port that strips prefix and forwards the
// remainder to targetURL.
func New(port int, prefix, targetURL string) (*Proxy, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", targetURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("target URL %q must be absolute", targetURL)
	}
	return &Proxy{
		Port:   port,
		prefix: strings.TrimRight(prefix, "/"),
		target: target,
	}, nil
}

// Handler returns the proxy's HTTP handler. Requests outside the prefix get
// a 404; forwarded requests are tagged with an X-Request-Id.
func (p *Proxy) Handler() http.Handler {
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(p.target)
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, p.prefix)
			if pr.Out.URL.Path == "" {
				pr.Out.URL.Path = "/"
			}
			pr.Out.Header.Set("X-Request-Id", uuid.NewString())
			pr.SetXForwarded()
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != p.prefix && !strings.HasPrefix(r.URL.Path, p.prefix+"/") {
			http.NotFound(w, r)
			return
		}
		rp.ServeHTTP(w, r)
	})
}

// Start begins serving in a goroutine.
func (p *Proxy) Start() error {
	p.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", p.Port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Proxy server error: %v\n", err)
		}
	}()

	return nil
}

// Stop shuts the proxy down.
func (p *Proxy) Stop() error {
	if p.server != nil {
		return p.server.Close()
	}
	return nil
}
