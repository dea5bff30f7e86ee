package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

func TestHandler_StripsPrefix(t *testing.T) {
	var gotPath, gotRequestID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-Id")
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(upstream.Close)

	p, err := New(0, "/api", upstream.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	front := httptest.NewServer(p.Handler())
	t.Cleanup(front.Close)

	resp, err := http.Get(front.URL + "/api/__admin/mappings")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if gotPath != "/__admin/mappings" {
		t.Errorf("upstream path = %q, want /__admin/mappings", gotPath)
	}
	if gotRequestID == "" {
		t.Error("X-Request-Id not set on forwarded request")
	}
}

func TestHandler_RejectsOutsidePrefix(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream reached for non-prefixed path %s", r.URL.Path)
	}))
	t.Cleanup(upstream.Close)

	p, err := New(0, "/api", upstream.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	front := httptest.NewServer(p.Handler())
	t.Cleanup(front.Close)

	resp, err := http.Get(front.URL + "/__admin/mappings")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_ProxyModeClientReachesServer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/__admin/mappings" {
			t.Errorf("upstream path = %q, want /__admin/mappings", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"mappings":[{"id":"m1","name":"users"}],"meta":{"total":1}}`)
	}))
	t.Cleanup(upstream.Close)

	p, err := New(0, config.ProxyPath, upstream.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	front := httptest.NewServer(p.Handler())
	t.Cleanup(front.Close)

	settings := config.Settings{BaseURL: upstream.URL, UseProxy: true, ProxyURL: front.URL}
	client := wiremock.New(settings.AdminAddress())

	mappings, err := client.ListMappings(context.Background())
	if err != nil {
		t.Fatalf("ListMappings() through proxy error = %v", err)
	}
	if len(mappings) != 1 || mappings[0].ID != "m1" {
		t.Errorf("ListMappings() = %+v, want the upstream mapping", mappings)
	}
}

func TestNew_RejectsRelativeTarget(t *testing.T) {
	if _, err := New(0, "/api", "localhost:8080"); err == nil {
		t.Error("expected error for non-absolute target URL")
	}
}
