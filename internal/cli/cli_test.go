package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func adminServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("WIREMGR_BASE_URL", srv.URL)
	t.Setenv("WIREMGR_USE_PROXY", "false")
	return srv
}

func TestListMappings_Text(t *testing.T) {
	adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/__admin/mappings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mappings":[{"id":"m1","name":"Get user","request":{"method":"GET","urlPath":"/users/1"},"response":{"status":200}}],"meta":{"total":1}}`))
	})

	var buf bytes.Buffer
	if err := ListMappings(Options{Out: &buf}); err != nil {
		t.Fatalf("ListMappings: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"m1", "GET", "200", "/users/1", "Get user", "1 mappings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListMappings_JSON(t *testing.T) {
	adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mappings":[{"id":"m1","request":{"method":"GET"},"response":{"status":200}}],"meta":{"total":1}}`))
	})

	var buf bytes.Buffer
	if err := ListMappings(Options{OutputFormat: "json", Out: &buf}); err != nil {
		t.Fatalf("ListMappings: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["id"] != "m1" {
		t.Errorf("unexpected decoded output: %v", decoded)
	}
}

func TestListRequests_Text(t *testing.T) {
	adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/__admin/requests" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"requests":[{"id":"r1","request":{"method":"POST","url":"/orders","loggedDate":1700000000000},"responseDefinition":{"status":404,"fromConfiguredStub":false}}],"meta":{"total":1}}`))
	})

	var buf bytes.Buffer
	if err := ListRequests(Options{Out: &buf}); err != nil {
		t.Fatalf("ListRequests: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"POST", "404", "unmatched", "/orders"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClearRequests(t *testing.T) {
	var method, path string
	adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	var buf bytes.Buffer
	if err := ClearRequests(Options{Out: &buf}); err != nil {
		t.Fatalf("ClearRequests: %v", err)
	}
	if method != http.MethodPost || path != "/__admin/requests/reset" {
		t.Errorf("got %s %s, want POST /__admin/requests/reset", method, path)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	t.Setenv("WIREMGR_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("WIREMGR_USE_PROXY", "false")

	var buf bytes.Buffer
	if err := Health(Options{Out: &buf}); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
