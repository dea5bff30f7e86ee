package wiremock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// adminServer creates a test server and a client pointing at it.
func adminServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func jsonHandler(t *testing.T, statusCode int, body any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if body != nil {
			if err := json.NewEncoder(w).Encode(body); err != nil {
				t.Errorf("failed to encode response: %v", err)
			}
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("http://localhost:8080")
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %q, want %q", c.baseURL, "http://localhost:8080")
	}
	if c.httpClient.Timeout != 15*time.Second {
		t.Errorf("default timeout = %v, want 15s", c.httpClient.Timeout)
	}
}

func TestNew_WithTimeout(t *testing.T) {
	c := New("http://localhost:8080", WithTimeout(3*time.Second))
	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c.httpClient.Timeout)
	}
}

func TestListMappings(t *testing.T) {
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/__admin/mappings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		jsonHandler(t, 200, MappingsResponse{
			Mappings: []Mapping{
				{ID: "m1", Request: RequestPattern{Method: "GET", URLPath: "/x"}, Response: ResponseDefinition{Status: 200}},
				{ID: "m2", Request: RequestPattern{Method: "POST", URLPath: "/y"}, Response: ResponseDefinition{Status: 201}},
			},
			Meta: Meta{Total: 2},
		})(w, r)
	})

	mappings, err := c.ListMappings(context.Background())
	if err != nil {
		t.Fatalf("ListMappings() error = %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(mappings))
	}
	if mappings[0].ID != "m1" || mappings[1].ID != "m2" {
		t.Errorf("server order not preserved: %q, %q", mappings[0].ID, mappings[1].ID)
	}
}

func TestListMappings_ServerError(t *testing.T) {
	c := adminServer(t, jsonHandler(t, 500, map[string]string{"message": "boom"}))

	_, err := c.ListMappings(context.Background())
	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestGetMapping_NotFound(t *testing.T) {
	c := adminServer(t, jsonHandler(t, 404, nil))

	_, err := c.GetMapping(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateMapping_ReturnsServerObject(t *testing.T) {
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/__admin/mappings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var draft Mapping
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("failed to decode draft: %v", err)
		}
		if draft.ID != "" {
			t.Errorf("draft carried an id: %q", draft.ID)
		}
		draft.ID = "server-assigned"
		draft.UUID = "server-assigned"
		jsonHandler(t, 201, draft)(w, r)
	})

	draft := &Mapping{
		Request:  RequestPattern{Method: "GET", URLPath: "/x"},
		Response: ResponseDefinition{Status: 200},
	}
	created, err := c.CreateMapping(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateMapping() error = %v", err)
	}
	if created.ID != "server-assigned" {
		t.Errorf("created.ID = %q, want server-assigned", created.ID)
	}
	if created.Request.URLPath != "/x" || created.Response.Status != 200 {
		t.Errorf("round-trip lost fields: %+v", created)
	}
}

func TestUpdateMapping_FullReplace(t *testing.T) {
	var received Mapping
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/__admin/mappings/m1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		jsonHandler(t, 200, received)(w, r)
	})

	full := &Mapping{
		ID:       "m1",
		Name:     "renamed",
		Request:  RequestPattern{Method: "PUT", URLPath: "/z"},
		Response: ResponseDefinition{Status: 204},
	}
	updated, err := c.UpdateMapping(context.Background(), "m1", full)
	if err != nil {
		t.Fatalf("UpdateMapping() error = %v", err)
	}
	if received.Name != "renamed" || received.Response.Status != 204 {
		t.Errorf("complete object not sent: %+v", received)
	}
	if updated.ID != "m1" {
		t.Errorf("updated.ID = %q, want m1", updated.ID)
	}
}

func TestDeleteMapping(t *testing.T) {
	called := false
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/__admin/mappings/m1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.DeleteMapping(context.Background(), "m1"); err != nil {
		t.Fatalf("DeleteMapping() error = %v", err)
	}
	if !called {
		t.Error("server never called")
	}
}

func TestDeleteAllMappings(t *testing.T) {
	called := false
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/__admin/mappings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.DeleteAllMappings(context.Background()); err != nil {
		t.Fatalf("DeleteAllMappings() error = %v", err)
	}
	if !called {
		t.Error("server never called")
	}
}

func TestResetAndSaveMappings(t *testing.T) {
	var paths []string
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ResetMappings(context.Background()); err != nil {
		t.Fatalf("ResetMappings() error = %v", err)
	}
	if err := c.SaveMappings(context.Background()); err != nil {
		t.Fatalf("SaveMappings() error = %v", err)
	}
	want := []string{"/__admin/mappings/reset", "/__admin/mappings/save"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], p)
		}
	}
}

func TestListRequests(t *testing.T) {
	c := adminServer(t, jsonHandler(t, 200, RequestsResponse{
		Requests: []RequestLogEntry{
			{ID: "r1", Request: LoggedRequest{URL: "/a", Method: "GET", LoggedDate: 1700000000000}},
		},
		Meta: Meta{Total: 1},
	}))

	entries, err := c.ListRequests(context.Background())
	if err != nil {
		t.Fatalf("ListRequests() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "r1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if got := entries[0].Request.LoggedTime().UnixMilli(); got != 1700000000000 {
		t.Errorf("LoggedTime() = %d, want 1700000000000", got)
	}
}

func TestDeleteRequest(t *testing.T) {
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/__admin/requests/r1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.DeleteRequest(context.Background(), "r1"); err != nil {
		t.Fatalf("DeleteRequest() error = %v", err)
	}
}

func TestDeleteRequest_NotFound(t *testing.T) {
	c := adminServer(t, jsonHandler(t, http.StatusNotFound, nil))

	err := c.DeleteRequest(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRequest() error = %v, want ErrNotFound", err)
	}
}

func TestResetRequests(t *testing.T) {
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/__admin/requests/reset" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.ResetRequests(context.Background()); err != nil {
		t.Fatalf("ResetRequests() error = %v", err)
	}
}

func TestHealth_OK(t *testing.T) {
	c := adminServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/__admin" {
			t.Errorf("path = %s, want /__admin", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if !c.Health(context.Background()) {
		t.Error("Health() = false, want true on 200")
	}
}

func TestHealth_Non2xx(t *testing.T) {
	c := adminServer(t, jsonHandler(t, 503, nil))

	if c.Health(context.Background()) {
		t.Error("Health() = true, want false on 503")
	}
}

func TestHealth_Unreachable(t *testing.T) {
	// Closed port: the probe must collapse to false, never raise.
	c := New("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))

	if c.Health(context.Background()) {
		t.Error("Health() = true, want false when unreachable")
	}
}

func TestParseError_WireMockErrors(t *testing.T) {
	c := adminServer(t, jsonHandler(t, 422, map[string]any{
		"errors": []map[string]string{{"title": "Error parsing JSON"}},
	}))

	_, err := c.ListMappings(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "server error (status 422): Error parsing JSON" {
		t.Errorf("error = %q", got)
	}
}
