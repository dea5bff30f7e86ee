package wiremock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when the server reports a resource as absent.
var ErrNotFound = errors.New("not found")

// Client is an HTTP client for the mock server's /__admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new admin client. baseURL is either the server address or,
// in proxy mode, the same-origin proxy prefix.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListMappings returns all mappings in server order.
func (c *Client) ListMappings(ctx context.Context) ([]Mapping, error) {
	resp, err := c.get(ctx, "/__admin/mappings")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result MappingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode mappings: %w", err)
	}
	return result.Mappings, nil
}

// GetMapping returns a single mapping by id.
func (c *Client) GetMapping(ctx context.Context, id string) (*Mapping, error) {
	resp, err := c.get(ctx, "/__admin/mappings/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var mapping Mapping
	if err := json.NewDecoder(resp.Body).Decode(&mapping); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return &mapping, nil
}

// CreateMapping creates a new mapping. The returned object carries the
// server-assigned id and is authoritative; callers must keep it, not the
// draft they sent.
func (c *Client) CreateMapping(ctx context.Context, draft *Mapping) (*Mapping, error) {
	resp, err := c.post(ctx, "/__admin/mappings", draft)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var created Mapping
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created mapping: %w", err)
	}
	return &created, nil
}

// UpdateMapping replaces the mapping with the given id. Full-replace
// semantics: the complete object must be sent, not a diff.
func (c *Client) UpdateMapping(ctx context.Context, id string, mapping *Mapping) (*Mapping, error) {
	resp, err := c.put(ctx, "/__admin/mappings/"+url.PathEscape(id), mapping)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var updated Mapping
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated mapping: %w", err)
	}
	return &updated, nil
}

// DeleteMapping deletes a mapping by id.
func (c *Client) DeleteMapping(ctx context.Context, id string) error {
	resp, err := c.delete(ctx, "/__admin/mappings/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

// DeleteAllMappings removes every mapping from the server.
func (c *Client) DeleteAllMappings(ctx context.Context) error {
	resp, err := c.delete(ctx, "/__admin/mappings")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

// ResetMappings restores the server's mappings to the persisted set.
func (c *Client) ResetMappings(ctx context.Context) error {
	return c.postNoBody(ctx, "/__admin/mappings/reset")
}

// SaveMappings persists the server's current mappings to its backing store.
func (c *Client) SaveMappings(ctx context.Context) error {
	return c.postNoBody(ctx, "/__admin/mappings/save")
}

// ListRequests returns the full request journal, newest first as returned
// by the server.
func (c *Client) ListRequests(ctx context.Context) ([]RequestLogEntry, error) {
	resp, err := c.get(ctx, "/__admin/requests")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result RequestsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	return result.Requests, nil
}

// GetRequest returns a single journal entry by id.
func (c *Client) GetRequest(ctx context.Context, id string) (*RequestLogEntry, error) {
	resp, err := c.get(ctx, "/__admin/requests/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var entry RequestLogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &entry, nil
}

// DeleteRequest deletes a single journal entry.
func (c *Client) DeleteRequest(ctx context.Context, id string) error {
	resp, err := c.delete(ctx, "/__admin/requests/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

// ResetRequests clears the entire request journal server-side. Callers must
// then clear their local copy.
func (c *Client) ResetRequests(ctx context.Context) error {
	return c.postNoBody(ctx, "/__admin/requests/reset")
}

// Health probes GET /__admin. It never returns an error: any transport
// failure or non-2xx status collapses to false.
func (c *Client) Health(ctx context.Context) bool {
	resp, err := c.get(ctx, "/__admin")
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// postNoBody issues a bodyless POST and checks for a 2xx status.
func (c *Client) postNoBody(ctx context.Context, path string) error {
	resp, err := c.post(ctx, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// parseError extracts an error from a non-2xx response. WireMock error
// payloads carry either {"errors":[{"title":...}]} or a plain message.
func (c *Client) parseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if len(payload.Errors) > 0 && payload.Errors[0].Title != "" {
			return fmt.Errorf("server error (status %d): %s", resp.StatusCode, payload.Errors[0].Title)
		}
		if payload.Message != "" {
			return fmt.Errorf("server error (status %d): %s", resp.StatusCode, payload.Message)
		}
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
