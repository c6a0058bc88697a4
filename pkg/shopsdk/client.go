package shopsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"strings"
	"time"
)

// SDKClient talks to a Fruit Shop instance. It keeps the session cookie in
// a jar, so one client is one shopper.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with its own cookie jar.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil options list
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}
}

// reply is a drained response. Redirects have been followed, so path is
// where the shop finally sent us.
type reply struct {
	status int
	path   string
	body   []byte
}

func (c *SDKClient) send(ctx context.Context, method, path, contentType string, body io.Reader) (*reply, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if contentType == "application/json" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &reply{status: resp.StatusCode, path: resp.Request.URL.Path, body: raw}, nil
}

// callJSON sends in as JSON (nil sends no body) and decodes the answer into
// a T when the status is one of accept. A bounce to /login becomes
// ErrLoginRequired.
func callJSON[T any](ctx context.Context, c *SDKClient, method, path string, in any, accept ...int) (*T, int, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	rep, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return nil, 0, err
	}
	if rep.path == "/login" && path != "/login" {
		return nil, rep.status, ErrLoginRequired
	}
	if !slices.Contains(accept, rep.status) {
		return nil, rep.status, parseErrorResponse(rep.status, rep.body)
	}

	out := new(T)
	if err := json.Unmarshal(rep.body, out); err != nil {
		return nil, rep.status, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, rep.status, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	h, _, err := callJSON[HealthResponse](ctx, c, http.MethodGet, "/livez", nil, http.StatusOK)
	return h, err
}

// GetReadiness checks the shop's dependencies. A degraded shop returns the
// report together with ErrNotReady so callers can see which check failed.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	h, status, err := callJSON[HealthResponse](ctx, c, http.MethodGet, "/readyz", nil,
		http.StatusOK, http.StatusServiceUnavailable)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return h, ErrNotReady
	}
	return h, nil
}
