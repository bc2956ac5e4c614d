package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPConfig configures the HTTP feed client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient reads widget content from the tenant backend's REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Fetcher = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the configured backend.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("feeds: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchRecords GETs endpoint and decodes either a bare JSON array or an
// envelope of the form {"data": [...]}.
func (c *HTTPClient) FetchRecords(ctx context.Context, endpoint string) ([]Record, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, &raw); err != nil {
		return nil, err
	}
	return decodeRecords(raw)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, target any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("feeds: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("feeds: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("feeds: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("feeds: decode response: %w", err)
	}
	return nil
}

func decodeRecords(raw json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Record{}, nil
	}
	if trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("feeds: decode records: %w", err)
		}
		return records, nil
	}
	var envelope struct {
		Data []Record `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("feeds: decode envelope: %w", err)
	}
	if envelope.Data == nil {
		return []Record{}, nil
	}
	return envelope.Data, nil
}
