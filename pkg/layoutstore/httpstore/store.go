package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-landing/components/landing"
)

// Config configures the HTTP layout store.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Store persists layouts through the tenant backend's page widgets route.
// Any non-2xx response is a failure; the backend applies all or nothing.
type Store struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ landing.LayoutStore = (*Store)(nil)

type layoutPayload struct {
	PageID  string                 `json:"page_id"`
	Widgets []landing.WidgetConfig `json:"widgets"`
}

// New builds a store for the configured backend.
func New(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("httpstore: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Store{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// SaveLayout POSTs the full ordered sequence.
func (s *Store) SaveLayout(ctx context.Context, pageID string, widgets []landing.WidgetConfig) error {
	if pageID == "" {
		return fmt.Errorf("httpstore: page id is required")
	}
	if widgets == nil {
		widgets = []landing.WidgetConfig{}
	}
	return s.do(ctx, http.MethodPost, s.path(pageID), layoutPayload{PageID: pageID, Widgets: widgets}, nil)
}

// LoadLayout GETs the stored sequence. The backend may answer with a bare
// array or with the same envelope SaveLayout sends. 404 is an empty layout.
func (s *Store) LoadLayout(ctx context.Context, pageID string) ([]landing.WidgetConfig, error) {
	if pageID == "" {
		return nil, fmt.Errorf("httpstore: page id is required")
	}
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, s.path(pageID), nil, &raw); err != nil {
		if isNotFound(err) {
			return []landing.WidgetConfig{}, nil
		}
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []landing.WidgetConfig{}, nil
	}
	if raw[0] == '[' {
		var widgets []landing.WidgetConfig
		if err := json.Unmarshal(raw, &widgets); err != nil {
			return nil, fmt.Errorf("httpstore: decode layout: %w", err)
		}
		return widgets, nil
	}
	var payload layoutPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("httpstore: decode layout: %w", err)
	}
	if payload.Widgets == nil {
		return []landing.WidgetConfig{}, nil
	}
	return payload.Widgets, nil
}

func (s *Store) path(pageID string) string {
	return "/pages/" + url.PathEscape(pageID) + "/widgets"
}

// RemoteError is returned for non-2xx responses.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("httpstore: remote error %d: %s", e.Status, e.Body)
}

func isNotFound(err error) bool {
	remote, ok := err.(*RemoteError)
	return ok && remote.Status == http.StatusNotFound
}

func (s *Store) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("httpstore: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpstore: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("httpstore: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("httpstore: decode response: %w", err)
	}
	return nil
}
