package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPBackend talks to a remote key-value service:
//
//	GET {base}/kv/{key}  -> 200 with the raw value, 404 when absent
//	PUT {base}/kv/{key}  -> 2xx on success
type HTTPBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPBackend(baseURL, apiKey string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *HTTPBackend) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+"/kv/"+url.PathEscape(key), bodyReader)
	if err != nil {
		return nil, err
	}
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.client.Do(req)
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func responseError(resp *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("API error %d", resp.StatusCode)
}

func (b *HTTPBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	resp, err := b.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, responseError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

func (b *HTTPBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	resp, err := b.do(ctx, http.MethodPut, key, value)
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(resp)
	}
	return nil
}

func (b *HTTPBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}
