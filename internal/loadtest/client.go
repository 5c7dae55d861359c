package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/spinwheel/pkg/logger"
)

// IdempotencyHeader carries the retry key of a spin request.
const IdempotencyHeader = "Idempotency-Key"

// HTTPClient talks to the spinwheel API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health checks GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

// PutWheel stores a wheel document.
func (c *HTTPClient) PutWheel(ctx context.Context, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal wheel: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, "/api/wheels/"+url.PathEscape(key), body, nil)
	return err
}

// Spin posts one spin request.
func (c *HTTPClient) Spin(ctx context.Context, key, idempotencyKey string) (SpinResponse, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyHeader: idempotencyKey}
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/wheels/"+url.PathEscape(key)+"/spin", nil, headers)
	if err != nil {
		return SpinResponse{}, err
	}
	var out SpinResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return SpinResponse{}, fmt.Errorf("decode spin response: %w", err)
	}
	return out, nil
}

// History fetches the most recent spins of a wheel.
func (c *HTTPClient) History(ctx context.Context, key string, limit int) (HistoryResponse, error) {
	path := "/api/wheels/" + url.PathEscape(key) + "/history?limit=" + strconv.Itoa(limit)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return HistoryResponse{}, err
	}
	var out HistoryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return HistoryResponse{}, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}

// DeleteWheel removes a wheel. A missing wheel is not an error.
func (c *HTTPClient) DeleteWheel(ctx context.Context, key string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/wheels/"+url.PathEscape(key), nil, nil)
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return err
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, headers map[string]string) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close response body", logger.Error(err))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{method: method, path: path, code: resp.StatusCode, body: string(raw)}
	}
	return raw, nil
}

type statusError struct {
	method string
	path   string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.method, e.path, e.code, e.body)
}

func (e *statusError) Unwrap() error { return ErrStatus }

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == code
}
