// Package marketplace предоставляет клиент REST API маркетплейса услуг.
// Все записи API приводятся к типам пакета model на границе пакета.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

var (
	// ErrNotConfigured возвращается, если адрес API не задан.
	ErrNotConfigured = errors.New("marketplace client not configured")
	// ErrNotFound возвращается, если API ответил 404 или пустой записью.
	ErrNotFound = errors.New("marketplace: not found")
	// ErrUnavailable возвращается при сетевой ошибке или ответе 5xx.
	ErrUnavailable = errors.New("marketplace: api unavailable")
	// ErrInvalidResponse возвращается, если ответ API не удалось разобрать.
	ErrInvalidResponse = errors.New("marketplace: invalid response")
)

// APIError описывает отказ API с кодом 4xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("marketplace: status %d", e.StatusCode)
	}
	return fmt.Sprintf("marketplace: status %d: %s", e.StatusCode, e.Message)
}

// Client инкапсулирует HTTP-взаимодействие с REST API маркетплейса.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент API по указанному адресу. Нулевой timeout заменяется значением по умолчанию.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
	}
}

// seg экранирует сегмент пути: email и идентификаторы подставляются в URL как есть.
func seg(v string) string {
	return url.PathEscape(v)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, resp.StatusCode, errorMessage(resp.Body))
	case resp.StatusCode >= http.StatusBadRequest:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrInvalidResponse, method, path, err)
	}

	return nil
}

// errorMessage извлекает текст ошибки из {"error": ...} или {"message": ...}, иначе возвращает тело как есть.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	return strings.TrimSpace(string(raw))
}
