// Package payment предоставляет клиент платёжного процессора для оплаты картой
// от имени покупателя: токенизация карты и подтверждение платёжного намерения.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/mmeshcher/homeservices/internal/validation"
)

const (
	// DefaultBaseURL - адрес API процессора по умолчанию.
	DefaultBaseURL = "https://api.stripe.com"

	defaultTimeout = 15 * time.Second
	secretMarker   = "_secret_"
)

// Статусы платёжного намерения.
const (
	StatusSucceeded      = "succeeded"
	StatusProcessing     = "processing"
	StatusRequiresAction = "requires_action"
)

var (
	// ErrNotConfigured возвращается, если не задан публикуемый ключ.
	ErrNotConfigured = errors.New("payment client not configured")
	// ErrInvalidClientSecret возвращается для client secret неизвестного формата.
	ErrInvalidClientSecret = errors.New("invalid payment client secret")
	// ErrInvalidResponse возвращается, если ответ процессора не удалось разобрать.
	ErrInvalidResponse = errors.New("payment: invalid response")
)

// Error - отказ процессора. Message показывается пользователю без изменений.
type Error struct {
	StatusCode  int    `json:"-"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code"`
	Message     string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Intent описывает подтверждённое платёжное намерение.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client инкапсулирует HTTP-взаимодействие с платёжным процессором.
type Client struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
	idempotencyKey func() string
}

// NewClient создаёт клиент процессора. Пустой baseURL заменяется DefaultBaseURL.
func NewClient(baseURL, publishableKey string, timeout time.Duration) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:        base,
		publishableKey: publishableKey,
		httpClient:     httpClient,
		idempotencyKey: uuid.NewString,
	}
}

// IntentID извлекает идентификатор намерения из client secret вида "pi_xxx_secret_yyy".
func IntentID(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, secretMarker)
	if idx <= 0 || idx+len(secretMarker) >= len(clientSecret) {
		return "", ErrInvalidClientSecret
	}
	return clientSecret[:idx], nil
}

// CreatePaymentMethod токенизирует карту и возвращает идентификатор способа оплаты.
func (c *Client) CreatePaymentMethod(ctx context.Context, card validation.Card) (string, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", validation.NormalizeCardNumber(card.Number))
	form.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
	form.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
	form.Set("card[cvc]", card.CVC)

	var res struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/v1/payment_methods", form, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", ErrInvalidResponse
	}
	return res.ID, nil
}

// ConfirmIntent подтверждает намерение способом оплаты paymentMethodID.
func (c *Client) ConfirmIntent(ctx context.Context, clientSecret, paymentMethodID string) (*Intent, error) {
	intentID, err := IntentID(clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", paymentMethodID)
	form.Set("expected_payment_method_type", "card")

	var intent Intent
	if err := c.post(ctx, "/v1/payment_intents/"+url.PathEscape(intentID)+"/confirm", form, &intent); err != nil {
		return nil, err
	}
	if intent.ID == "" {
		intent.ID = intentID
	}

	return &intent, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	if c == nil || c.publishableKey == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.publishableKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", c.idempotencyKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var payload struct {
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != nil && payload.Error.Message != "" {
		payload.Error.StatusCode = resp.StatusCode
		return payload.Error
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("payment processor returned status %d", resp.StatusCode),
	}
}
