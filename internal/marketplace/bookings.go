package marketplace

import (
	"context"
	"net/http"

	"github.com/mmeshcher/homeservices/internal/model"
)

// CreateBooking создаёт бронирование и возвращает его идентификатор.
func (c *Client) CreateBooking(ctx context.Context, b model.Booking) (string, error) {
	var res insertResult
	if err := c.do(ctx, http.MethodPost, "/bookings", newBookingBody(b), &res); err != nil {
		return "", err
	}
	if res.InsertedID == "" {
		return "", ErrInvalidResponse
	}
	return string(res.InsertedID), nil
}

type bookingPatch struct {
	PaymentID *string             `json:"paymentId,omitempty"`
	Status    model.BookingStatus `json:"status"`
}

// PatchBooking частично обновляет бронирование. Пустой paymentID не отправляется.
func (c *Client) PatchBooking(ctx context.Context, id, paymentID string, status model.BookingStatus) error {
	body := bookingPatch{Status: status}
	if paymentID != "" {
		body.PaymentID = &paymentID
	}
	return c.do(ctx, http.MethodPatch, "/bookings/"+seg(id), body, nil)
}

// UpdateBookingStatus меняет статус бронирования.
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	body := struct {
		Status model.BookingStatus `json:"status"`
	}{Status: status}

	return c.do(ctx, http.MethodPut, "/bookings/"+seg(id)+"/status", body, nil)
}

// BookingsByReceiver возвращает бронирования заказчика.
func (c *Client) BookingsByReceiver(ctx context.Context, email string) ([]model.Booking, error) {
	return c.bookings(ctx, "/bookings/receiver/"+seg(email))
}

// BookingsByProvider возвращает бронирования услуг исполнителя.
func (c *Client) BookingsByProvider(ctx context.Context, email string) ([]model.Booking, error) {
	return c.bookings(ctx, "/bookings/provider-email/"+seg(email))
}

func (c *Client) bookings(ctx context.Context, path string) ([]model.Booking, error) {
	var wire []wireBooking
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Booking, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreatePaymentIntent запрашивает платёжное намерение на указанную сумму и возвращает его client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount float64) (string, error) {
	body := struct {
		Amount float64 `json:"amount"`
	}{Amount: amount}

	var res struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments/intent", body, &res); err != nil {
		return "", err
	}
	if res.ClientSecret == "" {
		return "", ErrInvalidResponse
	}
	return res.ClientSecret, nil
}

// RecordPayment сохраняет запись об успешном платеже.
func (c *Client) RecordPayment(ctx context.Context, rec model.PaymentRecord) error {
	return c.do(ctx, http.MethodPost, "/payments", rec, nil)
}
