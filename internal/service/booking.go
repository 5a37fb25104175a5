package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/homeservices/internal/action"
	"github.com/mmeshcher/homeservices/internal/model"
	"github.com/mmeshcher/homeservices/internal/payment"
	"github.com/mmeshcher/homeservices/internal/validation"
)

// PaymentSuccessRedirect - страница, на которую переходит заказчик после успешной оплаты.
const PaymentSuccessRedirect = "/dashboard/my-bookings"

const compensationTimeout = 5 * time.Second

// Имена действий для action.Tracker.
const (
	ActionPay      = "pay"
	ActionComplete = "complete"
	ActionReview   = "review"
	ActionWithdraw = "withdraw"
)

var (
	// ErrBookingNotFound возвращается, если бронирование не найдено среди бронирований сессии.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingNotPending возвращается при попытке завершить бронирование не в статусе Pending_Work.
	ErrBookingNotPending = errors.New("booking is not pending work")
	// ErrInvalidAmount возвращается для суммы, не превышающей 0.
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrPaymentNotReady возвращается, если платёжное намерение ещё не получено.
	ErrPaymentNotReady = errors.New("payment is not ready: client secret is missing")
	// ErrPaymentIncomplete возвращается, если процессор не подтвердил списание.
	ErrPaymentIncomplete = errors.New("payment was not completed")
)

// PaymentError описывает неудачную оплату. Message - исходный текст ошибки для пользователя.
type PaymentError struct {
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return e.Message
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// BookingRequest содержит поля формы бронирования.
type BookingRequest struct {
	ServiceID    string
	Date         string
	Time         string
	Address      string
	Instructions string
}

// CreateBooking создаёт бронирование в статусе Pending_Work со снимком услуги.
// Возвращённое бронирование передаётся на шаг оплаты.
func (s *Service) CreateBooking(ctx context.Context, session model.Session, req BookingRequest) (*model.Booking, error) {
	if err := validation.BookingForm(req.Date, req.Time, req.Address, s.now()); err != nil {
		return nil, err
	}

	svc, err := s.api.Service(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	booking := model.Booking{
		ServiceID:            svc.ID,
		ProviderID:           svc.ProviderID,
		UserID:               session.UserID,
		ServiceProviderEmail: svc.Email,
		ServiceReceiverEmail: session.Email,
		ServiceReceiverName:  session.Name,
		ServiceDetails: model.ServiceDetails{
			Title:    svc.Title,
			Category: svc.Category,
			Price:    svc.Price,
			Image:    svc.Image,
		},
		Date:         strings.TrimSpace(req.Date),
		Time:         req.Time,
		Address:      strings.TrimSpace(req.Address),
		Instructions: req.Instructions,
		TotalAmount:  svc.Price,
		Status:       model.BookingPendingWork,
	}

	id, err := s.api.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	booking.ID = id

	return &booking, nil
}

// RequestPaymentIntent запрашивает платёжное намерение на сумму amount и возвращает client secret.
func (s *Service) RequestPaymentIntent(ctx context.Context, amount float64) (string, error) {
	if !(amount > 0) {
		return "", ErrInvalidAmount
	}

	secret, err := s.api.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return secret, nil
}

// PayRequest содержит данные шага оплаты. Бронирование передаётся только идентификатором.
type PayRequest struct {
	BookingID    string
	ClientSecret string
	Card         validation.Card
}

// PaymentResult описывает успешную оплату.
type PaymentResult struct {
	BookingID       string              `json:"bookingId"`
	PaymentIntentID string              `json:"paymentIntentId"`
	Status          model.BookingStatus `json:"status"`
	Redirect        string              `json:"redirect"`
}

// Pay проводит оплату бронирования: токенизация карты, подтверждение намерения,
// привязка платежа к бронированию и запись в журнал платежей.
// Бронирование ищется среди бронирований заказчика сессии, сумма и исполнитель берутся из найденной записи.
// При ошибке списания бронирование помечается Payment_Failed, а пользователю возвращается исходная ошибка.
func (s *Service) Pay(ctx context.Context, session model.Session, req PayRequest) (*PaymentResult, error) {
	if req.ClientSecret == "" {
		return nil, ErrPaymentNotReady
	}
	if req.BookingID == "" {
		return nil, ErrBookingNotFound
	}

	var result *PaymentResult
	err := s.actions.Run(ctx, actionKey(session, ActionPay, req.BookingID), func(ctx context.Context) error {
		bookings, err := s.api.BookingsByReceiver(ctx, session.Email)
		if err != nil {
			return fmt.Errorf("load receiver bookings: %w", err)
		}

		b, ok := findBooking(bookings, req.BookingID)
		if !ok {
			return ErrBookingNotFound
		}
		if !b.Status.CanTransitionTo(model.BookingPendingWork) {
			return ErrBookingNotPending
		}

		res, err := s.charge(ctx, b, req)
		if err != nil {
			s.markPaymentFailed(ctx, b.ID)
			return &PaymentError{Message: err.Error(), Err: err}
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) charge(ctx context.Context, b model.Booking, req PayRequest) (*PaymentResult, error) {
	if err := validation.ValidateCard(req.Card, s.now()); err != nil {
		return nil, err
	}

	methodID, err := s.processor.CreatePaymentMethod(ctx, req.Card)
	if err != nil {
		return nil, err
	}

	intent, err := s.processor.ConfirmIntent(ctx, req.ClientSecret, methodID)
	if err != nil {
		return nil, err
	}
	if intent.Status != payment.StatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentIncomplete, intent.Status)
	}

	if err := s.api.PatchBooking(ctx, b.ID, intent.ID, model.BookingPendingWork); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	rec := model.PaymentRecord{
		ServiceProviderEmail: b.ServiceProviderEmail,
		BookingID:            b.ID,
		PaymentIntentID:      intent.ID,
		Amount:               b.TotalAmount,
		Status:               "completed",
	}
	if err := s.api.RecordPayment(ctx, rec); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	return &PaymentResult{
		BookingID:       b.ID,
		PaymentIntentID: intent.ID,
		Status:          model.BookingPendingWork,
		Redirect:        PaymentSuccessRedirect,
	}, nil
}

// markPaymentFailed выполняет компенсирующую запись. Её ошибка только логируется.
func (s *Service) markPaymentFailed(ctx context.Context, bookingID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := s.api.PatchBooking(ctx, bookingID, "", model.BookingPaymentFailed); err != nil {
		s.logger.Warn("mark booking payment failed error", zap.Error(err), zap.String("bookingID", bookingID))
	}
}

// ReceiverBookings возвращает бронирования заказчика текущей сессии.
func (s *Service) ReceiverBookings(ctx context.Context, session model.Session) ([]model.Booking, error) {
	return s.api.BookingsByReceiver(ctx, session.Email)
}

// ProviderBookings возвращает бронирования услуг исполнителя текущей сессии.
func (s *Service) ProviderBookings(ctx context.Context, session model.Session) ([]model.Booking, error) {
	return s.api.BookingsByProvider(ctx, session.Email)
}

// CompleteBooking переводит бронирование исполнителя в Completed и зачисляет сумму на баланс исполнителя.
// Статус проверяется по свежему списку бронирований исполнителя.
func (s *Service) CompleteBooking(ctx context.Context, session model.Session, bookingID string) (*model.Booking, error) {
	var completed *model.Booking

	err := s.actions.Run(ctx, actionKey(session, ActionComplete, bookingID), func(ctx context.Context) error {
		bookings, err := s.api.BookingsByProvider(ctx, session.Email)
		if err != nil {
			return fmt.Errorf("load provider bookings: %w", err)
		}

		b, ok := findBooking(bookings, bookingID)
		if !ok {
			return ErrBookingNotFound
		}
		if !b.Status.CanComplete() {
			return ErrBookingNotPending
		}

		if err := s.api.UpdateBookingStatus(ctx, bookingID, model.BookingCompleted); err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}
		b.Status = model.BookingCompleted

		if err := s.api.CreditBalance(ctx, session.Email, b.TotalAmount); err != nil {
			s.logger.Error("credit provider balance error",
				zap.Error(err),
				zap.String("bookingID", bookingID),
				zap.String("provider", session.Email),
				zap.Float64("amount", b.TotalAmount),
			)
			return fmt.Errorf("credit balance: %w", err)
		}

		completed = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}

func findBooking(bookings []model.Booking, id string) (model.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

// IsInFlight сообщает, что действие отклонено, так как предыдущий запуск ещё выполняется.
func IsInFlight(err error) bool {
	return errors.Is(err, action.ErrInFlight)
}
