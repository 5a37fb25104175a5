// Package handler содержит HTTP-обработчики BFF маркетплейса бытовых услуг.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/homeservices/internal/action"
	"github.com/mmeshcher/homeservices/internal/discovery"
	"github.com/mmeshcher/homeservices/internal/middleware"
	"github.com/mmeshcher/homeservices/internal/model"
	"github.com/mmeshcher/homeservices/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	SignIn(ctx context.Context, idToken string) (model.Session, error)
	SignUp(ctx context.Context, idToken string, u model.User) (model.Session, error)
	ActionStatus(session model.Session, name, subject string) action.Status

	LoadCatalog(ctx context.Context) (*service.Catalog, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Discover(ctx context.Context, c discovery.Criteria, page int) (discovery.Result, error)
	ServiceByID(ctx context.Context, id string) (*model.Service, error)
	MyServices(ctx context.Context, session model.Session) ([]model.Service, error)
	CreateService(ctx context.Context, session model.Session, in service.ServiceInput) (string, error)
	UpdateService(ctx context.Context, session model.Session, id string, in service.ServiceInput) error
	DeleteService(ctx context.Context, session model.Session, id string) error
	CreateCategory(ctx context.Context, c model.Category) (string, error)
	UpdateCategory(ctx context.Context, id string, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateBooking(ctx context.Context, session model.Session, req service.BookingRequest) (*model.Booking, error)
	RequestPaymentIntent(ctx context.Context, amount float64) (string, error)
	Pay(ctx context.Context, session model.Session, req service.PayRequest) (*service.PaymentResult, error)
	ReceiverBookings(ctx context.Context, session model.Session) ([]model.Booking, error)
	ProviderBookings(ctx context.Context, session model.Session) ([]model.Booking, error)
	CompleteBooking(ctx context.Context, session model.Session, bookingID string) (*model.Booking, error)

	SubmitReview(ctx context.Context, session model.Session, bookingID string, rating int, comment string) (*model.Review, error)
	MyReviews(ctx context.Context, session model.Session) ([]model.ReviewEntry, error)
	EditReview(ctx context.Context, session model.Session, serviceID string, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, session model.Session, serviceID string) error

	Balance(ctx context.Context, session model.Session) (float64, error)
	MyWithdrawals(ctx context.Context, session model.Session) ([]model.Withdrawal, error)
	RequestWithdrawal(ctx context.Context, session model.Session, amount float64, method model.PaymentMethod) error
	Withdrawals(ctx context.Context) ([]model.Withdrawal, error)
	DecideWithdrawal(ctx context.Context, id string, status model.WithdrawalStatus) error

	Users(ctx context.Context) ([]model.User, error)
	ChangeRole(ctx context.Context, email string, role model.Role) error
	DeleteUser(ctx context.Context, id string) error
}

// Handler реализует HTTP-обработчики BFF.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	corsOrigins    []string
	metrics        *middleware.Metrics
	metricsHandler http.Handler
}

// Option настраивает Handler.
type Option func(*Handler)

// WithCORS разрешает кросс-доменные запросы с указанных источников.
func WithCORS(origins []string) Option {
	return func(h *Handler) {
		h.corsOrigins = origins
	}
}

// WithMetrics подключает сбор метрик и публикует их обработчиком exposer на /metrics.
func WithMetrics(m *middleware.Metrics, exposer http.Handler) Option {
	return func(h *Handler) {
		h.metrics = m
		h.metricsHandler = exposer
	}
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, opts ...Option) *Handler {
	h := &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func sessionFrom(w http.ResponseWriter, r *http.Request) (model.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return session, ok
}

// fail отвечает статусом, соответствующим ошибке err. Неизвестные ошибки логируются как внутренние.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var paymentErr *service.PaymentError
	if errors.As(err, &paymentErr) {
		writeError(w, http.StatusPaymentRequired, paymentErr.Message)
		return
	}

	if code, ok := statusFor(err); ok {
		if code >= http.StatusInternalServerError {
			h.logger.Error(op+" error", zap.Error(err), zap.String("requestID", middleware.RequestIDFromContext(r.Context())))
		}
		writeError(w, code, err.Error())
		return
	}

	h.logger.Error(op+" error", zap.Error(err), zap.String("requestID", middleware.RequestIDFromContext(r.Context())))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
