// Package service реализует бизнес-логику маркетплейса бытовых услуг поверх REST API
// маркетплейса и платёжного процессора.
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

// Marketplace описывает контракт REST API маркетплейса, используемый сервисом.
type Marketplace interface {
	Categories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) (string, error)
	UpdateCategory(ctx context.Context, id string, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	Services(ctx context.Context) ([]model.Service, error)
	ServicesByProvider(ctx context.Context, email string) ([]model.Service, error)
	Service(ctx context.Context, id string) (*model.Service, error)
	CreateService(ctx context.Context, s model.Service) (string, error)
	UpdateService(ctx context.Context, id string, s model.Service) error
	DeleteService(ctx context.Context, id string) error
	ReplaceReviews(ctx context.Context, serviceID string, reviews []model.Review) error
	ReviewsByReviewer(ctx context.Context, email string) ([]model.ReviewEntry, error)

	CreateBooking(ctx context.Context, b model.Booking) (string, error)
	PatchBooking(ctx context.Context, id, paymentID string, status model.BookingStatus) error
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error
	BookingsByReceiver(ctx context.Context, email string) ([]model.Booking, error)
	BookingsByProvider(ctx context.Context, email string) ([]model.Booking, error)
	CreatePaymentIntent(ctx context.Context, amount float64) (string, error)
	RecordPayment(ctx context.Context, rec model.PaymentRecord) error

	Users(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, u model.User) error
	IsAdmin(ctx context.Context, email string) (bool, error)
	IsProvider(ctx context.Context, email string) (bool, error)
	UpdateUserRole(ctx context.Context, email string, role model.Role) error
	DeleteUser(ctx context.Context, id string) error
	Balance(ctx context.Context, email string) (float64, error)
	CreditBalance(ctx context.Context, email string, amount float64) error

	Withdrawals(ctx context.Context) ([]model.Withdrawal, error)
	WithdrawalsByUser(ctx context.Context, email string) ([]model.Withdrawal, error)
	CreateWithdrawal(ctx context.Context, email string, amount float64, method model.PaymentMethod) error
	UpdateWithdrawalStatus(ctx context.Context, id string, status model.WithdrawalStatus) error
}

// Processor описывает контракт платёжного процессора.
type Processor interface {
	CreatePaymentMethod(ctx context.Context, card validation.Card) (string, error)
	ConfirmIntent(ctx context.Context, clientSecret, paymentMethodID string) (*payment.Intent, error)
}

// IdentityVerifier проверяет ID-токен провайдера идентификации и возвращает подтверждённый email.
type IdentityVerifier interface {
	VerifiedEmail(ctx context.Context, idToken string) (string, error)
}

var (
	// ErrForbidden возвращается, если у сессии нет прав на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownUser возвращается при входе пользователя, не зарегистрированного в API.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidSignUp возвращается для неполных данных регистрации.
	ErrInvalidSignUp = errors.New("name and a provider or receiver role are required")
	// ErrInvalidRole возвращается для неизвестной роли.
	ErrInvalidRole = errors.New("invalid role")
)

// Service содержит бизнес-логику маркетплейса.
type Service struct {
	api       Marketplace
	processor Processor
	identity  IdentityVerifier
	actions   *action.Tracker
	logger    *zap.Logger
	now       func() time.Time
}

// NewService создаёт сервис поверх клиента API, платёжного процессора и проверки ID-токенов.
func NewService(api Marketplace, processor Processor, identity IdentityVerifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		processor: processor,
		identity:  identity,
		actions:   action.NewTracker(),
		logger:    logger,
		now:       time.Now,
	}
}

// ActionStatus возвращает состояние действия name над объектом subject в рамках сессии.
func (s *Service) ActionStatus(session model.Session, name, subject string) action.Status {
	return s.actions.Status(actionKey(session, name, subject))
}

func actionKey(session model.Session, name, subject string) action.Key {
	return action.Key{Name: name, Subject: session.Email + "/" + subject}
}

// SignIn проверяет ID-токен, определяет роль пользователя с подтверждённым email и возвращает сессию.
func (s *Service) SignIn(ctx context.Context, idToken string) (model.Session, error) {
	email, err := s.identity.VerifiedEmail(ctx, idToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("verify identity: %w", err)
	}
	return s.lookupSession(ctx, email)
}

// RefreshSession заново читает пользователя и его роль из API.
// Так изменение роли администратором доходит до уже выданных сессий.
func (s *Service) RefreshSession(ctx context.Context, session model.Session) (model.Session, error) {
	return s.lookupSession(ctx, session.Email)
}

func (s *Service) lookupSession(ctx context.Context, email string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Session{}, ErrUnknownUser
	}

	user, err := s.api.User(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return model.Session{}, ErrUnknownUser
		}
		return model.Session{}, fmt.Errorf("get user: %w", err)
	}

	role, err := s.resolveRole(ctx, email)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{UserID: user.ID, Email: user.Email, Name: user.Name, Role: role}, nil
}

func (s *Service) resolveRole(ctx context.Context, email string) (model.Role, error) {
	admin, err := s.api.IsAdmin(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check admin: %w", err)
	}
	if admin {
		return model.RoleAdmin, nil
	}

	provider, err := s.api.IsProvider(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check provider: %w", err)
	}
	if provider {
		return model.RoleProvider, nil
	}

	return model.RoleReceiver, nil
}

// SignUp регистрирует исполнителя или заказчика и возвращает его сессию.
// Email берётся из проверенного ID-токена, а не из формы.
func (s *Service) SignUp(ctx context.Context, idToken string, u model.User) (model.Session, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" || (u.Role != model.RoleProvider && u.Role != model.RoleReceiver) {
		return model.Session{}, ErrInvalidSignUp
	}

	email, err := s.identity.VerifiedEmail(ctx, idToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("verify identity: %w", err)
	}
	u.Email = email

	if err := s.api.CreateUser(ctx, u); err != nil {
		return model.Session{}, fmt.Errorf("create user: %w", err)
	}

	return model.Session{Email: u.Email, Name: u.Name, Role: u.Role}, nil
}
