package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mmeshcher/homeservices/internal/marketplace"
	"github.com/mmeshcher/homeservices/internal/model"
	"github.com/mmeshcher/homeservices/internal/payment"
	"github.com/mmeshcher/homeservices/internal/validation"
)

type patchCall struct {
	id        string
	paymentID string
	status    model.BookingStatus
}

// fakeAPI хранит состояние REST API в памяти.
type fakeAPI struct {
	mu sync.Mutex

	categories   []model.Category
	services     map[string]*model.Service
	serviceOrder []string
	bookings     map[string]*model.Booking
	users        map[string]model.User
	admins       map[string]bool
	providers    map[string]bool
	balances     map[string]float64
	withdrawals  []model.Withdrawal
	payments     []model.PaymentRecord

	patches  []patchCall
	credits  []float64
	nextID   int
	secret   string
	failOn   map[string]error
	replaced int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		services:  make(map[string]*model.Service),
		bookings:  make(map[string]*model.Booking),
		users:     make(map[string]model.User),
		admins:    make(map[string]bool),
		providers: make(map[string]bool),
		balances:  make(map[string]float64),
		failOn:    make(map[string]error),
		secret:    "pi_1_secret_x",
	}
}

func (f *fakeAPI) fail(op string) error {
	return f.failOn[op]
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeAPI) Categories(ctx context.Context) ([]model.Category, error) {
	if err := f.fail("Categories"); err != nil {
		return nil, err
	}
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeAPI) CreateCategory(ctx context.Context, c model.Category) (string, error) {
	c.ID = f.id("c")
	f.categories = append(f.categories, c)
	return c.ID, nil
}

func (f *fakeAPI) UpdateCategory(ctx context.Context, id string, c model.Category) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			c.ID = id
			f.categories[i] = c
			return nil
		}
	}
	return marketplace.ErrNotFound
}

func (f *fakeAPI) DeleteCategory(ctx context.Context, id string) error {
	return nil
}

func (f *fakeAPI) Services(ctx context.Context) ([]model.Service, error) {
	if err := f.fail("Services"); err != nil {
		return nil, err
	}
	out := make([]model.Service, 0, len(f.services))
	for _, id := range f.serviceOrder {
		if s, ok := f.services[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeAPI) ServicesByProvider(ctx context.Context, email string) ([]model.Service, error) {
	var out []model.Service
	for _, s := range f.services {
		if s.Email == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeAPI) Service(ctx context.Context, id string) (*model.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, marketplace.ErrNotFound
	}
	cp := *s
	cp.Reviews = append([]model.Review(nil), s.Reviews...)
	return &cp, nil
}

func (f *fakeAPI) CreateService(ctx context.Context, s model.Service) (string, error) {
	s.ID = f.id("s")
	f.services[s.ID] = &s
	f.serviceOrder = append(f.serviceOrder, s.ID)
	return s.ID, nil
}

func (f *fakeAPI) UpdateService(ctx context.Context, id string, s model.Service) error {
	s.ID = id
	f.services[id] = &s
	return nil
}

func (f *fakeAPI) DeleteService(ctx context.Context, id string) error {
	delete(f.services, id)
	return nil
}

func (f *fakeAPI) ReplaceReviews(ctx context.Context, serviceID string, reviews []model.Review) error {
	if err := f.fail("ReplaceReviews"); err != nil {
		return err
	}
	s, ok := f.services[serviceID]
	if !ok {
		return marketplace.ErrNotFound
	}
	s.Reviews = reviews
	f.replaced++
	return nil
}

func (f *fakeAPI) ReviewsByReviewer(ctx context.Context, email string) ([]model.ReviewEntry, error) {
	var out []model.ReviewEntry
	for _, s := range f.services {
		for _, r := range s.Reviews {
			if r.ReviewerEmail == email {
				out = append(out, model.ReviewEntry{ServiceID: s.ID, ServiceName: s.Title, Review: r})
			}
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, b model.Booking) (string, error) {
	if err := f.fail("CreateBooking"); err != nil {
		return "", err
	}
	b.ID = f.id("b")
	f.bookings[b.ID] = &b
	return b.ID, nil
}

func (f *fakeAPI) PatchBooking(ctx context.Context, id, paymentID string, status model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patches = append(f.patches, patchCall{id: id, paymentID: paymentID, status: status})
	if err := f.fail("PatchBooking:" + string(status)); err != nil {
		return err
	}
	if b, ok := f.bookings[id]; ok {
		b.Status = status
		if paymentID != "" {
			b.PaymentID = &paymentID
		}
	}
	return nil
}

func (f *fakeAPI) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return marketplace.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeAPI) BookingsByReceiver(ctx context.Context, email string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.ServiceReceiverEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeAPI) BookingsByProvider(ctx context.Context, email string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.ServiceProviderEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreatePaymentIntent(ctx context.Context, amount float64) (string, error) {
	return f.secret, nil
}

func (f *fakeAPI) RecordPayment(ctx context.Context, rec model.PaymentRecord) error {
	if err := f.fail("RecordPayment"); err != nil {
		return err
	}
	f.payments = append(f.payments, rec)
	return nil
}

func (f *fakeAPI) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeAPI) User(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, marketplace.ErrNotFound
	}
	return &u, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, u model.User) error {
	u.ID = f.id("u")
	f.users[u.Email] = u
	return nil
}

func (f *fakeAPI) IsAdmin(ctx context.Context, email string) (bool, error) {
	return f.admins[email], nil
}

func (f *fakeAPI) IsProvider(ctx context.Context, email string) (bool, error) {
	return f.providers[email], nil
}

func (f *fakeAPI) UpdateUserRole(ctx context.Context, email string, role model.Role) error {
	u, ok := f.users[email]
	if !ok {
		return marketplace.ErrNotFound
	}
	u.Role = role
	f.users[email] = u
	return nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id string) error {
	return nil
}

func (f *fakeAPI) Balance(ctx context.Context, email string) (float64, error) {
	return f.balances[email], nil
}

func (f *fakeAPI) CreditBalance(ctx context.Context, email string, amount float64) error {
	f.credits = append(f.credits, amount)
	f.balances[email] += amount
	return nil
}

func (f *fakeAPI) Withdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	return append([]model.Withdrawal(nil), f.withdrawals...), nil
}

func (f *fakeAPI) WithdrawalsByUser(ctx context.Context, email string) ([]model.Withdrawal, error) {
	var out []model.Withdrawal
	for _, w := range f.withdrawals {
		if w.Email == email {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateWithdrawal(ctx context.Context, email string, amount float64, method model.PaymentMethod) error {
	f.withdrawals = append(f.withdrawals, model.Withdrawal{
		ID:            f.id("w"),
		Email:         email,
		Amount:        amount,
		PaymentMethod: method,
		Status:        model.WithdrawalPending,
	})
	return nil
}

func (f *fakeAPI) UpdateWithdrawalStatus(ctx context.Context, id string, status model.WithdrawalStatus) error {
	for i := range f.withdrawals {
		if f.withdrawals[i].ID == id {
			f.withdrawals[i].Status = status
			return nil
		}
	}
	return marketplace.ErrNotFound
}

type stubProcessor struct {
	methodID   string
	methodErr  error
	intent     *payment.Intent
	confirmErr error

	methodCalls  int
	confirmCalls int
	block        chan struct{}
}

func (p *stubProcessor) CreatePaymentMethod(ctx context.Context, card validation.Card) (string, error) {
	p.methodCalls++
	if p.block != nil {
		<-p.block
	}
	return p.methodID, p.methodErr
}

func (p *stubProcessor) ConfirmIntent(ctx context.Context, clientSecret, paymentMethodID string) (*payment.Intent, error) {
	p.confirmCalls++
	return p.intent, p.confirmErr
}

// stubIdentity принимает токены вида "token:<email>".
type stubIdentity struct{}

func (stubIdentity) VerifiedEmail(ctx context.Context, idToken string) (string, error) {
	email, ok := strings.CutPrefix(idToken, "token:")
	if !ok || email == "" {
		return "", errInvalidTestToken
	}
	return email, nil
}

var errInvalidTestToken = errors.New("invalid identity token")
