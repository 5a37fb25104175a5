package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mmeshcher/homeservices/internal/model"
)

// objectID принимает идентификатор как строку или как {"$oid": "..."}.
type objectID string

func (id *objectID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = objectID(s)
		return nil
	}

	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(b, &oid); err != nil {
		return fmt.Errorf("decode id %s: %w", b, err)
	}
	*id = objectID(oid.OID)
	return nil
}

// number принимает число как JSON-число, строку или расширенный JSON
// ({"$numberInt": "..."}, {"$numberDouble": "..."}, {"$numberDecimal": "..."}).
// Отсутствующее значение и пустая строка дают 0.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode number %s: %w", b, err)
		}
		return n.parse(s)
	case '{':
		var ext map[string]string
		if err := json.Unmarshal(b, &ext); err != nil {
			return fmt.Errorf("decode number %s: %w", b, err)
		}
		for _, key := range []string{"$numberDecimal", "$numberDouble", "$numberInt", "$numberLong"} {
			if v, ok := ext[key]; ok {
				return n.parse(v)
			}
		}
		return fmt.Errorf("decode number %s: unsupported shape", b)
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode number %s: %w", b, err)
	}
	*n = number(f)
	return nil
}

func (n *number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("decode number %q: not a finite number", s)
	}
	*n = number(f)
	return nil
}

// text принимает строку или число и хранит его строковое представление.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode text %s: %w", b, err)
		}
		*t = text(s)
		return nil
	}
	*t = text(b)
	return nil
}

type wireReview struct {
	ReviewerEmail string `json:"reviewerEmail"`
	Rating        number `json:"rating"`
	Comment       string `json:"comment"`
	Date          text   `json:"date"`
}

// maxReviewRating ограничивает оценку из API. Отсутствующая оценка остаётся 0.
const maxReviewRating = 5

func (r wireReview) toModel() model.Review {
	rating := int(math.Round(float64(r.Rating)))
	return model.Review{
		ReviewerEmail: r.ReviewerEmail,
		Rating:        min(max(rating, 0), maxReviewRating),
		Comment:       r.Comment,
		Date:          string(r.Date),
	}
}

func reviewsToModel(in []wireReview) []model.Review {
	out := make([]model.Review, 0, len(in))
	for _, r := range in {
		out = append(out, r.toModel())
	}
	return out
}

type wireService struct {
	ID          objectID     `json:"_id"`
	Title       string       `json:"title"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Price       number       `json:"price"`
	Duration    text         `json:"duration"`
	Image       string       `json:"image"`
	Location    string       `json:"location"`
	Features    []string     `json:"features"`
	IsPopular   bool         `json:"isPopular"`
	Reviews     []wireReview `json:"reviews"`
	Email       string       `json:"email"`
	Provider    string       `json:"provider"`
	ProviderID  objectID     `json:"providerId"`
}

func (s wireService) toModel() model.Service {
	title := s.Title
	if title == "" {
		title = s.Name
	}
	features := s.Features
	if features == nil {
		features = []string{}
	}
	return model.Service{
		ID:          string(s.ID),
		Title:       title,
		Category:    s.Category,
		Description: s.Description,
		Price:       float64(s.Price),
		Duration:    string(s.Duration),
		Image:       s.Image,
		Location:    s.Location,
		Features:    features,
		IsPopular:   s.IsPopular,
		Reviews:     reviewsToModel(s.Reviews),
		Email:       s.Email,
		Provider:    s.Provider,
		ProviderID:  string(s.ProviderID),
	}
}

// serviceBody - тело запроса на создание или изменение услуги.
type serviceBody struct {
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Duration    string         `json:"duration,omitempty"`
	Image       string         `json:"image,omitempty"`
	Location    string         `json:"location,omitempty"`
	Features    []string       `json:"features"`
	IsPopular   bool           `json:"isPopular"`
	Reviews     []model.Review `json:"reviews,omitempty"`
	Email       string         `json:"email,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	ProviderID  string         `json:"providerId,omitempty"`
}

func newServiceBody(s model.Service) serviceBody {
	features := s.Features
	if features == nil {
		features = []string{}
	}
	return serviceBody{
		Title:       s.Title,
		Category:    s.Category,
		Description: s.Description,
		Price:       s.Price,
		Duration:    s.Duration,
		Image:       s.Image,
		Location:    s.Location,
		Features:    features,
		IsPopular:   s.IsPopular,
		Reviews:     s.Reviews,
		Email:       s.Email,
		Provider:    s.Provider,
		ProviderID:  s.ProviderID,
	}
}

type wireCategory struct {
	ID              objectID `json:"_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	PopularServices []string `json:"popularServices"`
	Image           string   `json:"image"`
}

func (c wireCategory) toModel() model.Category {
	return model.Category{
		ID:              string(c.ID),
		Name:            c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		PopularServices: c.PopularServices,
		Image:           c.Image,
	}
}

type categoryBody struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Icon            string   `json:"icon,omitempty"`
	PopularServices []string `json:"popularServices,omitempty"`
	Image           string   `json:"image,omitempty"`
}

func newCategoryBody(c model.Category) categoryBody {
	return categoryBody{
		Name:            c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		PopularServices: c.PopularServices,
		Image:           c.Image,
	}
}

type wireDetails struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    number `json:"price"`
	Image    string `json:"image"`
}

// wireBooking принимает поля получателя в обоих написаниях:
// serviceRecieverEmail встречается в данных API, serviceReceiverEmail - в исправленных записях.
type wireBooking struct {
	ID                   objectID    `json:"_id"`
	ServiceID            objectID    `json:"serviceId"`
	ProviderID           objectID    `json:"providerId"`
	UserID               objectID    `json:"userId"`
	ServiceProviderEmail string      `json:"serviceProviderEmail"`
	ReceiverEmail        string      `json:"serviceReceiverEmail"`
	RecieverEmail        string      `json:"serviceRecieverEmail"`
	ReceiverName         string      `json:"serviceReceiverName"`
	RecieverName         string      `json:"serviceRecieverName"`
	ServiceDetails       wireDetails `json:"serviceDetails"`
	Date                 text        `json:"date"`
	Time                 text        `json:"time"`
	Address              string      `json:"address"`
	Instructions         string      `json:"instructions"`
	TotalAmount          number      `json:"totalAmount"`
	Status               string      `json:"status"`
	PaymentID            *string     `json:"paymentId"`
}

func (b wireBooking) toModel() model.Booking {
	email := b.ReceiverEmail
	if email == "" {
		email = b.RecieverEmail
	}
	name := b.ReceiverName
	if name == "" {
		name = b.RecieverName
	}
	return model.Booking{
		ID:                   string(b.ID),
		ServiceID:            string(b.ServiceID),
		ProviderID:           string(b.ProviderID),
		UserID:               string(b.UserID),
		ServiceProviderEmail: b.ServiceProviderEmail,
		ServiceReceiverEmail: email,
		ServiceReceiverName:  name,
		ServiceDetails: model.ServiceDetails{
			Title:    b.ServiceDetails.Title,
			Category: b.ServiceDetails.Category,
			Price:    float64(b.ServiceDetails.Price),
			Image:    b.ServiceDetails.Image,
		},
		Date:         string(b.Date),
		Time:         string(b.Time),
		Address:      b.Address,
		Instructions: b.Instructions,
		TotalAmount:  float64(b.TotalAmount),
		Status:       model.BookingStatus(b.Status),
		PaymentID:    b.PaymentID,
	}
}

// bookingBody повторяет написание полей, принятое в API.
type bookingBody struct {
	ServiceID            string               `json:"serviceId"`
	ProviderID           string               `json:"providerId,omitempty"`
	UserID               string               `json:"userId,omitempty"`
	ServiceProviderEmail string               `json:"serviceProviderEmail"`
	ServiceRecieverEmail string               `json:"serviceRecieverEmail"`
	ServiceRecieverName  string               `json:"serviceRecieverName"`
	ServiceDetails       model.ServiceDetails `json:"serviceDetails"`
	Date                 string               `json:"date"`
	Time                 string               `json:"time"`
	Address              string               `json:"address"`
	Instructions         string               `json:"instructions"`
	TotalAmount          float64              `json:"totalAmount"`
	Status               model.BookingStatus  `json:"status"`
	PaymentID            *string              `json:"paymentId"`
}

func newBookingBody(b model.Booking) bookingBody {
	return bookingBody{
		ServiceID:            b.ServiceID,
		ProviderID:           b.ProviderID,
		UserID:               b.UserID,
		ServiceProviderEmail: b.ServiceProviderEmail,
		ServiceRecieverEmail: b.ServiceReceiverEmail,
		ServiceRecieverName:  b.ServiceReceiverName,
		ServiceDetails:       b.ServiceDetails,
		Date:                 b.Date,
		Time:                 b.Time,
		Address:              b.Address,
		Instructions:         b.Instructions,
		TotalAmount:          b.TotalAmount,
		Status:               b.Status,
		PaymentID:            b.PaymentID,
	}
}

type wireUser struct {
	ID    objectID `json:"_id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Photo string   `json:"photo"`
	Role  string   `json:"role"`
}

func (u wireUser) toModel() model.User {
	return model.User{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
		Photo: u.Photo,
		Role:  model.Role(u.Role),
	}
}

type wireWithdrawal struct {
	ID            objectID `json:"_id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Amount        number   `json:"amount"`
	PaymentMethod string   `json:"paymentMethod"`
	Status        string   `json:"status"`
	CreatedAt     text     `json:"createdAt"`
}

func (w wireWithdrawal) toModel() model.Withdrawal {
	return model.Withdrawal{
		ID:            string(w.ID),
		Email:         w.Email,
		Name:          w.Name,
		Amount:        float64(w.Amount),
		PaymentMethod: model.PaymentMethod(w.PaymentMethod),
		Status:        model.WithdrawalStatus(w.Status),
		CreatedAt:     string(w.CreatedAt),
	}
}

type wireReviewEntry struct {
	ServiceID   objectID   `json:"serviceId"`
	ServiceName string     `json:"serviceName"`
	Review      wireReview `json:"review"`
}

type insertResult struct {
	InsertedID objectID `json:"insertedId"`
}
