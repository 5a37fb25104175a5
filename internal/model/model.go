// Package model содержит доменные сущности маркетплейса бытовых услуг.
package model

// Role описывает роль пользователя маркетплейса.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleProvider Role = "provider"
	RoleReceiver Role = "receiver"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleReceiver:
		return true
	}
	return false
}

// Session описывает контекст аутентифицированного пользователя.
type Session struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// User представляет зарегистрированного пользователя маркетплейса.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Role  Role   `json:"role"`
}

// Review описывает отзыв заказчика об услуге.
type Review struct {
	ReviewerEmail string `json:"reviewerEmail"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
}

// Service описывает услугу, опубликованную исполнителем.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Duration    string   `json:"duration,omitempty"`
	Image       string   `json:"image,omitempty"`
	Location    string   `json:"location,omitempty"`
	Features    []string `json:"features,omitempty"`
	IsPopular   bool     `json:"isPopular"`
	Reviews     []Review `json:"reviews"`
	Email       string   `json:"email"`
	Provider    string   `json:"provider,omitempty"`
	ProviderID  string   `json:"providerId,omitempty"`
}

// Category описывает категорию услуг. Service.Category ссылается на Name.
type Category struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Icon            string   `json:"icon,omitempty"`
	PopularServices []string `json:"popularServices,omitempty"`
	Image           string   `json:"image,omitempty"`
}

// ServiceDetails содержит снимок услуги на момент бронирования.
type ServiceDetails struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// Booking описывает бронирование услуги.
type Booking struct {
	ID                   string         `json:"id"`
	ServiceID            string         `json:"serviceId"`
	ProviderID           string         `json:"providerId,omitempty"`
	UserID               string         `json:"userId,omitempty"`
	ServiceProviderEmail string         `json:"serviceProviderEmail"`
	ServiceReceiverEmail string         `json:"serviceReceiverEmail"`
	ServiceReceiverName  string         `json:"serviceReceiverName"`
	ServiceDetails       ServiceDetails `json:"serviceDetails"`
	Date                 string         `json:"date"`
	Time                 string         `json:"time"`
	Address              string         `json:"address"`
	Instructions         string         `json:"instructions,omitempty"`
	TotalAmount          float64        `json:"totalAmount"`
	Status               BookingStatus  `json:"status"`
	PaymentID            *string        `json:"paymentId"`
}

// PaymentRecord описывает запись об успешном платеже.
type PaymentRecord struct {
	ServiceProviderEmail string  `json:"serviceProviderEmail"`
	BookingID            string  `json:"bookingId"`
	PaymentIntentID      string  `json:"paymentIntentId"`
	Amount               float64 `json:"amount"`
	Status               string  `json:"status"`
}

// ReviewEntry описывает отзыв пользователя вместе с услугой, к которой он относится.
type ReviewEntry struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Review      Review `json:"review"`
}

// PaymentMethod описывает способ вывода средств.
type PaymentMethod string

const (
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodVenmo  PaymentMethod = "venmo"
)

// Valid сообщает, поддерживается ли способ вывода.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBank, PaymentMethodPayPal, PaymentMethodVenmo:
		return true
	}
	return false
}

// Withdrawal описывает запрос исполнителя на вывод средств.
type Withdrawal struct {
	ID            string           `json:"id"`
	Email         string           `json:"email"`
	Name          string           `json:"name,omitempty"`
	Amount        float64          `json:"amount"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Status        WithdrawalStatus `json:"status"`
	CreatedAt     string           `json:"createdAt,omitempty"`
}
