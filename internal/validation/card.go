package validation

import (
	"errors"
	"time"
	"unicode"
)

var (
	// ErrInvalidCardNumber возвращается для номера карты, не прошедшего проверку.
	ErrInvalidCardNumber = errors.New("card number is invalid")
	// ErrInvalidExpiry возвращается для некорректного срока действия карты.
	ErrInvalidExpiry = errors.New("card expiration date is invalid")
	// ErrCardExpired возвращается для карты с истёкшим сроком действия.
	ErrCardExpired = errors.New("card expiration date is in the past")
	// ErrInvalidCVC возвращается для некорректного кода безопасности.
	ErrInvalidCVC = errors.New("card security code is invalid")
)

// Card содержит данные карты, введённые пользователем.
type Card struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// ValidateCard проверяет номер, срок действия и код безопасности карты.
// Двузначный год трактуется как 20YY.
func ValidateCard(c Card, now time.Time) error {
	if !IsValidCardNumber(c.Number) {
		return ErrInvalidCardNumber
	}

	year := c.ExpYear
	if year >= 0 && year < 100 {
		year += 2000
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 || year < 2000 {
		return ErrInvalidExpiry
	}
	// Карта действует до конца месяца истечения.
	expiresAt := time.Date(year, time.Month(c.ExpMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.UTC().Before(expiresAt) {
		return ErrCardExpired
	}

	if len(c.CVC) < 3 || len(c.CVC) > 4 {
		return ErrInvalidCVC
	}
	for _, r := range c.CVC {
		if !unicode.IsDigit(r) {
			return ErrInvalidCVC
		}
	}

	return nil
}
