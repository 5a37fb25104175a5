package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// ErrMissingDate возвращается, если не выбрана дата бронирования.
	ErrMissingDate = errors.New("date is required")
	// ErrInvalidDate возвращается для даты в неверном формате.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
	// ErrDateInPast возвращается для даты раньше текущего дня.
	ErrDateInPast = errors.New("date must not be in the past")
	// ErrMissingTime возвращается, если не выбрано время.
	ErrMissingTime = errors.New("time is required")
	// ErrUnknownTimeSlot возвращается для времени вне сетки слотов.
	ErrUnknownTimeSlot = errors.New("time must be one of the available slots")
	// ErrMissingAddress возвращается, если не указан адрес.
	ErrMissingAddress = errors.New("address is required")
)

// TimeSlots перечисляет часовые слоты бронирования с 08:00 до 20:00.
var TimeSlots = func() []string {
	slots := make([]string, 0, 13)
	for hour := 8; hour <= 20; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}()

// IsTimeSlot сообщает, входит ли значение в сетку слотов.
func IsTimeSlot(v string) bool {
	for _, s := range TimeSlots {
		if s == v {
			return true
		}
	}
	return false
}

// BookingForm проверяет обязательные поля формы бронирования.
func BookingForm(date, slot, address string, now time.Time) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return ErrMissingDate
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return ErrInvalidDate
	}
	today, _ := time.Parse(dateLayout, now.UTC().Format(dateLayout))
	if day.Before(today) {
		return ErrDateInPast
	}

	if strings.TrimSpace(slot) == "" {
		return ErrMissingTime
	}
	if !IsTimeSlot(slot) {
		return ErrUnknownTimeSlot
	}

	if strings.TrimSpace(address) == "" {
		return ErrMissingAddress
	}

	return nil
}
