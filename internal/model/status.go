package model

// BookingStatus описывает статус бронирования.
type BookingStatus string

const (
	BookingPendingWork   BookingStatus = "Pending_Work"
	BookingCompleted     BookingStatus = "Completed"
	BookingReviewed      BookingStatus = "Reviewed"
	BookingPaymentFailed BookingStatus = "Payment_Failed"
)

// Pending_Work -> Pending_Work is the reconcile patch written after a successful payment.
var bookingTransitions = map[BookingStatus]map[BookingStatus]struct{}{
	BookingPendingWork: {
		BookingPendingWork:   {},
		BookingCompleted:     {},
		BookingPaymentFailed: {},
	},
	BookingPaymentFailed: {
		BookingPendingWork:   {},
		BookingPaymentFailed: {},
	},
	BookingCompleted: {
		BookingReviewed: {},
	},
	BookingReviewed: {
		BookingReviewed: {},
	},
}

// CanTransitionTo сообщает, допустим ли переход бронирования в статус next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	allowed, ok := bookingTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

// CanComplete сообщает, может ли исполнитель завершить бронирование.
func (s BookingStatus) CanComplete() bool {
	return s == BookingPendingWork
}

// CanReview сообщает, может ли заказчик оставить отзыв.
func (s BookingStatus) CanReview() bool {
	return s == BookingCompleted || s == BookingReviewed
}

// WithdrawalStatus описывает статус запроса на вывод средств.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Decided сообщает, является ли статус итоговым решением администратора.
func (s WithdrawalStatus) Decided() bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}
