package model

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPendingWork, BookingCompleted, true},
		{BookingPendingWork, BookingPaymentFailed, true},
		{BookingPendingWork, BookingPendingWork, true},
		{BookingPaymentFailed, BookingPendingWork, true},
		{BookingCompleted, BookingReviewed, true},
		{BookingReviewed, BookingReviewed, true},
		{BookingCompleted, BookingPendingWork, false},
		{BookingReviewed, BookingCompleted, false},
		{BookingPaymentFailed, BookingCompleted, false},
		{BookingStatus("unknown"), BookingCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	if !BookingPendingWork.CanComplete() {
		t.Fatalf("Pending_Work must be completable")
	}
	if BookingCompleted.CanComplete() {
		t.Fatalf("Completed must not be completable")
	}
	if !BookingCompleted.CanReview() || !BookingReviewed.CanReview() {
		t.Fatalf("Completed and Reviewed must be reviewable")
	}
	if BookingPendingWork.CanReview() || BookingPaymentFailed.CanReview() {
		t.Fatalf("Pending_Work and Payment_Failed must not be reviewable")
	}
}

func TestRoleAndMethodValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleProvider, RoleReceiver} {
		if !r.Valid() {
			t.Fatalf("role %q must be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Fatalf("unknown role must be invalid")
	}
	if PaymentMethod("cash").Valid() {
		t.Fatalf("unknown payment method must be invalid")
	}
	if !WithdrawalApproved.Decided() || WithdrawalPending.Decided() {
		t.Fatalf("unexpected Decided result")
	}
}
