package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmeshcher/homeservices/internal/model"
)

const reviewDateLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrInvalidRating возвращается для оценки вне диапазона 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrNotReviewable возвращается, если бронирование ещё не завершено.
	ErrNotReviewable = errors.New("booking must be completed before it can be reviewed")
	// ErrReviewNotFound возвращается, если у пользователя нет отзыва на услугу.
	ErrReviewNotFound = errors.New("review not found")
)

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// SubmitReview добавляет отзыв заказчика к услуге завершённого бронирования
// и переводит бронирование в статус Reviewed.
func (s *Service) SubmitReview(ctx context.Context, session model.Session, bookingID string, rating int, comment string) (*model.Review, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}

	var review *model.Review
	err := s.actions.Run(ctx, actionKey(session, ActionReview, bookingID), func(ctx context.Context) error {
		bookings, err := s.api.BookingsByReceiver(ctx, session.Email)
		if err != nil {
			return fmt.Errorf("load receiver bookings: %w", err)
		}

		b, ok := findBooking(bookings, bookingID)
		if !ok {
			return ErrBookingNotFound
		}
		if !b.Status.CanReview() {
			return ErrNotReviewable
		}

		svc, err := s.api.Service(ctx, b.ServiceID)
		if err != nil {
			return fmt.Errorf("get service: %w", err)
		}

		r := model.Review{
			ReviewerEmail: session.Email,
			Rating:        rating,
			Comment:       strings.TrimSpace(comment),
			Date:          s.now().UTC().Format(reviewDateLayout),
		}

		reviews := make([]model.Review, 0, len(svc.Reviews)+1)
		reviews = append(reviews, svc.Reviews...)
		reviews = append(reviews, r)

		if err := s.api.ReplaceReviews(ctx, svc.ID, reviews); err != nil {
			return fmt.Errorf("save reviews: %w", err)
		}

		if err := s.api.UpdateBookingStatus(ctx, bookingID, model.BookingReviewed); err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}

		review = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// MyReviews возвращает отзывы пользователя текущей сессии.
func (s *Service) MyReviews(ctx context.Context, session model.Session) ([]model.ReviewEntry, error) {
	return s.api.ReviewsByReviewer(ctx, session.Email)
}

// EditReview меняет оценку и текст первого отзыва пользователя на услугу. Дата отзыва сохраняется.
func (s *Service) EditReview(ctx context.Context, session model.Session, serviceID string, rating int, comment string) (*model.Review, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}

	svc, err := s.api.Service(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	idx := -1
	for i, r := range svc.Reviews {
		if r.ReviewerEmail == session.Email {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrReviewNotFound
	}

	reviews := append([]model.Review(nil), svc.Reviews...)
	reviews[idx].Rating = rating
	reviews[idx].Comment = strings.TrimSpace(comment)

	if err := s.api.ReplaceReviews(ctx, serviceID, reviews); err != nil {
		return nil, fmt.Errorf("save reviews: %w", err)
	}

	edited := reviews[idx]
	return &edited, nil
}

// DeleteReview удаляет все отзывы пользователя на услугу.
func (s *Service) DeleteReview(ctx context.Context, session model.Session, serviceID string) error {
	svc, err := s.api.Service(ctx, serviceID)
	if err != nil {
		return fmt.Errorf("get service: %w", err)
	}

	kept := make([]model.Review, 0, len(svc.Reviews))
	for _, r := range svc.Reviews {
		if r.ReviewerEmail != session.Email {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(svc.Reviews) {
		return ErrReviewNotFound
	}

	if err := s.api.ReplaceReviews(ctx, serviceID, kept); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}
	return nil
}
