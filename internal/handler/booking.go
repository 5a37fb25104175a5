package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/homeservices/internal/service"
	"github.com/mmeshcher/homeservices/internal/validation"
)

type bookingRequest struct {
	ServiceID    string `json:"serviceId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Address      string `json:"address"`
	Instructions string `json:"instructions"`
}

// CreateBooking создаёт бронирование услуги от имени текущего заказчика.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req bookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ServiceID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), session, service.BookingRequest(req))
	if err != nil {
		h.fail(w, r, "create booking", err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

type intentRequest struct {
	Amount float64 `json:"amount"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent запрашивает платёжное намерение для шага оплаты.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	secret, err := h.service.RequestPaymentIntent(r.Context(), req.Amount)
	if err != nil {
		h.fail(w, r, "create payment intent", err)
		return
	}
	writeJSON(w, http.StatusOK, intentResponse{ClientSecret: secret})
}

type payRequest struct {
	BookingID    string          `json:"bookingId"`
	ClientSecret string          `json:"clientSecret"`
	Card         validation.Card `json:"card"`
}

// Pay проводит оплату бронирования. Ошибка процессора возвращается с исходным текстом и статусом 402.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req payRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Pay(r.Context(), session, service.PayRequest(req))
	if err != nil {
		h.fail(w, r, "pay booking", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// MyBookings возвращает бронирования текущего заказчика.
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ReceiverBookings(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get receiver bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// BookingRequests возвращает бронирования услуг текущего исполнителя.
func (h *Handler) BookingRequests(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ProviderBookings(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get provider bookings", err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// CompleteBooking отмечает работу выполненной.
func (h *Handler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CompleteBooking(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "complete booking", err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitReview добавляет отзыв к завершённому бронированию.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.SubmitReview(r.Context(), session, chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		h.fail(w, r, "submit review", err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// MyReviews возвращает отзывы текущего пользователя.
func (h *Handler) MyReviews(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.MyReviews(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get my reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// EditReview меняет отзыв текущего пользователя на услугу.
func (h *Handler) EditReview(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.EditReview(r.Context(), session, chi.URLParam(r, "serviceId"), req.Rating, req.Comment)
	if err != nil {
		h.fail(w, r, "edit review", err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// DeleteReview удаляет отзывы текущего пользователя на услугу.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), session, chi.URLParam(r, "serviceId")); err != nil {
		h.fail(w, r, "delete review", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
