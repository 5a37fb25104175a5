package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/homeservices/internal/model"
)

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

// GetBalance возвращает баланс текущего исполнителя.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	balance, err := h.service.Balance(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

// MyWithdrawals возвращает запросы на вывод текущего исполнителя.
func (h *Handler) MyWithdrawals(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	withdrawals, err := h.service.MyWithdrawals(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get my withdrawals", err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}

type withdrawRequest struct {
	Amount        float64             `json:"amount"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
}

// Withdraw создаёт запрос на вывод средств текущего исполнителя.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req withdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.RequestWithdrawal(r.Context(), session, req.Amount, req.PaymentMethod); err != nil {
		h.fail(w, r, "withdraw", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// AllWithdrawals возвращает все запросы на вывод.
func (h *Handler) AllWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.service.Withdrawals(r.Context())
	if err != nil {
		h.fail(w, r, "get withdrawals", err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}

type decisionRequest struct {
	Status model.WithdrawalStatus `json:"status"`
}

// DecideWithdrawal одобряет или отклоняет запрос на вывод.
func (h *Handler) DecideWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.DecideWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		h.fail(w, r, "decide withdrawal", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListUsers возвращает всех пользователей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.fail(w, r, "get users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

// ChangeRole назначает пользователю роль.
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangeRole(r.Context(), chi.URLParam(r, "email"), req.Role); err != nil {
		h.fail(w, r, "change role", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteUser удаляет пользователя.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
