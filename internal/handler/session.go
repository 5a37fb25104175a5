package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/homeservices/internal/model"
)

type signInRequest struct {
	IDToken string `json:"idToken"`
}

// SignIn проверяет ID-токен провайдера идентификации, определяет роль пользователя
// и устанавливает cookie сессии.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session, err := h.service.SignIn(r.Context(), req.IDToken)
	if err != nil {
		h.fail(w, r, "sign in", err)
		return
	}

	h.startSession(w, session, http.StatusOK)
}

// SignOut удаляет cookie сессии.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession возвращает сессию текущего пользователя.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type signUpRequest struct {
	IDToken string     `json:"idToken"`
	Name    string     `json:"name"`
	Photo   string     `json:"photo"`
	Role    model.Role `json:"role"`
}

// SignUp регистрирует исполнителя или заказчика и сразу открывает сессию.
// Email пользователя берётся из ID-токена.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session, err := h.service.SignUp(r.Context(), req.IDToken, model.User{Name: req.Name, Photo: req.Photo, Role: req.Role})
	if err != nil {
		h.fail(w, r, "sign up", err)
		return
	}

	h.startSession(w, session, http.StatusCreated)
}

func (h *Handler) startSession(w http.ResponseWriter, session model.Session, code int) {
	if err := h.authMiddleware.SetAuthCookie(w, session); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err), zap.String("email", session.Email))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSON(w, code, session)
}

// ActionStatus возвращает состояние действия пользователя над объектом.
func (h *Handler) ActionStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.ActionStatus(session, chi.URLParam(r, "name"), chi.URLParam(r, "subject")))
}
