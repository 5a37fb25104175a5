package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/homeservices/internal/discovery"
	"github.com/mmeshcher/homeservices/internal/model"
	"github.com/mmeshcher/homeservices/internal/service"
)

type idResponse struct {
	ID string `json:"id"`
}

// GetCatalog возвращает категории и все услуги для главной страницы каталога.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.LoadCatalog(r.Context())
	if err != nil {
		h.fail(w, r, "load catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// GetCategories возвращает список категорий.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.fail(w, r, "get categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Discover возвращает страницу услуг по фильтрам из query-параметров
// category, price, rating, sort, q, location и page.
// Параметр page учитывается только вместе с key, равным criteriaKey предыдущей выдачи
// для тех же критериев. Без key или при изменённых критериях возвращается первая страница.
// При недоступности API отвечает 502 с выдачей в состоянии error.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		page = n
	}

	c := discovery.Criteria{
		Category: q.Get("category"),
		Price:    q.Get("price"),
		Rating:   q.Get("rating"),
		SortBy:   q.Get("sort"),
		Search:   q.Get("q"),
		Location: q.Get("location"),
	}

	res, err := h.service.Discover(r.Context(), c, c.PageFor(q.Get("key"), page))
	if err != nil {
		h.fail(w, r, "discover services", err)
		return
	}

	code := http.StatusOK
	if res.State == discovery.StateError {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, res)
}

// GetService возвращает услугу по идентификатору.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service.ServiceByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

type serviceRequest struct {
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Duration    string      `json:"duration"`
	Image       string      `json:"image"`
	Location    string      `json:"location"`
	Features    []string    `json:"features"`
	IsPopular   bool        `json:"isPopular"`
}

func (req serviceRequest) input() service.ServiceInput {
	return service.ServiceInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price.String(),
		Duration:    req.Duration,
		Image:       req.Image,
		Location:    req.Location,
		Features:    req.Features,
		IsPopular:   req.IsPopular,
	}
}

// MyServices возвращает услуги текущего исполнителя.
func (h *Handler) MyServices(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	services, err := h.service.MyServices(r.Context(), session)
	if err != nil {
		h.fail(w, r, "get my services", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// CreateService публикует услугу текущего исполнителя.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.service.CreateService(r.Context(), session, req.input())
	if err != nil {
		h.fail(w, r, "create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdateService заменяет поля услуги.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req serviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateService(r.Context(), session, chi.URLParam(r, "id"), req.input()); err != nil {
		h.fail(w, r, "update service", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteService удаляет услугу.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteService(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete service", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory создаёт категорию.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.Category
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdateCategory заменяет поля категории.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.Category
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		h.fail(w, r, "update category", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteCategory удаляет категорию.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
