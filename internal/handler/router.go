package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	custommiddleware "github.com/mmeshcher/homeservices/internal/middleware"
	"github.com/mmeshcher/homeservices/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware BFF.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	if len(h.corsOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   h.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Accept-Encoding", custommiddleware.RequestIDHeader},
			ExposedHeaders:   []string{custommiddleware.RequestIDHeader},
			AllowCredentials: true,
		}).Handler)
	}
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	// Служебные маршруты не сжимаются: promhttp сам кодирует ответ по Accept-Encoding.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if h.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.GzipMiddleware)
		r.Use(custommiddleware.Logger(h.logger))

		r.Route("/api", func(r chi.Router) {
			r.Post("/session", h.SignIn)
			r.Delete("/session", h.SignOut)
			r.Post("/users", h.SignUp)

			r.Get("/catalog", h.GetCatalog)
			r.Get("/categories", h.GetCategories)
			r.Get("/services", h.Discover)
			r.Get("/services/{id}", h.GetService)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Get("/session", h.CurrentSession)
				r.Get("/actions/{name}/{subject}", h.ActionStatus)

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireRoles(model.RoleReceiver))

					r.Post("/bookings", h.CreateBooking)
					r.Post("/checkout/intent", h.CreatePaymentIntent)
					r.Post("/checkout/pay", h.Pay)
					r.Get("/bookings/mine", h.MyBookings)
					r.Post("/bookings/{id}/review", h.SubmitReview)

					r.Get("/reviews/mine", h.MyReviews)
					r.Put("/reviews/{serviceId}", h.EditReview)
					r.Delete("/reviews/{serviceId}", h.DeleteReview)
				})

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireRoles(model.RoleProvider))

					r.Get("/bookings/requests", h.BookingRequests)
					r.Put("/bookings/{id}/complete", h.CompleteBooking)

					r.Get("/balance", h.GetBalance)
					r.Get("/withdrawals/mine", h.MyWithdrawals)
					r.Post("/withdrawals", h.Withdraw)
				})

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireRoles(model.RoleProvider, model.RoleAdmin))

					r.Get("/services/mine", h.MyServices)
					r.Post("/services", h.CreateService)
					r.Put("/services/{id}", h.UpdateService)
					r.Delete("/services/{id}", h.DeleteService)
				})

				r.Route("/admin", func(r chi.Router) {
					r.Use(custommiddleware.RequireRoles(model.RoleAdmin))

					r.Get("/withdrawals", h.AllWithdrawals)
					r.Put("/withdrawals/{id}", h.DecideWithdrawal)

					r.Post("/categories", h.CreateCategory)
					r.Put("/categories/{id}", h.UpdateCategory)
					r.Delete("/categories/{id}", h.DeleteCategory)

					r.Get("/users", h.ListUsers)
					r.Put("/users/{email}/role", h.ChangeRole)
					r.Delete("/users/{id}", h.DeleteUser)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
