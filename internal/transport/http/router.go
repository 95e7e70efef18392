package http

import (
	"net/http"

	"marketbay-be/internal/catalog"
	"marketbay-be/internal/logger"
	"marketbay-be/internal/middleware"
	"marketbay-be/internal/order"
	"marketbay-be/internal/user"

	"github.com/go-chi/chi/v5"
)

func NewRouter(userSvc user.Service, catalogSvc catalog.Service, orderSvc order.Service) *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	users := NewUserHandler(userSvc)
	r.Post("/auth/register", users.Register)
	r.Post("/auth/login", users.Login)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.Create)
		r.Get("/{id}", users.Get)
		r.Put("/{id}", users.Update)
		r.Delete("/{id}", users.Delete)
	})

	products := NewProductHandler(catalogSvc)
	r.Route("/products", func(r chi.Router) {
		r.Post("/", products.Create)
		r.Get("/{id}", products.Get)
		r.Put("/{id}", products.Update)
		r.Delete("/{id}", products.Delete)
		r.Put("/{id}/stock", products.SetStock)
	})

	orders := NewOrderHandler(orderSvc)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Place)
		r.Get("/{id}", orders.Get)
		r.Put("/{id}", orders.Update)
		r.Delete("/{id}", orders.Delete)
		r.Post("/{id}/complete", orders.Complete)
		r.Post("/{id}/dispute", orders.Dispute)
		r.Post("/{id}/resolve", orders.Resolve)
	})

	escrows := NewEscrowHandler(orderSvc)
	r.Route("/escrows", func(r chi.Router) {
		r.Post("/", escrows.Hold)
		r.Get("/{id}", escrows.Get)
		r.Post("/{id}/release", escrows.Release)
		r.Post("/{id}/refund", escrows.Refund)
	})

	return r
}
