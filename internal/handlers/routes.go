package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/services"
)

// Services bundles the services behind the resource routers.
type Services struct {
	Users    *services.UserService
	Products *services.ProductService
	Orders   *services.OrderService
}

// Routes mounts the user, order and product routers on r.
func Routes(r chi.Router, svc Services) {
	r.Route("/users", func(r chi.Router) {
		UserRouter(r, svc.Users)
	})
	r.Route("/orders", func(r chi.Router) {
		OrderRouter(r, svc.Orders)
	})
	r.Route("/products", func(r chi.Router) {
		ProductRouter(r, svc.Products)
	})
}
