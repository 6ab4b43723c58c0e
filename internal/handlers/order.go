package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/schemas"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/types"
)

// OrderRouter registers order routes on the given router.
func OrderRouter(r chi.Router, orderService *services.OrderService) {
	handler := &resourceHandler[types.Order, types.OrderFilter, types.OrderChanges]{
		service:      orderService,
		decodeCreate: decoder(schemas.OrderCreate.Order),
		decodeUpdate: decoder(schemas.OrderUpdate.Changes),
	}
	handler.register(r)
}
