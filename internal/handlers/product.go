package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/schemas"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/types"
)

// ProductRouter registers product routes on the given router.
func ProductRouter(r chi.Router, productService *services.ProductService) {
	handler := &resourceHandler[types.Product, types.ProductFilter, types.ProductChanges]{
		service:      productService,
		decodeCreate: decoder(schemas.ProductCreate.Product),
		decodeUpdate: decoder(schemas.ProductUpdate.Changes),
	}
	handler.register(r)
}
