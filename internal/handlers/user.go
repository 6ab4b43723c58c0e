package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/orderdesk/apiserver/internal/schemas"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/types"
)

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService) {
	handler := &resourceHandler[types.User, types.UserFilter, types.UserChanges]{
		service:      userService,
		decodeCreate: decoder(schemas.UserCreate.User),
		decodeUpdate: decoder(schemas.UserUpdate.Changes),
	}
	handler.register(r)
}
