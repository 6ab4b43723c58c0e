package handlers

import (
	"errors"
	"net/http"

	"github.com/orderdesk/apiserver/internal/logger"
	"github.com/orderdesk/apiserver/internal/pagination"
	"github.com/orderdesk/apiserver/internal/schemas"
	"github.com/orderdesk/apiserver/internal/services"
	"github.com/orderdesk/apiserver/internal/store"
	"go.uber.org/zap"
)

// statusTable maps error kinds to HTTP statuses. The first match wins;
// anything unmatched is a storage fault and maps to 500.
var statusTable = []struct {
	target error
	status int
}{
	{store.ErrNotFound, http.StatusNotFound},
	{services.ErrEmptyResult, http.StatusNotFound},
	{store.ErrConflict, http.StatusConflict},
	{schemas.ErrInvalid, http.StatusUnprocessableEntity},
	{schemas.ErrMalformed, http.StatusBadRequest},
	{store.ErrEmptyFilter, http.StatusBadRequest},
	{pagination.ErrInvalidPage, http.StatusBadRequest},
	{pagination.ErrInvalidSize, http.StatusBadRequest},
	{ErrInvalidID, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, entry := range statusTable {
		if errors.Is(err, entry.target) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Server faults keep
// the underlying message and are logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}
