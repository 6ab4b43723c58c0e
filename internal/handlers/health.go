package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/orderdesk/apiserver/internal/logger"
	"go.uber.org/zap"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports liveness. With ?check=db the database is pinged as well.
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}

		if r.URL.Query().Get("check") == "db" {
			if err := db.PingContext(r.Context()); err != nil {
				logger.FromContext(r.Context()).Error("database ping failed", zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				writeJSON(w, http.StatusServiceUnavailable, response)
				return
			}
			response["db_status"] = "ok"
		}

		writeJSON(w, http.StatusOK, response)
	}
}
