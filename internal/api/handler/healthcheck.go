package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/infrastructure/database/postgres"
)

// HealthcheckHandler reporta o estado do serviço e da conexão com o banco
func HealthcheckHandler(conn *postgres.Connection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		database := "ok"
		status := "ok"
		httpStatus := http.StatusOK
		if err := conn.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Healthcheck: banco de dados indisponível")
			database = "unavailable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":   status,
			"database": database,
		}); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
