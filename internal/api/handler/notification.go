package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

// NotificationList serve o feed de notificações derivado do snapshot corrente
func NotificationList(service deriving.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notifications := service.Notifications()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(notifications); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}
