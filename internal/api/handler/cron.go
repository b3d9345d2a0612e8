package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/scheduler"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
	"github.com/vfg2006/customer-success-api/pkg/middleware"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDerivation = "derivation"
	CronJobTypeTickets    = "tickets"
	CronJobTypeAll        = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	DerivationSyncService *scheduler.DerivationSyncService
	TicketSyncService     *scheduler.TicketSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrBackAuth, "Apenas administradores podem executar cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeDerivation:
			if services.DerivationSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Serviço de derivação não disponível", nil)
				return
			}
			services.DerivationSyncService.TriggerManualSync()

		case CronJobTypeTickets:
			if services.TicketSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Serviço de sincronização de tickets não disponível", nil)
				return
			}
			services.TicketSyncService.TriggerManualSync()

		case CronJobTypeAll:
			if services.DerivationSyncService != nil {
				services.DerivationSyncService.TriggerManualSync()
			}
			if services.TicketSyncService != nil {
				services.TicketSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Tipo de cron job inválido. Valores aceitos: derivation, tickets, all", nil)
			return
		}

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != middleware.RoleAdmin {
			apiErrors.WriteError(w, apiErrors.ErrBackAuth, "Apenas administradores podem verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{
			"derivation": services.DerivationSyncService.GetStatus(),
			"tickets":    services.TicketSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
