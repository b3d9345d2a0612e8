package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/managing"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

func SuccessPlanList(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plans := service.ListSuccessPlans()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(plans); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

func CreateSuccessPlan(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateSuccessPlan")

		var plan domain.SuccessPlan
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if plan.AccountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta do plano é obrigatória", nil)
			return
		}

		created, err := service.CreateSuccessPlan(plan)
		if err != nil {
			logrus.Error("Error creating success plan:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar plano de sucesso", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
		}
	})
}

func UpdateSuccessPlan(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateSuccessPlan")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID do plano é obrigatório", nil)
			return
		}

		var plan domain.SuccessPlan
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		plan.ID = id

		updated, err := service.UpdateSuccessPlan(plan)
		if err != nil {
			if errors.Is(err, managing.ErrPlanNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Plano de sucesso não encontrado", nil)
				return
			}
			logrus.Error("Error updating success plan:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar plano de sucesso", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updated); err != nil {
			logrus.Error(err)
		}
	})
}
