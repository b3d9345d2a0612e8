package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/internal/domain"
	"github.com/vfg2006/customer-success-api/internal/usecases/deriving"
	"github.com/vfg2006/customer-success-api/internal/usecases/managing"
	"github.com/vfg2006/customer-success-api/internal/usecases/timelining"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

func AccountList(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts := service.ListAccounts()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(accounts); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

func GetAccount(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta é obrigatório", nil)
			return
		}

		account, err := service.GetAccount(id)
		if err != nil {
			if errors.Is(err, managing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta não encontrada", nil)
				return
			}
			logrus.Error("Error fetching account:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao consultar conta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(account); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

func CreateAccount(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateAccount")

		var account domain.Account
		if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		created, err := service.CreateAccount(account)
		if err != nil {
			if errors.Is(err, managing.ErrMissingName) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Nome da conta é obrigatório", nil)
				return
			}
			logrus.Error("Error creating account:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar conta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
		}
	})
}

func UpdateAccount(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateAccount")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta é obrigatório", nil)
			return
		}

		var account domain.Account
		if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		// Garante que o ID da URL seja usado
		account.ID = id

		updated, err := service.UpdateAccount(account)
		if err != nil {
			if errors.Is(err, managing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta não encontrada", nil)
				return
			}
			logrus.Error("Error updating account:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar conta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updated); err != nil {
			logrus.Error(err)
		}
	})
}

func DeleteAccount(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteAccount")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta é obrigatório", nil)
			return
		}

		if err := service.DeleteAccount(id); err != nil {
			logrus.Error("Error deleting account:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao remover conta", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func AddActivity(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - AddActivity")

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta é obrigatório", nil)
			return
		}

		var activity domain.Activity
		if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if activity.Title == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Título da atividade é obrigatório", nil)
			return
		}

		created, err := service.AddActivity(accountID, activity)
		if err != nil {
			if errors.Is(err, managing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta não encontrada", nil)
				return
			}
			logrus.Error("Error adding activity:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar atividade", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
		}
	})
}

func UpdateActivity(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateActivity")

		activityID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if activityID == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da atividade é obrigatório", nil)
			return
		}

		var activity domain.Activity
		if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		updated, err := service.UpdateActivity(activityID, activity)
		if err != nil {
			if errors.Is(err, managing.ErrActivityNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Atividade não encontrada", nil)
				return
			}
			logrus.Error("Error updating activity:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar atividade", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updated); err != nil {
			logrus.Error(err)
		}
	})
}

// GetAccountTimeline serve a linha do tempo derivada da conta. O parâmetro
// filters é uma lista separada por vírgula de tipos de evento
func GetAccountTimeline(service deriving.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta é obrigatório", nil)
			return
		}

		filters := timelining.ParseFilterSet(r.URL.Query().Get("filters"))

		events, err := service.Timeline(accountID, filters)
		if err != nil {
			if errors.Is(err, deriving.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta não encontrada", nil)
				return
			}
			logrus.Error("Error aggregating timeline:", err)
			apiErrors.WriteError(w, apiErrors.ErrDataQuery, "Erro ao montar linha do tempo", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

// ApplyPlaybook cria as atividades do playbook para a conta
func ApplyPlaybook(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ApplyPlaybook")

		params := httprouter.ParamsFromContext(r.Context())
		accountID := params.ByName("id")
		playbookID := params.ByName("playbookId")
		if accountID == "" || playbookID == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da conta e do playbook são obrigatórios", nil)
			return
		}

		var req struct {
			Owner string `json:"owner"`
		}
		if r.Body != nil {
			// Corpo é opcional, só carrega o responsável pelas tarefas
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		activities, err := service.ApplyPlaybook(accountID, playbookID, req.Owner)
		if err != nil {
			switch {
			case errors.Is(err, managing.ErrAccountNotFound):
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta não encontrada", nil)
			case errors.Is(err, managing.ErrPlaybookNotFound):
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Playbook não encontrado", nil)
			default:
				logrus.Error("Error applying playbook:", err)
				apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao aplicar playbook", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(activities); err != nil {
			logrus.Error(err)
		}
	})
}

// ListPlaybooks lista os playbooks disponíveis
func ListPlaybooks(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playbooks, err := service.ListPlaybooks()
		if err != nil {
			logrus.Error("Error listing playbooks:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao listar playbooks", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(playbooks); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}
