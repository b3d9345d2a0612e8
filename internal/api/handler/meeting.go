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
	"github.com/vfg2006/customer-success-api/pkg/utils"
)

// MeetingList lista as reuniões, opcionalmente filtradas por conta
func MeetingList(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := r.URL.Query().Get("accountId")

		meetings := service.ListMeetings(accountID)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(meetings); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

func CreateMeeting(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateMeeting")

		var meeting domain.Meeting
		if err := json.NewDecoder(r.Body).Decode(&meeting); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if meeting.AccountID == "" || meeting.Date == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conta e data da reunião são obrigatórias", nil)
			return
		}

		if _, err := utils.ParseDate(meeting.Date); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Data da reunião inválida, use o formato AAAA-MM-DD", nil)
			return
		}

		created, err := service.CreateMeeting(meeting)
		if err != nil {
			logrus.Error("Error creating meeting:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar reunião", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
		}
	})
}

func UpdateMeeting(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateMeeting")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da reunião é obrigatório", nil)
			return
		}

		var meeting domain.Meeting
		if err := json.NewDecoder(r.Body).Decode(&meeting); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		meeting.ID = id

		if meeting.Date != "" {
			if _, err := utils.ParseDate(meeting.Date); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Data da reunião inválida, use o formato AAAA-MM-DD", nil)
				return
			}
		}

		updated, err := service.UpdateMeeting(meeting)
		if err != nil {
			if errors.Is(err, managing.ErrMeetingNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Reunião não encontrada", nil)
				return
			}
			logrus.Error("Error updating meeting:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar reunião", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updated); err != nil {
			logrus.Error(err)
		}
	})
}

func DeleteMeeting(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteMeeting")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID da reunião é obrigatório", nil)
			return
		}

		if err := service.DeleteMeeting(id); err != nil {
			logrus.Error("Error deleting meeting:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao remover reunião", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
