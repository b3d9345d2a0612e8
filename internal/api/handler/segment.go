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

func SegmentList(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segments, err := service.ListSegments()
		if err != nil {
			logrus.Error("Error listing segments:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao listar segmentos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(segments); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrBackInternal, "Erro ao codificar resposta", nil)
		}
	})
}

func CreateSegment(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateSegment")

		var segment domain.AccountSegment
		if err := json.NewDecoder(r.Body).Decode(&segment); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		created, err := service.CreateSegment(segment)
		if err != nil {
			if errors.Is(err, managing.ErrMissingName) {
				apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Nome do segmento é obrigatório", nil)
				return
			}
			logrus.Error("Error creating segment:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao salvar segmento", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error(err)
		}
	})
}

func DeleteSegment(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteSegment")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "ID do segmento é obrigatório", nil)
			return
		}

		if err := service.DeleteSegment(id); err != nil {
			logrus.Error("Error deleting segment:", err)
			apiErrors.WriteError(w, apiErrors.ErrBackDB, "Erro ao remover segmento", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
