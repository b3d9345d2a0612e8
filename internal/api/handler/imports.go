package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/customer-success-api/internal/usecases/managing"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

// ImportRequest carrega o conteúdo bruto colado pelo operador. Linhas são
// separadas por quebra de linha e colunas por ponto e vírgula (ou vírgula no
// CSV de contas)
type ImportRequest struct {
	Data string `json:"data"`
}

func readImportPayload(r *http.Request) (string, error) {
	var req ImportRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	return req.Data, nil
}

// ImportAccounts importa contas em CSV e funde com a base por id ou nome
func ImportAccounts(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ImportAccounts")

		raw, err := readImportPayload(r)
		if err != nil || raw == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conteúdo da importação é obrigatório", nil)
			return
		}

		result, err := service.ImportAccountsCSV(raw)
		if err != nil {
			logrus.Error("Error importing accounts:", err)
			apiErrors.WriteError(w, apiErrors.ErrDataSchema, "Erro ao processar CSV de contas: "+err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{
			"created": result.Created,
			"updated": result.Updated,
		}); err != nil {
			logrus.Error(err)
		}
	})
}

// ImportFinancials importa o razão financeiro em lote
func ImportFinancials(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ImportFinancials")

		raw, err := readImportPayload(r)
		if err != nil || raw == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conteúdo da importação é obrigatório", nil)
			return
		}

		summary, err := service.ImportFinancialRows(raw)
		if err != nil {
			logrus.Error("Error importing financial records:", err)
			apiErrors.WriteError(w, apiErrors.ErrDataSchema, "Erro ao processar registros financeiros: "+err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.Error(err)
		}
	})
}

// ImportTickets importa o razão de tickets em lote
func ImportTickets(service managing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ImportTickets")

		raw, err := readImportPayload(r)
		if err != nil || raw == "" {
			apiErrors.WriteError(w, apiErrors.ErrFrontValidation, "Conteúdo da importação é obrigatório", nil)
			return
		}

		summary, err := service.ImportTicketRows(raw)
		if err != nil {
			logrus.Error("Error importing tickets:", err)
			apiErrors.WriteError(w, apiErrors.ErrDataSchema, "Erro ao processar tickets: "+err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.Error(err)
		}
	})
}
