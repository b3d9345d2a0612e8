package apiErrors_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected string
	}{
		{name: "401 vira erro de autenticação", status: http.StatusUnauthorized, expected: apiErrors.ErrBackAuth},
		{name: "403 vira erro de autenticação", status: http.StatusForbidden, expected: apiErrors.ErrBackAuth},
		{name: "504 vira timeout", status: http.StatusGatewayTimeout, expected: apiErrors.ErrBackTimeout},
		{name: "500 vira erro interno", status: http.StatusInternalServerError, expected: apiErrors.ErrBackInternal},
		{name: "503 vira erro interno", status: http.StatusServiceUnavailable, expected: apiErrors.ErrBackInternal},
		{name: "400 vira validação", status: http.StatusBadRequest, expected: apiErrors.ErrFrontValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apiErrors.FromStatusCode(tt.status))
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("códigos de autenticação compartilham a mesma mensagem", func(t *testing.T) {
		assert.Equal(t, apiErrors.UserMessage(apiErrors.ErrFrontAuth), apiErrors.UserMessage(apiErrors.ErrBackAuth))
	})

	t.Run("código desconhecido usa mensagem padrão", func(t *testing.T) {
		assert.Equal(t, "Ocorreu um erro inesperado. Tente novamente.", apiErrors.UserMessage("ERR_DESCONHECIDO"))
	})
}

func TestAppError(t *testing.T) {
	t.Run("unwrap expõe o erro original", func(t *testing.T) {
		cause := errors.New("conexão recusada")
		appErr := apiErrors.Wrap(cause, apiErrors.ErrFrontNetwork, "falha ao buscar contas")

		assert.Equal(t, "falha ao buscar contas", appErr.Error())
		assert.Equal(t, cause, errors.Unwrap(appErr))
	})

	t.Run("fromError preserva erro já classificado", func(t *testing.T) {
		original := apiErrors.New(apiErrors.ErrBackAuth, "token rejeitado")
		appErr := apiErrors.FromError(original, apiErrors.ErrBackInternal)

		assert.Equal(t, apiErrors.ErrBackAuth, appErr.Code)
	})
}

func TestWriteError(t *testing.T) {
	t.Run("resposta carrega status e corpo classificados", func(t *testing.T) {
		rec := httptest.NewRecorder()
		apiErrors.WriteError(rec, apiErrors.ErrBackAuth, "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), apiErrors.ErrBackAuth)
		assert.Contains(t, rec.Body.String(), "Faça login novamente")
	})
}
