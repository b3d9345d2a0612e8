package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro por camada de origem
const (
	// Erros de interface
	ErrFrontRender     = "ERR_FRONT_RENDER"     // Falha ao renderizar
	ErrFrontValidation = "ERR_FRONT_VALIDATION" // Dados de entrada inválidos
	ErrFrontAuth       = "ERR_FRONT_AUTH"       // Sessão inválida no cliente
	ErrFrontNetwork    = "ERR_FRONT_NETWORK"    // Falha de rede antes do servidor

	// Erros de backend
	ErrBackTimeout  = "ERR_BACK_TIMEOUT"  // Servidor demorou para responder
	ErrBackAuth     = "ERR_BACK_AUTH"     // Credencial rejeitada pelo servidor
	ErrBackDB       = "ERR_BACK_DB"       // Falha de banco de dados
	ErrBackInternal = "ERR_BACK_INTERNAL" // Erro interno não classificado

	// Erros do assistente de IA
	ErrLLMTimeout    = "ERR_LLM_TIMEOUT"
	ErrLLMSafety     = "ERR_LLM_SAFETY"
	ErrLLMTokenLimit = "ERR_LLM_TOKEN_LIMIT"
	ErrLLMGeneric    = "ERR_LLM_GENERIC"

	// Erros de dados
	ErrDataQuery  = "ERR_DATA_QUERY"
	ErrDataSchema = "ERR_DATA_SCHEMA"
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrFrontRender:     http.StatusInternalServerError,
	ErrFrontValidation: http.StatusBadRequest,
	ErrFrontAuth:       http.StatusUnauthorized,
	ErrFrontNetwork:    http.StatusServiceUnavailable,
	ErrBackTimeout:     http.StatusGatewayTimeout,
	ErrBackAuth:        http.StatusUnauthorized,
	ErrBackDB:          http.StatusInternalServerError,
	ErrBackInternal:    http.StatusInternalServerError,
	ErrLLMTimeout:      http.StatusGatewayTimeout,
	ErrLLMSafety:       http.StatusUnprocessableEntity,
	ErrLLMTokenLimit:   http.StatusUnprocessableEntity,
	ErrLLMGeneric:      http.StatusBadGateway,
	ErrDataQuery:       http.StatusInternalServerError,
	ErrDataSchema:      http.StatusUnprocessableEntity,
}

// Mensagens exibíveis ao usuário por código
var userMessages = map[string]string{
	ErrFrontRender:     "Ocorreu um erro ao exibir esta parte da aplicação. Tente recarregar a página.",
	ErrFrontValidation: "Verifique os dados informados e tente novamente.",
	ErrFrontAuth:       "Sessão expirada ou inválida. Faça login novamente.",
	ErrBackAuth:        "Sessão expirada ou inválida. Faça login novamente.",
	ErrFrontNetwork:    "Sem conexão com a internet. Verifique sua rede.",
	ErrBackTimeout:     "O servidor demorou muito para responder. Tente novamente mais tarde.",
	ErrLLMTimeout:      "O servidor demorou muito para responder. Tente novamente mais tarde.",
	ErrLLMSafety:       "O conteúdo gerado foi bloqueado por filtros de segurança.",
	ErrLLMTokenLimit:   "A resposta é muito longa. Tente simplificar sua solicitação.",
	ErrBackDB:          "Erro ao acessar o banco de dados. Contate o suporte se persistir.",
	ErrDataQuery:       "Erro ao acessar o banco de dados. Contate o suporte se persistir.",
}

const defaultUserMessage = "Ocorreu um erro inesperado. Tente novamente."

// UserMessage devolve a mensagem exibível para o código informado
func UserMessage(code string) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return defaultUserMessage
}

// HTTPStatus devolve o status associado ao código. Códigos desconhecidos caem
// em 500
func HTTPStatus(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromStatusCode classifica uma resposta HTTP de serviço externo em um código
// da taxonomia. Os chamadores nunca inspecionam o status bruto
func FromStatusCode(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrBackAuth
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrBackTimeout
	case status >= http.StatusInternalServerError:
		return ErrBackInternal
	case status >= http.StatusBadRequest:
		return ErrFrontValidation
	default:
		return ErrBackInternal
	}
}

// AppError representa um erro classificado da aplicação
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// UserMessage devolve a mensagem exibível do erro
func (e *AppError) UserMessage() string {
	return UserMessage(e.Code)
}

// New cria um erro classificado
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap envolve um erro existente com um código da taxonomia
func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	if message == "" {
		message = UserMessage(code)
	}

	appErr := AppError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(code))
	json.NewEncoder(w).Encode(appErr)
}

// FromError cria um erro de API a partir de um erro Go. Erros já classificados
// preservam o próprio código
func FromError(err error, code string) *AppError {
	if err == nil {
		return &AppError{Code: ErrBackInternal, Message: defaultUserMessage}
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return &AppError{Code: code, Message: err.Error(), Err: err}
}
