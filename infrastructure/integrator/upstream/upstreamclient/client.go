package upstreamclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
	"github.com/vfg2006/customer-success-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session abstrai a sessão autenticada junto ao serviço upstream
type Session interface {
	Token() string
	Refresh(ctx context.Context) error
}

type Client interface {
	Get(ctx context.Context, resource string, out any) error
	Post(ctx context.Context, resource string, body, out any) error
	Put(ctx context.Context, resource string, body, out any) error
	Delete(ctx context.Context, resource string) error
}

// UpstreamClient fala com o serviço upstream com retry automático e injeção
// de token. Falhas de transporte são retentadas com backoff exponencial; um
// 401 dispara uma renovação de sessão seguida de nova tentativa com o mesmo
// backoff; respostas 5xx viram erro classificado sem retry
type UpstreamClient struct {
	httpClient *http.Client
	baseURL    string
	session    Session
	maxRetries int
	backoff    time.Duration

	// sleep é substituível em testes
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config, session Session) *UpstreamClient {
	timeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	backoff := time.Duration(cfg.Upstream.BackoffMillis) * time.Millisecond

	return &UpstreamClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    cfg.Upstream.BaseURL,
		session:    session,
		maxRetries: cfg.Upstream.MaxRetries,
		backoff:    backoff,
		sleep:      time.Sleep,
	}
}

func (c *UpstreamClient) Get(ctx context.Context, resource string, out any) error {
	return c.do(ctx, http.MethodGet, resource, nil, out)
}

func (c *UpstreamClient) Post(ctx context.Context, resource string, body, out any) error {
	return c.do(ctx, http.MethodPost, resource, body, out)
}

func (c *UpstreamClient) Put(ctx context.Context, resource string, body, out any) error {
	return c.do(ctx, http.MethodPut, resource, body, out)
}

func (c *UpstreamClient) Delete(ctx context.Context, resource string) error {
	return c.do(ctx, http.MethodDelete, resource, nil, nil)
}

func (c *UpstreamClient) do(ctx context.Context, method, resource string, body, out any) error {
	endpoint, err := c.resolveURL(resource)
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrFrontValidation, "recurso upstream inválido")
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return apiErrors.Wrap(err, apiErrors.ErrFrontValidation, "erro ao serializar corpo da requisição")
		}
	}

	raw, err := c.execute(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrFrontRender, "Falha ao processar dados (JSON) do servidor")
	}

	return nil
}

// execute roda a máquina de tentativas. O backoff só cresce em falha de
// transporte; a retentativa pós-renovação de sessão reutiliza o backoff atual
func (c *UpstreamClient) execute(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	retries := c.maxRetries
	backoff := c.backoff

	for {
		resp, err := c.attempt(ctx, method, endpoint, payload)
		if err != nil {
			if retries > 0 {
				log.ForContext(ctx).WithError(err).
					Warnf("falha de conexão com upstream em %s, tentando novamente (%d restantes)", endpoint, retries)
				c.sleep(backoff)
				backoff *= 2
				retries--
				continue
			}
			return nil, apiErrors.Wrap(err, apiErrors.ErrFrontNetwork, "Erro de comunicação com o servidor")
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, apiErrors.Wrap(readErr, apiErrors.ErrFrontNetwork, "erro ao ler resposta do upstream")
		}

		if resp.StatusCode == http.StatusUnauthorized && retries > 0 {
			log.ForContext(ctx).Warn("acesso negado pelo upstream (401), renovando sessão para nova tentativa")
			if refreshErr := c.session.Refresh(ctx); refreshErr == nil {
				retries--
				continue
			}
			return nil, apiErrors.New(apiErrors.ErrBackAuth, upstreamErrorMessage(raw, resp.StatusCode))
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &apiErrors.AppError{
				Code:    apiErrors.ErrBackInternal,
				Message: upstreamErrorMessage(raw, resp.StatusCode),
				Details: map[string]any{"status": resp.StatusCode},
			}
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, apiErrors.New(apiErrors.FromStatusCode(resp.StatusCode), upstreamErrorMessage(raw, resp.StatusCode))
		}

		return raw, nil
	}
}

func (c *UpstreamClient) attempt(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		// Ausência de sessão não impede a chamada, o upstream pode recusar
		log.ForContext(ctx).Warnf("nenhuma sessão encontrada para %s", endpoint)
	}

	return c.httpClient.Do(req)
}

func (c *UpstreamClient) resolveURL(resource string) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	parsed.Path = path.Join(parsed.Path, resource)
	return parsed.String(), nil
}

// upstreamErrorMessage extrai a mensagem do corpo de erro quando possível
func upstreamErrorMessage(raw []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return "Erro interno no servidor (" + http.StatusText(status) + ")"
}
