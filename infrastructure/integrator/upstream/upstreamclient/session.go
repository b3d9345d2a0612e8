package upstreamclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
	"github.com/vfg2006/customer-success-api/pkg/log"
)

const refreshTokenSecretName = "upstream_refresh_token"

// SessionManager guarda os tokens de acesso do upstream e os renova sob
// demanda. Renovações concorrentes são serializadas pelo mutex
type SessionManager struct {
	cfg        *config.Config
	httpClient *http.Client
	secrets    config.SecretStorage

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewSessionManager cria o gerenciador a partir dos tokens da configuração.
// secrets é opcional e, quando presente, persiste o refresh token renovado
func NewSessionManager(cfg *config.Config, secrets config.SecretStorage) *SessionManager {
	return &SessionManager{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		secrets:      secrets,
		accessToken:  cfg.Upstream.AccessToken,
		refreshToken: cfg.Upstream.RefreshToken,
	}
}

// Token devolve o token de acesso corrente, vazio quando não há sessão
func (sm *SessionManager) Token() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.accessToken
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Refresh troca o refresh token por uma sessão nova junto ao serviço de
// identidade
func (sm *SessionManager) Refresh(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.refreshToken == "" {
		return apiErrors.New(apiErrors.ErrBackAuth, "sessão expirada e sem refresh token para renovação")
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": sm.refreshToken})
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrBackInternal, "erro ao montar requisição de renovação de sessão")
	}

	endpoint := sm.cfg.Upstream.AuthURL + "/token?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrBackInternal, "erro ao montar requisição de renovação de sessão")
	}
	req.Header.Set("Content-Type", "application/json")
	if sm.cfg.Upstream.APIKey != "" {
		req.Header.Set("apikey", sm.cfg.Upstream.APIKey)
	}

	resp, err := sm.httpClient.Do(req)
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrFrontNetwork, "erro de rede ao renovar sessão")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrFrontNetwork, "erro ao ler resposta de renovação de sessão")
	}

	if resp.StatusCode != http.StatusOK {
		return apiErrors.New(apiErrors.FromStatusCode(resp.StatusCode), "renovação de sessão recusada pelo upstream")
	}

	var session refreshResponse
	if err := json.Unmarshal(raw, &session); err != nil {
		return apiErrors.Wrap(err, apiErrors.ErrFrontRender, "resposta de renovação de sessão ilegível")
	}
	if session.AccessToken == "" {
		return apiErrors.New(apiErrors.ErrBackAuth, "renovação de sessão não devolveu token de acesso")
	}

	sm.accessToken = session.AccessToken
	if session.RefreshToken != "" {
		sm.refreshToken = session.RefreshToken
	}
	sm.expiresAt = time.Now().Add(time.Duration(session.ExpiresIn) * time.Second)

	log.ForContext(ctx).Infof("sessão upstream renovada, expira em %s", sm.expiresAt.Format(time.RFC3339))

	sm.persistRefreshToken(ctx)

	return nil
}

// EnsureValidToken renova a sessão proativamente quando o token está ausente
// ou próximo de expirar
func (sm *SessionManager) EnsureValidToken(ctx context.Context) error {
	sm.mu.Lock()
	needsRefresh := sm.accessToken == "" ||
		(!sm.expiresAt.IsZero() && time.Until(sm.expiresAt) < time.Minute)
	sm.mu.Unlock()

	if !needsRefresh {
		return nil
	}
	return sm.Refresh(ctx)
}

func (sm *SessionManager) persistRefreshToken(ctx context.Context) {
	if sm.secrets == nil || sm.cfg.Render.ServiceID == "" {
		return
	}
	if err := sm.secrets.AddOrUpdateSecret(sm.cfg.Render.ServiceID, refreshTokenSecretName, sm.refreshToken); err != nil {
		log.ForContext(ctx).WithError(err).Warn("falha ao persistir refresh token renovado")
	}
}
