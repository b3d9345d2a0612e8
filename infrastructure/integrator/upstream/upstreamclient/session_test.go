package upstreamclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/internal/config"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

func sessionConfig(authURL string) *config.Config {
	return &config.Config{
		Upstream: config.Upstream{
			AuthURL:        authURL,
			APIKey:         "chave-publica",
			AccessToken:    "tok-inicial",
			RefreshToken:   "refresh-inicial",
			TimeoutSeconds: 5,
		},
	}
}

func TestSessionManagerRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("renovação troca os tokens da sessão", func(t *testing.T) {
		var gotAPIKey, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAPIKey = r.Header.Get("apikey")
			gotContentType = r.Header.Get("Content-Type")
			assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"tok-novo","refresh_token":"refresh-novo","expires_in":3600}`))
		}))
		defer server.Close()

		sm := NewSessionManager(sessionConfig(server.URL), nil)

		require.NoError(t, sm.Refresh(ctx))
		assert.Equal(t, "tok-novo", sm.Token())
		assert.Equal(t, "refresh-novo", sm.refreshToken)
		assert.Equal(t, "chave-publica", gotAPIKey)
		assert.Equal(t, "application/json", gotContentType)
	})

	t.Run("recusa do upstream vira erro de autenticação", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		sm := NewSessionManager(sessionConfig(server.URL), nil)

		err := sm.Refresh(ctx)
		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrBackAuth, apiErrors.FromError(err, apiErrors.ErrBackInternal).Code)
	})

	t.Run("sem refresh token a renovação falha direto", func(t *testing.T) {
		cfg := sessionConfig("http://auth.local")
		cfg.Upstream.RefreshToken = ""
		sm := NewSessionManager(cfg, nil)

		err := sm.Refresh(ctx)
		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrBackAuth, apiErrors.FromError(err, apiErrors.ErrBackInternal).Code)
	})

	t.Run("ensure renova apenas quando necessário", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"access_token":"tok-novo","expires_in":3600}`))
		}))
		defer server.Close()

		cfg := sessionConfig(server.URL)
		cfg.Upstream.AccessToken = ""
		sm := NewSessionManager(cfg, nil)

		require.NoError(t, sm.EnsureValidToken(ctx))
		assert.Equal(t, 1, calls)

		// Sessão recém renovada não dispara nova chamada
		require.NoError(t, sm.EnsureValidToken(ctx))
		assert.Equal(t, 1, calls)
	})
}
