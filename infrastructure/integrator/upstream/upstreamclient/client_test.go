package upstreamclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/customer-success-api/pkg/apiErrors"
)

type fakeSession struct {
	token       string
	refreshErr  error
	refreshed   int
	tokenAfter  string
}

func (s *fakeSession) Token() string {
	return s.token
}

func (s *fakeSession) Refresh(_ context.Context) error {
	s.refreshed++
	if s.refreshErr != nil {
		return s.refreshErr
	}
	if s.tokenAfter != "" {
		s.token = s.tokenAfter
	}
	return nil
}

type step struct {
	resp *http.Response
	err  error
}

type fakeTransport struct {
	steps    []step
	requests []*http.Request
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req)
	if len(t.steps) == 0 {
		return nil, errors.New("sem passos restantes no transporte de teste")
	}
	next := t.steps[0]
	t.steps = t.steps[1:]
	return next.resp, next.err
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestClient(transport *fakeTransport, session Session) (*UpstreamClient, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	client := &UpstreamClient{
		httpClient: &http.Client{Transport: transport},
		baseURL:    "http://upstream.local/api",
		session:    session,
		maxRetries: 3,
		backoff:    time.Second,
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	}
	return client, sleeps
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("falhas de rede são retentadas com backoff dobrado", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{err: errors.New("connection refused")},
			{err: errors.New("connection refused")},
			{resp: response(http.StatusOK, `{"status":"ok"}`)},
		}}
		client, sleeps := newTestClient(transport, &fakeSession{token: "tok-1"})

		var out map[string]string
		err := client.Get(ctx, "/accounts", &out)

		require.NoError(t, err)
		assert.Equal(t, "ok", out["status"])
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
		assert.Len(t, transport.requests, 3)
	})

	t.Run("tentativas esgotadas viram erro de rede classificado", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{err: errors.New("connection refused")},
			{err: errors.New("connection refused")},
			{err: errors.New("connection refused")},
			{err: errors.New("connection refused")},
		}}
		client, sleeps := newTestClient(transport, &fakeSession{token: "tok-1"})

		err := client.Get(ctx, "/accounts", nil)

		require.Error(t, err)
		appErr := apiErrors.FromError(err, apiErrors.ErrBackInternal)
		assert.Equal(t, apiErrors.ErrFrontNetwork, appErr.Code)
		assert.Len(t, *sleeps, 3)
	})

	t.Run("401 renova a sessão e repete sem dormir", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{resp: response(http.StatusUnauthorized, `{"message":"expired"}`)},
			{resp: response(http.StatusOK, `{"status":"ok"}`)},
		}}
		session := &fakeSession{token: "tok-velho", tokenAfter: "tok-novo"}
		client, sleeps := newTestClient(transport, session)

		var out map[string]string
		err := client.Get(ctx, "/accounts", &out)

		require.NoError(t, err)
		assert.Equal(t, 1, session.refreshed)
		assert.Empty(t, *sleeps, "retentativa pós-renovação não espera")
		require.Len(t, transport.requests, 2)
		assert.Equal(t, "Bearer tok-velho", transport.requests[0].Header.Get("Authorization"))
		assert.Equal(t, "Bearer tok-novo", transport.requests[1].Header.Get("Authorization"))
	})

	t.Run("falha na renovação devolve erro de autenticação sem nova tentativa", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{resp: response(http.StatusUnauthorized, `{"message":"expired"}`)},
		}}
		session := &fakeSession{token: "tok-velho", refreshErr: errors.New("refresh recusado")}
		client, _ := newTestClient(transport, session)

		err := client.Get(ctx, "/accounts", nil)

		require.Error(t, err)
		appErr := apiErrors.FromError(err, apiErrors.ErrBackInternal)
		assert.Equal(t, apiErrors.ErrBackAuth, appErr.Code)
		assert.Len(t, transport.requests, 1)
	})

	t.Run("5xx vira erro interno imediato sem retry", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{resp: response(http.StatusInternalServerError, `{"message":"db caiu"}`)},
		}}
		client, sleeps := newTestClient(transport, &fakeSession{token: "tok-1"})

		err := client.Get(ctx, "/accounts", nil)

		require.Error(t, err)
		appErr := apiErrors.FromError(err, apiErrors.ErrFrontNetwork)
		assert.Equal(t, apiErrors.ErrBackInternal, appErr.Code)
		assert.Equal(t, "db caiu", appErr.Message)
		assert.Empty(t, *sleeps)
		assert.Len(t, transport.requests, 1)
	})

	t.Run("corpo presente recebe content-type json por padrão", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{resp: response(http.StatusOK, `{}`)},
		}}
		client, _ := newTestClient(transport, &fakeSession{token: "tok-1"})

		err := client.Post(ctx, "/accounts", map[string]string{"name": "Acme"}, nil)

		require.NoError(t, err)
		require.Len(t, transport.requests, 1)
		assert.Equal(t, "application/json", transport.requests[0].Header.Get("Content-Type"))
	})

	t.Run("sem token a chamada segue sem authorization", func(t *testing.T) {
		transport := &fakeTransport{steps: []step{
			{resp: response(http.StatusOK, `{}`)},
		}}
		client, _ := newTestClient(transport, &fakeSession{})

		err := client.Get(ctx, "/accounts", nil)

		require.NoError(t, err)
		assert.Empty(t, transport.requests[0].Header.Get("Authorization"))
	})
}
