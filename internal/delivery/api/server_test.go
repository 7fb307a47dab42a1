package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tasker/config"
	"tasker/internal/delivery/api/middleware"
	"tasker/internal/delivery/api/router"
	"tasker/internal/delivery/api/router/handler"
	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/service"
	"tasker/internal/infra/auth"
	"tasker/internal/infra/persistence/memory"
	"tasker/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type capturingPublisher struct {
	mu     sync.Mutex
	tokens []string
}

func (p *capturingPublisher) PublishPasswordReset(_ context.Context, event *service.PasswordResetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tokens = append(p.tokens, event.ResetToken)

	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) last(t *testing.T) string {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.tokens)

	return p.tokens[len(p.tokens)-1]
}

type testServer struct {
	t         *testing.T
	echo      *echo.Echo
	publisher *capturingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			JWTSecret:     base64.StdEncoding.EncodeToString([]byte("api-test-signing-key-0123456789ab")),
			ResetTokenTTL: 30 * time.Minute,
			Argon2:        config.Argon2Config{MemoryKiB: 64, Iterations: 1, Parallelism: 1},
		},
		Tasks: &config.TasksConfig{},
	}
	cfg.HTTP.MaxRequestBodySize = "100KB"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fixedClock{now: time.Now()}
	store := memory.NewStore()
	hasher := auth.NewArgon2Hasher(cfg)
	tokens, err := auth.NewJWTService(cfg, logger)
	require.NoError(t, err)
	publisher := &capturingPublisher{}

	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:    store.TransactionManager(),
		AccountRepo:  store.AccountRepo(),
		Hasher:       hasher,
		TokenService: tokens,
		Clock:        clock,
		Logger:       logger,
	})
	recoveryUC := impl.NewRecoveryService(impl.RecoveryServiceParams{
		TxManager:   store.TransactionManager(),
		AccountRepo: store.AccountRepo(),
		Hasher:      hasher,
		Tokens:      auth.NewResetTokenGenerator(),
		Publisher:   publisher,
		Clock:       clock,
		Config:      cfg,
		Logger:      logger,
	})
	taskUC := impl.NewTaskService(impl.TaskServiceParams{
		TxManager:   store.TransactionManager(),
		AccountRepo: store.AccountRepo(),
		TaskRepo:    store.TaskRepo(),
		Config:      cfg,
		Logger:      logger,
	})

	srv, err := NewServer(ServerParams{
		Lc:     fxtest.NewLifecycle(t),
		Cfg:    cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
				AccountUC:  accountUC,
				RecoveryUC: recoveryUC,
				Logger:     logger,
			}),
			AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{AccountUC: accountUC, Logger: logger}),
			TaskHandler:    handler.NewTaskHandler(handler.TaskHandlerParams{TaskUC: taskUC, Logger: logger}),
			AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthMiddlewareParams{TokenService: tokens, Clock: clock}),
		},
	})
	require.NoError(t, err)

	return &testServer{t: t, echo: srv.(*apiServer).server, publisher: publisher}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) data(rec *httptest.ResponseRecorder) map[string]any {
	s.t.Helper()

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func (s *testServer) registerAndLogin(username, email string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/auth/register", "",
		`{"username":"`+username+`","email":"`+email+`","password":"password123"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"password123"}`)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	token, ok := s.data(rec)["token"].(string)
	require.True(s.t, ok)

	return token
}

func TestServer_TaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin("alice", "alice@example.com")

	rec := s.do(http.MethodGet, "/account", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", s.data(rec)["username"])

	rec = s.do(http.MethodPost, "/tasks", alice, `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID, ok := s.data(rec)["id"].(string)
	require.True(t, ok)

	rec = s.do(http.MethodPatch, "/tasks/"+taskID, alice, `{"done":true,"description":"two litres"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, s.data(rec)["done"])
	assert.Equal(t, "two litres", s.data(rec)["description"])

	rec = s.do(http.MethodPatch, "/tasks/"+taskID, alice, `{"description":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.data(rec)["description"])

	rec = s.do(http.MethodDelete, "/tasks/"+taskID, alice, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/tasks/"+taskID, alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CrossOwnerIsolation(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin("alice", "alice@example.com")
	bob := s.registerAndLogin("bobby", "bob@example.com")

	rec := s.do(http.MethodPost, "/tasks", alice, `{"title":"Alice's secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := s.data(rec)["id"].(string)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/tasks/"+taskID, bob, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/tasks/"+taskID, bob, `{"done":true}`).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/tasks/"+taskID, bob, "").Code)

	rec = s.do(http.MethodGet, "/tasks", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestServer_PasswordReset(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin("alice", "alice@example.com")

	known := s.do(http.MethodPost, "/auth/forgot-password", "", `{"email":"alice@example.com"}`)
	unknown := s.do(http.MethodPost, "/auth/forgot-password", "", `{"email":"nobody@example.com"}`)
	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, s.data(known), s.data(unknown))

	token := s.publisher.last(t)
	body := `{"token":"` + token + `","password":"new-password"}`

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auth/reset-password", "", body).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/auth/reset-password", "", body).Code)

	rec := s.do(http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"new-password"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_DeleteAccountRevokesAccess(t *testing.T) {
	s := newTestServer(t)
	alice := s.registerAndLogin("alice", "alice@example.com")

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/tasks", alice, `{"title":"Buy milk"}`).Code)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/account", alice, "").Code)

	rec := s.do(http.MethodGet, "/account", alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/auth/register", "", `{"username":"alice","email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestServer_Envelope(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)

	rec = s.do(http.MethodGet, "/tasks", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)

	rec = s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
