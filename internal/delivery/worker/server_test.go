package worker

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasker/config"
	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/delivery/worker/handler"
	"tasker/internal/domain/service"
	mockSvc "tasker/internal/mocks/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestWorkerServer_Routes(t *testing.T) {
	cfg := &config.Config{
		PubSub: &config.PubSubConfig{Provider: config.PubSubProviderLocal},
		Worker: &config.WorkerConfig{Port: 8081},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mailer := mockSvc.NewMockResetMailer(t)
	clock := mockSvc.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).Return(nil)

	params := ServerParams{
		Lc:     fxtest.NewLifecycle(t),
		Cfg:    cfg,
		Logger: logger,
		PushHandler: handler.NewPushHandler(handler.PushHandlerParams{
			Config: cfg,
			Logger: logger,
			Mailer: mailer,
			Clock:  clock,
		}),
	}
	srv, err := NewServer(params)
	require.NoError(t, err)
	e := srv.(*workerServer).server

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(service.PasswordResetEvent{
		AccountID:  "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
		Email:      "alice@example.com",
		ResetToken: "raw-token",
		ExpiresAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	body := `{"message":{"data":"` + base64.StdEncoding.EncodeToString(data) + `","messageId":"m-1"}}`

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-worker")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-worker", rec.Header().Get(deliverycontext.HeaderXRequestID))
}
