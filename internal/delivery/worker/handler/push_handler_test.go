package handler

import (
	"context"
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
	"tasker/internal/domain/service"
	mockSvc "tasker/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

var now = time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)

func newTestHandler(t *testing.T, cfg *config.Config) (*PushHandler, *mockSvc.MockResetMailer, *mockSvc.MockClock) {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{PubSub: &config.PubSubConfig{Provider: config.PubSubProviderLocal}}
	}
	mailer := mockSvc.NewMockResetMailer(t)
	clock := mockSvc.NewMockClock(t)

	h := NewPushHandler(PushHandlerParams{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Mailer: mailer,
		Clock:  clock,
	})

	return h, mailer, clock
}

func newEvent() service.PasswordResetEvent {
	return service.PasswordResetEvent{
		RequestID:  "req-from-event",
		AccountID:  "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
		Email:      "alice@example.com",
		Username:   "alice",
		ResetToken: "raw-token",
		IssuedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		ExpiresAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = "msg-1"
	msg.Message.Attributes = attributes
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func servePush(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestHandlePush_Delivers(t *testing.T) {
	h, mailer, clock := newTestHandler(t, nil)

	clock.EXPECT().Now().Return(now)
	mailer.EXPECT().
		SendPasswordReset(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, event *service.PasswordResetEvent) error {
			assert.Equal(t, "alice@example.com", event.Email)
			assert.Equal(t, "raw-token", event.ResetToken)
			assert.Equal(t, "req-from-attr", event.RequestID)
			assert.Equal(t, "req-from-attr", deliverycontext.GetRequestIDFromContext(ctx))

			return nil
		})

	rec := servePush(h, pushBody(t, newEvent(), map[string]string{"request_id": "req-from-attr"}), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mailErr  error
		wantCode int
	}{
		{name: "relay unavailable is retried", mailErr: errors.New("dial tcp: timeout"), wantCode: http.StatusServiceUnavailable},
		{name: "rejected mail is dropped", mailErr: errors.Wrap(service.ErrMailRejected, "550"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mailer, clock := newTestHandler(t, nil)

			clock.EXPECT().Now().Return(now)
			mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).Return(tt.mailErr)

			rec := servePush(h, pushBody(t, newEvent(), nil), nil)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandlePush_ExpiredEventIsDropped(t *testing.T) {
	h, _, clock := newTestHandler(t, nil)

	clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))

	rec := servePush(h, pushBody(t, newEvent(), nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_IncompleteEventIsDropped(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)

	event := newEvent()
	event.ResetToken = ""

	rec := servePush(h, pushBody(t, event, nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "not base64", body: `{"message":{"data":"***"}}`},
		{name: "not an event", body: `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("[1,2]")) + `"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler(t, nil)

			rec := servePush(h, tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExtractRequestID(t *testing.T) {
	h, _, _ := newTestHandler(t, nil)
	event := newEvent()

	var msg PubSubMessage
	assert.Equal(t, "req-from-event", h.extractRequestID(context.Background(), &msg, &event))

	event.RequestID = ""
	ctx := deliverycontext.WithRequestID(context.Background(), "req-from-header")
	assert.Equal(t, "req-from-header", h.extractRequestID(ctx, &msg, &event))

	assert.NotEmpty(t, h.extractRequestID(context.Background(), &msg, &event))
}

func TestHandlePush_VerifiesGooglePushAuth(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle}}
	cfg.Env.Env = "production"

	tests := []struct {
		name     string
		header   string
		payload  *idtoken.Payload
		err      error
		wantCode int
	}{
		{name: "missing header", wantCode: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", err: errors.New("bad signature"), wantCode: http.StatusUnauthorized},
		{
			name:     "foreign issuer",
			header:   "Bearer good",
			payload:  &idtoken.Payload{Issuer: "https://evil.example.com"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unverified email",
			header:   "Bearer good",
			payload:  &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": false}},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "google signed",
			header:   "Bearer good",
			payload:  &idtoken.Payload{Issuer: "https://accounts.google.com"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mailer, clock := newTestHandler(t, cfg)
			require.True(t, h.verifyPushAuth)

			var gotAudience string
			h.validateToken = func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
				gotAudience = audience

				return tt.payload, tt.err
			}
			if tt.wantCode == http.StatusOK {
				clock.EXPECT().Now().Return(now)
				mailer.EXPECT().SendPasswordReset(mock.Anything, mock.Anything).Return(nil)
			}

			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			rec := servePush(h, pushBody(t, newEvent(), nil), header)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.payload != nil {
				assert.Equal(t, "http://example.com/push", gotAudience)
			}
		})
	}
}

func TestNewPushHandler_SkipsAuthInDevelop(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle}}
	cfg.Env.Env = config.EnvDevelop

	h, _, _ := newTestHandler(t, cfg)

	assert.False(t, h.verifyPushAuth)
}
