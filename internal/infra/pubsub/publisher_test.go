package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasker/config"
	"tasker/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resetEvent() *service.PasswordResetEvent {
	issued := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	return &service.PasswordResetEvent{
		RequestID:  "req-123",
		AccountID:  "0f8fad5b-d9cb-469f-a165-70867728950e",
		Email:      "a@x.com",
		Username:   "alice_01",
		ResetToken: "raw-token",
		IssuedAt:   issued,
		ExpiresAt:  issued.Add(30 * time.Minute),
	}
}

func TestLocalHTTPPublisher_SendsPushEnvelope(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	err := publisher.PublishPasswordReset(context.Background(), resetEvent())
	require.NoError(t, err)

	assert.Equal(t, "req-123", requestID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, EventTypePasswordReset, received.Message.Attributes["event_type"])
	assert.NotContains(t, received.Message.Attributes, "reset_token")
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.PasswordResetEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "raw-token", decoded.ResetToken)
	assert.Equal(t, "a@x.com", decoded.Email)
	assert.True(t, decoded.ExpiresAt.Equal(resetEvent().ExpiresAt))
}

func TestLocalHTTPPublisher_WorkerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	err := publisher.PublishPasswordReset(context.Background(), resetEvent())
	assert.ErrorContains(t, err, "non-success status: 503")
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		pubsub  *config.PubSubConfig
		wantErr string
	}{
		{name: "unconfigured falls back to no-op"},
		{name: "empty provider falls back to no-op", pubsub: &config.PubSubConfig{}},
		{name: "local", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderLocal, LocalEndpoint: "http://localhost:8081/push"}},
		{name: "local without endpoint", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderLocal}, wantErr: "local endpoint is required"},
		{name: "google without project", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, TopicID: "t"}, wantErr: "project ID is required"},
		{name: "google without topic", pubsub: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, ProjectID: "p"}, wantErr: "topic ID is required"},
		{name: "unknown provider", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantErr: "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)

			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.pubsub},
				Logger: discardLogger(),
			})

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, publisher)

			if _, noop := publisher.(*noopPublisher); noop {
				assert.NoError(t, publisher.PublishPasswordReset(context.Background(), resetEvent()))
			}
		})
	}
}
