package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"auth": map[string]any{
			"jwtSecret":     "",
			"resetTokenTTL": "30m",
		},
		"tasks": map[string]any{
			"concealForeignWrites": false,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "AUTH_JWTSECRET", want: "auth.jwtSecret"},
		{envKey: "AUTH_RESETTOKENTTL", want: "auth.resetTokenTTL"},
		{envKey: "TASKS_CONCEALFOREIGNWRITES", want: "tasks.concealForeignWrites"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func validMemoryConfig() *Config {
	cfg := &Config{
		Storage: &StorageConfig{Driver: StorageDriverMemory},
		Auth: &AuthConfig{
			JWTSecret: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32))),
		},
	}
	cfg.applyDefaults()

	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid memory config", func(t *testing.T) {
		require.NoError(t, validMemoryConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.Auth.JWTSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "jwtSecret must be provided")
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.Auth.JWTSecret = base64.StdEncoding.EncodeToString([]byte("too-short"))
		assert.ErrorContains(t, cfg.Validate(), "at least 32 bytes")
	})

	t.Run("secret not base64", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.Auth.JWTSecret = "%%%not-base64%%%"
		assert.ErrorContains(t, cfg.Validate(), "not valid base64")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.Storage.Driver = "sqlite"
		assert.ErrorContains(t, cfg.Validate(), "unknown storage driver")
	})

	t.Run("postgres driver without postgres section", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.Storage.Driver = StorageDriverPostgres
		assert.ErrorContains(t, cfg.Validate(), "postgres configuration is required")
	})

	t.Run("unknown pubsub provider", func(t *testing.T) {
		cfg := validMemoryConfig()
		cfg.PubSub = &PubSubConfig{Provider: "kafka"}
		assert.ErrorContains(t, cfg.Validate(), "unknown pubsub provider")
	})
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.False(t, cfg.Tasks.ConcealForeignWrites)
	assert.False(t, cfg.Migration.Enabled)
	assert.Equal(t, defaultWorkerPort, cfg.Worker.Port)
	assert.Zero(t, cfg.Mail.Port)
}

func TestConfig_ApplyDefaults_SMTPPortOnlyWithHost(t *testing.T) {
	cfg := &Config{Mail: &MailConfig{Host: "smtp.example.com"}}
	cfg.applyDefaults()

	assert.Equal(t, defaultSMTPPort, cfg.Mail.Port)
}

func TestDecodeSecret_AcceptsURLSafeUnpadded(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xfe, 0x01, 0x02}
	decoded, err := DecodeSecret(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
