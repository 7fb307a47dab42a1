package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tasker/config"
	"tasker/internal/domain/repository"
	mockRepo "tasker/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

var t0 = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			ResetTokenTTL: 30 * time.Minute,
		},
		Tasks: &config.TasksConfig{},
	}
}

// expectTransaction runs the unit of work against a fresh factory mock
// prepared by setup.
func expectTransaction(
	t *testing.T,
	txManager *mockRepo.MockTransactionManager,
	setup func(factory *mockRepo.MockRepositoryFactory),
) {
	t.Helper()

	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			setup(factory)

			return fn(factory)
		}).
		Once()
}
