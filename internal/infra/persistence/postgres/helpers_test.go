package postgres

import (
	"database/sql/driver"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	fixedTime  = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

var accountColumns = []string{
	"id", "pid", "username", "email", "password",
	"reset_token_hash", "reset_token_sent_at", "created_at", "updated_at",
}

var taskColumns = []string{
	"id", "pid", "user_id", "title", "description", "done", "created_at", "updated_at",
}

func accountRow(id int64, pid, username, email string, tokenHash, sentAt driver.Value) []driver.Value {
	return []driver.Value{id, pid, username, email, "$argon2id$digest", tokenHash, sentAt, fixedTime, fixedTime}
}

func taskRow(id int64, pid string, ownerID int64, title string, description driver.Value, done bool) []driver.Value {
	return []driver.Value{id, pid, ownerID, title, description, done, fixedTime, fixedTime}
}
