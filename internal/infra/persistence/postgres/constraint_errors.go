package postgres

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Constraint names created by the migrations
const (
	constraintUsersUsername       = "users_username_key"
	constraintUsersEmail          = "users_email_key"
	constraintUsersResetTokenHash = "users_reset_token_hash_key"
	constraintTasksUser           = "tasks_user_id_fkey"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	return nil, false
}

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.Code == pgUniqueViolation
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.Code == pgForeignKeyViolation
	}

	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotNullConstraintViolation(err error) bool {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.Code == pgNotNullViolation
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, pgNotNullViolation)
}

func isCheckConstraintViolation(err error) bool {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.Code == pgCheckViolation
	}

	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// violatedConstraint returns the constraint named by the driver error, if any.
func violatedConstraint(err error) string {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.ConstraintName
	}

	return ""
}
