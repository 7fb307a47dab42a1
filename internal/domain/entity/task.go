package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is a to-do item owned by exactly one account.
type Task struct {
	ID          int64     // Sequential storage identifier.
	PID         uuid.UUID // Stable external identifier used in URLs.
	OwnerID     int64     // Account.ID of the owner; fixed at creation.
	Title       string    // 5 to 32 characters.
	Description *string   // Optional, up to 256 characters.
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the task belongs to the given account.
func (t *Task) OwnedBy(accountID int64) bool {
	return t.OwnerID == accountID
}
