package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskModel mirrors the 'tasks' table. UserID references users.id.
type TaskModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PID         uuid.UUID `gorm:"column:pid;type:uuid;uniqueIndex;not null"`
	UserID      int64     `gorm:"index;not null"`
	Title       string    `gorm:"type:varchar(32);not null"`
	Description *string   `gorm:"type:varchar(256)"`
	Done        bool      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}
