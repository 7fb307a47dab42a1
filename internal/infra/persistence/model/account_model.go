package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'users' table.
type AccountModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	PID              uuid.UUID `gorm:"column:pid;type:uuid;uniqueIndex;not null"`
	Username         string    `gorm:"type:varchar(48);uniqueIndex:users_username_key;not null"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	Password         string    `gorm:"type:varchar(255);not null"`
	ResetTokenHash   *string   `gorm:"column:reset_token_hash;type:varchar(64);uniqueIndex:users_reset_token_hash_key"`
	ResetTokenSentAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Tasks []TaskModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
