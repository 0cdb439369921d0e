package models

import (
	"time"
)

// Account represents a registered user
type Account struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:accounts_email_ux;column:email"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash"`
	FirstName    string    `gorm:"type:varchar(150);not null;default:'';column:first_name"`
	LastName     string    `gorm:"type:varchar(150);not null;default:'';column:last_name"`
	Bio          string    `gorm:"type:text;not null;default:'';column:bio"`
	Image        string    `gorm:"type:varchar(1024);not null;default:'';column:image"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
