package models

import (
	"time"
)

// AuthToken represents an issued bearer token. Only the SHA-256 hash of the
// token is persisted; the raw token is returned to the client once at login.
type AuthToken struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	AccountID int64     `gorm:"not null;index:auth_tokens_account_ix;column:account_id"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex:auth_tokens_hash_ux;column:token_hash"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName specifies the table name for AuthToken
func (AuthToken) TableName() string {
	return "auth_tokens"
}
