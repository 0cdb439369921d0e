package models

import (
	"time"
)

// PostLike represents a like edge from an account to a post. A post's like
// set and an account's liked-post set are the same rows read from either
// column.
type PostLike struct {
	AccountID int64     `gorm:"primaryKey;column:account_id"`
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID"`
	Post    *Post    `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}
