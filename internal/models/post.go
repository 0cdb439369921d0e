package models

import (
	"time"
)

// Post represents a post authored by an account. The author is fixed at
// creation and never reassigned.
type Post struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:id"`
	AuthorID    int64      `gorm:"not null;index:posts_author_ix;column:author_id"`
	Title       string     `gorm:"type:varchar(255);not null;column:title"`
	Content     string     `gorm:"type:text;not null;default:'';column:content"`
	Image       string     `gorm:"type:varchar(1024);not null;default:'';column:image"`
	CreatedAt   time.Time  `gorm:"not null;column:created_at"`
	Published   bool       `gorm:"not null;default:true;column:published"`
	PublishTime *time.Time `gorm:"column:publish_time"`

	Author *Account `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostHashtag represents a post-to-hashtag mapping
type PostHashtag struct {
	PostID    int64 `gorm:"primaryKey;column:post_id"`
	HashtagID int64 `gorm:"primaryKey;column:hashtag_id"`
}

// TableName specifies the table name for PostHashtag
func (PostHashtag) TableName() string {
	return "post_hashtags"
}
