package models

import (
	"time"
)

// Follow represents a follow relationship. It is the single edge table
// behind both the follower and following views of the graph: B is a
// follower of A exactly when the row (follower=B, following=A) exists,
// so the two views cannot diverge.
type Follow struct {
	FollowerID  int64     `gorm:"primaryKey;column:follower_id"`
	FollowingID int64     `gorm:"primaryKey;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	Follower  *Account `gorm:"foreignKey:FollowerID;references:ID"`
	Following *Account `gorm:"foreignKey:FollowingID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
