package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialnet/socialnet/internal/models"
)

// FollowRepository maintains the follow edge table. Both logical directions
// of the graph (followers and followings) are views over the same rows, so
// a toggle is a single insert or delete inside a transaction and the two
// views cannot drift apart under concurrent requests.
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Toggle flips the follow edge follower -> following. If the edge exists it
// is removed, otherwise it is created. Removing an edge that a concurrent
// request already removed is a silent no-op.
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followingID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return insertFollow(tx, followerID, followingID)
		}
		return tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{}).Error
	})
}

// insertFollow creates the edge, treating an already-present edge as a
// no-op: a concurrent toggle may have won the race after our existence
// check, and both sides of the toggle stay silently idempotent.
func insertFollow(tx *gorm.DB, followerID, followingID int64) error {
	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

// IsFollowing reports whether the edge follower -> following exists
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// LikeRepository maintains the like edge table between accounts and posts
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Toggle flips the like edge account -> post
func (r *LikeRepository) Toggle(ctx context.Context, accountID, postID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("account_id = ? AND post_id = ?", accountID, postID).
			First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return insertLike(tx, accountID, postID)
		}
		return tx.Where("account_id = ? AND post_id = ?", accountID, postID).
			Delete(&models.PostLike{}).Error
	})
}

// insertLike creates the edge, tolerating one a concurrent toggle
// already created.
func insertLike(tx *gorm.DB, accountID, postID int64) error {
	like := &models.PostLike{
		AccountID: accountID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// IsLiked reports whether the account has liked the post
func (r *LikeRepository) IsLiked(ctx context.Context, accountID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("account_id = ? AND post_id = ?", accountID, postID).
		Count(&count).Error
	return count > 0, err
}

// LikeCount counts likes on a post
func (r *LikeRepository) LikeCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
