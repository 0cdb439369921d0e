package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/socialnet/socialnet/internal/models"
)

// AccountRepository provides account-related database operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// List retrieves a page of accounts ordered by email, optionally narrowed
// by a case-insensitive last-name substring.
func (r *AccountRepository) List(ctx context.Context, lastName string, limit, offset int) ([]*models.Account, error) {
	q := r.db.WithContext(ctx).Model(&models.Account{}).Order("email")
	if lastName != "" {
		q = q.Where(`LOWER(last_name) LIKE ? ESCAPE '\'`, LikePattern(lastName))
	}
	var accounts []*models.Account
	if err := q.Limit(limit).Offset(offset).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Update updates an account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// Delete removes an account together with everything it owns: its posts
// (with their comments, likes and hashtag links), its own comments and
// likes, its follow edges in both directions, and its tokens. A single
// transaction so a failed delete leaves no orphans.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []int64
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostHashtag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, id).Error
	})
}

// Followers retrieves a page of the accounts following the given account
func (r *AccountRepository) Followers(ctx context.Context, id int64, limit, offset int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = accounts.id").
		Where("follows.following_id = ?", id).
		Order("accounts.email").
		Limit(limit).Offset(offset).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Followings retrieves a page of the accounts the given account follows
func (r *AccountRepository) Followings(ctx context.Context, id int64, limit, offset int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = accounts.id").
		Where("follows.follower_id = ?", id).
		Order("accounts.email").
		Limit(limit).Offset(offset).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FollowerIDs retrieves the IDs of accounts following the given account
func (r *AccountRepository) FollowerIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", id).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// FollowingIDs retrieves the IDs of accounts the given account follows
func (r *AccountRepository) FollowingIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", id).
		Pluck("following_id", &ids).Error
	return ids, err
}

// Stats holds the counters shown in account list responses
type Stats struct {
	Followers  int64
	Followings int64
	Posts      int64
}

// StatsFor counts followers, followings and posts for an account
func (r *AccountRepository) StatsFor(ctx context.Context, id int64) (*Stats, error) {
	var s Stats
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", id).Count(&s.Followers).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", id).Count(&s.Followings).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", id).Count(&s.Posts).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
