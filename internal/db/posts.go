package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/socialnet/socialnet/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID with its author loaded
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a post and attaches its hashtags in one transaction.
// Hashtag names are normalized; existing names attach the existing row.
func (r *PostRepository) Create(ctx context.Context, post *models.Post, hashtagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return attachHashtags(tx, post.ID, hashtagNames)
	})
}

// Update saves post fields and, when hashtagNames is non-nil, replaces the
// post's hashtag set.
func (r *PostRepository) Update(ctx context.Context, post *models.Post, hashtagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		if hashtagNames == nil {
			return nil
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostHashtag{}).Error; err != nil {
			return err
		}
		return attachHashtags(tx, post.ID, hashtagNames)
	})
}

// attachHashtags finds or creates each named hashtag and links it to the
// post. Hashtags themselves are never deleted here; a tag may outlive all
// posts carrying it.
func attachHashtags(tx *gorm.DB, postID int64, names []string) error {
	seen := make(map[string]bool)
	for _, raw := range names {
		name := models.NormalizeHashtag(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Hashtag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tag = models.Hashtag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		link := models.PostHashtag{PostID: postID, HashtagID: tag.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a post with its comments, likes and hashtag links
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostHashtag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// HashtagsFor retrieves the hashtags attached to a post
func (r *PostRepository) HashtagsFor(ctx context.Context, postID int64) ([]*models.Hashtag, error) {
	var tags []*models.Hashtag
	err := r.db.WithContext(ctx).
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.id").
		Where("post_hashtags.post_id = ?", postID).
		Order("hashtags.name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CommentCount counts comments on a post
func (r *PostRepository) CommentCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// LikedBy retrieves a page of the posts an account has liked, newest like
// first.
func (r *PostRepository) LikedBy(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.account_id = ?", accountID).
		Order("post_likes.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PublishedBy retrieves a page of an account's published posts, newest
// first.
func (r *PostRepository) PublishedBy(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("author_id = ? AND published = ?", accountID, true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ErrPublishTimeRequired is returned when an unpublished post carries no
// scheduled publish time.
var ErrPublishTimeRequired = errors.New("publish_time is required for unpublished posts")

// ValidatePublishRule enforces the write-time invariant that a post is
// either published or scheduled.
func ValidatePublishRule(published bool, publishTime *time.Time) error {
	if !published && publishTime == nil {
		return ErrPublishTimeRequired
	}
	return nil
}
