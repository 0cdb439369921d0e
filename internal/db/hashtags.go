package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/socialnet/socialnet/internal/models"
)

// ErrHashtagExists is returned when creating or renaming a hashtag to a
// name already taken.
var ErrHashtagExists = errors.New("hashtag name already exists")

// HashtagRepository provides hashtag-related database operations
type HashtagRepository struct {
	*Repository
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(repo *Repository) *HashtagRepository {
	return &HashtagRepository{Repository: repo}
}

// GetByID retrieves a hashtag by ID
func (r *HashtagRepository) GetByID(ctx context.Context, id int64) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// GetByName retrieves a hashtag by its normalized name
func (r *HashtagRepository) GetByName(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := r.db.WithContext(ctx).Where("name = ?", models.NormalizeHashtag(name)).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// List retrieves all hashtags ordered by name
func (r *HashtagRepository) List(ctx context.Context) ([]*models.Hashtag, error) {
	var tags []*models.Hashtag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create creates a hashtag with the given raw name. The name is normalized
// first; an existing name is a conflict, not a duplicate row.
func (r *HashtagRepository) Create(ctx context.Context, rawName string) (*models.Hashtag, error) {
	name := models.NormalizeHashtag(rawName)
	var tag models.Hashtag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Hashtag{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrHashtagExists
		}
		tag = models.Hashtag{Name: name}
		return tx.Create(&tag).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Rename changes a hashtag's name, keeping normalization and uniqueness
func (r *HashtagRepository) Rename(ctx context.Context, id int64, rawName string) (*models.Hashtag, error) {
	name := models.NormalizeHashtag(rawName)
	var tag models.Hashtag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.Hashtag{}).
			Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrHashtagExists
		}
		tag.Name = name
		return tx.Save(&tag).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}
