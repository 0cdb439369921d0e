package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/socialnet/socialnet/internal/models"
)

// TokenRepository provides auth-token database operations
type TokenRepository struct {
	*Repository
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(repo *Repository) *TokenRepository {
	return &TokenRepository{Repository: repo}
}

// Create stores the hash of a freshly issued token
func (r *TokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// AccountForHash resolves a token hash to its account, ignoring tokens
// issued before notBefore.
func (r *TokenRepository) AccountForHash(ctx context.Context, hash string, notBefore time.Time) (*models.Account, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND created_at > ?", hash, notBefore).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, token.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// DeleteForAccount revokes every token issued to an account
func (r *TokenRepository) DeleteForAccount(ctx context.Context, accountID int64) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.AuthToken{}).Error
}
