package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialnet/socialnet/internal/auth"
	"github.com/socialnet/socialnet/internal/cache"
	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/media"
	"github.com/socialnet/socialnet/internal/models"
	"github.com/socialnet/socialnet/pkg/config"
	"github.com/socialnet/socialnet/pkg/logging"
)

// UsersAPI provides account-related handlers
type UsersAPI struct {
	accounts *db.AccountRepository
	posts    *db.PostRepository
	follows  *db.FollowRepository
	likes    *db.LikeRepository
	tokens   *db.TokenRepository
	storage  *media.Storage
	cache    *cache.Cache
	authCfg  *config.AuthConfig
	logger   *zap.Logger
}

// NewUsersAPI creates a new users API
func NewUsersAPI(repo *db.Repository, storage *media.Storage, redisCache *cache.Cache, authCfg *config.AuthConfig) *UsersAPI {
	return &UsersAPI{
		accounts: db.NewAccountRepository(repo),
		posts:    db.NewPostRepository(repo),
		follows:  db.NewFollowRepository(repo),
		likes:    db.NewLikeRepository(repo),
		tokens:   db.NewTokenRepository(repo),
		storage:  storage,
		cache:    redisCache,
		authCfg:  authCfg,
		logger:   logging.WithComponent("users-api"),
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

// Register handles POST /users/register
func (u *UsersAPI) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	existing, err := u.accounts.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if existing != nil {
		abortValidation(c, "email", "an account with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password, u.authCfg.BcryptCost)
	if err != nil {
		abortInternal(c, err)
		return
	}

	account := &models.Account{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.accounts.Create(c.Request.Context(), account); err != nil {
		abortInternal(c, err)
		return
	}

	u.logger.Info("account registered", zap.Int64("account_id", account.ID))
	c.JSON(http.StatusCreated, NewAccountDetail(account, nil, nil))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /users/login
func (u *UsersAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	account, err := u.accounts.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, req.Password) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, hash := auth.NewToken()
	record := &models.AuthToken{
		AccountID: account.ID,
		TokenHash: hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.tokens.Create(c.Request.Context(), record); err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// List handles GET /users
func (u *UsersAPI) List(c *gin.Context) {
	limit, offset := pagination(c)
	accounts, err := u.accounts.List(c.Request.Context(), c.Query("last_name"), limit, offset)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items := make([]AccountListItem, 0, len(accounts))
	for _, account := range accounts {
		stats, err := u.accounts.StatsFor(c.Request.Context(), account.ID)
		if err != nil {
			abortInternal(c, err)
			return
		}
		items = append(items, NewAccountListItem(account, &Stats{
			Followers:  stats.Followers,
			Followings: stats.Followings,
			Posts:      stats.Posts,
		}))
	}

	c.JSON(http.StatusOK, items)
}

// Get handles GET /users/:id
func (u *UsersAPI) Get(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}

	followerIDs, err := u.accounts.FollowerIDs(c.Request.Context(), account.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}
	followingIDs, err := u.accounts.FollowingIDs(c.Request.Context(), account.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAccountDetail(account, followerIDs, followingIDs))
}

type updateAccountRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// Update handles PATCH /users/:id; accounts may only be edited by their
// owner.
func (u *UsersAPI) Update(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}
	if auth.AccountFrom(c).ID != account.ID {
		abortForbidden(c)
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	if req.Email != nil && *req.Email != account.Email {
		existing, err := u.accounts.GetByEmail(c.Request.Context(), *req.Email)
		if err != nil {
			abortInternal(c, err)
			return
		}
		if existing != nil {
			abortValidation(c, "email", "an account with this email already exists")
			return
		}
	}

	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Bio != nil {
		account.Bio = *req.Bio
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			abortValidation(c, "password", "must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(*req.Password, u.authCfg.BcryptCost)
		if err != nil {
			abortInternal(c, err)
			return
		}
		account.PasswordHash = hash
	}

	if err := u.accounts.Update(c.Request.Context(), account); err != nil {
		abortInternal(c, err)
		return
	}

	followerIDs, err := u.accounts.FollowerIDs(c.Request.Context(), account.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}
	followingIDs, err := u.accounts.FollowingIDs(c.Request.Context(), account.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAccountDetail(account, followerIDs, followingIDs))
}

// Delete handles DELETE /users/:id; self only, cascades to everything the
// account owns.
func (u *UsersAPI) Delete(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}
	if auth.AccountFrom(c).ID != account.ID {
		abortForbidden(c)
		return
	}

	if err := u.accounts.Delete(c.Request.Context(), account.ID); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), u.cache, u.logger)

	u.logger.Info("account deleted", zap.Int64("account_id", account.ID))
	c.Status(http.StatusNoContent)
}

// FollowUnfollow handles POST /users/:id/follow-unfollow. The toggle is a
// single transactional edge flip; repeating it restores the prior state.
func (u *UsersAPI) FollowUnfollow(c *gin.Context) {
	target := u.pathAccount(c)
	if target == nil {
		return
	}
	acting := auth.AccountFrom(c)

	if err := u.follows.Toggle(c.Request.Context(), acting.ID, target.ID); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), u.cache, u.logger)

	c.Status(http.StatusOK)
}

// Followers handles GET /users/:id/followers
func (u *UsersAPI) Followers(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}

	limit, offset := pagination(c)
	followers, err := u.accounts.Followers(c.Request.Context(), account.ID, limit, offset)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items, err := u.accountList(c, followers)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Followings handles GET /users/:id/followings
func (u *UsersAPI) Followings(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}

	limit, offset := pagination(c)
	followings, err := u.accounts.Followings(c.Request.Context(), account.ID, limit, offset)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items, err := u.accountList(c, followings)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// LikedPosts handles GET /users/:id/liked-posts. The listing is always the
// acting account's likes regardless of the path id, preserved from the
// behavior this API is compatible with.
func (u *UsersAPI) LikedPosts(c *gin.Context) {
	acting := auth.AccountFrom(c)

	limit, offset := pagination(c)
	posts, err := u.posts.LikedBy(c.Request.Context(), acting.ID, limit, offset)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items, err := buildPostList(c, u.posts, u.likes, posts, acting.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PublishedPosts handles GET /users/:id/published-posts
func (u *UsersAPI) PublishedPosts(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}

	limit, offset := pagination(c)
	posts, err := u.posts.PublishedBy(c.Request.Context(), account.ID, limit, offset)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items, err := buildPostList(c, u.posts, u.likes, posts, auth.AccountFrom(c).ID)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UploadImage handles POST /users/:id/upload-image; self only
func (u *UsersAPI) UploadImage(c *gin.Context) {
	account := u.pathAccount(c)
	if account == nil {
		return
	}
	if auth.AccountFrom(c).ID != account.ID {
		abortForbidden(c)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		abortValidation(c, "image", "image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		abortInternal(c, err)
		return
	}
	defer src.Close()

	path, err := u.storage.Save(media.KindUsers, account.LastName, file.Filename, src)
	if err != nil {
		abortInternal(c, err)
		return
	}

	account.Image = path
	if err := u.accounts.Update(c.Request.Context(), account); err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageResponse{Image: path})
}

// pathAccount resolves the :id path parameter, aborting with 404 on a
// missing account and 400 on a malformed id.
func (u *UsersAPI) pathAccount(c *gin.Context) *models.Account {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid account id")
		return nil
	}

	account, err := u.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		abortInternal(c, err)
		return nil
	}
	if account == nil {
		abortNotFound(c, "account")
		return nil
	}
	return account
}

// accountList renders accounts in the list shape
func (u *UsersAPI) accountList(c *gin.Context, accounts []*models.Account) ([]AccountListItem, error) {
	items := make([]AccountListItem, 0, len(accounts))
	for _, a := range accounts {
		stats, err := u.accounts.StatsFor(c.Request.Context(), a.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, NewAccountListItem(a, &Stats{
			Followers:  stats.Followers,
			Followings: stats.Followings,
			Posts:      stats.Posts,
		}))
	}
	return items, nil
}
