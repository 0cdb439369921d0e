package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialnet/socialnet/internal/auth"
	"github.com/socialnet/socialnet/internal/cache"
	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/feed"
	"github.com/socialnet/socialnet/internal/media"
	"github.com/socialnet/socialnet/internal/models"
	"github.com/socialnet/socialnet/pkg/logging"
	"github.com/socialnet/socialnet/pkg/telemetry"
)

// feedCacheTTL bounds staleness of cached feed pages
const feedCacheTTL = 30 * time.Second

// feedVersionKey holds the feed generation counter. Every mutation that
// can change any viewer's feed bumps it, abandoning all cached pages at
// once, so a cached page is never served across a follow, like, post or
// comment change.
const feedVersionKey = "feed.version"

// feedCacheKey builds the cache key for one feed page of one viewer at
// one feed generation.
func feedCacheKey(version, viewerID int64, f feed.Filters, limit, offset int) string {
	return cache.HashKey(
		"feed",
		strconv.FormatInt(version, 10),
		strconv.FormatInt(viewerID, 10),
		f.Title,
		f.AuthorLastName,
		f.Hashtag,
		strconv.Itoa(limit),
		strconv.Itoa(offset),
	)
}

// invalidateFeeds advances the feed generation. Failures degrade to the
// TTL bound and are logged, never surfaced to the client.
func invalidateFeeds(ctx context.Context, c *cache.Cache, logger *zap.Logger) {
	if err := c.Bump(ctx, feedVersionKey); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		logger.Warn("feed invalidation failed", zap.Error(err))
	}
}

// PostsAPI provides post-related handlers
type PostsAPI struct {
	repo     *db.Repository
	posts    *db.PostRepository
	comments *db.CommentRepository
	accounts *db.AccountRepository
	likes    *db.LikeRepository
	storage  *media.Storage
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewPostsAPI creates a new posts API
func NewPostsAPI(repo *db.Repository, storage *media.Storage, redisCache *cache.Cache) *PostsAPI {
	return &PostsAPI{
		repo:     repo,
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		accounts: db.NewAccountRepository(repo),
		likes:    db.NewLikeRepository(repo),
		storage:  storage,
		cache:    redisCache,
		logger:   logging.WithComponent("posts-api"),
	}
}

// List handles GET /posts: the viewer's feed, newest first, narrowed by
// optional title, author_last_name and hashtag filters.
func (p *PostsAPI) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.list")
	defer span.End()

	viewer := auth.AccountFrom(c)
	filters := feed.Filters{
		Title:          c.Query("title"),
		AuthorLastName: c.Query("author_last_name"),
		Hashtag:        c.Query("hashtag"),
	}
	limit, offset := pagination(c)

	version, err := p.cache.Counter(ctx, feedVersionKey)
	if err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		p.logger.Warn("feed version read failed", zap.Error(err))
	}
	cacheKey := feedCacheKey(version, viewer.ID, filters, limit, offset)
	var cached []PostListItem
	if err := p.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var posts []*models.Post
	q := feed.Query(p.repo.Gorm().WithContext(ctx), viewer.ID, filters)
	if err := q.Preload("Author").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		abortInternal(c, err)
		return
	}

	items, err := buildPostList(c, p.posts, p.likes, posts, viewer.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}

	if err := p.cache.SetJSON(ctx, cacheKey, items, feedCacheTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		p.logger.Warn("feed cache write failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, items)
}

type createPostRequest struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content"`
	Published   *bool      `json:"published"`
	PublishTime *time.Time `json:"publish_time"`
	Hashtags    []string   `json:"hashtags"`
}

// Create handles POST /posts; the acting account becomes the author
func (p *PostsAPI) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	if err := db.ValidatePublishRule(published, req.PublishTime); err != nil {
		abortValidation(c, "publish_time", "enter the publication date")
		return
	}

	post := &models.Post{
		AuthorID:    auth.AccountFrom(c).ID,
		Title:       req.Title,
		Content:     req.Content,
		CreatedAt:   time.Now().UTC(),
		Published:   published,
		PublishTime: req.PublishTime,
	}
	if err := p.posts.Create(c.Request.Context(), post, req.Hashtags); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), p.cache, p.logger)

	p.logger.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", post.AuthorID))
	detail, err := p.buildDetail(c, post)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// Get handles GET /posts/:id. Retrieval by id is open to any authenticated
// caller and does not apply the feed visibility filter.
func (p *PostsAPI) Get(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}

	detail, err := p.buildDetail(c, post)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updatePostRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Published   *bool      `json:"published"`
	PublishTime *time.Time `json:"publish_time"`
	Hashtags    []string   `json:"hashtags"`
}

// Update handles PATCH /posts/:id; author only
func (p *PostsAPI) Update(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}
	if auth.AccountFrom(c).ID != post.AuthorID {
		abortForbidden(c)
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if req.PublishTime != nil {
		post.PublishTime = req.PublishTime
	}
	if err := db.ValidatePublishRule(post.Published, post.PublishTime); err != nil {
		abortValidation(c, "publish_time", "enter the publication date")
		return
	}

	if err := p.posts.Update(c.Request.Context(), post, req.Hashtags); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), p.cache, p.logger)

	detail, err := p.buildDetail(c, post)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /posts/:id; author only, cascades to comments,
// likes and hashtag links.
func (p *PostsAPI) Delete(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}
	if auth.AccountFrom(c).ID != post.AuthorID {
		abortForbidden(c)
		return
	}

	if err := p.posts.Delete(c.Request.Context(), post.ID); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), p.cache, p.logger)

	p.logger.Info("post deleted", zap.Int64("post_id", post.ID))
	c.Status(http.StatusNoContent)
}

// LikeUnlike handles POST /posts/:id/like-unlike
func (p *PostsAPI) LikeUnlike(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}
	acting := auth.AccountFrom(c)

	if err := p.likes.Toggle(c.Request.Context(), acting.ID, post.ID); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), p.cache, p.logger)

	detail, err := p.buildDetail(c, post)
	if err != nil {
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UploadImage handles POST /posts/:id/upload-image; author only
func (p *PostsAPI) UploadImage(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}
	if auth.AccountFrom(c).ID != post.AuthorID {
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

	path, err := p.storage.Save(media.KindPosts, post.Title, file.Filename, src)
	if err != nil {
		abortInternal(c, err)
		return
	}

	post.Image = path
	if err := p.posts.Update(c.Request.Context(), post, nil); err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageResponse{Image: path})
}

// ListComments handles GET /posts/:id/comments
func (p *PostsAPI) ListComments(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}

	comments, err := p.comments.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		abortInternal(c, err)
		return
	}

	items := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, NewCommentResponse(comment))
	}
	c.JSON(http.StatusOK, items)
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment handles POST /posts/:id/comments
func (p *PostsAPI) CreateComment(c *gin.Context) {
	post := p.pathPost(c)
	if post == nil {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	acting := auth.AccountFrom(c)
	comment := &models.Comment{
		AuthorID:  acting.ID,
		PostID:    post.ID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.comments.Create(c.Request.Context(), comment); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), p.cache, p.logger)
	comment.Author = acting

	c.JSON(http.StatusCreated, NewCommentResponse(comment))
}

// pathPost resolves the :id path parameter, aborting with 404 on a missing
// post and 400 on a malformed id.
func (p *PostsAPI) pathPost(c *gin.Context) *models.Post {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid post id")
		return nil
	}

	post, err := p.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		abortInternal(c, err)
		return nil
	}
	if post == nil {
		abortNotFound(c, "post")
		return nil
	}
	return post
}

// buildDetail assembles the detail response for a post
func (p *PostsAPI) buildDetail(c *gin.Context, post *models.Post) (*PostDetail, error) {
	ctx := c.Request.Context()

	author := post.Author
	if author == nil {
		var err error
		author, err = p.accounts.GetByID(ctx, post.AuthorID)
		if err != nil {
			return nil, err
		}
	}

	authorStats, err := p.accounts.StatsFor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	likeCount, err := p.likes.LikeCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := p.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	tags, err := p.posts.HashtagsFor(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	authorItem := NewAccountListItem(author, &Stats{
		Followers:  authorStats.Followers,
		Followings: authorStats.Followings,
		Posts:      authorStats.Posts,
	})
	detail := NewPostDetail(post, authorItem, likeCount, comments, tags)
	return &detail, nil
}

// buildPostList assembles feed-style list items for a set of posts as seen
// by the given viewer.
func buildPostList(c *gin.Context, posts *db.PostRepository, likes *db.LikeRepository, items []*models.Post, viewerID int64) ([]PostListItem, error) {
	ctx := c.Request.Context()
	out := make([]PostListItem, 0, len(items))
	for _, post := range items {
		likeCount, err := likes.LikeCount(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		isLiked, err := likes.IsLiked(ctx, viewerID, post.ID)
		if err != nil {
			return nil, err
		}
		commentCount, err := posts.CommentCount(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		tags, err := posts.HashtagsFor(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, NewPostListItem(post, likeCount, commentCount, isLiked, tags))
	}
	return out, nil
}

// pagination reads limit/offset query parameters with sane bounds
func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
