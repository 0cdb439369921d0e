package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialnet/socialnet/internal/auth"
	"github.com/socialnet/socialnet/internal/cache"
	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/models"
	"github.com/socialnet/socialnet/pkg/logging"
)

// CommentsAPI provides comment-related handlers
type CommentsAPI struct {
	comments *db.CommentRepository
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewCommentsAPI creates a new comments API
func NewCommentsAPI(repo *db.Repository, redisCache *cache.Cache) *CommentsAPI {
	return &CommentsAPI{
		comments: db.NewCommentRepository(repo),
		cache:    redisCache,
		logger:   logging.WithComponent("comments-api"),
	}
}

// List handles GET /comments?post_id=, kept for compatibility with the
// nested /posts/:id/comments listing.
func (a *CommentsAPI) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Query("post_id"), 10, 64)
	if err != nil {
		abortValidation(c, "post_id", "post_id query parameter is required")
		return
	}

	comments, err := a.comments.ListByPost(c.Request.Context(), postID)
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

// Get handles GET /comments/:id
func (a *CommentsAPI) Get(c *gin.Context) {
	comment := a.pathComment(c)
	if comment == nil {
		return
	}
	c.JSON(http.StatusOK, NewCommentResponse(comment))
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update handles PATCH /comments/:id; author only
func (a *CommentsAPI) Update(c *gin.Context) {
	comment := a.pathComment(c)
	if comment == nil {
		return
	}
	if auth.AccountFrom(c).ID != comment.AuthorID {
		abortForbidden(c)
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}

	comment.Content = req.Content
	if err := a.comments.Update(c.Request.Context(), comment); err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCommentResponse(comment))
}

// Delete handles DELETE /comments/:id; author only
func (a *CommentsAPI) Delete(c *gin.Context) {
	comment := a.pathComment(c)
	if comment == nil {
		return
	}
	if auth.AccountFrom(c).ID != comment.AuthorID {
		abortForbidden(c)
		return
	}

	if err := a.comments.Delete(c.Request.Context(), comment.ID); err != nil {
		abortInternal(c, err)
		return
	}
	invalidateFeeds(c.Request.Context(), a.cache, a.logger)

	a.logger.Info("comment deleted", zap.Int64("comment_id", comment.ID))
	c.Status(http.StatusNoContent)
}

func (a *CommentsAPI) pathComment(c *gin.Context) *models.Comment {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid comment id")
		return nil
	}

	comment, err := a.comments.GetByID(c.Request.Context(), id)
	if err != nil {
		abortInternal(c, err)
		return nil
	}
	if comment == nil {
		abortNotFound(c, "comment")
		return nil
	}
	return comment
}
